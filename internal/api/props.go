package api

import (
	"github.com/rbergstrom/euphony/internal/dmap"
)

// PropertySource is anything fetchProperties can pull a dotted-name
// property out of: a library.Entity's Properties() map, or the adapter's
// PlayerProperties() map, normalized to the same shape.
type PropertySource map[string]interface{}

// fetchProperties looks up each name in the dmap.PROPERTIES registry and
// pulls its value from src, building the NodeSpec list a listing item or
// status response carries. A name absent from the registry fails the whole
// request.
func fetchProperties(names []string, src PropertySource) ([]dmap.NodeSpec, error) {
	result := make([]dmap.NodeSpec, 0, len(names))
	for _, name := range names {
		propTag, ok := dmap.PROPERTIES[name]
		if !ok {
			return nil, ErrUnknownProperty
		}
		value, ok := src[name]
		if !ok || value == nil {
			continue
		}
		result = append(result, dmap.NodeSpec{Tag: propTag.Tag, Value: value})
	}
	return result, nil
}
