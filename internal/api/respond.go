package api

import (
	"net/http"

	"github.com/rbergstrom/euphony/internal/dmap"
)

// writeNode builds spec into a Node and serializes it straight onto the
// response, mapping any build error the way WriteError does for the rest
// of the DACP surface.
func writeNode(w http.ResponseWriter, r *http.Request, spec dmap.NodeSpec) {
	node, err := dmap.BuildTree(spec)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	encoded, err := dmap.Encode(node)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	w.Write(encoded)
}

// container is shorthand for a NodeSpec whose value is a list of children.
func container(tag dmap.Tag, children ...dmap.NodeSpec) dmap.NodeSpec {
	return dmap.NodeSpec{Tag: tag, Value: children}
}

func scalar(tag dmap.Tag, value interface{}) dmap.NodeSpec {
	return dmap.NodeSpec{Tag: tag, Value: value}
}
