package api

import (
	"regexp"
	"strconv"
	"strings"
)

// paramPair matches a single `property:value` or `property!:value` pair
// inside an edit-params/*-spec string. Subgroups are ignored; these params
// are never grouped in practice.
var paramPair = regexp.MustCompile(`([^(),+']+?)[:!]+([^(),+']+)`)

// parseParams turns an edit-params/database-spec/container-spec/
// container-item-spec string into a property -> value map.
func parseParams(s string) map[string]string {
	matches := paramPair.FindAllStringSubmatch(s, -1)
	out := make(map[string]string, len(matches))
	for _, m := range matches {
		out[m[1]] = m[2]
	}
	return out
}

// parseSpecID parses a spec id value. dmap.persistentid/dmap.containeritemid
// are carried as "0x"-prefixed hex in playspec params; any other value is
// read as decimal (edit-params' plain dmap.itemid), then as bare hex.
func parseSpecID(s string) (uint32, bool) {
	if hexDigits, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		if v, err := strconv.ParseUint(hexDigits, 16, 32); err == nil {
			return uint32(v), true
		}
		return 0, false
	}
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		return uint32(v), true
	}
	if v, err := strconv.ParseUint(s, 16, 32); err == nil {
		return uint32(v), true
	}
	return 0, false
}
