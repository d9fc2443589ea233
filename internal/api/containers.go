package api

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rbergstrom/euphony/internal/dmap"
	"github.com/rbergstrom/euphony/internal/library"
)

// Containers serves /databases/{id}/containers: the playlist listing,
// root container first.
func (a *API) Containers(w http.ResponseWriter, r *http.Request) {
	properties := splitMeta(r)
	if properties == nil {
		WriteError(w, r, errMissingMeta)
		return
	}

	containers := a.player.Containers().Items()
	itemNodes := make([]dmap.NodeSpec, 0, len(containers))
	for _, c := range containers {
		props, err := fetchProperties(properties, PropertySource(c.Properties()))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		itemNodes = append(itemNodes, container("mlit", props...))
	}

	spec := container("aply",
		scalar("mstt", 200),
		scalar("muty", int64(1)),
		scalar("mtco", int64(len(containers))),
		scalar("mrco", int64(len(containers))),
		container("mlcl", itemNodes...),
	)
	writeNode(w, r, spec)
}

// ContainerItems serves /databases/{id}/containers/{cid}/items: the
// item listing for one playlist (or the root container), with optional
// query filtering.
func (a *API) ContainerItems(w http.ResponseWriter, r *http.Request) {
	properties := splitMeta(r)
	if properties == nil {
		WriteError(w, r, errMissingMeta)
		return
	}

	cid, err := parseURLParamID(r, "cid")
	if err != nil {
		WriteError(w, r, httpStatus(http.StatusBadRequest, err))
		return
	}
	c, ok := a.player.Containers().ByID(cid)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusBadRequest, errUnknownContainer))
		return
	}

	items, err := queriedItems(r, c.Items)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	writeItemListing(w, r, "apso", properties, items, r.URL.Query().Get("query"))
}

// writeItemListing builds the shared body of every item listing response:
// an mlcl of mlit nodes under the given wrapper tag. daap.songalbumid in
// the query string triggers a sort-by-track, matching the apso route's
// "album view" ordering.
func writeItemListing(w http.ResponseWriter, r *http.Request, tag dmap.Tag, properties []string, items []*library.Item, queryString string) {
	if strings.Contains(queryString, "daap.songalbumid") {
		sort.SliceStable(items, func(i, j int) bool { return items[i].Track < items[j].Track })
	}

	itemNodes := make([]dmap.NodeSpec, 0, len(items))
	for _, item := range items {
		props, err := fetchProperties(properties, PropertySource(item.Properties()))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		itemNodes = append(itemNodes, container("mlit", props...))
	}

	spec := container(tag,
		scalar("mstt", 200),
		scalar("muty", int64(0)),
		scalar("mtco", int64(len(itemNodes))),
		scalar("mrco", int64(len(itemNodes))),
		container("mlcl", itemNodes...),
	)
	writeNode(w, r, spec)
}

// queriedItems evaluates the request's "query" parameter (if any) against
// items, or returns every item in insertion order when absent.
func queriedItems(r *http.Request, items *library.IndexedCollection[*library.Item]) ([]*library.Item, error) {
	return queriedCollection(r.URL.Query().Get("query"), items)
}

// ContainerEdit serves /databases/{id}/containers/{cid}/edit: adding an
// existing item to a playlist by id.
func (a *API) ContainerEdit(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action != "add" {
		WriteError(w, r, httpStatus(http.StatusNotImplemented, errUnsupportedAction))
		return
	}

	cid, err := parseURLParamID(r, "cid")
	if err != nil {
		WriteError(w, r, httpStatus(http.StatusBadRequest, err))
		return
	}
	c, ok := a.player.Containers().ByID(cid)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusBadRequest, errUnknownContainer))
		return
	}

	params := parseParams(r.URL.Query().Get("edit-params"))
	idStr, ok := params["dmap.itemid"]
	if !ok {
		WriteError(w, r, ErrUnknownProperty)
		return
	}
	itemID, ok := parseSpecID(idStr)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusBadRequest, errUnknownContainer))
		return
	}

	item, ok := a.player.Items().ByID(itemID)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusNoContent, errUnknownItem))
		return
	}

	if err := a.player.AddToPlaylist(c.Name, item.URI); err != nil {
		WriteError(w, r, err)
		return
	}
	c.AddItem(item)

	spec := container("medc",
		scalar("mstt", 200),
		container("mlit"),
	)
	writeNode(w, r, spec)
}

func splitMeta(r *http.Request) []string {
	meta := r.URL.Query().Get("meta")
	if meta == "" {
		return nil
	}
	return strings.Split(meta, ",")
}

func parseURLParamID(r *http.Request, name string) (uint32, error) {
	v, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

var (
	errMissingMeta      = httpErrString("api: missing meta parameter")
	errUnknownContainer = httpErrString("api: unknown container id")
	errUnknownItem      = httpErrString("api: unknown item id")
)
