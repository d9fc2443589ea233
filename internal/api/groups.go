package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/rbergstrom/euphony/internal/dmap"
	"github.com/rbergstrom/euphony/internal/library"
	"github.com/rbergstrom/euphony/internal/query"
)

// Groups serves /databases/{id}/groups: the album listing, sorted by
// initial letter, with an optional sort-header table.
func (a *API) Groups(w http.ResponseWriter, r *http.Request) {
	properties := splitMeta(r)
	if properties == nil {
		WriteError(w, r, errMissingMeta)
		return
	}
	properties = append(properties, "dmap.itemcount")

	albums, err := queriedCollection(r.URL.Query().Get("query"), a.player.Albums())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	names := make([]string, len(albums))
	for i, album := range albums {
		names[i] = album.Name
	}
	albums = reorderByInitial(albums, names)

	itemNodes := make([]dmap.NodeSpec, 0, len(albums))
	for _, album := range albums {
		props, err := fetchProperties(properties, PropertySource(album.Properties()))
		if err != nil {
			WriteError(w, r, err)
			return
		}
		itemNodes = append(itemNodes, container("mlit", props...))
	}

	children := []dmap.NodeSpec{
		scalar("mstt", 200),
		scalar("muty", int64(0)),
		scalar("mtco", int64(len(albums))),
		scalar("mrco", int64(len(albums))),
		container("mlcl", itemNodes...),
	}
	if includeSortHeaders(r) {
		sortedNames := make([]string, len(albums))
		for i, album := range albums {
			sortedNames[i] = album.Name
		}
		children = append(children, sortHeaderNode(sortedNames))
	}
	writeNode(w, r, container("agal", children...))
}

// GroupArt serves /databases/{id}/groups/{gid}/extra_data/artwork: the
// artwork of a single album, resolved by artist/album name rather than by
// tracking a per-album file, matching the artwork cache's own (artist,
// album) key.
func (a *API) GroupArt(w http.ResponseWriter, r *http.Request) {
	width := intArg(r, "mw", 55)
	height := intArg(r, "mh", 55)

	gid, err := parseURLParamID(r, "gid")
	if err != nil {
		WriteError(w, r, httpStatus(http.StatusNotFound, err))
		return
	}
	album, ok := a.player.Albums().ByID(gid)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusNotFound, errUnknownContainer))
		return
	}
	artistName := ""
	if album.Artist != nil {
		artistName = album.Artist.Name
	}

	png, err := a.artwork.GetPNG(r.Context(), artistName, album.Name, width, height)
	if err != nil {
		WriteError(w, r, httpStatus(http.StatusNotFound, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// BrowseArtists serves /databases/{id}/browse/artists: the artist name
// listing, sorted by initial letter, with an optional sort-header table.
func (a *API) BrowseArtists(w http.ResponseWriter, r *http.Request) {
	filterString := r.URL.Query().Get("filter")

	artists, err := queriedCollection(filterString, a.player.Artists())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	names := make([]string, len(artists))
	for i, artist := range artists {
		names[i] = artist.Name
	}
	artists = reorderByInitial(artists, names)

	itemNodes := make([]dmap.NodeSpec, len(artists))
	for i, artist := range artists {
		itemNodes[i] = scalar("mlit", artist.Name)
	}

	children := []dmap.NodeSpec{
		scalar("mstt", 200),
		scalar("muty", int64(0)),
		scalar("mtco", int64(len(artists))),
		scalar("mrco", int64(len(artists))),
		container("abar", itemNodes...),
	}
	if includeSortHeaders(r) {
		sortedNames := make([]string, len(artists))
		for i, artist := range artists {
			sortedNames[i] = artist.Name
		}
		children = append(children, sortHeaderNode(sortedNames))
	}
	writeNode(w, r, container("abro", children...))
}

// queriedCollection evaluates qs (if non-empty) against coll, or returns
// every element in insertion order when qs is empty, the query-or-all
// pattern every listing handler shares.
func queriedCollection[T library.Entity](qs string, coll *library.IndexedCollection[T]) ([]T, error) {
	if qs == "" {
		return coll.Items(), nil
	}
	expr, err := query.Parse(qs)
	if err != nil {
		return nil, err
	}
	return coll.Query(expr), nil
}

// reorderByInitial sorts items by (GetInitial(name), name), the same key
// the sort-header table is computed over.
func reorderByInitial[T any](items []T, names []string) []T {
	type paired struct {
		item T
		key  string
	}
	ps := make([]paired, len(items))
	for i := range items {
		ps[i] = paired{item: items[i], key: library.GetInitial(names[i]) + " " + names[i]}
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].key < ps[j].key })
	out := make([]T, len(items))
	for i, p := range ps {
		out[i] = p.item
	}
	return out
}

func includeSortHeaders(r *http.Request) bool {
	raw := r.URL.Query().Get("include-sort-headers")
	if raw == "" {
		return false
	}
	n, err := strconv.Atoi(raw)
	return err == nil && n != 0
}

func sortHeaderNode(names []string) dmap.NodeSpec {
	headers := library.BuildSortHeaders(names)
	nodes := make([]dmap.NodeSpec, len(headers))
	for i, h := range headers {
		nodes[i] = container("mlit",
			scalar("mshc", h.Char),
			scalar("mshi", int64(h.Index)),
			scalar("mshn", int64(h.Count)),
		)
	}
	return container("mshl", nodes...)
}

func intArg(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
