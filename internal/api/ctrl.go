package api

import (
	"net/http"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/rbergstrom/euphony/internal/dmap"
	"github.com/rbergstrom/euphony/internal/library"
)

// ControlInterface serves /ctrl-int: the single capability descriptor every
// remote reads once before issuing any dacp.* command.
func (a *API) ControlInterface(w http.ResponseWriter, r *http.Request) {
	spec := container("caci",
		scalar("mstt", 200),
		scalar("muty", int64(0)),
		scalar("mtco", int64(1)),
		scalar("mrco", int64(1)),
		container("mlcl",
			container("mlit",
				scalar("miid", int64(1)),
				scalar("cmik", true),
				scalar("cmsp", true),
				scalar("cmsv", true),
				scalar("cass", true),
				scalar("casu", true),
				scalar("ceSG", true),
			),
		),
	)
	writeNode(w, r, spec)
}

// Cue serves /ctrl-int/1/cue: either clears the play queue, or replaces it
// with a query's matches (sorted by album then track) and jumps to index.
func (a *API) Cue(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("command") {
	case "clear":
		a.cueClear(w, r)
	case "play":
		a.cuePlay(w, r)
	default:
		WriteError(w, r, httpStatus(http.StatusNotImplemented, errUnsupportedAction))
	}
}

func (a *API) cueClear(w http.ResponseWriter, r *http.Request) {
	if err := a.player.ClearCurrent(); err != nil {
		WriteError(w, r, err)
		return
	}
	writeNode(w, r, container("cacr", scalar("mstt", 200), scalar("miid", int64(0))))
}

func (a *API) cuePlay(w http.ResponseWriter, r *http.Request) {
	index := intArg(r, "index", 0)

	items, err := queriedItems(r, a.player.Items())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	sortItemsByAlbumThenTrack(items)

	if err := a.player.ClearCurrent(); err != nil {
		WriteError(w, r, err)
		return
	}
	for _, item := range items {
		if err := a.player.AddToCurrent(item.URI); err != nil {
			WriteError(w, r, err)
			return
		}
	}
	if err := a.player.Play(&index); err != nil {
		WriteError(w, r, err)
		return
	}

	writeNode(w, r, container("cacr", scalar("mstt", 200), scalar("miid", int64(0))))
}

// GetSpeakers serves /ctrl-int/1/getspeakers: Euphony exposes exactly one
// output, the MPD server itself.
func (a *API) GetSpeakers(w http.ResponseWriter, r *http.Request) {
	spec := container("casp",
		scalar("mstt", 200),
		container("mdcl",
			scalar("caia", int64(1)),
			scalar("minm", "MPD Output Device"),
			scalar("msma", int64(0)),
		),
	)
	writeNode(w, r, spec)
}

// specialMultiTagProperties names dacp properties that would need more than
// one wire tag to express fully and so are served elsewhere (dacp.nowplaying
// via cmst/canp, dacp.playingtime via cant/cast); GetProperty strips them
// from the requested set rather than erroring.
var specialMultiTagProperties = map[string]bool{
	"dacp.nowplaying":  true,
	"dacp.playingtime": true,
}

// GetProperty serves /ctrl-int/1/getproperty: an arbitrary batch read of
// dacp.*/dmcp.* player properties.
func (a *API) GetProperty(w http.ResponseWriter, r *http.Request) {
	requested := strings.Split(r.URL.Query().Get("properties"), ",")
	filtered := requested[:0]
	for _, name := range requested {
		if !specialMultiTagProperties[name] {
			filtered = append(filtered, name)
		}
	}

	props, err := a.player.PlayerProperties()
	if err != nil {
		WriteError(w, r, err)
		return
	}

	nodes, err := fetchProperties(filtered, PropertySource(props))
	if err != nil {
		WriteError(w, r, err)
		return
	}

	children := append([]dmap.NodeSpec{scalar("mstt", 200)}, nodes...)
	writeNode(w, r, container("cmgt", children...))
}

// SetProperty serves /ctrl-int/1/setproperty: applies every dacp.*/dmcp.*
// query parameter as a write, logging (not erroring on) unrecognized
// properties, and always reports success with a bare 204. Remotes treat
// anything else as a fatal protocol error.
func (a *API) SetProperty(w http.ResponseWriter, r *http.Request) {
	for name, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		known, err := a.player.SetProperty(name, values[len(values)-1])
		if err != nil {
			log.Warnf("api: setproperty %s=%s failed: %v", name, values[len(values)-1], err)
			continue
		}
		if !known {
			log.Infof("api: unknown property: %s (value=%s)", name, values[len(values)-1])
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// NowPlayingArtwork serves /ctrl-int/1/nowplayingartwork: cover art for
// whatever's currently playing. A missing track or missing art is reported
// as a bare 204, not a 404; Remote apps poll this aggressively while
// stopped.
func (a *API) NowPlayingArtwork(w http.ResponseWriter, r *http.Request) {
	width := intArg(r, "mw", 300)
	height := intArg(r, "mh", 300)

	track, err := a.player.CurrentTrack()
	if err != nil || track.Item == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	artistName := ""
	if track.Item.Artist != nil {
		artistName = track.Item.Artist.Name
	}
	albumName := ""
	if track.Item.Album != nil {
		albumName = track.Item.Album.Name
	}

	png, err := a.artwork.GetPNG(r.Context(), artistName, albumName, width, height)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// PlaySpec serves /ctrl-int/1/playspec: loads the named container's stored
// playlist and jumps straight to one of its items, identified by the
// container-item-spec's hex dmap.containeritemid.
func (a *API) PlaySpec(w http.ResponseWriter, r *http.Request) {
	containerSpec := parseParams(r.URL.Query().Get("container-spec"))
	itemSpec := parseParams(r.URL.Query().Get("container-item-spec"))

	containerID, ok := parseSpecID(containerSpec["dmap.persistentid"])
	if !ok {
		WriteError(w, r, httpStatus(http.StatusNotFound, errUnknownContainer))
		return
	}
	itemID, ok := parseSpecID(itemSpec["dmap.containeritemid"])
	if !ok {
		WriteError(w, r, httpStatus(http.StatusNotFound, errUnknownItem))
		return
	}

	c, ok := a.player.Containers().ByID(containerID)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusNotFound, errUnknownContainer))
		return
	}
	index := c.ItemIndex(itemID)

	if err := a.player.ClearCurrent(); err != nil {
		WriteError(w, r, err)
		return
	}
	if err := a.player.LoadPlaylist(c.Name); err != nil {
		WriteError(w, r, err)
		return
	}
	if index < 0 {
		WriteError(w, r, httpStatus(http.StatusNotFound, errUnknownItem))
		return
	}
	if err := a.player.Play(&index); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlayPause, Pause, NextItem and PrevItem are the bare transport handlers:
// no response body, just a status.
func (a *API) PlayPause(w http.ResponseWriter, r *http.Request) {
	if err := a.player.TogglePlay(); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) Pause(w http.ResponseWriter, r *http.Request) {
	if err := a.player.Pause(); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) NextItem(w http.ResponseWriter, r *http.Request) {
	if err := a.player.Next(); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) PrevItem(w http.ResponseWriter, r *http.Request) {
	if err := a.player.Prev(); err != nil {
		WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sortItemsByAlbumThenTrack orders a cue's matches for playback: album
// name first, track number within an album.
func sortItemsByAlbumThenTrack(items []*library.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		ai, aj := albumName(items[i]), albumName(items[j])
		if ai != aj {
			return ai < aj
		}
		return items[i].Track < items[j].Track
	})
}

func albumName(item *library.Item) string {
	if item.Album == nil {
		return ""
	}
	return item.Album.Name
}
