package api

import (
	"net/http"
	"strconv"

	"github.com/rbergstrom/euphony/internal/dmap"
	"github.com/rbergstrom/euphony/internal/player"
)

// Update serves /update: a long-poll that blocks until the adapter's
// revision counter reaches revision-number (answering at once if it already
// has), then reports the current revision. A client disconnect (request
// context canceled) drops the response silently.
func (a *API) Update(w http.ResponseWriter, r *http.Request) {
	clientRev := parseRevision(r, 1)
	rev, ok := a.player.AwaitRevision(r.Context(), clientRev)
	if !ok {
		return // Cancelled: client went away mid-poll.
	}

	spec := container("mupd",
		scalar("mstt", 200),
		scalar("musr", int64(rev)),
	)
	writeNode(w, r, spec)
}

// PlayStatusUpdate serves /ctrl-int/1/playstatusupdate: the same long-poll
// mechanism as Update, but the response also carries the full current
// player/now-playing status.
func (a *API) PlayStatusUpdate(w http.ResponseWriter, r *http.Request) {
	clientRev := parseRevision(r, 1)
	rev, ok := a.player.AwaitRevision(r.Context(), clientRev)
	if !ok {
		return
	}

	props, err := a.player.PlayerProperties()
	if err != nil {
		WriteError(w, r, err)
		return
	}

	children := []dmap.NodeSpec{
		scalar("mstt", 200),
		scalar("cmsr", int64(rev)),
		scalar("caps", props["dacp.playerstate"]),
		scalar("cash", props["dacp.shufflestate"]),
		scalar("carp", props["dacp.repeatstate"]),
		scalar("cavc", int64(player.VolumeControllable)),
		scalar("caas", int64(player.AvailableShuffleStates)),
		scalar("caar", int64(player.AvailableRepeatStates)),
	}

	if state, _ := props["dacp.playerstate"].(int64); state != player.StateStopped {
		track, err := a.player.CurrentTrack()
		if err == nil {
			children = append(children,
				scalar("canp", props["dacp.nowplaying"]),
				scalar("cann", trackProp(track, "dmap.itemname")),
				scalar("cana", trackProp(track, "daap.songartist")),
				scalar("canl", trackProp(track, "daap.songalbum")),
				scalar("cang", trackProp(track, "daap.songgenre")),
				scalar("cmmk", int64(1)),
				scalar("ceGS", int64(1)),
				scalar("cant", (track.DurationMs-track.ElapsedMs)/1000),
				scalar("cast", track.DurationMs/1000),
			)
			if track.Item != nil && track.Item.Album != nil {
				children = append(children, scalar("asai", int64(track.Item.Album.ID())))
			}
		}
	}

	writeNode(w, r, container("cmst", children...))
}

func trackProp(t player.CurrentTrack, name string) string {
	if t.Item == nil {
		return ""
	}
	v, ok := t.Item.Properties()[name]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func parseRevision(r *http.Request, def uint64) uint64 {
	raw := r.URL.Query().Get("revision-number")
	if raw == "" {
		return def
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return def
	}
	return n
}
