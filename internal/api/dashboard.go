package api

import (
	"bytes"
	"encoding/json"
	"image"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/rbergstrom/euphony/internal/pairing"
	"github.com/rbergstrom/euphony/web"
)

// statusPageData is what status.html renders against.
type statusPageData struct {
	ServerName string
	Track      trackView
	Album      albumView
	Status     statusView
}

type trackView struct {
	Name     string
	Artist   string
	Composer string
	Genre    string
	Length   int64
	Year     string
}

type albumView struct {
	Name   string
	Artist string
}

type statusView struct {
	Time   int64
	Volume int
}

// Status serves /web/status: the human dashboard.
func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	data := statusPageData{ServerName: a.cfg.Server.Name}
	if track, err := a.player.CurrentTrack(); err == nil && track.Item != nil {
		data.Track = trackView{
			Name:     track.Item.Name,
			Composer: track.Item.Composer,
			Genre:    track.Item.Genre,
			Length:   int64(track.Item.DurationMs) / 1000,
			Year:     track.Item.Year,
		}
		if track.Item.Artist != nil {
			data.Track.Artist = track.Item.Artist.Name
		}
		if track.Item.Album != nil {
			data.Album.Name = track.Item.Album.Name
			if track.Item.Album.Artist != nil {
				data.Album.Artist = track.Item.Album.Artist.Name
			}
		}
	}
	if props, err := a.player.PlayerProperties(); err == nil {
		if vol, ok := props["dmcp.volume"].(int64); ok {
			data.Status.Volume = int(vol)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, "status.html", data); err != nil {
		WriteError(w, r, err)
	}
}

// StatusJSON serves /web/status/json: the same data as the status page, as
// JSON rather than rendered HTML, for the page's poll loop.
func (a *API) StatusJSON(w http.ResponseWriter, r *http.Request) {
	track, err := a.player.CurrentTrack()
	if err != nil || track.Item == nil {
		WriteError(w, r, httpStatus(http.StatusNoContent, err))
		return
	}

	artist, albumName, albumArtist := "", "", ""
	if track.Item.Artist != nil {
		artist = track.Item.Artist.Name
	}
	if track.Item.Album != nil {
		albumName = track.Item.Album.Name
		if track.Item.Album.Artist != nil {
			albumArtist = track.Item.Album.Artist.Name
		}
	}

	volume := 0
	if props, err := a.player.PlayerProperties(); err == nil {
		if vol, ok := props["dmcp.volume"].(int64); ok {
			volume = int(vol)
		}
	}

	body := map[string]interface{}{
		"album": map[string]string{
			"name":   albumName,
			"artist": albumArtist,
		},
		"track": map[string]interface{}{
			"name":     track.Item.Name,
			"artist":   artist,
			"composer": track.Item.Composer,
			"genre":    track.Item.Genre,
			"length":   track.Item.DurationMs / 1000,
			"year":     track.Item.Year,
		},
		"status": map[string]interface{}{
			"time":   track.ElapsedMs / 1000,
			"volume": volume,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// NowPlayingArt serves /web/albumart/{w}x{h}/nowplaying: the same cover art
// as the DACP nowplayingartwork route, but falling back to a bundled
// placeholder image instead of a bare no-content response, so the
// dashboard's img tag always renders something.
func (a *API) NowPlayingArt(w http.ResponseWriter, r *http.Request) {
	width, height := dimensionsParam(r)

	w.Header().Set("Content-Type", "image/png")

	track, err := a.player.CurrentTrack()
	if err == nil && track.Item != nil {
		artistName, albumName := "", ""
		if track.Item.Artist != nil {
			artistName = track.Item.Artist.Name
		}
		if track.Item.Album != nil {
			albumName = track.Item.Album.Name
		}
		if png, err := a.artwork.GetPNG(r.Context(), artistName, albumName, width, height); err == nil {
			w.Write(png)
			return
		}
	}

	png, err := renderPlaceholder(width, height)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	w.Write(png)
}

func renderPlaceholder(width, height int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(web.PlaceholderPNG))
	if err != nil {
		return nil, err
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pairing serves GET /web/pairing: the pairing form, listing every remote
// discovered over mDNS so far.
func (a *API) Pairing(w http.ResponseWriter, r *http.Request) {
	a.renderPairing(w, r, "")
}

func (a *API) renderPairing(w http.ResponseWriter, r *http.Request, message string) {
	remotes := a.pairing.Remotes()
	data := struct {
		Message string
		Remotes map[string]pairing.Remote
	}{Message: message, Remotes: remotes}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, "pairing.html", data); err != nil {
		WriteError(w, r, err)
	}
}

// PairingSubmit serves POST /web/pairing: completes the handshake with the
// selected remote using the submitted passcode.
func (a *API) PairingSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		WriteError(w, r, httpStatus(http.StatusBadRequest, err))
		return
	}
	code := r.FormValue("code")
	remoteName := r.FormValue("remotes")

	remote, ok := a.pairing.Lookup(remoteName)
	if !ok {
		WriteError(w, r, httpStatus(http.StatusInternalServerError, pairing.ErrPairingFailed))
		return
	}

	if _, err := remote.Pair(r.Context(), code, a.cfg.Server.ID, a.store); err != nil {
		WriteError(w, r, httpStatus(http.StatusForbidden, err))
		return
	}

	w.Write([]byte("Pairing succeeded!"))
}

// PairingRemotes serves /web/pairing/remotes: the discovered remotes as
// JSON, for a pairing page that wants to refresh its select without a full
// reload.
func (a *API) PairingRemotes(w http.ResponseWriter, r *http.Request) {
	remotes := map[string]string{}
	for name, remote := range a.pairing.Remotes() {
		remotes[name] = remote.String()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"remotes": remotes})
}

// dimensionsParam parses the "{w}x{h}" path segment NowPlayingArt is routed
// under, e.g. "120x120".
func dimensionsParam(r *http.Request) (int, int) {
	width, height := 300, 300
	dims := chi.URLParam(r, "dims")
	w, h, ok := strings.Cut(dims, "x")
	if !ok {
		return width, height
	}
	if n, err := strconv.Atoi(w); err == nil && n > 0 {
		width = n
	}
	if n, err := strconv.Atoi(h); err == nil && n > 0 {
		height = n
	}
	return width, height
}
