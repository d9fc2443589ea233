package api

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rbergstrom/euphony/internal/artwork"
	"github.com/rbergstrom/euphony/internal/config"
	"github.com/rbergstrom/euphony/internal/pairing"
	"github.com/rbergstrom/euphony/internal/player"
	"github.com/rbergstrom/euphony/internal/store"
	"github.com/rbergstrom/euphony/web"
)

// API bundles every dependency the DACP/DAAP front-end and the admin
// dashboard need to serve a request: the parsed config, the MPD adapter,
// the pairing store and listener, the artwork cache, and the dashboard's
// parsed templates.
type API struct {
	cfg       *config.Config
	player    *player.Adapter
	store     *store.Store
	artwork   *artwork.Cache
	pairing   *pairing.Listener
	templates *template.Template
}

// New constructs an API, parsing the embedded dashboard templates.
func New(cfg *config.Config, p *player.Adapter, s *store.Store, art *artwork.Cache, pl *pairing.Listener) (*API, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	return &API{cfg: cfg, player: p, store: s, artwork: art, pairing: pl, templates: tmpl}, nil
}

// Router builds the full route tree: the DACP/DAAP surface every
// Remote-style controller talks to, plus the admin dashboard.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(dmapCtx(daapServerIdent))

		r.Get("/server-info", a.ServerInfo)
		r.Get("/login", a.Login)
		r.Get("/update", a.Update)

		r.Get("/databases", a.Database)
		r.Get("/databases/{id}/edit", a.DatabaseEdit)
		r.Get("/databases/{id}/containers", a.Containers)
		r.Get("/databases/{id}/containers/{cid}/items", a.ContainerItems)
		r.Get("/databases/{id}/containers/{cid}/edit", a.ContainerEdit)
		r.Get("/databases/{id}/groups", a.Groups)
		r.Get("/databases/{id}/groups/{gid}/extra_data/artwork", a.GroupArt)
		r.Get("/databases/{id}/browse/artists", a.BrowseArtists)

		r.Get("/ctrl-int", a.ControlInterface)
		r.Get("/ctrl-int/1/cue", a.Cue)
		r.Get("/ctrl-int/1/getspeakers", a.GetSpeakers)
		r.Get("/ctrl-int/1/getproperty", a.GetProperty)
		r.Get("/ctrl-int/1/setproperty", a.SetProperty)
		r.Get("/ctrl-int/1/playstatusupdate", a.PlayStatusUpdate)
		r.Get("/ctrl-int/1/nowplayingartwork", a.NowPlayingArtwork)
		r.Get("/ctrl-int/1/playspec", a.PlaySpec)
		r.Get("/ctrl-int/1/playpause", a.PlayPause)
		r.Get("/ctrl-int/1/pause", a.Pause)
		r.Get("/ctrl-int/1/nextitem", a.NextItem)
		r.Get("/ctrl-int/1/previtem", a.PrevItem)
	})

	r.Get("/web/status", a.Status)
	r.With(jsonCtx).Get("/web/status/json", a.StatusJSON)
	r.Mount("/web/status/events", htEvents(&a.player.Emitter))
	r.Get("/web/albumart/{dims}/nowplaying", a.NowPlayingArt)
	r.Get("/web/pairing", a.Pairing)
	r.Post("/web/pairing", a.PairingSubmit)
	r.With(jsonCtx).Get("/web/pairing/remotes", a.PairingRemotes)

	return r
}
