package api

import (
	"net/http"
)

// Database serves /databases: this server always exposes exactly one
// database.
func (a *API) Database(w http.ResponseWriter, r *http.Request) {
	spec := container("avdb",
		scalar("mstt", 200),
		scalar("muty", false),
		scalar("mtco", int64(1)),
		scalar("mrco", int64(1)),
		container("mlcl",
			container("mlit",
				scalar("miid", int64(1)),
				scalar("mper", int64(1)),
				scalar("minm", a.cfg.Server.Name),
				scalar("mimc", int64(1)),
				scalar("mctc", int64(a.player.Containers().Len())),
				scalar("meds", int64(3)),
			),
		),
	)
	writeNode(w, r, spec)
}

// DatabaseEdit serves /databases/{id}/edit: the only supported action is
// "add", which creates a new empty playlist.
func (a *API) DatabaseEdit(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")
	if action != "add" {
		WriteError(w, r, httpStatus(http.StatusNotImplemented, errUnsupportedAction))
		return
	}

	params := parseParams(r.URL.Query().Get("edit-params"))
	name, ok := params["dmap.itemname"]
	if !ok {
		WriteError(w, r, ErrUnknownProperty)
		return
	}

	if err := a.player.NewEmptyPlaylist(name); err != nil {
		WriteError(w, r, err)
		return
	}

	// The newly created playlist isn't visible until the next database
	// rebuild fires; report id 0 rather than guess one.
	spec := container("medc",
		scalar("mstt", 200),
		scalar("miid", int64(0)),
	)
	writeNode(w, r, spec)
}

var errUnsupportedAction = httpErrString("api: unsupported edit action")
