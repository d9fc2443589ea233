package api

import (
	"net/http"
	"strconv"
)

// Login serves /login?pairing-guid=<hex>: it validates the guid against
// the pairing store and returns a session id, or 503 if the remote was
// never paired.
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("pairing-guid")
	guid, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		WriteError(w, r, httpStatus(http.StatusBadRequest, err))
		return
	}

	paired, err := a.store.HasPairing(guid)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if !paired {
		WriteError(w, r, httpStatus(http.StatusServiceUnavailable, errNotPaired))
		return
	}

	spec := container("mlog",
		scalar("mstt", 200),
		scalar("mlid", int64(generateSessionID())),
	)
	writeNode(w, r, spec)
}

var errNotPaired = httpErrString("api: remote has not completed pairing")

type httpErrString string

func (e httpErrString) Error() string { return string(e) }
