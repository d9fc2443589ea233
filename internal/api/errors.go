package api

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/rbergstrom/euphony/internal/artwork"
	"github.com/rbergstrom/euphony/internal/dmap"
	"github.com/rbergstrom/euphony/internal/pairing"
	"github.com/rbergstrom/euphony/internal/player"
	"github.com/rbergstrom/euphony/internal/query"
)

// ErrUnknownProperty is returned by fetchProperties when a caller names a
// property absent from the dmap.PROPERTIES registry.
var ErrUnknownProperty = errors.New("api: unknown property")

// statusCoded is implemented by errors that should map to a specific HTTP
// status rather than the generic 500 default.
type statusCoded interface {
	StatusCode() int
}

type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string   { return e.err.Error() }
func (e *httpError) StatusCode() int { return e.status }
func (e *httpError) Unwrap() error   { return e.err }

// httpStatus wraps err so WriteError reports it with the given status
// instead of inferring one.
func httpStatus(status int, err error) error {
	return &httpError{status: status, err: err}
}

// WriteError maps err to an HTTP status and writes a bare status response.
// DACP/DMAP clients don't expect a body on error, unlike a JSON API's
// error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// Cancelled: the client is gone: drop the response silently.
		return
	}

	var coded statusCoded
	if errors.As(err, &coded) {
		w.WriteHeader(coded.StatusCode())
		return
	}

	var syntaxErr *query.ErrSyntax
	switch {
	case errors.Is(err, dmap.ErrUnknownTag), errors.Is(err, ErrUnknownProperty):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &syntaxErr):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, artwork.ErrArtNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, pairing.ErrPairingFailed):
		w.WriteHeader(http.StatusForbidden)
	case errors.Is(err, player.ErrUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		log.Errorf("api: %s %s: %v", r.Method, r.URL.Path, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
