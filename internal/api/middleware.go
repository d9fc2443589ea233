package api

import "net/http"

// daapServerIdent is the DAAP-Server header value every DACP/DMAP response
// carries: the software identity, not the user-facing library name.
const daapServerIdent = "Euphony/0.1"

// dmapCtx sets the two headers every DACP/DMAP response carries.
func dmapCtx(server string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/x-dmap-tagged")
			w.Header().Set("DAAP-Server", server)
			next.ServeHTTP(w, r)
		})
	}
}

// jsonCtx sets the Content-Type for the dashboard's JSON endpoints.
func jsonCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
