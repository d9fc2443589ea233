package api

import "math/rand"

// generateSessionID produces a session id for a successful /login: not
// cryptographically meaningful, the DACP session id only needs to look
// like one across requests from the same remote.
func generateSessionID() uint32 {
	var sid uint32
	for i := 0; i < 32; i++ {
		sid ^= rand.Uint32() & 0x7fffffff
	}
	return sid
}
