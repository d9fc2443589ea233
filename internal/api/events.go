package api

import (
	"net/http"
	"strconv"

	"github.com/antage/eventsource"

	"github.com/rbergstrom/euphony/internal/util"
)

// htEvents turns an Emitter into a server-sent-events stream: every event
// the adapter fires (idle subsystem names, forwarded verbatim) becomes one
// SSE message, letting the dashboard update without a JSON poll loop.
func htEvents(emitter *util.Emitter) http.Handler {
	conf := eventsource.DefaultSettings()
	es := eventsource.New(conf, func(r *http.Request) [][]byte {
		return [][]byte{[]byte("X-Accel-Buffering: no")}
	})

	ch := emitter.Listen()
	go func() {
		id := 0
		for event := range ch {
			id++
			es.SendEventMessage(event, "player", strconv.Itoa(id))
		}
	}()

	return es
}
