package pairing

import (
	"context"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
	log "github.com/sirupsen/logrus"
)

// remoteServiceType is the mDNS service type Apple Remote / Remote app
// instances advertise while waiting to be paired.
const remoteServiceType = "_touch-remote._tcp"

// Listener tracks candidate remotes discovered over mDNS: a goroutine
// drains the resolver's entry channel into a lock-protected map.
type Listener struct {
	mu      sync.RWMutex
	remotes map[string]Remote
}

// NewListener returns an empty Listener.
func NewListener() *Listener {
	return &Listener{remotes: make(map[string]Remote)}
}

// Browse starts mDNS browsing for touch-remote services and blocks until ctx
// is canceled, populating the Listener as entries arrive. Run it in its own
// goroutine.
func (l *Listener) Browse(ctx context.Context) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return err
	}

	entries := make(chan *zeroconf.ServiceEntry, 16)
	go func() {
		for entry := range entries {
			l.observe(entry)
		}
	}()

	return resolver.Browse(ctx, remoteServiceType, "local.", entries)
}

func (l *Listener) observe(entry *zeroconf.ServiceEntry) {
	if entry.TTL == 0 {
		// Goodbye packet: the remote withdrew its advertisement. Deleting a
		// name that was never recorded is a silent no-op.
		l.mu.Lock()
		delete(l.remotes, entry.Instance)
		l.mu.Unlock()
		return
	}
	if len(entry.AddrIPv4) == 0 {
		log.Warnf("pairing: discovered %s with no IPv4 address, ignoring", entry.Instance)
		return
	}
	props := parseTXT(entry.Text)
	name := props["DvNm"]
	if name == "" {
		name = entry.Instance
	}
	remote := Remote{
		Name:    name,
		Address: entry.AddrIPv4[0].String(),
		Port:    entry.Port,
		PairID:  props["Pair"],
	}

	l.mu.Lock()
	l.remotes[entry.Instance] = remote
	l.mu.Unlock()
}

// Remotes returns a snapshot of currently known remotes, keyed by the mDNS
// instance name Lookup resolves.
func (l *Listener) Remotes() map[string]Remote {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]Remote, len(l.remotes))
	for name, r := range l.remotes {
		out[name] = r
	}
	return out
}

// Lookup returns the remote advertised under the given mDNS instance name.
func (l *Listener) Lookup(name string) (Remote, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.remotes[name]
	return r, ok
}

func parseTXT(records []string) map[string]string {
	out := make(map[string]string, len(records))
	for _, rec := range records {
		if k, v, ok := strings.Cut(rec, "="); ok {
			out[k] = v
		}
	}
	return out
}
