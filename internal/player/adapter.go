// Package player owns the MPD connection (a pool of reusable command
// connections plus two dedicated idle watchers), rebuilds the library
// snapshot on database changes, and serves the revision-gated long-poll
// update mechanism remotes use to learn about playback and library changes.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/polyfloyd/gompd/mpd"

	"github.com/rbergstrom/euphony/internal/library"
	"github.com/rbergstrom/euphony/internal/util"
)

// ErrUnavailable marks a failure to reach MPD at all, as opposed to MPD
// rejecting a command. Handlers map it to 503.
var ErrUnavailable = errors.New("player: mpd unavailable")

// Config names the MPD server this adapter connects to.
type Config struct {
	Network  string // "tcp" or "unix"
	Address  string
	Password string
}

// reusableClient keeps one MPD connection alive with a periodic ping,
// expiring itself after a period of disuse.
type reusableClient struct {
	sync.Mutex
	client *mpd.Client
	reset  chan struct{}
}

func (rc *reusableClient) run(expireAfter time.Duration) {
	pinger := time.NewTicker(4 * time.Second)
	defer pinger.Stop()
	defer close(rc.reset)

	expire := time.After(expireAfter)
	for {
		select {
		case <-pinger.C:
			rc.Lock()
			if err := rc.client.Ping(); err != nil {
				rc.client.Close()
				rc.client = nil
				rc.Unlock()
				return
			}
			rc.Unlock()
		case <-expire:
			rc.Lock()
			rc.client.Close()
			rc.client = nil
			rc.Unlock()
			return
		case <-rc.reset:
			expire = time.After(expireAfter)
		}
	}
}

// Adapter owns the command connection pool, the two idle watchers, the
// published library snapshot, and the revision-gated long-poll waiters.
type Adapter struct {
	util.Emitter

	cfg Config

	// clientPool holds a small number of reusable command connections.
	// MPD caps concurrent connections by default, so this is kept small.
	clientPool chan *reusableClient

	snapshot atomic.Pointer[snapshot]

	revMu    sync.Mutex
	revision uint64
	waiters  map[uint64][]chan struct{}
}

const clientPoolSize = 4

// Connect dials cfg's MPD server, performs the initial library rebuild, and
// starts the two idle-loop goroutines. It blocks until the initial rebuild
// completes so the first request never sees an empty library.
func Connect(cfg Config) (*Adapter, error) {
	a := &Adapter{
		Emitter:    util.Emitter{Release: 100 * time.Millisecond},
		cfg:        cfg,
		clientPool: make(chan *reusableClient, clientPoolSize),
		revision:   1,
		waiters:    make(map[uint64][]chan struct{}),
	}

	for i := 0; i < clientPoolSize; i++ {
		rc, err := a.newClient()
		if err != nil {
			return nil, err
		}
		a.clientPool <- rc
	}

	if err := a.rebuild(); err != nil {
		return nil, fmt.Errorf("player: initial library rebuild failed: %w", err)
	}

	go a.idleLoop([]string{"playlist", "player", "options", "mixer"}, a.handleStatusEvent)
	go a.idleLoop([]string{"database"}, a.handleDatabaseEvent)

	return a, nil
}

func (a *Adapter) newClient() (*reusableClient, error) {
	client, err := mpd.DialAuthenticated(a.cfg.Network, a.cfg.Address, a.cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("connecting to mpd: %v: %w", err, ErrUnavailable)
	}
	rc := &reusableClient{client: client, reset: make(chan struct{})}
	go rc.run(30 * time.Second)
	return rc, nil
}

// withMPD borrows a pooled connection, reconnecting it first if it has
// expired, runs fn, and returns it to the pool.
func (a *Adapter) withMPD(fn func(*mpd.Client) error) error {
	rc := <-a.clientPool
	rc.Lock()
	if rc.client == nil {
		rc.Unlock()
		fresh, err := a.newClient()
		if err != nil {
			a.clientPool <- rc
			return err
		}
		rc = fresh
		rc.Lock()
	}
	defer func() {
		rc.Unlock()
		a.clientPool <- rc
	}()
	rc.reset <- struct{}{}
	return fn(rc.client)
}

// idleLoop holds a dedicated watcher connection subscribed to subsystems,
// invoking onEvent for every notification. It reconnects on error with
// exponential backoff capped at 30s; a persistent failure leaves the
// adapter's revision frozen rather than crashing the process.
func (a *Adapter) idleLoop(subsystems []string, onEvent func(event string)) {
	backoff := time.Second
	for {
		watcher, err := mpd.NewWatcher(a.cfg.Network, a.cfg.Address, a.cfg.Password, subsystems...)
		if err != nil {
			log.Errorf("player: idle watcher (%v) dial failed: %v", subsystems, err)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
			}
			continue
		}
		backoff = time.Second

	loop:
		for {
			select {
			case event, ok := <-watcher.Event:
				if !ok {
					break loop
				}
				onEvent(event)
			case err, ok := <-watcher.Error:
				if ok && err != nil {
					log.Errorf("player: idle watcher (%v) error: %v", subsystems, err)
				}
				break loop
			}
		}
		watcher.Close()
	}
}

func (a *Adapter) handleStatusEvent(event string) {
	a.bumpRevision()
	a.Emit(event)
}

func (a *Adapter) handleDatabaseEvent(event string) {
	if err := a.rebuild(); err != nil {
		log.Errorf("player: library rebuild failed: %v", err)
		return
	}
	a.bumpRevision()
	a.Emit(event)
}

// rebuild runs the four-step snapshot rebuild on the calling goroutine (the
// database idle watcher, or Connect at startup; never an HTTP handler) and
// atomically publishes the result.
func (a *Adapter) rebuild() error {
	var snap *snapshot
	err := a.withMPD(func(mpdc *mpd.Client) error {
		s, err := rebuildSnapshot(mpdc)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil {
		return err
	}
	a.snapshot.Store(snap)
	return nil
}

// Snapshot returns the currently published library snapshot. Callers hold
// the returned reference for the duration of their request; a concurrent
// rebuild never mutates it out from under them.
func (a *Adapter) Snapshot() *snapshot {
	return a.snapshot.Load()
}

// Artists, Albums, Items, Containers and RootContainer project the current
// snapshot's collections, the read surface the HTTP handlers use.
func (a *Adapter) Artists() *library.IndexedCollection[*library.Artist]     { return a.Snapshot().Artists }
func (a *Adapter) Albums() *library.IndexedCollection[*library.Album]       { return a.Snapshot().Albums }
func (a *Adapter) Items() *library.IndexedCollection[*library.Item]         { return a.Snapshot().Items }
func (a *Adapter) Containers() *library.IndexedCollection[*library.Container] {
	return a.Snapshot().Containers
}
func (a *Adapter) RootContainer() *library.Container { return a.Snapshot().RootContainer }

// Revision reports the current revision counter.
func (a *Adapter) Revision() uint64 {
	a.revMu.Lock()
	defer a.revMu.Unlock()
	return a.revision
}

// bumpRevision advances the revision counter by exactly one and fires every
// waiter registered for the new value, so waiters wake in revision order
// regardless of registration order.
func (a *Adapter) bumpRevision() {
	a.revMu.Lock()
	a.revision++
	rev := a.revision
	waiting := a.waiters[rev]
	delete(a.waiters, rev)
	a.revMu.Unlock()

	for _, ch := range waiting {
		close(ch)
	}
}

// AwaitRevision blocks until the revision counter reaches clientRevision (or
// has already done so), or ctx is canceled. It returns the observed revision
// and true, or (0, false) if the context was canceled first; handlers
// translate cancellation into silently dropping the response.
func (a *Adapter) AwaitRevision(ctx context.Context, clientRevision uint64) (uint64, bool) {
	a.revMu.Lock()
	if clientRevision <= a.revision {
		rev := a.revision
		a.revMu.Unlock()
		return rev, true
	}
	ch := make(chan struct{})
	a.waiters[clientRevision] = append(a.waiters[clientRevision], ch)
	a.revMu.Unlock()

	select {
	case <-ch:
		a.revMu.Lock()
		rev := a.revision
		a.revMu.Unlock()
		return rev, true
	case <-ctx.Done():
		a.deregister(clientRevision, ch)
		return 0, false
	}
}

func (a *Adapter) deregister(clientRevision uint64, ch chan struct{}) {
	a.revMu.Lock()
	defer a.revMu.Unlock()
	list := a.waiters[clientRevision]
	for i, c := range list {
		if c == ch {
			a.waiters[clientRevision] = append(list[:i], list[i+1:]...)
			return
		}
	}
}
