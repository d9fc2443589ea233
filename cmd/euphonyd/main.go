// Command euphonyd runs the Euphony DACP/DAAP protocol adapter: it exposes
// an MPD server as an iTunes library to Apple Remote-style controllers.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/grandcat/zeroconf"

	"github.com/rbergstrom/euphony/internal/api"
	"github.com/rbergstrom/euphony/internal/artwork"
	"github.com/rbergstrom/euphony/internal/config"
	"github.com/rbergstrom/euphony/internal/pairing"
	"github.com/rbergstrom/euphony/internal/player"
	"github.com/rbergstrom/euphony/internal/store"
)

// mdnsServiceType is the service type this instance advertises itself
// under; Remote-style controllers browse for it when listing libraries.
const mdnsServiceType = "_touch-able._tcp"

func main() {
	configPath := flag.String("config", "euphony.ini", "path to the configuration file")
	verbose := flag.Bool("v", false, "log at info level")
	debug := flag.Bool("d", false, "log at debug level")
	stdout := flag.Bool("stdout", false, "log to stdout instead of the configured log file")
	flag.Parse()

	switch {
	case *debug:
		log.SetLevel(log.DebugLevel)
	case *verbose:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}

	if err := run(*configPath, *stdout, *debug || *verbose); err != nil {
		log.Fatalf("euphonyd: %v", err)
	}
}

// run starts the server. A level chosen with -v or -d takes precedence over
// the [logging] level from the configuration file.
func run(configPath string, stdout, levelFromFlags bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if stdout {
		log.SetOutput(os.Stdout)
	} else if cfg.Logging.Filename != "" {
		f, err := os.OpenFile(cfg.Logging.Filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil && !levelFromFlags {
		log.SetLevel(level)
	}

	s, err := store.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()

	adapter, err := player.Connect(player.Config{
		Network:  "tcp",
		Address:  net.JoinHostPort(cfg.MPD.Host, fmt.Sprintf("%d", cfg.MPD.Port)),
		Password: cfg.MPD.Password,
	})
	if err != nil {
		return fmt.Errorf("connecting to mpd: %w", err)
	}

	art := artwork.New(s, artwork.Config{})

	listener := pairing.NewListener()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := listener.Browse(ctx); err != nil {
			log.Errorf("euphonyd: mdns remote browse stopped: %v", err)
		}
	}()

	a, err := api.New(cfg, adapter, s, art, listener)
	if err != nil {
		return fmt.Errorf("building api: %w", err)
	}

	mdnsServer, err := advertise(cfg)
	if err != nil {
		return fmt.Errorf("advertising mdns service: %w", err)
	}
	defer mdnsServer.Shutdown()

	addr := net.JoinHostPort(cfg.Server.Host, fmt.Sprintf("%d", cfg.Server.Port))
	httpServer := &http.Server{Addr: addr, Handler: a.Router()}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("euphonyd: listening on %s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("serving http: %w", err)
		}
	case <-sigCh:
		log.Info("euphonyd: shutting down")
		httpServer.Shutdown(context.Background())
	}
	return nil
}

// advertise registers this instance under the DACP server mDNS type,
// carrying the TXT record keys Remote-style controllers expect.
func advertise(cfg *config.Config) (*zeroconf.Server, error) {
	txt := []string{
		"txtvers=1",
		"OSsi=0x122D9F",
		"CtlN=" + cfg.Server.Name,
		"Ver=131073",
		"DvSv=2306",
		"DvTy=iTunes",
		"DbId=" + cfg.Server.ID,
	}
	return zeroconf.Register(cfg.Server.ID, mdnsServiceType, "local.", cfg.Server.Port, txt, nil)
}
