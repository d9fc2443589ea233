// Package artwork resolves (artist, album) pairs to cover art PNGs: a
// bbolt-backed cache in front of a provider waterfall (last.fm, then
// albumart.org), with a process-lifetime negative cache for pairs neither
// provider has ever had anything for.
package artwork

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	log "github.com/sirupsen/logrus"

	"github.com/rbergstrom/euphony/internal/store"
)

// ErrArtNotFound is returned when no provider has cover art for a pairing,
// whether this is the first attempt or a repeat of one already known to
// fail.
var ErrArtNotFound = errors.New("artwork: not found")

// Config names the last.fm API key and the identification string sent to
// providers.
type Config struct {
	LastFMAPIKey string
	UserAgent    string
}

// Cache is the artwork subsystem: persistent cache plus negative cache plus
// provider waterfall.
type Cache struct {
	store      *store.Store
	cfg        Config
	httpClient *http.Client

	mu       sync.Mutex
	notFound map[string]struct{}
}

// New constructs a Cache backed by s.
func New(s *store.Store, cfg Config) *Cache {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Euphony/0.1"
	}
	return &Cache{
		store:      s,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		notFound:   make(map[string]struct{}),
	}
}

// GetPNG returns cover art for (artist, album) resized to width x height, as
// PNG-encoded bytes. A cache hit is resized fresh on every call rather than
// stored pre-sized, so a later request for a different size doesn't need a
// second download.
func (c *Cache) GetPNG(ctx context.Context, artist, album string, width, height int) ([]byte, error) {
	fp := fingerprint(artist, album)

	if raw, ok, err := c.store.GetArtwork(fp); err != nil {
		return nil, err
	} else if ok {
		return resizePNG(raw, width, height)
	}

	c.mu.Lock()
	_, failedBefore := c.notFound[fp]
	c.mu.Unlock()
	if failedBefore {
		return nil, ErrArtNotFound
	}

	minSize := width
	if height < minSize {
		minSize = height
	}

	raw, err := c.download(ctx, artist, album, minSize)
	if err != nil {
		c.mu.Lock()
		c.notFound[fp] = struct{}{}
		c.mu.Unlock()
		return nil, ErrArtNotFound
	}

	if err := c.store.PutArtwork(fp, raw); err != nil {
		log.Warnf("artwork: caching %q/%q failed: %v", artist, album, err)
	}
	return resizePNG(raw, width, height)
}

// download tries each provider in turn, returning the first image that
// already meets minSize; if none do, it falls back to the largest image any
// provider offered.
func (c *Cache) download(ctx context.Context, artist, album string, minSize int) ([]byte, error) {
	type candidate struct {
		raw []byte
		img image.Image
	}
	var best *candidate

	for _, provider := range []func(context.Context, string, string) string{c.lastfmURL, c.albumartURL} {
		url := provider(ctx, artist, album)
		if url == "" {
			continue
		}
		raw, err := c.fetch(ctx, url)
		if err != nil {
			log.Debugf("artwork: fetching %s failed: %v", url, err)
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			log.Debugf("artwork: decoding %s failed: %v", url, err)
			continue
		}

		if maxDim(img) >= minSize {
			return raw, nil
		}
		log.Debugf("artwork: %s too small (%d, want %d)", url, maxDim(img), minSize)
		if best == nil || area(img) > area(best.img) {
			best = &candidate{raw: raw, img: img}
		}
	}

	if best != nil {
		return best.raw, nil
	}
	return nil, fmt.Errorf("artwork: no provider had art for %q/%q", artist, album)
}

func maxDim(img image.Image) int {
	b := img.Bounds()
	if b.Dx() > b.Dy() {
		return b.Dx()
	}
	return b.Dy()
}

func area(img image.Image) int {
	b := img.Bounds()
	return b.Dx() * b.Dy()
}

// resizePNG decodes raw (any supported format), resizes to width x height
// and re-encodes as PNG.
func resizePNG(raw []byte, width, height int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("artwork: decoding cached image: %w", err)
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG); err != nil {
		return nil, fmt.Errorf("artwork: encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
