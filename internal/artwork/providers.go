package artwork

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	log "github.com/sirupsen/logrus"
)

const (
	albumartRoot = "http://www.albumart.org/index.php"
	lastfmRoot   = "http://ws.audioscrobbler.com/2.0"
)

// lastfmImageSizes is the size-preference order, largest first.
var lastfmImageSizes = []string{"extralarge", "large", "medium", "small"}

type lastfmAlbumInfo struct {
	XMLName xml.Name `xml:"lfm"`
	Album   struct {
		Images []struct {
			Size string `xml:"size,attr"`
			URL  string `xml:",chardata"`
		} `xml:"image"`
	} `xml:"album"`
}

// lastfmURL queries last.fm's album.getinfo and returns the largest
// available cover art URL, or "" if last.fm has nothing for this pairing.
func (c *Cache) lastfmURL(ctx context.Context, artist, album string) string {
	q := url.Values{
		"method":  {"album.getinfo"},
		"api_key": {c.cfg.LastFMAPIKey},
		"artist":  {artist},
		"album":   {album},
	}
	reqURL := lastfmRoot + "/?" + q.Encode()
	log.Debugf("artwork: querying last.fm: %s", reqURL)

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		log.Debugf("artwork: last.fm query failed: %v", err)
		return ""
	}

	var info lastfmAlbumInfo
	if err := xml.Unmarshal(body, &info); err != nil {
		log.Debugf("artwork: last.fm response unparseable: %v", err)
		return ""
	}

	bySize := make(map[string]string, len(info.Album.Images))
	for _, img := range info.Album.Images {
		bySize[img.Size] = img.URL
	}
	for _, size := range lastfmImageSizes {
		if u := bySize[size]; u != "" {
			return u
		}
	}
	return ""
}

// albumartImage pulls the (title, image url) pairs out of an albumart.org
// search results page.
var albumartImage = regexp.MustCompile(`title="(.+?)".*?src=.*?href="(.+?)".*?zoom-icon\.jpg`)

// albumartURL scrapes albumart.org's legacy search page for a cover matching
// album exactly, falling back to the first result.
func (c *Cache) albumartURL(ctx context.Context, artist, album string) string {
	q := url.Values{
		"itempage":    {"1"},
		"newsearch":   {"1"},
		"searchindex": {"Music"},
		"srchkey":     {fmt.Sprintf("%s %s", artist, album)},
	}
	reqURL := albumartRoot + "?" + q.Encode()
	log.Debugf("artwork: querying albumart.org: %s", reqURL)

	body, err := c.fetch(ctx, reqURL)
	if err != nil {
		log.Debugf("artwork: albumart.org query failed: %v", err)
		return ""
	}

	matches := albumartImage.FindAllStringSubmatch(string(body), -1)
	for _, m := range matches {
		if normalize(m[1]) == normalize(album) {
			return m[2]
		}
	}
	if len(matches) > 0 {
		return matches[0][2]
	}
	return ""
}

// fetch issues a GET with the server's DAAP user-agent.
func (c *Cache) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork: %s returned status %d", rawURL, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
