package player

import (
	"sort"
	"strconv"
	"strings"

	"github.com/polyfloyd/gompd/mpd"

	"github.com/rbergstrom/euphony/internal/library"
)

// snapshot is the immutable library projection readers see between
// rebuilds. Every field is populated once, during rebuildSnapshot, and
// never mutated afterwards except through Container.AddItem's documented
// playlist-append exception.
type snapshot struct {
	Artists       *library.IndexedCollection[*library.Artist]
	Albums        *library.IndexedCollection[*library.Album]
	Items         *library.IndexedCollection[*library.Item]
	Containers    *library.IndexedCollection[*library.Container]
	RootContainer *library.Container
}

// rebuildSnapshot runs the four-step model rebuild against mpdc: artists,
// then albums per artist, then every item, then playlists. Ids restart at
// 1 per entity kind on every rebuild; the snapshot swap makes the change
// atomic for readers.
func rebuildSnapshot(mpdc *mpd.Client) (*snapshot, error) {
	artists, err := rebuildArtists(mpdc)
	if err != nil {
		return nil, err
	}
	albums, err := rebuildAlbums(mpdc, artists)
	if err != nil {
		return nil, err
	}
	items, err := rebuildItems(mpdc, artists, albums)
	if err != nil {
		return nil, err
	}
	containers, root, err := rebuildContainers(mpdc, items)
	if err != nil {
		return nil, err
	}

	return &snapshot{
		Artists:       artists,
		Albums:        albums,
		Items:         items,
		Containers:    containers,
		RootContainer: root,
	}, nil
}

func rebuildArtists(mpdc *mpd.Client) (*library.IndexedCollection[*library.Artist], error) {
	names, err := mpdc.List("artist")
	if err != nil {
		return nil, err
	}
	names = library.SortByInitial(names)

	artists := library.NewIndexedCollection[*library.Artist]()
	var id uint32 = 1
	for _, name := range names {
		if name == "" {
			continue
		}
		artists.Add(library.NewArtist(id, name))
		id++
	}
	return artists, nil
}

func rebuildAlbums(mpdc *mpd.Client, artists *library.IndexedCollection[*library.Artist]) (*library.IndexedCollection[*library.Album], error) {
	albums := library.NewIndexedCollection[*library.Album]()
	var id uint32 = 1
	for _, artist := range artists.Items() {
		names, err := mpdc.List("album", "artist", artist.Name)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if name == "" {
				continue
			}
			titles, err := mpdc.List("title", "album", name)
			if err != nil {
				return nil, err
			}
			albums.Add(library.NewAlbum(id, name, artist, len(titles)))
			id++
		}
	}
	return albums, nil
}

func rebuildItems(mpdc *mpd.Client, artists *library.IndexedCollection[*library.Artist], albums *library.IndexedCollection[*library.Album]) (*library.IndexedCollection[*library.Item], error) {
	songs, err := mpdc.ListAllInfo("/")
	if err != nil {
		return nil, err
	}

	items := library.NewIndexedCollection[*library.Item]()
	var id uint32 = 1
	for _, song := range songs {
		title, ok := song["title"]
		if !ok {
			continue // a directory entry, not a track
		}

		artistName := song["artist"]
		albumName := song["album"]
		artist, _ := artists.FirstMatching(map[string]interface{}{"dmap.itemname": artistName})
		album, _ := albums.FirstMatching(map[string]interface{}{
			"dmap.itemname":        albumName,
			"daap.songalbumartist": artistName,
		})

		track := leadingTrackNumber(song["track"])
		durationMs := uint32(0)
		if t, err := strconv.Atoi(song["time"]); err == nil {
			durationMs = uint32(t) * 1000
		}

		items.Add(library.NewItem(
			id, title, song["file"],
			artist, album,
			track, song["date"],
			splitTag(song["composer"]), splitTag(song["genre"]),
			durationMs,
		))
		id++
	}
	return items, nil
}

// leadingTrackNumber parses the integer before any '/' in MPD's track tag
// (e.g. "3/12" -> 3); a missing or unparseable tag defaults to 1.
func leadingTrackNumber(track string) uint16 {
	if track == "" {
		return 1
	}
	head := strings.SplitN(track, "/", 2)[0]
	n, err := strconv.Atoi(head)
	if err != nil || n < 0 {
		return 1
	}
	return uint16(n)
}

// splitTag turns MPD's semicolon-joined multi-valued tags into a slice so
// Item can re-join them with commas.
func splitTag(tag string) []string {
	if tag == "" {
		return nil
	}
	return strings.Split(tag, "; ")
}

func rebuildContainers(mpdc *mpd.Client, items *library.IndexedCollection[*library.Item]) (*library.IndexedCollection[*library.Container], *library.Container, error) {
	playlists, err := mpdc.ListPlaylists()
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, 0, len(playlists))
	for _, p := range playlists {
		if name := p["playlist"]; name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	byURI := make(map[string]*library.Item, items.Len())
	for _, item := range items.Items() {
		byURI[item.URI] = item
	}

	containers := library.NewIndexedCollection[*library.Container]()
	var id uint32 = 1
	root := library.NewContainer(id, BasePlaylist, true, items)
	containers.Add(root)
	id++

	for _, name := range names {
		files, err := mpdc.PlaylistContents(name)
		if err != nil {
			return nil, nil, err
		}
		playlistItems := library.NewIndexedCollection[*library.Item]()
		for _, f := range files {
			if item, ok := byURI[f["file"]]; ok {
				playlistItems.Add(item)
			}
		}

		containers.Add(library.NewContainer(id, name, false, playlistItems))
		id++
	}

	return containers, root, nil
}
