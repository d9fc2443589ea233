package library

import "strings"

// Artist is a performer name, deduplicated across the library by name.
type Artist struct {
	id   uint32
	Name string
}

// NewArtist constructs an Artist with the given snapshot-local id.
func NewArtist(id uint32, name string) *Artist {
	return &Artist{id: id, Name: name}
}

func (a *Artist) ID() uint32 { return a.id }

func (a *Artist) Properties() map[string]interface{} {
	return map[string]interface{}{
		"dmap.itemname":     a.Name,
		"dmap.itemid":       int64(a.id),
		"dmap.persistentid": int64(a.id),
	}
}

// Album belongs to an Artist and knows how many items it contains.
type Album struct {
	id        uint32
	Name      string
	Artist    *Artist
	ItemCount int
}

// NewAlbum constructs an Album with the given snapshot-local id.
func NewAlbum(id uint32, name string, artist *Artist, itemCount int) *Album {
	return &Album{id: id, Name: name, Artist: artist, ItemCount: itemCount}
}

func (a *Album) ID() uint32 { return a.id }

func (a *Album) Properties() map[string]interface{} {
	props := map[string]interface{}{
		"dmap.itemname":     a.Name,
		"dmap.itemid":       int64(a.id),
		"dmap.persistentid": int64(a.id),
		"dmap.itemcount":    int64(a.ItemCount),
	}
	if a.Artist != nil {
		props["daap.songalbumartist"] = a.Artist.Name
		props["daap.songartist"] = a.Artist.Name
	}
	return props
}

// Item is a single track: a leaf of the library referencing its Artist and
// Album by pointer (both resolved at snapshot-build time; either is nil when
// the track's tags match no artist or album in the snapshot).
type Item struct {
	id          uint32
	Name        string
	URI         string
	Artist      *Artist
	Album       *Album
	Track       uint16
	Year        string
	Composer    string
	Genre       string
	DurationMs  uint32
	ItemKind    uint8
	HasVideo    bool
	Description string
}

// ItemKindSong is the DAAP item-kind value for every item this server
// exposes: an audio track, never a video or a podcast episode.
const ItemKindSong = 2

// NewItem constructs an Item, folding MPD's occasionally multi-valued
// composer/genre tags down to a single comma-joined string.
func NewItem(id uint32, name, uri string, artist *Artist, album *Album, track uint16, year string, composer, genre []string, durationMs uint32) *Item {
	return &Item{
		id:         id,
		Name:       name,
		URI:        uri,
		Artist:     artist,
		Album:      album,
		Track:      track,
		Year:       year,
		Composer:   deListify(composer),
		Genre:      deListify(genre),
		DurationMs: durationMs,
		ItemKind:   ItemKindSong,
	}
}

// deListify joins MPD's possibly-repeated tag values with commas; a
// single-valued tag renders as itself.
func deListify(values []string) string {
	return strings.Join(values, ",")
}

func (i *Item) ID() uint32 { return i.id }

func (i *Item) Properties() map[string]interface{} {
	props := map[string]interface{}{
		"dmap.itemname":               i.Name,
		"dmap.itemid":                 int64(i.id),
		"dmap.persistentid":           int64(i.id),
		"dmap.containeritemid":        int64(i.id),
		"dmap.itemkind":               int64(i.ItemKind),
		"daap.songcontentdescription": i.Description,
		"com.apple.itunes.has-video":  boolToInt64(i.HasVideo),
		"daap.songcomposer":           i.Composer,
		"daap.songyear":               i.Year,
		"daap.songgenre":              i.Genre,
		"daap.songtime":               int64(i.DurationMs),
	}
	if i.Artist != nil {
		props["daap.songartist"] = i.Artist.Name
		props["daap.songartistid"] = int64(i.Artist.ID())
	}
	if i.Album != nil {
		props["daap.songalbum"] = i.Album.Name
		props["daap.songalbumid"] = int64(i.Album.ID())
	}
	return props
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Container is a playlist, or the root library container when IsBase is
// true. The root container is always id 1 and holds every item in the
// snapshot; every other container holds the subset of items MPD reports for
// its playlist, in the order MPD returns them.
type Container struct {
	id       uint32
	Name     string
	IsBase   bool
	ParentID uint32 // always 0: flat namespace, required for remotes to see the playlist
	Items    *IndexedCollection[*Item]
}

// NewContainer constructs a Container over an already-populated item
// collection.
func NewContainer(id uint32, name string, isBase bool, items *IndexedCollection[*Item]) *Container {
	return &Container{id: id, Name: name, IsBase: isBase, Items: items}
}

func (c *Container) ID() uint32 { return c.id }

func (c *Container) Properties() map[string]interface{} {
	return map[string]interface{}{
		"dmap.itemname":              c.Name,
		"dmap.itemid":                int64(c.id),
		"dmap.persistentid":          int64(c.id),
		"dmap.itemcount":             int64(c.Items.Len()),
		"dmap.parentcontainerid":     int64(c.ParentID),
		"dmap.editcommandssupported": boolToInt64(!c.IsBase),
		"daap.baseplaylist":          boolToInt64(c.IsBase),
	}
}

// ItemIndex returns the position of the item with the given id within this
// container's playlist ordering, or -1 if absent.
func (c *Container) ItemIndex(itemID uint32) int {
	for pos, item := range c.Items.Items() {
		if item.ID() == itemID {
			return pos
		}
	}
	return -1
}

// AddItem appends item to the container's playlist view. Per the data
// model, this is the sole mutation path on an otherwise-immutable snapshot:
// callers are expected to have already issued the matching MPD
// playlistadd before calling this, to keep the in-memory view and MPD's
// view in lockstep.
func (c *Container) AddItem(item *Item) {
	c.Items.Add(item)
}
