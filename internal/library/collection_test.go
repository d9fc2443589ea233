package library

import (
	"testing"

	"github.com/rbergstrom/euphony/internal/query"
)

func buildTestCollection() (*IndexedCollection[*Artist], *IndexedCollection[*Album], *IndexedCollection[*Item]) {
	artists := NewIndexedCollection[*Artist]()
	albums := NewIndexedCollection[*Album]()
	items := NewIndexedCollection[*Item]()

	radiohead := NewArtist(1, "Radiohead")
	artists.Add(radiohead)
	boards := NewArtist(2, "Boards of Canada")
	artists.Add(boards)

	ok := NewAlbum(1, "OK Computer", radiohead, 2)
	albums.Add(ok)
	geogaddi := NewAlbum(2, "Geogaddi", boards, 1)
	albums.Add(geogaddi)

	items.Add(NewItem(1, "Airbag", "mpd:///airbag.flac", radiohead, ok, 1, "1997", []string{"Thom Yorke"}, []string{"Alternative"}, 284000))
	items.Add(NewItem(2, "Paranoid Android", "mpd:///paranoid.flac", radiohead, ok, 2, "1997", nil, []string{"Alternative"}, 387000))
	items.Add(NewItem(3, "Alpha and Omega", "mpd:///alpha.flac", boards, geogaddi, 1, "2002", nil, []string{"IDM", "Ambient"}, 307000))

	return artists, albums, items
}

func TestIndexedCollectionByID(t *testing.T) {
	_, _, items := buildTestCollection()
	item, ok := items.ByID(2)
	if !ok || item.Name != "Paranoid Android" {
		t.Fatalf("ByID(2) = %+v, %v", item, ok)
	}
	if _, ok := items.ByID(99); ok {
		t.Fatal("expected ByID(99) to miss")
	}
}

func TestIndexedCollectionFirstMatching(t *testing.T) {
	artists, _, _ := buildTestCollection()
	a, ok := artists.FirstMatching(map[string]interface{}{"dmap.itemname": "Boards of Canada"})
	if !ok || a.ID() != 2 {
		t.Fatalf("unexpected match: %+v, %v", a, ok)
	}
}

func TestIndexedCollectionGenreJoinsMultiValue(t *testing.T) {
	_, _, items := buildTestCollection()
	item, ok := items.ByID(3)
	if !ok {
		t.Fatal("expected item 3")
	}
	if item.Genre != "IDM,Ambient" {
		t.Fatalf("expected joined genre, got %q", item.Genre)
	}
}

func TestIndexedCollectionQuery(t *testing.T) {
	_, _, items := buildTestCollection()
	expr, err := query.Parse("'daap.songartist:Radiohead'")
	if err != nil {
		t.Fatal(err)
	}
	matches := items.Query(expr)
	if len(matches) != 2 {
		t.Fatalf("expected 2 Radiohead tracks, got %d", len(matches))
	}
	if matches[0].Name != "Airbag" || matches[1].Name != "Paranoid Android" {
		t.Fatalf("unexpected order: %+v", matches)
	}
}

func TestIndexedCollectionQueryWildcard(t *testing.T) {
	_, _, items := buildTestCollection()
	expr, err := query.Parse("'dmap.itemname:*Android'")
	if err != nil {
		t.Fatal(err)
	}
	matches := items.Query(expr)
	if len(matches) != 1 || matches[0].ID() != 2 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
}

func TestContainerAddItem(t *testing.T) {
	_, _, items := buildTestCollection()
	playlistItems := NewIndexedCollection[*Item]()
	container := NewContainer(2, "Favorites", false, playlistItems)

	item, _ := items.ByID(1)
	container.AddItem(item)

	if container.Items.Len() != 1 {
		t.Fatalf("expected 1 item after AddItem, got %d", container.Items.Len())
	}
	if idx := container.ItemIndex(1); idx != 0 {
		t.Fatalf("expected item 1 at index 0, got %d", idx)
	}
}

func TestRootContainerIsBase(t *testing.T) {
	_, _, items := buildTestCollection()
	root := NewContainer(1, "Library", true, items)
	props := root.Properties()
	if props["daap.baseplaylist"] != int64(1) {
		t.Fatalf("expected root container to report baseplaylist=1, got %v", props["daap.baseplaylist"])
	}
	if props["dmap.editcommandssupported"] != int64(0) {
		t.Fatalf("expected root container to be non-editable")
	}
}
