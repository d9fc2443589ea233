// Package store holds the two small persistent tables this server keeps:
// completed pairing records and cached album art, both bbolt buckets in a
// single file.
package store

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	pairingBucket = []byte("pairing")
	artworkBucket = []byte("artwork")
)

// Store wraps a single bbolt database file holding the pairing and artwork
// buckets.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if necessary) the bbolt file at path and ensures both
// buckets exist.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(pairingBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(artworkBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	return s.db.Close()
}

func guidKey(guid uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, guid)
	return key
}

// HasPairing reports whether guid has already been recorded as paired.
func (s *Store) HasPairing(guid uint64) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(pairingBucket).Get(guidKey(guid))
		found = v != nil
		return nil
	})
	return found, err
}

// AddPairing idempotently records guid as paired.
func (s *Store) AddPairing(guid uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(pairingBucket)
		key := guidKey(guid)
		if b.Get(key) != nil {
			return nil
		}
		return b.Put(key, []byte{1})
	})
}

// GetArtwork returns the cached image bytes for fingerprint, if present.
func (s *Store) GetArtwork(fingerprint string) ([]byte, bool, error) {
	var png []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(artworkBucket).Get([]byte(fingerprint))
		if v != nil {
			png = append([]byte(nil), v...)
		}
		return nil
	})
	return png, png != nil, err
}

// PutArtwork stores image bytes (in whatever format the provider served)
// under fingerprint, overwriting any previous entry.
func (s *Store) PutArtwork(fingerprint string, png []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(artworkBucket).Put([]byte(fingerprint), png)
	})
}
