package artwork

import (
	"regexp"
	"strings"
)

// nonWord matches runs of characters that aren't Unicode letters or
// digits, underscore included.
var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normalize folds artist/album names down to a bare lowercase
// alphanumeric string, so "Guns N' Roses" and "guns n roses" fingerprint
// identically for cache lookups.
func normalize(name string) string {
	return nonWord.ReplaceAllString(strings.ToLower(name), "")
}

// fingerprint is the cache key for an (artist, album) pair.
func fingerprint(artist, album string) string {
	return normalize(artist) + "\x00" + normalize(album)
}
