// Package pairing implements the Apple Remote (DACP) pairing handshake:
// hashing a remote's passcode against its advertised pair id, completing the
// HTTP /pair exchange, and discovering candidate remotes over mDNS.
package pairing

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateCode computes the pairing hash a remote expects in its
// /pair?pairingcode= query parameter, given the 4-digit passcode displayed
// on the remote and the 16-character ASCII pair id it advertises over mDNS.
//
// The code is the MD5 digest of the 16-byte pair id followed by the
// passcode encoded as UTF-16LE without a byte-order mark, rendered as 32
// uppercase hex digits. The handshake is often described as a bespoke
// 64-round permutation over a manually padded 64-byte block; that block
// is, byte for byte, what MD5 itself hashes for this 24-byte message, so
// crypto/md5 reproduces it bit for bit.
func GenerateCode(passcode, pairID string) (string, error) {
	if len(pairID) != 16 {
		return "", fmt.Errorf("pairing: pair id must be 16 bytes, got %d", len(pairID))
	}

	h := md5.New()
	h.Write([]byte(pairID))
	for _, r := range passcode {
		if r > 0xffff {
			return "", fmt.Errorf("pairing: passcode rune %q outside UTF-16 BMP", r)
		}
		var unit [2]byte
		binary.LittleEndian.PutUint16(unit[:], uint16(r))
		h.Write(unit[:])
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
