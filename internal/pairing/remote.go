package pairing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rbergstrom/euphony/internal/dmap"
	"github.com/rbergstrom/euphony/internal/store"
)

// ErrPairingFailed wraps any failure to complete a handshake with a remote:
// unreachable host, a rejected passcode, or an unparseable response. Callers
// that only care whether pairing succeeded should check errors.Is against
// this rather than the specific cause.
var ErrPairingFailed = errors.New("pairing: handshake failed")

// Remote is a candidate Apple Remote discovered over mDNS, advertising the
// pair id a user's passcode entry must be hashed against.
type Remote struct {
	Name    string
	Address string
	Port    int
	PairID  string
}

func (r Remote) String() string {
	return fmt.Sprintf("%s @ %s:%d", r.Name, r.Address, r.Port)
}

// Pair completes the handshake: it hashes passcode against r.PairID, issues
// the remote's /pair request, decodes the DMAP response for the remote's
// pairing guid, and records that guid in s so future requests from the same
// remote are recognized. It returns the guid on success.
func (r Remote) Pair(ctx context.Context, passcode, serviceName string, s *store.Store) (uint64, error) {
	hashcode, err := GenerateCode(passcode, r.PairID)
	if err != nil {
		return 0, err
	}

	url := fmt.Sprintf("http://%s:%d/pair?pairingcode=%s&servicename=%s", r.Address, r.Port, hashcode, serviceName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("pairing: requesting %s: %w: %w", r, err, ErrPairingFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("pairing: reading response from %s: %w: %w", r, err, ErrPairingFailed)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("pairing: %s returned status %d: %w", r, resp.StatusCode, ErrPairingFailed)
	}

	answer, _, err := dmap.Decode(body)
	if err != nil {
		return 0, fmt.Errorf("pairing: decoding response from %s: %w: %w", r, err, ErrPairingFailed)
	}

	var guid uint64
	found := false
	for _, child := range answer.Children {
		if child.Tag == "cmpg" {
			guid = uint64(child.Int)
			found = true
			break
		}
	}
	if !found {
		return 0, fmt.Errorf("pairing: %s's response carried no cmpg guid: %w", r, ErrPairingFailed)
	}

	if err := s.AddPairing(guid); err != nil {
		return 0, fmt.Errorf("pairing: recording guid %d: %w", guid, err)
	}
	return guid, nil
}
