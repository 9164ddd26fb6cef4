package crunch

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// FPSize is the width of a chunk fingerprint in bytes.
const FPSize = 32

// Fingerprint identifies chunk content within one build. Two chunks carry
// the same fingerprint iff they hold the same bytes; the store verifies
// byte equality on every dedup hit, so the hash only has to make collisions
// rare, not adversarially impossible.
type Fingerprint [FPSize]byte

// Hasher computes the fingerprint of a chunk. The store takes it as an
// injection point so tests can substitute degenerate hash functions.
type Hasher func(data []byte) Fingerprint

// ComputeFingerprint is the default Hasher: BLAKE3-256 over the chunk bytes.
func ComputeFingerprint(data []byte) Fingerprint {
	return Fingerprint(blake3.Sum256(data))
}

// Hex returns the full lowercase hex form of the fingerprint.
func (fp Fingerprint) Hex() string {
	return hex.EncodeToString(fp[:])
}

// Short returns an abbreviated hex form for logs.
func (fp Fingerprint) Short() string {
	return hex.EncodeToString(fp[:6])
}

// ParseFingerprint decodes the hex form produced by Hex.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fp, fmt.Errorf("invalid fingerprint %q: %w", s, err)
	}
	if len(raw) != FPSize {
		return fp, fmt.Errorf("invalid fingerprint %q: got %d bytes, want %d", s, len(raw), FPSize)
	}
	copy(fp[:], raw)
	return fp, nil
}
