package crunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeFingerprint(t *testing.T) {
	fp1 := ComputeFingerprint([]byte("hello, world"))
	fp2 := ComputeFingerprint([]byte("hello, world"))
	assert.Equal(t, fp1, fp2, "equal inputs must produce equal fingerprints")

	fp3 := ComputeFingerprint([]byte("hello, world!"))
	assert.NotEqual(t, fp1, fp3)

	// Fixed width whatever the input length.
	assert.Len(t, fp1.Hex(), FPSize*2)
	empty := ComputeFingerprint(nil)
	assert.Len(t, empty.Hex(), FPSize*2)
	assert.NotEqual(t, Fingerprint{}, fp1)
}

func TestParseFingerprint(t *testing.T) {
	fp := ComputeFingerprint([]byte("round trip"))
	parsed, err := ParseFingerprint(fp.Hex())
	assert.NoError(t, err)
	assert.Equal(t, fp, parsed)

	_, err = ParseFingerprint("not hex at all")
	assert.Error(t, err)

	_, err = ParseFingerprint("abcd") // valid hex, wrong width
	assert.Error(t, err)
}

func TestFingerprintShort(t *testing.T) {
	fp := ComputeFingerprint([]byte("short form"))
	short := fp.Short()
	assert.Len(t, short, 12)
	assert.Equal(t, fp.Hex()[:12], short)
}
