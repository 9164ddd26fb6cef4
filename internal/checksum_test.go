package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCRC32(t *testing.T) {
	// 0xCBF43926 is the published CRC-32/IEEE check value for "123456789".
	assert.Equal(t, uint32(0xCBF43926), CalculateCRC32([]byte("123456789")))
	assert.Equal(t, uint32(0), CalculateCRC32(nil))
	assert.Equal(t, CalculateCRC32(nil), CalculateCRC32([]byte{}))
}

func TestVerifyCRC32(t *testing.T) {
	payload := []byte("sector payload")
	crc := CalculateCRC32(payload)

	assert.True(t, VerifyCRC32(payload, crc))
	assert.False(t, VerifyCRC32(payload, crc+1))

	payload[0] ^= 0xff
	assert.False(t, VerifyCRC32(payload, crc))
}
