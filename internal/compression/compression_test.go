package compression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCompressor(t *testing.T) {
	testCases := []struct {
		name     string
		method   string
		tag      CompressionType
		expected Compressor
	}{
		{"Zlib", "zlib", Compress_zlib, &ZlibCompressor{}},
		{"Snappy", "snappy", Compress_snappy, &SnappyCompressor{}},
		{"None", "none", Compress_none, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			byName, err := GetCompressorViaString(tc.method)
			assert.NoError(t, err)
			byTag, err := GetCompressorViaType(tc.tag)
			assert.NoError(t, err)
			if tc.expected == nil {
				assert.Nil(t, byName)
				assert.Nil(t, byTag)
			} else {
				assert.IsType(t, tc.expected, byName)
				assert.IsType(t, tc.expected, byTag)
			}
		})
	}

	t.Run("Unknown Name", func(t *testing.T) {
		c, err := GetCompressorViaString("lz4")
		assert.ErrorIs(t, err, ErrInvalidCompressionType)
		assert.Nil(t, c)
	})

	t.Run("Unknown Tag", func(t *testing.T) {
		c, err := GetCompressorViaType(CompressionType(99))
		assert.ErrorIs(t, err, ErrInvalidCompressionType)
		assert.Nil(t, c)
	})
}
