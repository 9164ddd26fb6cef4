package compression

import "errors"

type CompressionType byte

const (
	Compress_zlib   CompressionType = iota //0
	Compress_snappy                        //1
	Compress_none                          //2
)

var ErrInvalidCompressionType = errors.New("invalid compression type")

var (
	CompressionMethods = map[string]CompressionType{
		"zlib":   Compress_zlib,
		"snappy": Compress_snappy,
		"none":   Compress_none,
	}
)

// Compressor defines the interface for data compression and decompression algorithms.
type Compressor interface {
	// Compress takes a byte slice and returns the compressed data.
	Compress(data []byte) ([]byte, error)

	// Decompress takes a compressed byte slice and returns the original data.
	Decompress(data []byte) ([]byte, error)

	// Type returns the type of compression, e.g., "zlib", "snappy".
	TypeString() string
	Type() CompressionType
}

// GetCompressorViaString returns the Compressor registered under the given
// name. A nil Compressor with a nil error means no compression ("none").
func GetCompressorViaString(compressionStr string) (Compressor, error) {

	compressionType, ok := CompressionMethods[compressionStr]
	if !ok {
		return nil, ErrInvalidCompressionType
	}
	return GetCompressorViaType(compressionType)
}

// GetCompressorViaType returns the Compressor for the given type tag. A nil
// Compressor with a nil error means no compression ("none").
func GetCompressorViaType(compressionType CompressionType) (Compressor, error) {
	switch compressionType {
	case Compress_zlib:
		return NewZlib(), nil
	case Compress_snappy:
		return NewSnappy(), nil
	case Compress_none:
		return nil, nil
	default:
		return nil, ErrInvalidCompressionType
	}
}
