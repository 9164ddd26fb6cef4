package compression

import "github.com/golang/snappy"

// SnappyCompressor implements Compressor with snappy block encoding.
type SnappyCompressor struct{}

func NewSnappy() *SnappyCompressor {
	return &SnappyCompressor{}
}

// Compress encodes data as a single snappy block.
func (c *SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decompress decodes a single snappy block. The result is never nil, so an
// empty payload round-trips to an empty slice.
func (c *SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func (c *SnappyCompressor) Type() CompressionType {
	return Compress_snappy
}

func (c *SnappyCompressor) TypeString() string {
	return "snappy"
}
