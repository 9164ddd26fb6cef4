package compression

import (
	"bytes"
	"compress/zlib"
	"io"
)

// ZlibCompressor implements Compressor with DEFLATE streams.
type ZlibCompressor struct{}

func NewZlib() *ZlibCompressor {
	return &ZlibCompressor{}
}

// Compress writes data through one zlib stream at the default level.
func (c *ZlibCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates one zlib stream back into the original bytes.
func (c *ZlibCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func (c *ZlibCompressor) Type() CompressionType {
	return Compress_zlib
}

func (c *ZlibCompressor) TypeString() string {
	return "zlib"
}
