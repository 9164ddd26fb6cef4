package crunch

import (
	"fmt"
	"io"
)

// SectorSize is the fixed chunking window. Every file is split into
// SectorSize-byte sectors from offset 0; only the final sector may be short.
const SectorSize = 4096

// FileChunker splits files into sectors, stores every sector and registers
// the resulting entries.
type FileChunker struct {
	store    *ChunkStore
	registry *FileRegistry
}

func NewFileChunker(store *ChunkStore, registry *FileRegistry) *FileChunker {
	return &FileChunker{store: store, registry: registry}
}

// ChunkFile splits data into sectors, puts each one and registers the entry
// for path. A zero-byte file registers with no sectors at all.
func (c *FileChunker) ChunkFile(path string, data []byte) (*FileEntry, error) {
	entry := &FileEntry{
		Path: path,
		Size: uint64(len(data)),
	}
	for off := 0; off < len(data); off += SectorSize {
		end := off + SectorSize
		if end > len(data) {
			end = len(data)
		}
		fp, err := c.store.put(data[off:end], path)
		if err != nil {
			return nil, err
		}
		entry.Sectors = append(entry.Sectors, fp)
	}
	if err := c.registry.Register(entry); err != nil {
		return nil, err
	}
	logger.Tracef("ChunkFile: %q -> %d sectors, %d bytes", path, len(entry.Sectors), entry.Size)
	return entry, nil
}

// ChunkReader is ChunkFile for a stream. The reader is consumed to EOF.
func (c *FileChunker) ChunkReader(path string, r io.Reader) (*FileEntry, error) {
	entry := &FileEntry{Path: path}
	chunker := newSectorChunker(r)
	for {
		sector, err := chunker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("chunking %q: %w", path, err)
		}
		fp, err := c.store.put(sector, path)
		if err != nil {
			return nil, err
		}
		entry.Sectors = append(entry.Sectors, fp)
		entry.Size += uint64(len(sector))
	}
	if err := c.registry.Register(entry); err != nil {
		return nil, err
	}
	logger.Tracef("ChunkReader: %q -> %d sectors, %d bytes", path, len(entry.Sectors), entry.Size)
	return entry, nil
}

// sectorChunker yields consecutive SectorSize windows from a reader.
type sectorChunker struct {
	r io.Reader
}

func newSectorChunker(r io.Reader) *sectorChunker {
	return &sectorChunker{r: r}
}

// Next returns the next sector from the reader.
func (c *sectorChunker) Next() ([]byte, error) {
	buf := make([]byte, SectorSize)
	n, err := io.ReadFull(c.r, buf)

	if err == io.EOF { // Clean end of stream, no bytes read.
		return nil, io.EOF
	}
	if err == io.ErrUnexpectedEOF { // Last partial sector.
		return buf[:n], nil
	}
	if err != nil { // Some other error occurred.
		return nil, err
	}

	// A full sector was read.
	return buf, nil
}
