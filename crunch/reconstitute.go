package crunch

import (
	"fmt"

	"github.com/google/uuid"
)

// ReconstituteFile describes one file of an emitted table: its path, its
// original size and the indexes of its sectors in the chunk table.
type ReconstituteFile struct {
	Path    string
	Size    uint64
	Sectors []int
}

// Reconstitute rebuilds a sealed Store from emitted tables (a generated
// source file or a decoded snapshot). Every chunk is re-fingerprinted on
// insert, so a collision is caught the same way it is during a build, and
// the chunking invariants are re-checked: sector indexes must be in range,
// non-final sectors must be exactly SectorSize, and the sector sizes of a
// file must sum to its recorded size. The result is a brand-new store with
// its own build id.
func Reconstitute(chunks [][]byte, files []ReconstituteFile, opts ...StoreOption) (*Store, error) {
	store := NewChunkStore(opts...)

	fps := make([]Fingerprint, len(chunks))
	for i, chunk := range chunks {
		if len(chunk) == 0 || len(chunk) > SectorSize {
			return nil, fmt.Errorf("chunk %d is %d bytes, valid sectors are 1..%d bytes", i, len(chunk), SectorSize)
		}
		fp, err := store.Put(chunk)
		if err != nil {
			return nil, err
		}
		fps[i] = fp
	}

	registry := NewFileRegistry()
	for _, f := range files {
		entry := &FileEntry{Path: f.Path, Size: f.Size}
		var total uint64
		for j, idx := range f.Sectors {
			if idx < 0 || idx >= len(chunks) {
				return nil, fmt.Errorf("file %q references sector %d, table holds %d", f.Path, idx, len(chunks))
			}
			chunkLen := uint64(len(chunks[idx]))
			if j < len(f.Sectors)-1 && chunkLen != SectorSize {
				return nil, fmt.Errorf("file %q: non-final sector %d is %d bytes, want %d", f.Path, j, chunkLen, SectorSize)
			}
			entry.Sectors = append(entry.Sectors, fps[idx])
			total += chunkLen
		}
		if total != f.Size {
			return nil, fmt.Errorf("file %q: sectors sum to %d bytes, recorded size is %d", f.Path, total, f.Size)
		}
		if err := registry.Register(entry); err != nil {
			return nil, err
		}
	}

	logger.Debugf("Reconstitute: %d chunks, %d files", len(chunks), len(files))
	return &Store{
		store:    store,
		registry: registry,
		buildID:  uuid.New(),
	}, nil
}
