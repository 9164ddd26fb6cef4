// Copyright 2025 zhengshuai.xiao@outlook.com
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
package crunch

import (
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bsansouci/ocaml-crunch/internal"
)

var logger = internal.GetLogger("Crunch")

// Builder runs one build pass: files go in, a sealed Store comes out.
// Independent files may be added from multiple goroutines; the underlying
// store serializes inserts. Finish waits for in-flight adds to drain, and
// once it returns, further adds fail with ErrBuildSealed.
type Builder struct {
	store    *ChunkStore
	registry *FileRegistry
	chunker  *FileChunker
	buildID  uuid.UUID
	start    time.Time

	// mu is held shared for the whole of each add and exclusively by
	// Finish, so a sealed Store can never gain sectors from an add that
	// was still in flight when it sealed.
	mu     sync.RWMutex
	sealed *Store
}

// NewBuilder starts a fresh build. Options are forwarded to the build's
// chunk store, so tests can inject a degenerate Hasher via WithHasher.
func NewBuilder(opts ...StoreOption) *Builder {
	store := NewChunkStore(opts...)
	registry := NewFileRegistry()
	b := &Builder{
		store:    store,
		registry: registry,
		chunker:  NewFileChunker(store, registry),
		buildID:  uuid.New(),
		start:    time.Now(),
	}
	logger.Debugf("NewBuilder: build %s started", b.buildID)
	return b
}

// BuildID returns the unique id of this build pass.
func (b *Builder) BuildID() uuid.UUID {
	return b.buildID
}

// AddFile chunks data and registers it under path.
func (b *Builder) AddFile(path string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.sealed != nil {
		return ErrBuildSealed
	}
	_, err := b.chunker.ChunkFile(path, data)
	return err
}

// AddReader chunks the stream and registers it under path. The reader is
// consumed to EOF.
func (b *Builder) AddReader(path string, r io.Reader) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.sealed != nil {
		return ErrBuildSealed
	}
	_, err := b.chunker.ChunkReader(path, r)
	return err
}

// Finish seals the build and returns the immutable Store. Calling Finish
// again returns the same Store.
func (b *Builder) Finish() *Store {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sealed != nil {
		return b.sealed
	}

	stats := b.store.Stats()
	logger.Infof("Finish: build %s: %d files, %d unique sectors, stored/input %d/%d bytes, dedupRate: %.2f%%, elapsed: %s",
		b.buildID, b.registry.Len(), b.store.Len(), stats.StoredBytes, stats.InputBytes,
		stats.DedupRate()*100, time.Since(b.start))

	b.sealed = &Store{
		store:    b.store,
		registry: b.registry,
		buildID:  b.buildID,
	}
	return b.sealed
}

// Store is the sealed, read-only result of a build. Nothing mutates it
// after Finish, so every method is safe for concurrent use without locks
// on the read path.
type Store struct {
	store    *ChunkStore
	registry *FileRegistry
	buildID  uuid.UUID
}

// BuildID returns the id of the build pass that produced this store.
func (s *Store) BuildID() uuid.UUID {
	return s.buildID
}

// Lookup returns the entry registered under path.
func (s *Store) Lookup(path string) (*FileEntry, bool) {
	return s.registry.Lookup(path)
}

// SizeOf returns the original byte size of the file at path.
func (s *Store) SizeOf(path string) (uint64, bool) {
	return s.registry.SizeOf(path)
}

// Paths returns all file paths in registration order.
func (s *Store) Paths() []string {
	return s.registry.Paths()
}

// FileCount returns the number of registered files.
func (s *Store) FileCount() int {
	return s.registry.Len()
}

// ChunkCount returns the number of unique sectors held.
func (s *Store) ChunkCount() int {
	return s.store.Len()
}

// Chunk returns the stored bytes of one sector.
func (s *Store) Chunk(fp Fingerprint) ([]byte, error) {
	return s.store.Get(fp)
}

// Fingerprints returns every stored fingerprint in byte order.
func (s *Store) Fingerprints() []Fingerprint {
	return s.store.Fingerprints()
}

// Stats returns the accounting counters of the build.
func (s *Store) Stats() StoreStats {
	return s.store.Stats()
}

// ResolveSectors maps an entry's fingerprints to their stored bytes, in
// file order. An UnknownChunkError here means the build pass itself was
// broken, not the caller's input.
func (s *Store) ResolveSectors(entry *FileEntry) ([][]byte, error) {
	sectors := make([][]byte, len(entry.Sectors))
	for i, fp := range entry.Sectors {
		data, err := s.store.Get(fp)
		if err != nil {
			logger.Errorf("ResolveSectors: %q sector %d: %v", entry.Path, i, err)
			return nil, err
		}
		sectors[i] = data
	}
	return sectors, nil
}

// ReadRange reads the byte window [offset, offset+length) of the file at
// path. A window past the end of the file yields a short or empty result.
func (s *Store) ReadRange(path string, offset, length uint64) ([][]byte, error) {
	entry, ok := s.registry.Lookup(path)
	if !ok {
		return nil, &PathNotFoundError{Path: path}
	}
	sectors, err := s.ResolveSectors(entry)
	if err != nil {
		return nil, err
	}
	return ReadRange(sectors, offset, length), nil
}
