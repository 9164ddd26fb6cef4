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
	"bytes"
	"sort"
	"sync"
)

// StoreStats carries the accounting counters of one build.
type StoreStats struct {
	Puts        uint64 // chunks offered to the store
	Hits        uint64 // puts answered by an existing identical chunk
	InputBytes  uint64 // bytes offered across all puts
	StoredBytes uint64 // bytes actually held after deduplication
}

// DedupRate returns the fraction of input bytes the store did not have to
// keep. Zero input yields a zero rate.
func (st StoreStats) DedupRate() float64 {
	if st.InputBytes == 0 {
		return 0
	}
	return float64(st.InputBytes-st.StoredBytes) / float64(st.InputBytes)
}

// ChunkStore maps fingerprints to immutable chunk bytes. Inserts are
// check-then-insert under one lock, so independent files may be chunked
// from multiple goroutines against the same store.
type ChunkStore struct {
	mu     sync.Mutex
	chunks map[Fingerprint][]byte
	hasher Hasher
	stats  StoreStats
}

type StoreOption func(*ChunkStore)

// WithHasher overrides the default BLAKE3 fingerprint function.
func WithHasher(h Hasher) StoreOption {
	return func(s *ChunkStore) {
		s.hasher = h
	}
}

func NewChunkStore(opts ...StoreOption) *ChunkStore {
	s := &ChunkStore{
		chunks: make(map[Fingerprint][]byte),
		hasher: ComputeFingerprint,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a chunk and returns its fingerprint. A chunk whose bytes are
// already held dedups to the existing copy; a chunk whose fingerprint is
// held under different bytes fails with a CollisionError.
func (s *ChunkStore) Put(data []byte) (Fingerprint, error) {
	return s.put(data, "")
}

func (s *ChunkStore) put(data []byte, path string) (Fingerprint, error) {
	fp := s.hasher(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.Puts++
	s.stats.InputBytes += uint64(len(data))

	if existing, ok := s.chunks[fp]; ok {
		if !bytes.Equal(existing, data) {
			logger.Errorf("put: fingerprint collision on %s, store is poisoned", fp.Short())
			return fp, &CollisionError{FP: fp, Path: path}
		}
		s.stats.Hits++
		logger.Tracef("put: dedup hit %s (%d bytes)", fp.Short(), len(data))
		return fp, nil
	}

	// The store owns its bytes: callers may reuse their buffers.
	owned := make([]byte, len(data))
	copy(owned, data)
	s.chunks[fp] = owned
	s.stats.StoredBytes += uint64(len(data))
	logger.Tracef("put: stored new chunk %s (%d bytes)", fp.Short(), len(data))
	return fp, nil
}

// Get returns the chunk stored under fp. The returned slice is owned by the
// store and must not be modified.
func (s *ChunkStore) Get(fp Fingerprint) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.chunks[fp]
	if !ok {
		return nil, &UnknownChunkError{FP: fp}
	}
	return data, nil
}

// Len returns the number of unique chunks held.
func (s *ChunkStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Stats returns a snapshot of the accounting counters.
func (s *ChunkStore) Stats() StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Fingerprints returns every stored fingerprint in byte order, so emitters
// enumerate the store deterministically.
func (s *ChunkStore) Fingerprints() []Fingerprint {
	s.mu.Lock()
	defer s.mu.Unlock()

	fps := make([]Fingerprint, 0, len(s.chunks))
	for fp := range s.chunks {
		fps = append(fps, fp)
	}
	sort.Slice(fps, func(i, j int) bool {
		return bytes.Compare(fps[i][:], fps[j][:]) < 0
	})
	return fps
}
