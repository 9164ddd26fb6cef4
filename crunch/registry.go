// Copyright 2024 zhengshuai.xiao@outlook.com
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

import "sync"

// FileEntry records one registered file: its path, its original size, and
// the ordered fingerprints of its sectors. Sector order is file byte order;
// every sector is SectorSize long except possibly the last.
type FileEntry struct {
	Path    string
	Size    uint64
	Sectors []Fingerprint
}

// FileRegistry maps paths to their entries. Paths are byte-exact keys and
// register exactly once; enumeration follows registration order so emitters
// walk the registry deterministically.
type FileRegistry struct {
	mu      sync.Mutex
	entries map[string]*FileEntry
	order   []string
}

func NewFileRegistry() *FileRegistry {
	return &FileRegistry{entries: make(map[string]*FileEntry)}
}

// Register records entry under its path. Registering a path twice fails
// with a DuplicatePathError whether or not the contents match.
func (r *FileRegistry) Register(entry *FileEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.Path]; ok {
		logger.Errorf("Register: duplicate path %q", entry.Path)
		return &DuplicatePathError{Path: entry.Path}
	}
	r.entries[entry.Path] = entry
	r.order = append(r.order, entry.Path)
	return nil
}

// Lookup returns the entry registered under path.
func (r *FileRegistry) Lookup(path string) (*FileEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[path]
	return entry, ok
}

// SizeOf returns the original byte size of the file registered under path.
func (r *FileRegistry) SizeOf(path string) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[path]
	if !ok {
		return 0, false
	}
	return entry.Size, true
}

// Paths returns all registered paths in registration order.
func (r *FileRegistry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, len(r.order))
	copy(paths, r.order)
	return paths
}

// Len returns the number of registered files.
func (r *FileRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
