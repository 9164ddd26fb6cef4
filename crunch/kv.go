package crunch

import (
	"io"
	"strings"
)

// KV is the read-only query facade over a sealed Store. It applies the path
// convention embedding callers expect: one leading '/' is trimmed before
// lookup, and missing paths surface as PathNotFoundError.
type KV struct {
	store *Store
}

func NewKV(store *Store) *KV {
	return &KV{store: store}
}

func normalizePath(path string) string {
	return strings.TrimPrefix(path, "/")
}

// Exists reports whether a file is registered under path.
func (kv *KV) Exists(path string) bool {
	_, ok := kv.store.Lookup(normalizePath(path))
	return ok
}

// Size returns the byte size of the file at path.
func (kv *KV) Size(path string) (uint64, error) {
	name := normalizePath(path)
	size, ok := kv.store.SizeOf(name)
	if !ok {
		return 0, &PathNotFoundError{Path: name}
	}
	return size, nil
}

// Read returns the fragments of the byte window [offset, offset+length) of
// the file at path. A window past the end yields a short or empty result.
func (kv *KV) Read(path string, offset, length uint64) ([][]byte, error) {
	return kv.store.ReadRange(normalizePath(path), offset, length)
}

// ReadAll returns the whole content of the file at path as one slice.
func (kv *KV) ReadAll(path string) ([]byte, error) {
	name := normalizePath(path)
	entry, ok := kv.store.Lookup(name)
	if !ok {
		return nil, &PathNotFoundError{Path: name}
	}
	sectors, err := kv.store.ResolveSectors(entry)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, entry.Size)
	for _, sector := range sectors {
		out = append(out, sector...)
	}
	return out, nil
}

// ReadTo writes the byte window [offset, offset+length) of the file at path
// to w. It returns the count actually written, so callers detect a short
// read by comparing against length.
func (kv *KV) ReadTo(w io.Writer, path string, offset, length uint64) (int64, error) {
	fragments, err := kv.Read(path, offset, length)
	if err != nil {
		return 0, err
	}
	var written int64
	for _, frag := range fragments {
		n, err := w.Write(frag)
		written += int64(n)
		if err != nil {
			logger.Errorf("ReadTo: write failed after %d bytes: %v", written, err)
			return written, err
		}
	}
	return written, nil
}

// Paths lists every registered path in registration order.
func (kv *KV) Paths() []string {
	return kv.store.Paths()
}
