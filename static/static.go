package static

import (
	"fmt"
	"io"

	"github.com/bsansouci/ocaml-crunch/crunch"
)

// File describes one file of an embedded image: its path, its original
// size and the indexes of its sectors in the image's sector table.
type File struct {
	Path    string
	Size    uint64
	Sectors []int
}

// Image is the flat form a generated source file carries: the deduplicated
// sector table and the file table referencing it by index.
type Image struct {
	Sectors []string
	Files   []File
}

// FS is a read-only file system reconstituted from an Image.
type FS struct {
	kv *crunch.KV
}

// New rebuilds the store captured in img and wraps it in a read-only file
// system. Every sector is re-fingerprinted on the way in, so an image
// damaged after generation is rejected here.
func New(img Image) (*FS, error) {
	chunks := make([][]byte, len(img.Sectors))
	for i, s := range img.Sectors {
		chunks[i] = []byte(s)
	}
	files := make([]crunch.ReconstituteFile, len(img.Files))
	for i, f := range img.Files {
		files[i] = crunch.ReconstituteFile{Path: f.Path, Size: f.Size, Sectors: f.Sectors}
	}
	store, err := crunch.Reconstitute(chunks, files)
	if err != nil {
		return nil, err
	}
	return &FS{kv: crunch.NewKV(store)}, nil
}

// MustNew is New for generated accessors. It panics when the image is
// damaged, which for generated code means the file was edited by hand.
func MustNew(img Image) *FS {
	fs, err := New(img)
	if err != nil {
		panic(fmt.Sprintf("static: corrupt embedded image: %v", err))
	}
	return fs
}

// Exists reports whether a file is embedded under path.
func (f *FS) Exists(path string) bool {
	return f.kv.Exists(path)
}

// Size returns the byte size of the file at path.
func (f *FS) Size(path string) (uint64, error) {
	return f.kv.Size(path)
}

// Read returns the fragments of the byte window [offset, offset+length) of
// the file at path.
func (f *FS) Read(path string, offset, length uint64) ([][]byte, error) {
	return f.kv.Read(path, offset, length)
}

// ReadAll returns the whole content of the file at path as one slice.
func (f *FS) ReadAll(path string) ([]byte, error) {
	return f.kv.ReadAll(path)
}

// ReadTo writes the byte window [offset, offset+length) of the file at
// path to w and returns the count written.
func (f *FS) ReadTo(w io.Writer, path string, offset, length uint64) (int64, error) {
	return f.kv.ReadTo(w, path, offset, length)
}

// Paths lists every embedded path in registration order.
func (f *FS) Paths() []string {
	return f.kv.Paths()
}
