package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bsansouci/ocaml-crunch/crunch"
	"github.com/bsansouci/ocaml-crunch/internal"
)

var logger = internal.GetLogger("Walker")

// WalkFunc receives one regular file per call: its slash-normalized path
// relative to the walk root, and its full content.
type WalkFunc func(path string, data []byte) error

// Walker traverses a directory tree in lexical order and hands every
// accepted regular file to a callback. A Walker with no options accepts
// everything.
type Walker struct {
	extensions *internal.StringSet
	maxSize    uint64
}

type Option func(*Walker)

// WithExtensions restricts the walk to files whose extension matches one of
// exts. Entries are case-insensitive and may carry the leading dot or not.
func WithExtensions(exts ...string) Option {
	return func(w *Walker) {
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			w.extensions.Add(ext)
		}
	}
}

// WithMaxFileSize skips files larger than limit bytes.
func WithMaxFileSize(limit uint64) Option {
	return func(w *Walker) {
		w.maxSize = limit
	}
}

func New(opts ...Option) *Walker {
	w := &Walker{extensions: internal.NewStringSet()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Walker) accept(name string) bool {
	if w.extensions.Len() == 0 {
		return true
	}
	return w.extensions.Contains(strings.ToLower(filepath.Ext(name)))
}

// Walk visits every accepted regular file under root in lexical order and
// calls fn with the file's relative path and content. It returns the number
// of files handed to fn. Symlinks and other non-regular entries are skipped.
func (w *Walker) Walk(root string, fn WalkFunc) (int, error) {
	visited := 0
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			logger.Tracef("Walk: skip non-regular entry %s", path)
			return nil
		}
		if !w.accept(entry.Name()) {
			return nil
		}
		if w.maxSize > 0 {
			info, err := entry.Info()
			if err != nil {
				return err
			}
			if uint64(info.Size()) > w.maxSize {
				logger.Tracef("Walk: skip %s: %d bytes over limit %d", path, info.Size(), w.maxSize)
				return nil
			}
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := fn(filepath.ToSlash(rel), data); err != nil {
			return err
		}
		visited++
		return nil
	})
	if err != nil {
		logger.Errorf("Walk: %v", err)
		return visited, err
	}
	logger.Debugf("Walk: visited %d files under %s", visited, root)
	return visited, nil
}

// WalkInto feeds every accepted file under root to a build in progress.
func (w *Walker) WalkInto(root string, b *crunch.Builder) (int, error) {
	return w.Walk(root, b.AddFile)
}
