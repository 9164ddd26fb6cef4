package walker

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bsansouci/ocaml-crunch/crunch"
)

func writeTree(t *testing.T, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	for path, data := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		err := os.MkdirAll(filepath.Dir(full), 0755)
		assert.NoError(t, err)
		err = os.WriteFile(full, data, 0644)
		assert.NoError(t, err)
	}
	return root
}

func TestWalkVisitsInLexicalOrder(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"z.bin":      []byte("zzzz"),
		"a.txt":      []byte("alpha"),
		"sub/b.txt":  []byte("beta"),
		"sub/c.html": []byte("<html></html>"),
	})

	var paths []string
	seen := make(map[string][]byte)
	visited, err := New().Walk(root, func(path string, data []byte) error {
		paths = append(paths, path)
		seen[path] = data
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 4, visited)
	assert.Equal(t, []string{"a.txt", "sub/b.txt", "sub/c.html", "z.bin"}, paths)
	assert.Equal(t, []byte("alpha"), seen["a.txt"])
	assert.Equal(t, []byte("<html></html>"), seen["sub/c.html"])
}

func TestWalkExtensionFilter(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"a.txt":      []byte("alpha"),
		"z.bin":      []byte("zzzz"),
		"sub/c.HTML": []byte("upper"),
	})

	// Extensions match case-insensitively, with or without the dot.
	var paths []string
	visited, err := New(WithExtensions("txt", ".html")).Walk(root, func(path string, data []byte) error {
		paths = append(paths, path)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, visited)
	assert.Equal(t, []string{"a.txt", "sub/c.HTML"}, paths)
}

func TestWalkMaxFileSize(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"small.txt": []byte("ok"),
		"large.txt": make([]byte, 64),
	})

	var paths []string
	visited, err := New(WithMaxFileSize(10)).Walk(root, func(path string, data []byte) error {
		paths = append(paths, path)
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, visited)
	assert.Equal(t, []string{"small.txt"}, paths)
}

func TestWalkPropagatesCallbackError(t *testing.T) {
	root := writeTree(t, map[string][]byte{
		"a.txt": []byte("alpha"),
		"b.txt": []byte("beta"),
	})

	boom := errors.New("boom")
	visited, err := New().Walk(root, func(path string, data []byte) error {
		if path == "b.txt" {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, visited)
}

func TestWalkMissingRoot(t *testing.T) {
	_, err := New().Walk(filepath.Join(t.TempDir(), "nope"), func(path string, data []byte) error {
		return nil
	})
	assert.Error(t, err)
}

func TestWalkInto(t *testing.T) {
	content := make([]byte, 6000)
	for i := range content {
		content[i] = byte(i % 251)
	}
	root := writeTree(t, map[string][]byte{
		"assets/app.js": content,
		"index.html":    []byte("<html>hello</html>"),
	})

	b := crunch.NewBuilder()
	visited, err := New().WalkInto(root, b)
	assert.NoError(t, err)
	assert.Equal(t, 2, visited)

	store := b.Finish()
	assert.Equal(t, []string{"assets/app.js", "index.html"}, store.Paths())

	data, err := crunch.NewKV(store).ReadAll("assets/app.js")
	assert.NoError(t, err)
	assert.Equal(t, content, data)
}
