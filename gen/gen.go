package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strconv"
	"strings"

	"github.com/bsansouci/ocaml-crunch/crunch"
	"github.com/bsansouci/ocaml-crunch/internal"
)

var logger = internal.GetLogger("Gen")

// staticImportPath is the runtime package every generated file depends on.
const staticImportPath = "github.com/bsansouci/ocaml-crunch/static"

// reservedNames are identifiers the generated file already binds as
// imports; an accessor by the same name would redeclare them.
var reservedNames = map[string]bool{
	"static": true,
	"sync":   true,
}

// Options controls the shape of an emitted Go source file.
type Options struct {
	// Package is the package clause of the generated file. Default "static".
	Package string
	// VarName names the exported accessor function. Default "Assets".
	VarName string
	// BuildTag, when set, emits a //go:build constraint above the package
	// clause.
	BuildTag string
}

func (o *Options) setDefaults() {
	if o.Package == "" {
		o.Package = "static"
	}
	if o.VarName == "" {
		o.VarName = "Assets"
	}
}

// tables flattens a sealed store into emission order: the deduplicated
// sector table in first-use order, the fingerprint recorded for each
// sector, and the file table referencing sectors by index.
func tables(store *crunch.Store) ([][]byte, []crunch.Fingerprint, []crunch.ReconstituteFile, error) {
	index := make(map[crunch.Fingerprint]int)
	var chunks [][]byte
	var fps []crunch.Fingerprint
	var files []crunch.ReconstituteFile

	for _, path := range store.Paths() {
		entry, ok := store.Lookup(path)
		if !ok {
			return nil, nil, nil, &crunch.PathNotFoundError{Path: path}
		}
		rf := crunch.ReconstituteFile{
			Path:    entry.Path,
			Size:    entry.Size,
			Sectors: make([]int, 0, len(entry.Sectors)),
		}
		for _, fp := range entry.Sectors {
			idx, seen := index[fp]
			if !seen {
				data, err := store.Chunk(fp)
				if err != nil {
					return nil, nil, nil, err
				}
				idx = len(chunks)
				chunks = append(chunks, data)
				fps = append(fps, fp)
				index[fp] = idx
			}
			rf.Sectors = append(rf.Sectors, idx)
		}
		files = append(files, rf)
	}
	return chunks, fps, files, nil
}

// WriteGo emits store as a generated Go source file: the deduplicated
// sector table as string literals, the file table, and a lazy accessor
// returning the reconstituted file system. The output is gofmt-formatted
// and carries the standard DO-NOT-EDIT banner.
func WriteGo(w io.Writer, store *crunch.Store, opts Options) error {
	opts.setDefaults()
	if !token.IsIdentifier(opts.Package) {
		return fmt.Errorf("invalid package name %q", opts.Package)
	}
	if !token.IsIdentifier(opts.VarName) {
		return fmt.Errorf("invalid accessor name %q", opts.VarName)
	}
	if reservedNames[opts.VarName] {
		return fmt.Errorf("accessor name %q collides with an import of the generated file", opts.VarName)
	}

	chunks, _, files, err := tables(store)
	if err != nil {
		return err
	}

	prefix := strings.ToLower(opts.VarName[:1]) + opts.VarName[1:]

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by crunch v%s; DO NOT EDIT.\n\n", internal.Version())
	if opts.BuildTag != "" {
		fmt.Fprintf(&buf, "//go:build %s\n\n", opts.BuildTag)
	}
	fmt.Fprintf(&buf, "package %s\n\n", opts.Package)
	fmt.Fprintf(&buf, "import (\n\t\"sync\"\n\n\t%q\n)\n\n", staticImportPath)

	fmt.Fprintf(&buf, "// %s returns the file system compiled into this file. The image is\n", opts.VarName)
	fmt.Fprintf(&buf, "// reconstituted once, on first use.\n")
	fmt.Fprintf(&buf, "func %s() *static.FS {\n", opts.VarName)
	fmt.Fprintf(&buf, "\t%sOnce.Do(func() {\n", prefix)
	fmt.Fprintf(&buf, "\t\t%sFS = static.MustNew(%sImage)\n", prefix, prefix)
	fmt.Fprintf(&buf, "\t})\n")
	fmt.Fprintf(&buf, "\treturn %sFS\n", prefix)
	fmt.Fprintf(&buf, "}\n\n")

	fmt.Fprintf(&buf, "var (\n\t%sOnce sync.Once\n\t%sFS *static.FS\n)\n\n", prefix, prefix)

	fmt.Fprintf(&buf, "var %sImage = static.Image{\n", prefix)
	fmt.Fprintf(&buf, "\tSectors: []string{\n")
	for _, chunk := range chunks {
		fmt.Fprintf(&buf, "\t\t%s,\n", strconv.Quote(string(chunk)))
	}
	fmt.Fprintf(&buf, "\t},\n")
	fmt.Fprintf(&buf, "\tFiles: []static.File{\n")
	for _, f := range files {
		fmt.Fprintf(&buf, "\t\t{Path: %s, Size: %d, Sectors: %s},\n",
			strconv.Quote(f.Path), f.Size, intSliceLiteral(f.Sectors))
	}
	fmt.Fprintf(&buf, "\t},\n")
	fmt.Fprintf(&buf, "}\n")

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("formatting generated source: %w", err)
	}
	if _, err := w.Write(src); err != nil {
		return err
	}
	logger.Debugf("WriteGo: emitted %d sectors, %d files, %d bytes of source", len(chunks), len(files), len(src))
	return nil
}

func intSliceLiteral(xs []int) string {
	var sb strings.Builder
	sb.WriteString("[]int{")
	for i, x := range xs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(x))
	}
	sb.WriteString("}")
	return sb.String()
}
