package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/bsansouci/ocaml-crunch/gen"
	"github.com/bsansouci/ocaml-crunch/internal"
	"github.com/urfave/cli/v2"
)

func cmdGenerate() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "static.go",
			Usage:   "path of the generated Go source file",
		},
		&cli.StringFlag{
			Name:  "package",
			Value: "static",
			Usage: "package clause of the generated file",
		},
		&cli.StringFlag{
			Name:  "var",
			Value: "Assets",
			Usage: "name of the generated accessor function",
		},
		&cli.StringFlag{
			Name:  "build-tag",
			Usage: "emit a //go:build constraint above the package clause",
		},
	}

	return &cli.Command{
		Name:      "generate",
		Action:    generate,
		Category:  "TOOL",
		Usage:     "Compile a directory into a generated Go source file",
		ArgsUsage: "DIR",
		Description: `
			Walks DIR, splits every file into fixed 4 KiB sectors, stores each
			distinct sector once and emits the result as a Go source file with
			a lazy accessor.

			Examples:
			$ crunch generate ./webroot -o assets.go --package assets --ext html --ext css`,
		Flags: expandFlags(selfFlags, walkFlags()),
	}
}

func generate(c *cli.Context) error {
	setup(c)
	if c.NArg() != 1 {
		return fmt.Errorf("generate expects exactly one DIR argument")
	}

	store, visited, err := buildFromDir(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = gen.WriteGo(&buf, store, gen.Options{
		Package:  c.String("package"),
		VarName:  c.String("var"),
		BuildTag: c.String("build-tag"),
	})
	if err != nil {
		return err
	}

	output := c.String("output")
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := internal.WriteAll(f, buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	stats := store.Stats()
	logger.Infof("generate: %d files, %d unique sectors, %s in, %s stored, dedupRate: %.2f%% -> %s",
		visited, store.ChunkCount(), internal.FormatBytes(stats.InputBytes), internal.FormatBytes(stats.StoredBytes), stats.DedupRate()*100, output)
	return nil
}

func cmdSnapshot() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   "store.snap",
			Usage:   "path of the snapshot archive",
		},
		&cli.StringFlag{
			Name:  "compression",
			Usage: "compress sectors with the specified algorithm: none/snappy/zlib",
			Value: "snappy",
		},
	}

	return &cli.Command{
		Name:      "snapshot",
		Action:    snapshot,
		Category:  "TOOL",
		Usage:     "Compile a directory into a binary snapshot archive",
		ArgsUsage: "DIR",
		Description: `
			Walks DIR the same way generate does, then writes the deduplicated
			store as a compact binary archive instead of Go source. The archive
			is self-verifying: every sector carries its fingerprint and a CRC.

			Examples:
			$ crunch snapshot ./webroot -o webroot.snap --compression zlib`,
		Flags: expandFlags(selfFlags, walkFlags()),
	}
}

func snapshot(c *cli.Context) error {
	setup(c)
	if c.NArg() != 1 {
		return fmt.Errorf("snapshot expects exactly one DIR argument")
	}

	store, visited, err := buildFromDir(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	output := c.String("output")
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gen.WriteSnapshot(f, store, gen.SnapshotOptions{Compression: c.String("compression")}); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	stats := store.Stats()
	logger.Infof("snapshot: %d files, %d unique sectors, %s in, %s stored, dedupRate: %.2f%% -> %s",
		visited, store.ChunkCount(), internal.FormatBytes(stats.InputBytes), internal.FormatBytes(stats.StoredBytes), stats.DedupRate()*100, output)
	return nil
}
