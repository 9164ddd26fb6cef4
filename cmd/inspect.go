package cmd

import (
	"fmt"
	"os"

	"github.com/bsansouci/ocaml-crunch/crunch"
	"github.com/bsansouci/ocaml-crunch/internal"
	"github.com/urfave/cli/v2"
)

func cmdLs() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Action:    ls,
		Category:  "INSPECTOR",
		Usage:     "List the files a directory would embed",
		ArgsUsage: "DIR",
		Flags:     expandFlags(walkFlags()),
	}
}

func ls(c *cli.Context) error {
	setup(c)
	if c.NArg() != 1 {
		return fmt.Errorf("ls expects exactly one DIR argument")
	}

	store, _, err := buildFromDir(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	for _, p := range store.Paths() {
		size, _ := store.SizeOf(p)
		fmt.Printf("%12d  %s\n", size, p)
	}
	stats := store.Stats()
	fmt.Printf("%d files, %d unique sectors, %s in, %s stored, dedupRate: %.2f%%\n",
		store.FileCount(), store.ChunkCount(), internal.FormatBytes(stats.InputBytes), internal.FormatBytes(stats.StoredBytes), stats.DedupRate()*100)
	return nil
}

func cmdStat() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Action:    stat,
		Category:  "INSPECTOR",
		Usage:     "Show the sector layout of one embedded file",
		ArgsUsage: "DIR PATH",
		Flags:     expandFlags(walkFlags()),
	}
}

func stat(c *cli.Context) error {
	setup(c)
	if c.NArg() != 2 {
		return fmt.Errorf("stat expects DIR and PATH arguments")
	}

	store, _, err := buildFromDir(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	name := c.Args().Get(1)
	entry, ok := store.Lookup(name)
	if !ok {
		return &crunch.PathNotFoundError{Path: name}
	}

	fmt.Printf("path:    %s\n", entry.Path)
	fmt.Printf("size:    %s\n", internal.FormatBytes(entry.Size))
	fmt.Printf("sectors: %d\n", len(entry.Sectors))
	for i, fp := range entry.Sectors {
		fmt.Printf("  [%d] %s\n", i, fp.Hex())
	}
	return nil
}

func cmdCat() *cli.Command {
	selfFlags := []cli.Flag{
		&cli.Uint64Flag{
			Name:  "offset",
			Usage: "first byte to read",
		},
		&cli.Uint64Flag{
			Name:  "length",
			Usage: "number of bytes to read, to the end of the file when omitted",
		},
	}

	return &cli.Command{
		Name:      "cat",
		Action:    cat,
		Category:  "INSPECTOR",
		Usage:     "Write an embedded file, or a byte range of it, to stdout",
		ArgsUsage: "DIR PATH",
		Flags:     expandFlags(selfFlags, walkFlags()),
	}
}

func cat(c *cli.Context) error {
	setup(c)
	if c.NArg() != 2 {
		return fmt.Errorf("cat expects DIR and PATH arguments")
	}

	store, _, err := buildFromDir(c, c.Args().Get(0))
	if err != nil {
		return err
	}

	kv := crunch.NewKV(store)
	name := c.Args().Get(1)
	size, err := kv.Size(name)
	if err != nil {
		return err
	}

	offset := c.Uint64("offset")
	length := c.Uint64("length")
	if !c.IsSet("length") && offset < size {
		length = size - offset
	}

	_, err = kv.ReadTo(os.Stdout, name, offset, length)
	return err
}
