package cmd

import (
	"fmt"
	"path"

	"github.com/bsansouci/ocaml-crunch/crunch"
	"github.com/bsansouci/ocaml-crunch/internal"
	"github.com/bsansouci/ocaml-crunch/walker"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "loglevel",
			Usage: "log level: trace/debug/info/warn/error",
			Value: "info",
		},
		&cli.StringFlag{
			Name:  "logdir",
			Usage: "path for log files, log to stderr when empty",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colors in log output",
		},
	}
}

// walkFlags are shared by every command that builds a store from a directory.
func walkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "ext",
			Aliases: []string{"e"},
			Usage:   "only include files with this extension, repeatable",
		},
		&cli.Uint64Flag{
			Name:  "max-file-size",
			Usage: "skip files larger than this many bytes",
		},
	}
}

func expandFlags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// setup applies the global logging flags. Every command action calls it
// first.
func setup(c *cli.Context) {
	switch c.String("loglevel") {
	case "trace":
		internal.SetLogLevel(logrus.TraceLevel)
	case "debug":
		internal.SetLogLevel(logrus.DebugLevel)
	case "info":
		internal.SetLogLevel(logrus.InfoLevel)
	case "warn":
		internal.SetLogLevel(logrus.WarnLevel)
	case "error":
		internal.SetLogLevel(logrus.ErrorLevel)
	default:
		internal.SetLogLevel(logrus.InfoLevel)
	}

	if c.Bool("no-color") {
		internal.DisableLogColor()
	}

	if logDir := c.String("logdir"); logDir != "" {
		internal.SetOutFile(path.Join(logDir, "crunch.log"))
	}
}

// buildFromDir walks dir per the command's filter flags and seals a store.
func buildFromDir(c *cli.Context, dir string) (*crunch.Store, int, error) {
	if !internal.Exists(dir) {
		return nil, 0, fmt.Errorf("directory %s does not exist", dir)
	}

	var opts []walker.Option
	if exts := c.StringSlice("ext"); len(exts) > 0 {
		opts = append(opts, walker.WithExtensions(exts...))
	}
	if limit := c.Uint64("max-file-size"); limit > 0 {
		opts = append(opts, walker.WithMaxFileSize(limit))
	}

	b := crunch.NewBuilder()
	visited, err := walker.New(opts...).WalkInto(dir, b)
	if err != nil {
		return nil, 0, err
	}
	return b.Finish(), visited, nil
}
