package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"godelta/internal/config"
	"godelta/internal/diagnostics"
	"godelta/internal/engine"
	"godelta/internal/fs"
	"godelta/pkg/godelta"
)

var errDiffNeedsTwoFiles = errors.New("diff needs exactly two file arguments: <reference> <version>")

// DiffCmd returns the diff command: diff <reference> <version> -o <delta>.
func DiffCmd(cfg config.Config) *Command {
	fset := flag.NewFlagSet("diff", flag.ContinueOnError)
	out := fset.StringP("out", "o", "", "write the delta to `file` instead of stdout")
	algorithm := fset.String("algorithm", cfg.Algorithm, "differencing algorithm: greedy, onepass, correcting")
	seedLen := fset.Int("seed-len", cfg.SeedLen, "minimum match length (seed window)")
	tableSize := fset.Uint64("table-size", cfg.TableSize, "index table size floor")
	useSplay := fset.Bool("use-splay", cfg.UseSplay, "use the splay-tree index backing instead of the direct table")
	bufCap := fset.Int("buf-cap", cfg.BufCap, "correcting engine's lookback buffer capacity")
	inplace := fset.Bool("inplace", false, "produce an in-place delta")
	policy := fset.String("policy", cfg.Policy, "in-place cycle-breaking policy: local-min, constant")
	verbose := fset.BoolP("verbose", "v", false, "emit diagnostics to stderr")
	resolveFS := faultInjectFlags(fset)

	return &Command{
		Flags: fset,
		Usage: "diff <reference> <version> [flags]",
		Short: "Compute a delta turning <reference> into <version>",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execDiff(io, args, diffFlags{
				algorithm: *algorithm,
				seedLen:   *seedLen,
				tableSize: *tableSize,
				useSplay:  *useSplay,
				bufCap:    *bufCap,
				inplace:   *inplace,
				policy:    *policy,
				verbose:   *verbose,
				out:       *out,
			}, resolveFS())
		},
	}
}

type diffFlags struct {
	algorithm string
	seedLen   int
	tableSize uint64
	useSplay  bool
	bufCap    int
	inplace   bool
	policy    string
	verbose   bool
	out       string
}

func execDiff(io *IO, args []string, f diffFlags, destFS fs.FS) error {
	if len(args) != 2 {
		return errDiffNeedsTwoFiles
	}

	log := diagnostics.New(os.Stderr, f.verbose)

	r, closeR, err := fs.MmapReadOnly(args[0])
	if err != nil {
		return fmt.Errorf("reading reference: %w", err)
	}
	defer closeR()

	v, closeV, err := fs.MmapReadOnly(args[1])
	if err != nil {
		return fmt.Errorf("reading version: %w", err)
	}
	defer closeV()

	log.Printf("diffing %d reference bytes against %d version bytes with %s", len(r), len(v), f.algorithm)

	opts := engine.Options{SeedLen: f.seedLen, TableSize: f.tableSize, UseSplay: f.useSplay, BufCap: f.bufCap}

	cmds, err := godelta.Diff(godelta.Algorithm(f.algorithm), r, v, opts)
	if err != nil {
		return err
	}

	var placed []godelta.PlacedCommand
	if f.inplace {
		pol, err := parsePolicy(f.policy)
		if err != nil {
			return err
		}

		placed = godelta.MakeInplace(r, cmds, pol)
	} else {
		placed = godelta.PlaceCommands(cmds)
	}

	data := godelta.EncodeDelta(placed, f.inplace, uint32(len(v))) //nolint:gosec

	log.Printf("encoded delta: %d bytes, %d commands", len(data), len(placed))

	return writeOutput(io, destFS, f.out, data)
}

// writeOutput writes data to path through destFS, or to io's stdout when
// path is empty. destFS is normally [fs.Real]; CLI subcommands accept a
// hidden --inject-write-faults flag that swaps in an [fs.Chaos]-wrapped
// FS instead, so fault-injection harnesses can drive this exact write
// path without rebuilding the binary.
func writeOutput(io *IO, destFS fs.FS, path string, data []byte) error {
	if path == "" {
		_, err := io.out.Write(data)
		return err
	}

	return destFS.WriteFileAtomic(path, data, 0o644) //nolint:gomnd
}

var errUnknownPolicy = errors.New("unknown in-place policy (want local-min or constant)")

func parsePolicy(name string) (godelta.Policy, error) {
	switch name {
	case "local-min", "":
		return godelta.LocalMin, nil
	case "constant":
		return godelta.Constant, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownPolicy, name)
	}
}
