package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"godelta/internal/diagnostics"
	"godelta/internal/fs"
	"godelta/pkg/godelta"
)

var errPatchNeedsTwoFiles = errors.New("patch needs exactly two file arguments: <reference> <delta>")

// PatchCmd returns the patch command: patch <reference> <delta> -o <version>.
func PatchCmd() *Command {
	fset := flag.NewFlagSet("patch", flag.ContinueOnError)
	out := fset.StringP("out", "o", "", "write the reconstructed version to `file` instead of stdout")
	verbose := fset.BoolP("verbose", "v", false, "emit diagnostics to stderr")
	resolveFS := faultInjectFlags(fset)

	return &Command{
		Flags: fset,
		Usage: "patch <reference> <delta> [flags]",
		Short: "Apply a delta to <reference>, reconstructing the version",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execPatch(io, args, *out, *verbose, resolveFS())
		},
	}
}

func execPatch(io *IO, args []string, out string, verbose bool, destFS fs.FS) error {
	if len(args) != 2 {
		return errPatchNeedsTwoFiles
	}

	log := diagnostics.New(os.Stderr, verbose)

	r, closeR, err := fs.MmapReadOnly(args[0])
	if err != nil {
		return fmt.Errorf("reading reference: %w", err)
	}
	defer closeR()

	deltaBytes, err := fs.NewReal().ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading delta: %w", err)
	}

	placed, isInplace, versionSize, err := godelta.DecodeDelta(deltaBytes)
	if err != nil {
		return fmt.Errorf("decoding delta: %w", err)
	}

	log.Printf("decoded delta: %d commands, inplace=%v, version size=%d", len(placed), isInplace, versionSize)

	var version []byte
	if isInplace {
		version, err = godelta.ApplyPlacedInplace(r, placed, versionSize)
	} else {
		version, err = godelta.ApplyPlaced(r, placed, versionSize)
	}

	if err != nil {
		return fmt.Errorf("applying delta: %w", err)
	}

	return writeOutput(io, destFS, out, version)
}
