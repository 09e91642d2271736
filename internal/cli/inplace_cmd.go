package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"godelta/internal/fs"
	"godelta/pkg/godelta"
)

var (
	errInplaceNeedsTwoFiles  = errors.New("inplace needs exactly two file arguments: <reference> <delta>")
	errInplaceAlreadyInPlace = errors.New("delta is already an in-place delta")
)

// InplaceCmd returns the inplace command, converting a standard delta
// into an in-place delta without re-diffing (spec §4.6 "convert").
func InplaceCmd(defaultPolicy string) *Command {
	fset := flag.NewFlagSet("inplace", flag.ContinueOnError)
	out := fset.StringP("out", "o", "", "write the converted delta to `file` instead of stdout")
	policy := fset.String("policy", defaultPolicy, "cycle-breaking policy: local-min, constant")
	resolveFS := faultInjectFlags(fset)

	return &Command{
		Flags: fset,
		Usage: "inplace <reference> <delta> [flags]",
		Short: "Convert a standard delta into an in-place delta",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execInplace(io, args, *out, *policy, resolveFS())
		},
	}
}

func execInplace(io *IO, args []string, out, policyName string, destFS fs.FS) error {
	if len(args) != 2 {
		return errInplaceNeedsTwoFiles
	}

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

	if isInplace {
		return errInplaceAlreadyInPlace
	}

	pol, err := parsePolicy(policyName)
	if err != nil {
		return err
	}

	cmds := godelta.UnplaceCommands(placed)
	converted := godelta.MakeInplace(r, cmds, pol)
	data := godelta.EncodeDelta(converted, true, versionSize)

	return writeOutput(io, destFS, out, data)
}
