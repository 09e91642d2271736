package cli

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"godelta/internal/command"
	"godelta/internal/fs"
	"godelta/pkg/godelta"
)

var errInfoNeedsOneFile = errors.New("info needs exactly one file argument: <delta>")

// InfoCmd returns the info command: decode a delta and print a summary
// of its command stream without applying it.
func InfoCmd() *Command {
	fset := flag.NewFlagSet("info", flag.ContinueOnError)

	return &Command{
		Flags: fset,
		Usage: "info <delta>",
		Short: "Print summary statistics for a delta file",
		Exec: func(_ context.Context, io *IO, args []string) error {
			return execInfo(io, args)
		},
	}
}

func execInfo(io *IO, args []string) error {
	if len(args) != 1 {
		return errInfoNeedsOneFile
	}

	data, err := fs.NewReal().ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading delta: %w", err)
	}

	placed, isInplace, versionSize, err := godelta.DecodeDelta(data)
	if err != nil {
		return fmt.Errorf("decoding delta: %w", err)
	}

	var copies, adds int
	var copyBytes, addBytes uint64

	for _, p := range placed {
		switch p.Kind {
		case command.KindCopy:
			copies++
			copyBytes += uint64(p.Length)
		case command.KindAdd:
			adds++
			addBytes += uint64(len(p.Data))
		}
	}

	io.Printf("file:        %s\n", args[0])
	io.Printf("size:        %d bytes\n", len(data))
	io.Printf("inplace:     %v\n", isInplace)
	io.Printf("version size: %d bytes\n", versionSize)
	io.Printf("commands:    %d\n", len(placed))
	io.Printf("  copy:      %d (%d bytes)\n", copies, copyBytes)
	io.Printf("  add:       %d (%d bytes)\n", adds, addBytes)

	return nil
}
