package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"godelta/internal/command"
	"godelta/internal/fs"
	"godelta/pkg/godelta"
)

var errReplNeedsOneFile = errors.New("repl needs exactly one file argument: <delta>")

// ReplCmd returns the repl command: an interactive shell for stepping
// through a decoded delta's command stream, one command at a time.
func ReplCmd() *Command {
	fset := flag.NewFlagSet("repl", flag.ContinueOnError)

	return &Command{
		Flags: fset,
		Usage: "repl <delta>",
		Short: "Interactively step through a delta's command stream",
		Exec: func(_ context.Context, out *IO, args []string) error {
			return execRepl(out, args)
		},
	}
}

func execRepl(out *IO, args []string) error {
	if len(args) != 1 {
		return errReplNeedsOneFile
	}

	data, err := fs.NewReal().ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading delta: %w", err)
	}

	placed, isInplace, versionSize, err := godelta.DecodeDelta(data)
	if err != nil {
		return fmt.Errorf("decoding delta: %w", err)
	}

	out.Printf("loaded %d commands (inplace=%v, version size=%d)\n", len(placed), isInplace, versionSize)
	out.Println("commands: next (n), goto <i> (g), print <i> (p), quit (q)")

	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	cursor := 0

	for {
		input, err := line.Prompt(fmt.Sprintf("[%d/%d]> ", cursor, len(placed)))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil
			}

			return err
		}

		line.AppendHistory(input)

		cursor, err = replDispatch(out, placed, cursor, strings.TrimSpace(input))
		if err != nil {
			if errors.Is(err, errReplQuit) {
				return nil
			}

			out.Println("error:", err.Error())
		}
	}
}

var errReplQuit = errors.New("repl: quit requested")

func replDispatch(out *IO, placed []command.PlacedCommand, cursor int, input string) (int, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return cursor, nil
	}

	switch fields[0] {
	case "q", "quit":
		return cursor, errReplQuit
	case "n", "next":
		if cursor >= len(placed) {
			return cursor, nil
		}

		printCommand(out, cursor, placed[cursor])

		return cursor + 1, nil
	case "g", "goto":
		if len(fields) != 2 {
			return cursor, errReplBadArgs
		}

		i, err := strconv.Atoi(fields[1])
		if err != nil || i < 0 || i >= len(placed) {
			return cursor, errReplBadArgs
		}

		return i, nil
	case "p", "print":
		i := cursor
		if len(fields) == 2 {
			var err error

			i, err = strconv.Atoi(fields[1])
			if err != nil || i < 0 || i >= len(placed) {
				return cursor, errReplBadArgs
			}
		}

		printCommand(out, i, placed[i])

		return cursor, nil
	default:
		return cursor, errReplUnknownCommand
	}
}

var (
	errReplBadArgs        = errors.New("repl: bad or out-of-range argument")
	errReplUnknownCommand = errors.New("repl: unknown command")
)

func printCommand(out *IO, index int, p command.PlacedCommand) {
	switch p.Kind {
	case command.KindCopy:
		out.Printf("%d: COPY src=%d dst=%d len=%d\n", index, p.Src, p.Dst, p.Length)
	case command.KindAdd:
		out.Printf("%d: ADD dst=%d len=%d\n", index, p.Dst, len(p.Data))
	}
}
