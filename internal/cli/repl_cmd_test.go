package cli_test

import (
	"testing"

	"godelta/internal/cli"
)

func TestReplMissingFile(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("repl", "nonexistent.delta")
	cli.AssertContains(t, stderr, "reading delta")
}

func TestReplRejectsWrongArgCount(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("repl")
	cli.AssertContains(t, stderr, "repl needs exactly one file argument")
}
