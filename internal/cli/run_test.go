package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestMainHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{"godelta"}},
		{name: "long flag", args: []string{"godelta", "--help"}},
		{name: "short flag", args: []string{"godelta", "-h"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer

			exitCode := Run(nil, &stdout, &stderr, testCase.args, nil, nil)

			if exitCode != 0 {
				t.Errorf("exit code = %d, want 0", exitCode)
			}

			if stderr.String() != "" {
				t.Errorf("stderr = %q, want empty", stderr.String())
			}

			out := stdout.String()

			if !strings.Contains(out, "godelta - binary differential compression") {
				t.Errorf("stdout should contain title")
			}

			if !strings.Contains(out, "--cwd") {
				t.Errorf("stdout should contain --cwd option")
			}

			if !strings.Contains(out, "diff") {
				t.Errorf("stdout should contain diff command")
			}

			if !strings.Contains(out, "patch") {
				t.Errorf("stdout should contain patch command")
			}
		})
	}
}

func TestMainUnknownCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer

	exitCode := Run(nil, &stdout, &stderr, []string{"godelta", "bogus"}, nil, nil)

	if exitCode != 1 {
		t.Errorf("exit code = %d, want 1", exitCode)
	}

	if !strings.Contains(stderr.String(), "unknown command") {
		t.Errorf("stderr should mention unknown command, got %q", stderr.String())
	}
}
