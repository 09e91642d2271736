package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"godelta/internal/config"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(cfg config.Config) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			return execPrintConfig(io, cfg)
		},
	}
}

func execPrintConfig(io *IO, cfg config.Config) error {
	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("algorithm=" + cfg.Algorithm)
	io.Printf("seed_len=%d\n", cfg.SeedLen)
	io.Printf("table_size=%d\n", cfg.TableSize)
	io.Printf("use_splay=%v\n", cfg.UseSplay)
	io.Printf("buf_cap=%d\n", cfg.BufCap)
	io.Println("policy=" + cfg.Policy)

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		io.Println("project_config=" + cfg.Sources.Project)
	}

	return nil
}
