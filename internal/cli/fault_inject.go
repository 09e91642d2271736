package cli

import (
	flag "github.com/spf13/pflag"

	"godelta/internal/fs"
)

// faultInjectFlags adds the hidden fault-injection flags shared by every
// subcommand that writes a file, and returns a getter that resolves the
// [fs.FS] those flags select. With the default zero write-fault rate it
// returns a plain [fs.Real]; a non-zero rate wraps it in [fs.Chaos], so
// a harness can drive the CLI's own atomic-write path through fault
// injection without rebuilding the binary.
func faultInjectFlags(fset *flag.FlagSet) func() fs.FS {
	rate := fset.Float64("inject-write-faults", 0, "probability (0-1) of injecting a write fault, for fault-injection testing")
	seed := fset.Int64("inject-seed", 1, "seed for the fault injector's PRNG")

	_ = fset.MarkHidden("inject-write-faults")
	_ = fset.MarkHidden("inject-seed")

	return func() fs.FS {
		if *rate <= 0 {
			return fs.NewReal()
		}

		return fs.NewChaos(fs.NewReal(), *seed, fs.ChaosConfig{WriteFailRate: *rate})
	}
}
