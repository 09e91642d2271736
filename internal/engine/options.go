// Package engine implements the three differencing algorithms - greedy,
// onepass, and correcting - sharing the fingerprint, index, and
// lookback-buffer machinery from their sibling packages (spec §4.3-4.5).
package engine

import (
	"errors"

	"godelta/internal/index"
)

// Algorithm selects which differencing engine Diff runs.
type Algorithm string

const (
	Greedy     Algorithm = "greedy"
	OnePass    Algorithm = "onepass"
	Correcting Algorithm = "correcting"
)

// Options are the per-call tunables accepted by Diff (spec §6.3). There
// is no process-wide configuration; every call is self-contained.
//
// Options carries no implicit "zero means default" magic for SeedLen or
// TableSize: a zero SeedLen is an argument error (spec §7), not a
// request for the default. Use [DefaultOptions] to get spec-mandated
// defaults, then override individual fields.
type Options struct {
	// SeedLen is the minimum match length p; also the fingerprint
	// window. Must be > 0.
	SeedLen int

	// TableSize is the floor q_floor for table sizing. Must be > 0.
	TableSize uint64

	// UseSplay selects the splay-tree index backing instead of the
	// direct table.
	UseSplay bool

	// Verbose requests diagnostic output; it never changes the emitted
	// command bytes.
	Verbose bool

	// BufCap is the correcting engine's lookback buffer capacity. Zero
	// means lookback.DefaultCapacity - this default IS silent, since
	// spec §7 does not list it as an argument error.
	BufCap int
}

// Spec-mandated defaults (§6.3).
const (
	DefaultSeedLen   = 16
	DefaultTableSize = 1048573
	DefaultBufCap    = 256
)

// DefaultOptions returns the spec-mandated default option set.
func DefaultOptions() Options {
	return Options{
		SeedLen:   DefaultSeedLen,
		TableSize: DefaultTableSize,
		BufCap:    DefaultBufCap,
	}
}

// ErrInvalidSeedLen is the argument error for SeedLen <= 0 (spec §7).
var ErrInvalidSeedLen = errors.New("engine: seed_len must be > 0")

// ErrInvalidTableSize guards against a zero table size, which would
// make every bucket computation divide by zero.
var ErrInvalidTableSize = errors.New("engine: table_size must be > 0")

// ErrUnknownAlgorithm is the argument error for an unrecognized
// algorithm name (spec §7).
var ErrUnknownAlgorithm = errors.New("engine: unrecognized algorithm")

// Validate checks the argument-error conditions spec §7 requires to
// surface before any differencing work begins.
func (o Options) Validate() error {
	if o.SeedLen <= 0 {
		return ErrInvalidSeedLen
	}

	if o.TableSize == 0 {
		return ErrInvalidTableSize
	}

	return nil
}

func (o Options) backing() index.Backing {
	if o.UseSplay {
		return index.SplayBacking
	}

	return index.TableBacking
}

func (o Options) bufCap() int {
	if o.BufCap <= 0 {
		return DefaultBufCap
	}

	return o.BufCap
}
