// Package godelta is the public API surface for binary differential
// compression: computing, placing, converting, encoding, decoding, and
// applying deltas between a reference buffer R and a target buffer V
// (spec §6.2).
//
// Every operation here is a thin, validating wrapper over the internal
// engine/inplace/apply/container packages; none of them hold process-
// wide state, and a single call is safe to invoke concurrently with any
// other call over independent (R, V) pairs (spec §5).
package godelta

import (
	"godelta/internal/apply"
	"godelta/internal/command"
	"godelta/internal/container"
	"godelta/internal/engine"
	"godelta/internal/inplace"
)

// Re-exported types, so callers never need to import the internal
// packages directly.
type (
	// Command is a diff engine's output before placement.
	Command = command.Command
	// PlacedCommand has an explicit destination assigned.
	PlacedCommand = command.PlacedCommand
	// Options are the per-call diff tunables (spec §6.3).
	Options = engine.Options
	// Algorithm selects the differencing engine.
	Algorithm = engine.Algorithm
	// Policy selects the in-place cycle-breaking strategy.
	Policy = inplace.Policy
)

// Re-exported algorithm names.
const (
	Greedy     = engine.Greedy
	OnePass    = engine.OnePass
	Correcting = engine.Correcting
)

// Re-exported in-place policies.
const (
	LocalMin = inplace.LocalMin
	Constant = inplace.Constant
)

// Re-exported sentinel errors (spec §7).
var (
	ErrInvalidSeedLen   = engine.ErrInvalidSeedLen
	ErrInvalidTableSize = engine.ErrInvalidTableSize
	ErrUnknownAlgorithm = engine.ErrUnknownAlgorithm
	ErrMalformedDelta   = apply.ErrMalformedDelta
	ErrFraming          = container.ErrFraming
)

// DefaultOptions returns the spec-mandated default diff options.
func DefaultOptions() Options {
	return engine.DefaultOptions()
}

// Diff computes a command sequence turning r into v under the given
// algorithm and options.
func Diff(algorithm Algorithm, r, v []byte, opts Options) ([]Command, error) {
	return engine.Diff(algorithm, r, v, opts)
}

// PlaceCommands assigns destinations to a command sequence (spec §4.6
// step 1).
func PlaceCommands(cmds []Command) []PlacedCommand {
	return command.Place(cmds)
}

// UnplaceCommands recovers a Command sequence from placed commands,
// sorting by destination and stripping it. Used to convert a decoded
// standard delta to in-place without re-diffing.
func UnplaceCommands(placed []PlacedCommand) []Command {
	return command.Unplace(placed)
}

// MakeInplace converts a command sequence into one safe to apply inside
// a single buffer that starts out holding r (spec §4.6).
func MakeInplace(r []byte, cmds []Command, policy Policy) []PlacedCommand {
	return inplace.MakeInplace(r, cmds, policy)
}

// EncodeDelta serializes placed commands into the binary delta format
// (spec §6.1).
func EncodeDelta(placed []PlacedCommand, isInplace bool, versionSize uint32) []byte {
	return container.Encode(placed, isInplace, versionSize)
}

// DecodeDelta parses a binary delta produced by EncodeDelta.
func DecodeDelta(data []byte) (placed []PlacedCommand, isInplace bool, versionSize uint32, err error) {
	return container.Decode(data)
}

// IsInplaceDelta reports whether data's header flags mark it in-place,
// without fully decoding the command stream.
func IsInplaceDelta(data []byte) bool {
	return container.IsInplaceDelta(data)
}

// ApplyPlaced reconstructs v from r and a placed command sequence into
// a fresh output buffer (standard apply, spec §4.7).
func ApplyPlaced(r []byte, placed []PlacedCommand, versionSize uint32) ([]byte, error) {
	return apply.Placed(r, placed, versionSize)
}

// ApplyPlacedInplace reconstructs v inside a buffer that starts out
// holding r (in-place apply, spec §4.7). placed must come from
// MakeInplace (or an in-place delta decoded via DecodeDelta).
func ApplyPlacedInplace(r []byte, placed []PlacedCommand, versionSize uint32) ([]byte, error) {
	return apply.PlacedInplace(r, placed, versionSize)
}
