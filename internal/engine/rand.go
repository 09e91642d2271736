package engine

import "math/rand/v2"

// newLocalRNG returns a PRNG private to the current call, seeded from
// the package-level auto-seeded source. Per spec §5, the generator used
// by table sizing (next_prime/Miller-Rabin) must be per-call and
// locally-seeded, never process-wide state shared across calls.
func newLocalRNG() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
