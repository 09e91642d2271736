package fingerprint

import (
	"math/bits"
	"math/rand/v2"
)

// witnessCount is the number of random Miller-Rabin witnesses drawn per
// candidate. Fixed bases are not used: random witnesses are required to
// reject Carmichael numbers reliably (see spec §4.1).
const witnessCount = 100

// IsProbablePrime runs Miller-Rabin with 100 random witnesses drawn
// uniformly from [2, n-2]. It accepts n as prime iff all 100 witnesses
// pass. Uses a locally-seeded PRNG (math/rand/v2), never process-wide
// state, so concurrent callers never share generator state.
func IsProbablePrime(n uint64, rng *rand.Rand) bool {
	switch {
	case n < 2:
		return false
	case n < 4:
		return true // 2 and 3
	case n%2 == 0:
		return false
	}

	d := n - 1
	r := 0
	for d%2 == 0 {
		d /= 2
		r++
	}

	for i := 0; i < witnessCount; i++ {
		a := randomWitness(n, rng)
		if !millerRabinRound(n, d, r, a) {
			return false
		}
	}

	return true
}

// randomWitness draws a uniform value in [2, n-2]. For n < 5 the range is
// degenerate (handled by the n < 4 short-circuit in IsProbablePrime), so
// this is only reached for n >= 5, where n-2 >= 3 > 2.
func randomWitness(n uint64, rng *rand.Rand) uint64 {
	span := n - 3 // values 2 .. n-2 inclusive, span = n-2-2+1
	return 2 + rng.Uint64N(span)
}

// millerRabinRound tests whether a is a witness to n's compositeness,
// given n-1 = d * 2^r with d odd. Returns true if a does NOT prove n
// composite (i.e. n passes this round).
func millerRabinRound(n, d uint64, r int, a uint64) bool {
	x := powmod(a, d, n)
	if x == 1 || x == n-1 {
		return true
	}

	for i := 0; i < r-1; i++ {
		x = mulmodN(x, x, n)
		if x == n-1 {
			return true
		}
	}

	return false
}

// powmod computes base^exp mod m using 128-bit-safe squaring.
func powmod(base, exp, m uint64) uint64 {
	result := uint64(1)
	base %= m

	for exp > 0 {
		if exp&1 == 1 {
			result = mulmodN(result, base, m)
		}

		base = mulmodN(base, base, m)
		exp >>= 1
	}

	return result
}

// mulmodN computes (a*b) mod m for an arbitrary modulus m (not
// necessarily the Mersenne field Mod used by Fingerprint), via a full
// 128-bit product and bits.Div64.
func mulmodN(a, b, m uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo % m
	}

	_, rem := bits.Div64(hi%m, lo, m)

	return rem
}

// NextPrime returns the smallest prime >= n. Returns 2 for n <= 2; steps
// by 2 from the first odd candidate >= n.
func NextPrime(n uint64, rng *rand.Rand) uint64 {
	if n <= 2 {
		return 2
	}

	candidate := n
	if candidate%2 == 0 {
		candidate++
	}

	for !IsProbablePrime(candidate, rng) {
		candidate += 2
	}

	return candidate
}
