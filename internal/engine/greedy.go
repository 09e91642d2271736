package engine

import (
	"godelta/internal/command"
	"godelta/internal/fingerprint"
	"godelta/internal/index"
)

// greedyIndex bundles the keyed index with the table size actually used
// (after next_prime sizing), since bucket computation for the table
// backing needs it at lookup time too.
type greedyIndex struct {
	idx *index.Index[[]uint32]
	q   uint64
}

func (g *greedyIndex) bucket(fp uint64) uint64 {
	if g.idx.Backing() == index.SplayBacking {
		return fp
	}

	return fp % g.q
}

// greedyDiff implements the O(|V|*|R|) longest-match engine (spec
// §4.3). It builds a fingerprint index over every seed window of R,
// mapping each fingerprint to the list of R offsets sharing it, then
// scans V left to right taking the longest verified match at each
// position.
func greedyDiff(r, v []byte, opts Options) []command.Command {
	o := opts
	p := o.SeedLen
	g := buildGreedyIndex(r, p, o)

	var cmds []command.Command

	vc, vs := 0, 0
	bp := fingerprint.PowBase(p)

	var fp uint64

	haveFP := false

	for {
		if vc+p > len(v) {
			break
		}

		if !haveFP {
			fp = fingerprint.Fingerprint(v, vc, p)
			haveFP = true
		}

		bestOff, bestLen := g.findLongestMatch(r, v, vc, p, fp)

		if bestLen < p {
			vc++
			haveFP = false

			if vc+p <= len(v) {
				fp = fingerprint.Roll(fingerprint.Fingerprint(v, vc-1, p), v[vc-1], v[vc-1+p], bp)
				haveFP = true
			}

			continue
		}

		if vs < vc {
			cmds = append(cmds, command.Add(cloneBytes(v[vs:vc])))
		}

		cmds = append(cmds, command.Copy(uint32(bestOff), uint32(bestLen)))

		vs = vc + bestLen
		vc = vs
		haveFP = false
	}

	if vs < len(v) {
		cmds = append(cmds, command.Add(cloneBytes(v[vs:])))
	}

	return cmds
}

func buildGreedyIndex(r []byte, p int, o Options) *greedyIndex {
	q := o.TableSize
	if !o.UseSplay {
		rng := newLocalRNG()
		q = fingerprint.NextPrime(q, rng)
	}

	g := &greedyIndex{idx: index.New[[]uint32](o.backing(), q), q: q}

	numSeeds := len(r) - p + 1
	if numSeeds <= 0 {
		return g
	}

	for off := 0; off < numSeeds; off++ {
		fp := fingerprint.Fingerprint(r, off, p)
		bucket := g.bucket(fp)

		handle, _, ok := g.idx.InsertOrGet(bucket, fp, nil)
		if !ok {
			continue // first-found: bucket occupied by a different fingerprint.
		}

		*handle = append(*handle, uint32(off))
	}

	return g
}

// findLongestMatch looks up fp in the index and, for every candidate R
// offset, byte-verifies the seed and extends forward, tracking the
// longest verified match.
func (g *greedyIndex) findLongestMatch(r, v []byte, vc, p int, fp uint64) (bestOff, bestLen int) {
	candidates, found := g.idx.Find(g.bucket(fp), fp)
	if !found {
		return 0, 0
	}

	for _, off := range candidates {
		rOff := int(off)
		if !bytesEqual(r, rOff, v, vc, p) {
			continue
		}

		length := p
		for rOff+length < len(r) && vc+length < len(v) && r[rOff+length] == v[vc+length] {
			length++
		}

		if length > bestLen {
			bestLen = length
			bestOff = rOff
		}
	}

	return bestOff, bestLen
}

func bytesEqual(a []byte, aOff int, b []byte, bOff int, n int) bool {
	if aOff+n > len(a) || bOff+n > len(b) {
		return false
	}

	for i := 0; i < n; i++ {
		if a[aOff+i] != b[bOff+i] {
			return false
		}
	}

	return true
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)

	return out
}
