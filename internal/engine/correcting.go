package engine

import (
	"godelta/internal/command"
	"godelta/internal/fingerprint"
	"godelta/internal/index"
	"godelta/internal/lookback"
)

// correctingParams are the checkpoint parameters derived from |R| and
// q_floor (spec §4.5).
type correctingParams struct {
	capC uint64 // |C|: checkpoint table capacity.
	capF uint64 // |F|: footprint universe size.
	m    uint64 // checkpoint stride.
	k    uint64 // checkpoint class.
}

func deriveCorrectingParams(r, v []byte, p int, opts Options) correctingParams {
	numSeeds := len(r) - p + 1
	if numSeeds < 0 {
		numSeeds = 0
	}

	candC := opts.TableSize
	if bySeeds := uint64(2 * numSeeds / p); bySeeds > candC { //nolint:gosec // p > 0 validated
		candC = bySeeds
	}

	capC := fingerprint.NextPrime(candC, newLocalRNG())

	var capF uint64
	if numSeeds == 0 {
		capF = 1
	} else {
		capF = fingerprint.NextPrime(uint64(2*numSeeds), newLocalRNG()) //nolint:gosec
	}

	m := (capF + capC - 1) / capC

	var k uint64
	if len(v) >= p {
		mid := (len(v) - p) / 2
		fp := fingerprint.Fingerprint(v, mid, p)
		k = (fp % capF) % m
	}

	return correctingParams{capC: capC, capF: capF, m: m, k: k}
}

// isCheckpoint reports whether a seed's fingerprint fp selects it into
// the checkpoint index under params.
func (cp correctingParams) isCheckpoint(fp uint64) bool {
	return (fp%cp.capF)%cp.m == cp.k
}

// bucket returns the table-backing slot for a checkpoint seed's
// footprint f = fp mod |F| (spec §4.5: "f / m").
func (cp correctingParams) bucket(fp uint64) uint64 {
	return (fp % cp.capF) / cp.m
}

// correctingDiff implements the 1.5-pass checkpointed engine with
// lookback-buffer tail correction (spec §4.5).
func correctingDiff(r, v []byte, opts Options) []command.Command {
	p := opts.SeedLen
	cp := deriveCorrectingParams(r, v, p, opts)

	idx := index.New[uint32](opts.backing(), cp.capC)
	buildCorrectingIndex(idx, r, p, cp)

	buf := lookback.New(opts.bufCap())

	bp := fingerprint.PowBase(p)

	vC, vS := 0, 0

	var fp uint64

	haveFP := false

	for vC+p <= len(v) {
		if !haveFP {
			fp = fingerprint.Fingerprint(v, vC, p)
			haveFP = true
		}

		if !cp.isCheckpoint(fp) {
			vC, haveFP, fp = advanceOne(v, vC, p, fp, haveFP, bp)
			continue
		}

		off, found := idx.Find(cp.bucket(fp), fp)
		if !found || !bytesEqual(r, int(off), v, vC, p) {
			vC, haveFP, fp = advanceOne(v, vC, p, fp, haveFP, bp)
			continue
		}

		vm, rm, ml := extendBoth(r, v, int(off), vC, p)
		if ml < p {
			vC, haveFP, fp = advanceOne(v, vC, p, fp, haveFP, bp)
			continue
		}

		if vS <= vm {
			if vS < vm {
				buf.PushAdd(uint32(vS), uint32(vm), cloneBytes(v[vS:vm])) //nolint:gosec
			}

			buf.PushCopy(uint32(vm), uint32(vm+ml), uint32(rm), uint32(ml)) //nolint:gosec
		} else {
			effStart := buf.AbsorbBackward(uint32(vS), uint32(vm), uint32(vm+ml)) //nolint:gosec
			newRM := uint32(rm) + (effStart - uint32(vm))             //nolint:gosec
			buf.PushCopy(effStart, uint32(vm+ml), newRM, uint32(vm+ml)-effStart)
		}

		vS = vm + ml
		vC = vm + ml
		haveFP = false
	}

	cmds := buf.Flush()

	if vS < len(v) {
		cmds = append(cmds, command.Add(cloneBytes(v[vS:])))
	}

	return cmds
}

// advanceOne advances the V cursor by one, rolling fp forward when
// possible, matching the no-match / non-checkpoint branches of the
// scan.
func advanceOne(v []byte, vC, p int, fp uint64, haveFP bool, bp uint64) (int, bool, uint64) {
	next := vC + 1
	if haveFP && next+p <= len(v) {
		return next, true, fingerprint.Roll(fp, v[vC], v[vC+p], bp)
	}

	return next, false, fp
}

// extendBoth implements spec §4.5 step 3: forward extension past the
// verified seed, then backward extension before it.
func extendBoth(r, v []byte, off, vC, p int) (vm, rm, ml int) {
	fwd := p
	for vC+fwd < len(v) && off+fwd < len(r) && v[vC+fwd] == r[off+fwd] {
		fwd++
	}

	bwd := 0
	for vC-bwd-1 >= 0 && off-bwd-1 >= 0 && v[vC-bwd-1] == r[off-bwd-1] {
		bwd++
	}

	return vC - bwd, off - bwd, bwd + fwd
}

func buildCorrectingIndex(idx *index.Index[uint32], r []byte, p int, cp correctingParams) {
	numSeeds := len(r) - p + 1
	if numSeeds <= 0 {
		return
	}

	for a := 0; a < numSeeds; a++ {
		fp := fingerprint.Fingerprint(r, a, p)
		if !cp.isCheckpoint(fp) {
			continue
		}

		idx.InsertOrGet(cp.bucket(fp), fp, uint32(a)) //nolint:gosec
	}
}
