package engine

import (
	"godelta/internal/command"
	"godelta/internal/fingerprint"
	"godelta/internal/index"
)

// epochEntry is the value type described by spec §4.2 for onepass:
// "(offset, version_epoch)". A per-scan epoch counter provides a
// logical-flush mechanism - an entry whose epoch is stale is treated as
// absent, without ever walking the table to clear it.
type epochEntry struct {
	offset uint32
	epoch  uint64
}

// epochSlot is a single direct-table slot: unlike [index.Table], whose
// first-found policy keeps whatever first occupied a slot forever, an
// epoch slot's occupant is considered gone once its epoch goes stale -
// a later probe (even for a different fingerprint) may then take the
// slot over. This is the one onepass-specific index wrinkle the shared
// [index] package's fp-gated first-found semantics cannot express, so
// onepass keeps its own small slot array rather than reusing
// [index.Table] directly.
type epochSlot struct {
	occupied bool
	fp       uint64
	entry    epochEntry
}

// epochIndex is H_R or H_V: an epoch-flushed keyed index, backed by
// either a direct table of epochSlot or a splay tree (which never
// collides, so its first-found-within-epoch reduces to "keep the
// existing entry if its epoch is still current, else overwrite").
type epochIndex struct {
	useSplay bool
	table    []epochSlot
	q        uint64
	splay    *index.Splay[epochEntry]
}

func newEpochIndex(useSplay bool, q uint64) *epochIndex {
	e := &epochIndex{useSplay: useSplay, q: q}
	if useSplay {
		e.splay = &index.Splay[epochEntry]{}
	} else {
		if q == 0 {
			q = 1
		}

		e.q = q
		e.table = make([]epochSlot, q)
	}

	return e
}

func (e *epochIndex) bucket(fp uint64) uint64 {
	if e.useSplay {
		return fp
	}

	return fp % e.q
}

// insert applies first-found-within-epoch: if the slot/key is already
// occupied by an entry whose epoch equals ver, the new write is
// discarded (first write within this epoch wins, regardless of whether
// the occupying fingerprint matches fp). Otherwise the slot is taken
// over (freshly, or because its prior occupant's epoch is stale).
func (e *epochIndex) insert(fp uint64, offset uint32, ver uint64) {
	if e.useSplay {
		h, existed := e.splay.InsertOrGet(fp, epochEntry{offset: offset, epoch: ver})
		if existed && h.epoch != ver {
			*h = epochEntry{offset: offset, epoch: ver}
		}

		return
	}

	b := e.bucket(fp)
	s := &e.table[b]

	if s.occupied && s.entry.epoch == ver {
		return
	}

	*s = epochSlot{occupied: true, fp: fp, entry: epochEntry{offset: offset, epoch: ver}}
}

// find looks up fp, returning its offset only if present with the
// current epoch. For the table backing this checks the full stored
// fingerprint (not just the bucket) - the slot remembers the
// fingerprint that produced it, not the query's, so this check is
// required in addition to the caller's later byte comparison (spec §9).
func (e *epochIndex) find(fp uint64, ver uint64) (uint32, bool) {
	if e.useSplay {
		v, found := e.splay.Find(fp)
		if found && v.epoch == ver {
			return v.offset, true
		}

		return 0, false
	}

	s := e.table[e.bucket(fp)]
	if s.occupied && s.fp == fp && s.entry.epoch == ver {
		return s.entry.offset, true
	}

	return 0, false
}

// onepassDiff implements the interleaved O(|R|+|V|) scan (spec §4.4).
func onepassDiff(r, v []byte, opts Options) []command.Command {
	p := opts.SeedLen
	q := onepassTableSize(r, p, opts)

	hR := newEpochIndex(opts.UseSplay, q)
	hV := newEpochIndex(opts.UseSplay, q)

	bp := fingerprint.PowBase(p)

	var cmds []command.Command

	rC, vC, vS := 0, 0, 0

	var ver uint64 = 1

	var fpV, fpR uint64

	haveFPV, haveFPR := false, false

	for vC+p <= len(v) || rC+p <= len(r) {
		canV := vC+p <= len(v)
		canR := rC+p <= len(r)

		if canV && !haveFPV {
			fpV = fingerprint.Fingerprint(v, vC, p)
			haveFPV = true
		}

		if canR && !haveFPR {
			fpR = fingerprint.Fingerprint(r, rC, p)
			haveFPR = true
		}

		if canV {
			hV.insert(fpV, uint32(vC), ver)
		}

		if canR {
			hR.insert(fpR, uint32(rC), ver)
		}

		matched, vM, rM := crossLookup(r, v, rC, vC, p, canR, canV, fpR, fpV, ver, hV, hR)

		if matched {
			length := p
			for vM+length < len(v) && rM+length < len(r) && v[vM+length] == r[rM+length] {
				length++
			}

			if length >= p {
				if vS < vM {
					cmds = append(cmds, command.Add(cloneBytes(v[vS:vM])))
				}

				cmds = append(cmds, command.Copy(uint32(rM), uint32(length)))

				vS = vM + length
				vC = vM + length
				rC = rM + length
				ver++
				haveFPV, haveFPR = false, false

				continue
			}
		}

		// No match, or match too short after extension: advance both
		// cursors by one, rolling each fingerprint forward if possible.
		if canV {
			if haveFPV && vC+1+p <= len(v) {
				fpV = fingerprint.Roll(fpV, v[vC], v[vC+p], bp)
			} else {
				haveFPV = false
			}

			vC++
		}

		if canR {
			if haveFPR && rC+1+p <= len(r) {
				fpR = fingerprint.Roll(fpR, r[rC], r[rC+p], bp)
			} else {
				haveFPR = false
			}

			rC++
		}
	}

	if vS < len(v) {
		cmds = append(cmds, command.Add(cloneBytes(v[vS:])))
	}

	return cmds
}

// crossLookup implements spec §4.4 step 3: look fp_r up in H_V first;
// if not found, look fp_v up in H_R.
func crossLookup(
	r, v []byte, rC, vC, p int, canR, canV bool, fpR, fpV uint64, ver uint64,
	hV, hR *epochIndex,
) (matched bool, vM, rM int) {
	if canR {
		if off, ok := hV.find(fpR, ver); ok && bytesEqual(r, rC, v, int(off), p) {
			return true, int(off), rC
		}
	}

	if canV {
		if off, ok := hR.find(fpV, ver); ok && bytesEqual(v, vC, r, int(off), p) {
			return true, vC, int(off)
		}
	}

	return false, 0, 0
}

// onepassTableSize derives q per spec §4.4: next_prime(max(q_floor,
// |R|_seeds/p)) for the table backing; unused (but still computed, for
// documentation parity) when splay is selected.
func onepassTableSize(r []byte, p int, opts Options) uint64 {
	numSeeds := len(r) - p + 1
	if numSeeds < 0 {
		numSeeds = 0
	}

	candidate := opts.TableSize
	if bySeeds := uint64(numSeeds / p); bySeeds > candidate { //nolint:gosec // p > 0 validated by Options.Validate
		candidate = bySeeds
	}

	if opts.UseSplay {
		return candidate
	}

	rng := newLocalRNG()

	return fingerprint.NextPrime(candidate, rng)
}
