package index

// Table is a direct-indexed open-addressed table keyed by a
// caller-supplied bucket, with first-found collision policy: once a
// slot is occupied, a later insert for a different fingerprint is
// silently discarded (§4.2). A later insert for the SAME fingerprint
// returns a handle to the existing value, letting callers accumulate
// (e.g. greedy's per-fingerprint offset list) without it counting as a
// collision.
type Table[V any] struct {
	size uint64
	occ  []bool
	fps  []uint64
	vals []V
}

// NewTable allocates a table with size slots.
func NewTable[V any](size uint64) *Table[V] {
	if size == 0 {
		size = 1
	}

	return &Table[V]{
		size: size,
		occ:  make([]bool, size),
		fps:  make([]uint64, size),
		vals: make([]V, size),
	}
}

// Size returns the slot count.
func (t *Table[V]) Size() uint64 {
	return t.size
}

// Find reads the value at bucket, verifying the stored fingerprint
// equals fp (defends against an unrelated fingerprint occupying the
// slot).
func (t *Table[V]) Find(bucket, fp uint64) (V, bool) {
	if !t.occ[bucket] || t.fps[bucket] != fp {
		var zero V
		return zero, false
	}

	return t.vals[bucket], true
}

// InsertOrGet inserts (bucket, fp, zero) if the slot is empty and
// returns a handle to the new value. If the slot already holds fp, it
// returns a handle to the existing value (existed=true) so the caller
// can mutate/accumulate into it. If the slot holds a DIFFERENT
// fingerprint, ok is false: first-found policy, nothing is written.
func (t *Table[V]) InsertOrGet(bucket, fp uint64, zero V) (handle *V, existed bool, ok bool) {
	if !t.occ[bucket] {
		t.occ[bucket] = true
		t.fps[bucket] = fp
		t.vals[bucket] = zero

		return &t.vals[bucket], false, true
	}

	if t.fps[bucket] == fp {
		return &t.vals[bucket], true, true
	}

	return nil, false, false
}

// InsertOverwrite unconditionally writes (bucket, fp, v), regardless of
// what previously occupied the slot. Used by algorithms whose own
// caller-side policy (e.g. onepass's epoch check) has already decided a
// write should happen.
func (t *Table[V]) InsertOverwrite(bucket, fp uint64, v V) {
	t.occ[bucket] = true
	t.fps[bucket] = fp
	t.vals[bucket] = v
}
