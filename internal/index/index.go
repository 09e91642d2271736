// Package index implements the keyed index used by every differencing
// engine: a mapping from a 64-bit fingerprint to an algorithm-specific
// value, with two interchangeable backings.
//
// Per the design notes, the backing choice is an enum-level switch owned
// by this package rather than a polymorphic interface: [Index] holds
// either a [Table] or a [Splay] and branches on its [Backing] value, so
// engine inner loops never pay for virtual dispatch.
package index

// Backing selects which structure backs a keyed index.
type Backing int

const (
	// TableBacking is a direct-indexed open-addressed table with
	// first-found collision policy (§4.2).
	TableBacking Backing = iota
	// SplayBacking is a self-adjusting binary search tree keyed on the
	// full fingerprint, so distinct fingerprints never collide.
	SplayBacking
)

// Index is a keyed index over fingerprint -> V, backed by either a
// [Table] or a [Splay]. The zero value is not usable; construct with
// [New].
type Index[V any] struct {
	backing Backing
	table   *Table[V]
	splay   *Splay[V]
}

// New constructs an Index with the given backing. size is only
// meaningful for [TableBacking] (it is the slot count); it is ignored
// for [SplayBacking].
func New[V any](backing Backing, size uint64) *Index[V] {
	idx := &Index[V]{backing: backing}

	switch backing {
	case SplayBacking:
		idx.splay = &Splay[V]{}
	default:
		idx.table = NewTable[V](size)
	}

	return idx
}

// Find looks up fingerprint fp. For [TableBacking], bucket is the
// caller-computed slot index (fp mod q for greedy/onepass, or the
// checkpoint bucket f/m for correcting); it is ignored for
// [SplayBacking], which keys on the full fingerprint directly.
func (idx *Index[V]) Find(bucket, fp uint64) (V, bool) {
	if idx.backing == SplayBacking {
		return idx.splay.Find(fp)
	}

	return idx.table.Find(bucket, fp)
}

// InsertOrGet inserts fp with value zero if absent (at bucket, for the
// table backing) and returns a handle to the stored value; if fp is
// already present, returns a handle to the existing value instead.
//
// ok is false only for the table backing when bucket is occupied by a
// DIFFERENT fingerprint: first-found policy keeps the earlier entry and
// the caller must discard its own value (see §4.2, §9).
func (idx *Index[V]) InsertOrGet(bucket, fp uint64, zero V) (handle *V, existed bool, ok bool) {
	if idx.backing == SplayBacking {
		h, existed := idx.splay.InsertOrGet(fp, zero)
		return h, existed, true
	}

	return idx.table.InsertOrGet(bucket, fp, zero)
}

// InsertOverwrite inserts or replaces the value for fp (at bucket, for
// the table backing) unconditionally.
func (idx *Index[V]) InsertOverwrite(bucket, fp uint64, v V) {
	if idx.backing == SplayBacking {
		idx.splay.InsertOverwrite(fp, v)
		return
	}

	idx.table.InsertOverwrite(bucket, fp, v)
}

// Backing reports which structure backs this index.
func (idx *Index[V]) Backing() Backing {
	return idx.backing
}
