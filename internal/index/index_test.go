package index_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"godelta/internal/index"
)

func TestTable_FirstFoundPolicy(t *testing.T) {
	tbl := index.NewTable[int](4)

	// bucket 0, fingerprint 100 -> insert.
	h, existed, ok := tbl.InsertOrGet(0, 100, 0)
	require.True(t, ok)
	require.False(t, existed)
	*h = 1

	// bucket 0, DIFFERENT fingerprint 200 -> first-found discards.
	h2, existed2, ok2 := tbl.InsertOrGet(0, 200, 0)
	require.False(t, ok2)
	require.False(t, existed2)
	require.Nil(t, h2)

	// original entry survives untouched.
	v, found := tbl.Find(0, 100)
	require.True(t, found)
	require.Equal(t, 1, v)

	// the discarded fingerprint cannot be found either.
	_, found2 := tbl.Find(0, 200)
	require.False(t, found2)
}

func TestTable_SameFingerprintAccumulates(t *testing.T) {
	tbl := index.NewTable[[]int](4)

	h, existed, ok := tbl.InsertOrGet(2, 55, nil)
	require.True(t, ok)
	require.False(t, existed)
	*h = append(*h, 10)

	h2, existed2, ok2 := tbl.InsertOrGet(2, 55, nil)
	require.True(t, ok2)
	require.True(t, existed2)
	*h2 = append(*h2, 20)

	v, found := tbl.Find(2, 55)
	require.True(t, found)
	require.Equal(t, []int{10, 20}, v)
}

func TestTable_InsertOverwrite(t *testing.T) {
	tbl := index.NewTable[int](4)

	tbl.InsertOverwrite(1, 9, 42)
	v, found := tbl.Find(1, 9)
	require.True(t, found)
	require.Equal(t, 42, v)

	tbl.InsertOverwrite(1, 9, 43)
	v, found = tbl.Find(1, 9)
	require.True(t, found)
	require.Equal(t, 43, v)

	// a different fingerprint overwrites the bucket too - overwrite has
	// no first-found protection, unlike InsertOrGet.
	tbl.InsertOverwrite(1, 77, 99)
	_, found = tbl.Find(1, 9)
	require.False(t, found)

	v, found = tbl.Find(1, 77)
	require.True(t, found)
	require.Equal(t, 99, v)
}

func TestSplay_NoCollisionsEver(t *testing.T) {
	sp := &index.Splay[int]{}

	keys := []uint64{5, 3, 8, 1, 4, 7, 9, 2, 6, 0, 100000, 999}
	for i, k := range keys {
		h, existed := sp.InsertOrGet(k, 0)
		require.False(t, existed)
		*h = i
	}

	for i, k := range keys {
		v, found := sp.Find(k)
		require.True(t, found)
		require.Equal(t, i, v)
	}
}

func TestSplay_InsertOrGetReturnsExistingHandle(t *testing.T) {
	sp := &index.Splay[[]int]{}

	h, existed := sp.InsertOrGet(42, nil)
	require.False(t, existed)
	*h = append(*h, 1)

	h2, existed2 := sp.InsertOrGet(42, nil)
	require.True(t, existed2)
	*h2 = append(*h2, 2)

	v, found := sp.Find(42)
	require.True(t, found)
	require.Equal(t, []int{1, 2}, v)
}

func TestSplay_InsertOverwrite(t *testing.T) {
	sp := &index.Splay[string]{}

	sp.InsertOverwrite(1, "a")
	sp.InsertOverwrite(1, "b")

	v, found := sp.Find(1)
	require.True(t, found)
	require.Equal(t, "b", v)
}

func TestIndex_DispatchesByBacking(t *testing.T) {
	table := index.New[int](index.TableBacking, 8)
	splay := index.New[int](index.SplayBacking, 0)

	for _, idx := range []*index.Index[int]{table, splay} {
		h, existed, ok := idx.InsertOrGet(3, 123, 0)
		require.True(t, ok)
		require.False(t, existed)
		*h = 7

		v, found := idx.Find(3, 123)
		require.True(t, found)
		require.Equal(t, 7, v)
	}

	require.Equal(t, index.TableBacking, table.Backing())
	require.Equal(t, index.SplayBacking, splay.Backing())
}
