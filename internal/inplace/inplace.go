// Package inplace converts a standard command sequence into one safe to
// apply inside a single buffer that starts out holding R (spec §4.6).
//
// The conversion builds the CRWI (Copy-Read/Write-Intersection) digraph
// over the copies, then finds a topological order via a global
// min-priority Kahn sort, breaking cycles by converting one copy per
// cycle into a literal add.
package inplace

import (
	"container/heap"
	"sort"

	"godelta/internal/command"
)

// Policy selects how a cycle's victim copy is chosen.
type Policy int

const (
	// LocalMin converts the minimum-(length, index) copy in each found
	// cycle - fewer literal-add bytes, more lookup work.
	LocalMin Policy = iota
	// Constant converts an arbitrary member of each found cycle.
	Constant
)

// copyVertex is one Copy command's placed (src, dst, length); its slice
// index is its CRWI vertex index.
type copyVertex struct {
	src, dst, length uint32
}

// MakeInplace implements spec §4.6 end to end.
func MakeInplace(r []byte, cmds []command.Command, policy Policy) []command.PlacedCommand {
	placed := command.Place(cmds)

	var copies []copyVertex

	var originalAdds []command.PlacedCommand

	for _, p := range placed {
		if p.Kind == command.KindCopy {
			copies = append(copies, copyVertex{src: p.Src, dst: p.Dst, length: p.Length})
			continue
		}

		originalAdds = append(originalAdds, p)
	}

	successors, inDeg := buildCRWI(copies)
	topoOrder, victims := topologicalSort(copies, successors, inDeg, policy)

	out := make([]command.PlacedCommand, 0, len(topoOrder)+len(originalAdds)+len(victims))

	for _, vi := range topoOrder {
		c := copies[vi]
		out = append(out, command.PlacedCopy(c.src, c.dst, c.length))
	}

	out = append(out, originalAdds...)

	for _, vi := range victims {
		c := copies[vi]
		data := make([]byte, c.length)
		copy(data, r[c.src:c.src+c.length])
		out = append(out, command.PlacedAdd(c.dst, data))
	}

	return out
}

// buildCRWI builds the Copy-Read/Write-Intersection digraph: edge i->j
// iff copy i's read interval overlaps copy j's write interval (spec
// §4.6 step 2). Copies are assumed already sorted by Dst, which holds
// by construction since Place assigns destinations via a monotonically
// increasing cursor over commands that partition V without gaps.
func buildCRWI(copies []copyVertex) (successors [][]int, inDeg []int) {
	n := len(copies)
	successors = make([][]int, n)
	inDeg = make([]int, n)

	dsts := make([]uint32, n)
	for i, c := range copies {
		dsts[i] = c.dst
	}

	for i, ci := range copies {
		readStart := ci.src
		readEnd := ci.src + ci.length

		lo := sort.Search(n, func(j int) bool { return dsts[j] >= readStart })
		hi := sort.Search(n, func(j int) bool { return dsts[j] >= readEnd })

		if lo > 0 && lo-1 != i {
			pred := copies[lo-1]
			if pred.dst+pred.length > readStart {
				successors[i] = append(successors[i], lo-1)
				inDeg[lo-1]++
			}
		}

		for j := lo; j < hi; j++ {
			if j == i {
				continue
			}

			successors[i] = append(successors[i], j)
			inDeg[j]++
		}
	}

	return successors, inDeg
}

// pqItem is a Kahn-queue entry, ordered by (length, index) ascending.
type pqItem struct {
	length uint32
	index  int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].length != pq[j].length {
		return pq[i].length < pq[j].length
	}

	return pq[i].index < pq[j].index
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x any) { *pq = append(*pq, x.(pqItem)) } //nolint:forcetypeassert

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// topologicalSort runs the global Kahn sort with cycle-breaking (spec
// §4.6 step 3). It returns the copy order and the set of vertices
// converted to literal adds.
func topologicalSort(
	copies []copyVertex, successors [][]int, inDeg []int, policy Policy,
) (order []int, victims []int) {
	n := len(copies)
	active := make([]bool, n)

	for i := range active {
		active[i] = true
	}

	pq := &priorityQueue{}
	heap.Init(pq)

	for i := 0; i < n; i++ {
		if inDeg[i] == 0 {
			heap.Push(pq, pqItem{length: copies[i].length, index: i})
		}
	}

	remaining := n

	pop := func(v int) {
		active[v] = false
		remaining--

		for _, w := range successors[v] {
			if !active[w] {
				continue
			}

			inDeg[w]--
			if inDeg[w] == 0 {
				heap.Push(pq, pqItem{length: copies[w].length, index: w})
			}
		}
	}

	finder := newCycleFinder(copies, successors)

	for remaining > 0 {
		if pq.Len() == 0 {
			victim := finder.findVictim(active, policy)
			victims = append(victims, victim)
			pop(victim)

			continue
		}

		top := heap.Pop(pq).(pqItem) //nolint:forcetypeassert
		if !active[top.index] {
			continue
		}

		order = append(order, top.index)
		pop(top.index)
	}

	return order, victims
}

const (
	white = 0
	gray  = 1
	black = 2
)

// cycleFinder locates cycles in the shrinking active subgraph across
// repeated calls within a single topologicalSort run, amortizing the
// DFS over the whole conversion (spec §4.6 step 3) instead of
// rescanning from scratch per call: active only shrinks between
// calls, so a vertex fully explored with no reachable cycle (black)
// stays that way and is never revisited. Only the path that closes a
// found cycle is reset to white, since breaking that one cycle can
// reveal different structure through those vertices on a later call.
type cycleFinder struct {
	copies     []copyVertex
	successors [][]int
	color      []int
}

func newCycleFinder(copies []copyVertex, successors [][]int) *cycleFinder {
	return &cycleFinder{copies: copies, successors: successors, color: make([]int, len(copies))}
}

// findVictim locates one cycle in the remaining active subgraph via a
// DFS that tracks the current path, then returns the victim chosen by
// policy: the minimum-(length,index) vertex on the cycle (LocalMin) or
// an arbitrary member (Constant, here simply the vertex DFS closed the
// cycle on).
func (f *cycleFinder) findVictim(active []bool, policy Policy) int {
	n := len(f.copies)

	var path []int

	var cycle []int

	var dfs func(v int) bool

	dfs = func(v int) bool {
		f.color[v] = gray
		path = append(path, v)

		for _, w := range f.successors[v] {
			if !active[w] {
				continue
			}

			switch f.color[w] {
			case white:
				if dfs(w) {
					return true
				}
			case gray:
				// Found a back edge to w: the cycle is the path suffix
				// from w's position to here, inclusive.
				for i := len(path) - 1; i >= 0; i-- {
					cycle = append(cycle, path[i])
					if path[i] == w {
						break
					}
				}

				return true
			}
		}

		path = path[:len(path)-1]
		f.color[v] = black

		return false
	}

	for v := 0; v < n; v++ {
		if active[v] && f.color[v] == white {
			if dfs(v) {
				break
			}
		}
	}

	// The recursion unwound early on the branch that closed the cycle,
	// so every vertex still on path is left gray rather than black.
	// Reset them to white: the victim about to be removed may open up
	// a different resolution through these vertices next time.
	for _, v := range path {
		f.color[v] = white
	}

	if policy == Constant {
		return cycle[0]
	}

	best := cycle[0]
	for _, v := range cycle[1:] {
		if f.copies[v].length < f.copies[best].length ||
			(f.copies[v].length == f.copies[best].length && v < best) {
			best = v
		}
	}

	return best
}
