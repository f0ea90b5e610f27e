// Package route finds arrow paths on the character grid.
package route

import (
	"container/heap"
	"math"

	"void-cli/internal/model"
)

// Router searches a grid where 1 <= x < Width and 1 <= y < Height.
type Router struct {
	Width  int
	Height int

	// Occupied reports cells that paths must avoid (the destination is always allowed).
	Occupied func(model.Coords) bool
}

func (r Router) inBounds(c model.Coords) bool {
	return c.X >= 1 && c.Y >= 1 && c.X < r.Width && c.Y < r.Height
}

func (r Router) occupied(c model.Coords) bool {
	return r.Occupied != nil && r.Occupied(c)
}

// Path returns the cells from start to dest inclusive, or nil when dest is unreachable.
//
// The search is greedy best-first on Manhattan distance: it finds a path quickly but
// not necessarily the shortest one.
func (r Router) Path(start, dest model.Coords) []model.Coords {
	if !r.inBounds(start) || !r.inBounds(dest) {
		return nil
	}
	if start == dest {
		return []model.Coords{start}
	}

	prev := map[model.Coords]model.Coords{start: start}
	q := &cellQueue{}
	heap.Push(q, &cell{at: start, prio: priority(start, dest)})

	for q.Len() > 0 {
		cur := heap.Pop(q).(*cell).at
		if cur == dest {
			return backtrack(prev, start, dest)
		}
		for _, next := range neighbors(cur) {
			if !r.inBounds(next) {
				continue
			}
			if _, seen := prev[next]; seen {
				continue
			}
			if next != dest && r.occupied(next) {
				continue
			}
			prev[next] = cur
			heap.Push(q, &cell{at: next, prio: priority(next, dest)})
		}
	}
	return nil
}

func neighbors(c model.Coords) [4]model.Coords {
	return [4]model.Coords{c.Add(1, 0), c.Add(-1, 0), c.Add(0, 1), c.Add(0, -1)}
}

func priority(c, dest model.Coords) int {
	return math.MaxUint16 - model.Manhattan(c, dest)
}

func backtrack(prev map[model.Coords]model.Coords, start, dest model.Coords) []model.Coords {
	path := []model.Coords{dest}
	for cur := dest; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type cell struct {
	at   model.Coords
	prio int
	seq  int
}

// cellQueue pops the highest priority first; equal priorities pop in insertion order.
type cellQueue struct {
	items []*cell
	next  int
}

func (q cellQueue) Len() int { return len(q.items) }

func (q cellQueue) Less(i, j int) bool {
	if q.items[i].prio != q.items[j].prio {
		return q.items[i].prio > q.items[j].prio
	}
	return q.items[i].seq < q.items[j].seq
}

func (q cellQueue) Swap(i, j int) { q.items[i], q.items[j] = q.items[j], q.items[i] }

func (q *cellQueue) Push(x any) {
	c := x.(*cell)
	c.seq = q.next
	q.next++
	q.items = append(q.items, c)
}

func (q *cellQueue) Pop() any {
	old := q.items
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	q.items = old[:n-1]
	return c
}
