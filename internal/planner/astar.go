package planner

import (
	"container/heap"
	"math"

	"store-nav/internal/domain/geo"
)

type cell struct {
	cx, cy int
}

// node is one frontier entry. seq records insertion order so that equal-cost
// nodes pop in FIFO order.
type node struct {
	cell   cell
	g      float64
	f      float64
	seq    int
	parent *node
	index  int
}

type frontier []*node

func (fr frontier) Len() int { return len(fr) }

func (fr frontier) Less(i, j int) bool {
	if fr[i].f != fr[j].f {
		return fr[i].f < fr[j].f
	}
	return fr[i].seq < fr[j].seq
}

func (fr frontier) Swap(i, j int) {
	fr[i], fr[j] = fr[j], fr[i]
	fr[i].index = i
	fr[j].index = j
}

func (fr *frontier) Push(x any) {
	entry := x.(*node)
	entry.index = len(*fr)
	*fr = append(*fr, entry)
}

func (fr *frontier) Pop() any {
	old := *fr
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*fr = old[:n-1]
	return entry
}

// directions are the 8-connected grid moves.
var directions = [8]cell{
	{0, -1}, {0, 1}, {-1, 0}, {1, 0},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

func (planner *Planner) toCell(c geo.Coordinate) cell {
	return cell{
		cx: int(math.Round(c.X / planner.resolution)),
		cy: int(math.Round(c.Y / planner.resolution)),
	}
}

func (planner *Planner) toWorld(c cell) geo.Coordinate {
	return geo.Coordinate{
		X: float64(c.cx) * planner.resolution,
		Y: float64(c.cy) * planner.resolution,
	}
}

func (planner *Planner) cellBlocked(c cell, plan geo.FloorPlan) bool {
	return plan.Blocked(planner.toWorld(c))
}

// heuristic is half the Manhattan cell distance scaled to meters. It never
// exceeds the true remaining cost under 8-connected moves, so the search
// stays optimal.
func (planner *Planner) heuristic(from, to cell) float64 {
	dx := math.Abs(float64(to.cx - from.cx))
	dy := math.Abs(float64(to.cy - from.cy))
	return 0.5 * (dx + dy) * planner.resolution
}

// search runs A* between the cells containing start and end. Returns the
// cell path including both endpoints, or nil when the goal is unreachable.
func (planner *Planner) search(start, end geo.Coordinate, plan geo.FloorPlan) []cell {
	startCell := planner.toCell(start)
	goalCell := planner.toCell(end)
	if planner.cellBlocked(startCell, plan) || planner.cellBlocked(goalCell, plan) {
		return nil
	}
	if startCell == goalCell {
		return []cell{startCell}
	}

	maxCX := int(math.Floor(plan.Width / planner.resolution))
	maxCY := int(math.Floor(plan.Height / planner.resolution))

	straightCost := planner.resolution
	diagonalCost := planner.resolution * math.Sqrt2

	open := &frontier{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &node{
		cell: startCell,
		f:    planner.heuristic(startCell, goalCell),
	})

	bestG := map[cell]float64{startCell: 0}
	closed := map[cell]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*node)
		if closed[current.cell] {
			continue
		}
		closed[current.cell] = true

		if current.cell == goalCell {
			return reconstruct(current)
		}

		for _, dir := range directions {
			next := cell{cx: current.cell.cx + dir.cx, cy: current.cell.cy + dir.cy}
			if next.cx < 0 || next.cy < 0 || next.cx > maxCX || next.cy > maxCY {
				continue
			}
			if closed[next] || planner.cellBlocked(next, plan) {
				continue
			}

			step := straightCost
			if dir.cx != 0 && dir.cy != 0 {
				step = diagonalCost
			}
			g := current.g + step
			if prev, seen := bestG[next]; seen && g >= prev {
				continue
			}
			bestG[next] = g
			seq++
			heap.Push(open, &node{
				cell:   next,
				g:      g,
				f:      g + planner.heuristic(next, goalCell),
				seq:    seq,
				parent: current,
			})
		}
	}

	return nil
}

func reconstruct(goal *node) []cell {
	var cells []cell
	for entry := goal; entry != nil; entry = entry.parent {
		cells = append(cells, entry.cell)
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}
