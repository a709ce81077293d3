package nav

import (
	"container/heap"
	"math"
)

type gridPos struct {
	x int
	y int
}

// astarPath searches an 8-connected grid. Diagonal steps may not cut past a
// blocked orthogonal neighbour.
func astarPath(start, goal gridPos, walkable []bool, gridW, gridH int) []gridPos {
	if !inGrid(start, gridW, gridH) || !inGrid(goal, gridW, gridH) {
		return nil
	}
	if !walkable[start.y*gridW+start.x] || !walkable[goal.y*gridW+goal.x] {
		return nil
	}

	open := &openSet{}
	heap.Init(open)

	cameFrom := make([]int, gridW*gridH)
	for i := range cameFrom {
		cameFrom[i] = -1
	}
	gScore := make([]float64, gridW*gridH)
	for i := range gScore {
		gScore[i] = math.Inf(1)
	}
	closed := make([]bool, gridW*gridH)
	startIdx := start.y*gridW + start.x
	goalIdx := goal.y*gridW + goal.x
	gScore[startIdx] = 0
	heap.Push(open, &openItem{pos: start, f: octile(start, goal)})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openItem).pos
		curIdx := cur.y*gridW + cur.x
		if closed[curIdx] {
			continue
		}
		closed[curIdx] = true

		if curIdx == goalIdx {
			return reconstructPath(cameFrom, gridW, startIdx, goalIdx)
		}

		for _, n := range neighbors(cur, walkable, gridW, gridH) {
			idx := n.y*gridW + n.x
			if closed[idx] {
				continue
			}
			step := 1.0
			if n.x != cur.x && n.y != cur.y {
				step = math.Sqrt2
			}
			tentativeG := gScore[curIdx] + step
			if tentativeG < gScore[idx] {
				cameFrom[idx] = curIdx
				gScore[idx] = tentativeG
				heap.Push(open, &openItem{pos: n, f: tentativeG + octile(n, goal), g: tentativeG})
			}
		}
	}
	return nil
}

func inGrid(p gridPos, gridW, gridH int) bool {
	return p.x >= 0 && p.y >= 0 && p.x < gridW && p.y < gridH
}

func reconstructPath(cameFrom []int, gridW int, startIdx, goalIdx int) []gridPos {
	if startIdx == goalIdx {
		return []gridPos{{x: startIdx % gridW, y: startIdx / gridW}}
	}
	if cameFrom[goalIdx] == -1 {
		return nil
	}

	path := make([]gridPos, 0, 32)
	for cur := goalIdx; cur != -1; cur = cameFrom[cur] {
		path = append(path, gridPos{x: cur % gridW, y: cur / gridW})
		if cur == startIdx {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func neighbors(p gridPos, walkable []bool, gridW, gridH int) []gridPos {
	open := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < gridW && y < gridH && walkable[y*gridW+x]
	}
	out := make([]gridPos, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := p.x+dx, p.y+dy
			if !open(nx, ny) {
				continue
			}
			if dx != 0 && dy != 0 && (!open(p.x+dx, p.y) || !open(p.x, p.y+dy)) {
				continue
			}
			out = append(out, gridPos{x: nx, y: ny})
		}
	}
	return out
}

func octile(a, b gridPos) float64 {
	dx := math.Abs(float64(a.x - b.x))
	dy := math.Abs(float64(a.y - b.y))
	return math.Max(dx, dy) + (math.Sqrt2-1)*math.Min(dx, dy)
}

type openItem struct {
	pos   gridPos
	f     float64
	g     float64
	index int
}

type openSet []*openItem

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f == o[j].f {
		return o[i].g > o[j].g
	}
	return o[i].f < o[j].f
}
func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}
func (o *openSet) Push(x any) {
	item := x.(*openItem)
	item.index = len(*o)
	*o = append(*o, item)
}
func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return item
}
