package nav

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/milk9111/pursuit/common"
)

var (
	ErrNoWalkableSurface = errors.New("nav: no walkable surface")
	ErrOffMesh           = errors.New("nav: point is off the mesh")
)

// Config controls how the walkable grid is baked.
type Config struct {
	CellSize       float64
	WalkableRadius float64
	// QueryExtent is how far (planar) a point may be from the mesh and still
	// snap onto it.
	QueryExtent float64
	Seed        uint64
}

func DefaultConfig() Config {
	return Config{
		CellSize:       0.5,
		WalkableRadius: 1,
		QueryExtent:    5,
		Seed:           1,
	}
}

// NavMesh is a walkable grid baked over ground surfaces with obstacles
// inflated by the walkable radius.
type NavMesh struct {
	cfg      Config
	minX     float64
	minZ     float64
	cols     int
	rows     int
	surface  []float64
	walkable []bool
	rng      *rand.Rand
}

// Bake builds a navmesh from walkable surfaces and blocking obstacles.
func Bake(surfaces, obstacles []common.AABB, cfg Config) (*NavMesh, error) {
	def := DefaultConfig()
	if cfg.CellSize <= 0 {
		cfg.CellSize = def.CellSize
	}
	if cfg.WalkableRadius < 0 {
		cfg.WalkableRadius = 0
	}
	if cfg.QueryExtent <= 0 {
		cfg.QueryExtent = def.QueryExtent
	}
	if len(surfaces) == 0 {
		return nil, fmt.Errorf("nav: bake: %w", ErrNoWalkableSurface)
	}

	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, s := range surfaces {
		lo, hi := s.Min(), s.Max()
		minX, minZ = math.Min(minX, lo.X), math.Min(minZ, lo.Z)
		maxX, maxZ = math.Max(maxX, hi.X), math.Max(maxZ, hi.Z)
	}

	nm := &NavMesh{
		cfg:  cfg,
		minX: minX,
		minZ: minZ,
		cols: int(math.Ceil((maxX - minX) / cfg.CellSize)),
		rows: int(math.Ceil((maxZ - minZ) / cfg.CellSize)),
		rng:  rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
	if nm.cols <= 0 || nm.rows <= 0 {
		return nil, fmt.Errorf("nav: bake: %w", ErrNoWalkableSurface)
	}
	nm.surface = make([]float64, nm.cols*nm.rows)
	nm.walkable = make([]bool, nm.cols*nm.rows)

	r := cfg.WalkableRadius
	found := false
	for row := 0; row < nm.rows; row++ {
		for col := 0; col < nm.cols; col++ {
			c := nm.cellCenter(col, row)
			top, ok := surfaceAt(surfaces, c, r)
			if !ok {
				continue
			}
			if blockedAt(obstacles, c, top, r) {
				continue
			}
			idx := row*nm.cols + col
			nm.surface[idx] = top
			nm.walkable[idx] = true
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("nav: bake: %w", ErrNoWalkableSurface)
	}
	return nm, nil
}

// surfaceAt returns the highest surface whose footprint, eroded by r, holds p.
func surfaceAt(surfaces []common.AABB, p common.Vec3, r float64) (float64, bool) {
	best, found := math.Inf(-1), false
	for _, s := range surfaces {
		lo, hi := s.Min(), s.Max()
		if p.X < lo.X+r || p.X > hi.X-r || p.Z < lo.Z+r || p.Z > hi.Z-r {
			continue
		}
		if hi.Y > best {
			best, found = hi.Y, true
		}
	}
	return best, found
}

func blockedAt(obstacles []common.AABB, p common.Vec3, floor, r float64) bool {
	for _, o := range obstacles {
		lo, hi := o.Min(), o.Max()
		if hi.Y <= floor {
			continue
		}
		if p.X >= lo.X-r && p.X <= hi.X+r && p.Z >= lo.Z-r && p.Z <= hi.Z+r {
			return true
		}
	}
	return false
}

func (nm *NavMesh) cellCenter(col, row int) common.Vec3 {
	return common.V3(
		nm.minX+(float64(col)+0.5)*nm.cfg.CellSize,
		0,
		nm.minZ+(float64(row)+0.5)*nm.cfg.CellSize,
	)
}

func (nm *NavMesh) cellOf(p common.Vec3) (int, int, bool) {
	col := int(math.Floor((p.X - nm.minX) / nm.cfg.CellSize))
	row := int(math.Floor((p.Z - nm.minZ) / nm.cfg.CellSize))
	if col < 0 || row < 0 || col >= nm.cols || row >= nm.rows {
		return col, row, false
	}
	return col, row, true
}

func (nm *NavMesh) walkableCell(col, row int) bool {
	if col < 0 || row < 0 || col >= nm.cols || row >= nm.rows {
		return false
	}
	return nm.walkable[row*nm.cols+col]
}

// Walkable reports whether p projects onto a walkable cell.
func (nm *NavMesh) Walkable(p common.Vec3) bool {
	if nm == nil {
		return false
	}
	col, row, ok := nm.cellOf(p)
	return ok && nm.walkableCell(col, row)
}

// ClosestPoint snaps p onto the mesh surface.
func (nm *NavMesh) ClosestPoint(p common.Vec3) (common.Vec3, bool) {
	if nm == nil {
		return common.Vec3{}, false
	}
	if col, row, ok := nm.cellOf(p); ok && nm.walkableCell(col, row) {
		return common.V3(p.X, nm.surface[row*nm.cols+col], p.Z), true
	}

	reach := int(math.Ceil(nm.cfg.QueryExtent / nm.cfg.CellSize))
	col, row, _ := nm.cellOf(p)
	best, bestD := -1, math.Inf(1)
	for r := max(0, row-reach); r <= min(nm.rows-1, row+reach); r++ {
		for c := max(0, col-reach); c <= min(nm.cols-1, col+reach); c++ {
			if !nm.walkable[r*nm.cols+c] {
				continue
			}
			if d := nm.cellCenter(c, r).PlanarDistance(p); d < bestD {
				best, bestD = r*nm.cols+c, d
			}
		}
	}
	if best < 0 || bestD > nm.cfg.QueryExtent {
		return common.Vec3{}, false
	}
	c := nm.cellCenter(best%nm.cols, best/nm.cols)
	c.Y = nm.surface[best]
	return c, true
}

// RandomPointAround returns a random mesh point within radius of center.
func (nm *NavMesh) RandomPointAround(center common.Vec3, radius float64) (common.Vec3, bool) {
	if nm == nil {
		return common.Vec3{}, false
	}
	const attempts = 16
	for i := 0; i < attempts; i++ {
		a := nm.rng.Float64() * 2 * math.Pi
		d := math.Sqrt(nm.rng.Float64()) * radius
		p := common.V3(center.X+math.Cos(a)*d, center.Y, center.Z+math.Sin(a)*d)
		if nm.Walkable(p) {
			return nm.ClosestPoint(p)
		}
	}
	p, ok := nm.ClosestPoint(center)
	if !ok || p.PlanarDistance(center) > radius {
		return common.Vec3{}, false
	}
	return p, true
}

// ComputePath returns a smoothed corner path from one mesh point to another.
func (nm *NavMesh) ComputePath(from, to common.Vec3) ([]common.Vec3, bool) {
	if nm == nil {
		return nil, false
	}
	start, ok := nm.ClosestPoint(from)
	if !ok {
		return nil, false
	}
	goal, ok := nm.ClosestPoint(to)
	if !ok {
		return nil, false
	}
	sc, sr, _ := nm.cellOf(start)
	gc, gr, _ := nm.cellOf(goal)
	cells := astarPath(gridPos{sc, sr}, gridPos{gc, gr}, nm.walkable, nm.cols, nm.rows)
	if cells == nil {
		return nil, false
	}

	points := make([]common.Vec3, 0, len(cells)+1)
	points = append(points, start)
	if len(cells) > 2 {
		for _, c := range cells[1 : len(cells)-1] {
			p := nm.cellCenter(c.x, c.y)
			p.Y = nm.surface[c.y*nm.cols+c.x]
			points = append(points, p)
		}
	}
	points = append(points, goal)
	return nm.smooth(points), true
}

// smooth drops intermediate points that have direct line of sight.
func (nm *NavMesh) smooth(points []common.Vec3) []common.Vec3 {
	if len(points) <= 2 {
		return points
	}
	out := []common.Vec3{points[0]}
	anchor := 0
	for i := 2; i < len(points); i++ {
		if !nm.lineOfSight(points[anchor], points[i]) {
			out = append(out, points[i-1])
			anchor = i - 1
		}
	}
	return append(out, points[len(points)-1])
}

func (nm *NavMesh) lineOfSight(a, b common.Vec3) bool {
	step := nm.cfg.CellSize * 0.25
	n := int(math.Ceil(a.PlanarDistance(b) / step))
	for i := 0; i <= n; i++ {
		t := 1.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		p := common.V3(common.Lerp(a.X, b.X, t), 0, common.Lerp(a.Z, b.Z, t))
		if !nm.Walkable(p) {
			return false
		}
	}
	return true
}

// Cells calls fn for every walkable cell center, for debug drawing.
func (nm *NavMesh) Cells(fn func(center common.Vec3)) {
	if nm == nil {
		return
	}
	for idx, ok := range nm.walkable {
		if ok {
			c := nm.cellCenter(idx%nm.cols, idx/nm.cols)
			c.Y = nm.surface[idx]
			fn(c)
		}
	}
}

func (nm *NavMesh) CellSize() float64 {
	if nm == nil {
		return 0
	}
	return nm.cfg.CellSize
}
