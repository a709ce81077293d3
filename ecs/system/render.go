package system

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
	"golang.org/x/image/colornames"
)

// NavCells is the navmesh surface the debug overlay draws.
type NavCells interface {
	Cells(fn func(center common.Vec3))
	CellSize() float64
}

// RenderSystem draws a top-down view of the world centred on the player.
// World X maps to screen X and world Z to screen -Y.
type RenderSystem struct {
	Scale      float64
	Background color.Color
	ShowNav    bool
	// ShowPhysics outlines the collision broadphase.
	ShowPhysics bool
	nav         NavCells
}

func NewRenderSystem(nav NavCells) *RenderSystem {
	return &RenderSystem{Scale: 12, Background: colornames.Black, nav: nav}
}

type view struct {
	screen *ebiten.Image
	cx, cz float64
	scale  float64
	w, h   float64
}

func (v view) project(p common.Vec3) (float32, float32) {
	return float32(v.w/2 + (p.X-v.cx)*v.scale), float32(v.h/2 - (p.Z-v.cz)*v.scale)
}

func (v view) box(b common.AABB, fill, stroke color.Color) {
	lo, hi := b.Min(), b.Max()
	x0, y1 := v.project(lo)
	x1, y0 := v.project(hi)
	vector.FillRect(v.screen, x0, y0, x1-x0, y1-y0, fill, false)
	vector.StrokeRect(v.screen, x0, y0, x1-x0, y1-y0, 1, stroke, false)
}

func (v view) heading(p common.Vec3, rot common.Quat, axis common.Vec3, length float64, c color.Color) {
	x0, y0 := v.project(p)
	x1, y1 := v.project(p.Add(rot.Rotate(axis).Flat().Normalize().Scale(length)))
	vector.StrokeLine(v.screen, x0, y0, x1, y1, 2, c, true)
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	if r.Background != nil {
		screen.Fill(r.Background)
	}
	bounds := screen.Bounds()
	v := view{screen: screen, scale: r.Scale, w: float64(bounds.Dx()), h: float64(bounds.Dy())}
	if v.scale <= 0 {
		v.scale = 12
	}
	if p, ok := playerPosition(w); ok {
		v.cx, v.cz = p.X, p.Z
	}

	if r.ShowNav && r.nav != nil {
		size := float32(r.nav.CellSize() * v.scale)
		r.nav.Cells(func(c common.Vec3) {
			x, y := v.project(c)
			vector.FillRect(screen, x-size/2, y-size/2, size, size, color.RGBA{R: 40, G: 90, B: 60, A: 90}, false)
		})
	}

	if pw := w.PhysicsWorld(); pw != nil {
		for _, o := range pw.Obstacles() {
			// Ground slabs are skipped.
			if o.Half.X >= 20 {
				continue
			}
			v.box(o, colornames.Dimgray, colornames.Darkgray)
		}
	}

	if r.ShowPhysics {
		drawPhysicsDebug(w, v)
	}
	r.drawMission(w, v)

	ecs.ForEach2(w, component.PickMarkerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, m *component.PickMarker, t *component.Transform) {
		x, y := v.project(t.Position)
		vector.StrokeCircle(screen, x, y, float32(m.Radius*v.scale), 1, colornames.Gold, true)
	})

	ecs.ForEach2(w, component.AgentComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Agent, t *component.Transform) {
		x, y := v.project(t.Position)
		vector.FillCircle(screen, x, y, float32(0.3*v.scale), colornames.Orange, true)
		v.heading(t.Position, t.Rotation, common.UnitZ, 0.6, colornames.White)
	})

	ecs.ForEach2(w, component.TargetComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, tg *component.Target, t *component.Transform) {
		half := common.OneVec
		if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
			half = c.Half
		}
		fill := colornames.Steelblue
		if tg.Lit {
			fill = colornames.Orangered
		}
		v.box(common.BoxAt(t.Position, half), fill, colornames.White)
	})

	ecs.ForEach2(w, component.EmitterComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, em *component.Emitter, t *component.Transform) {
		if !em.Active {
			return
		}
		x, y := v.project(t.Position)
		vector.StrokeCircle(screen, x, y, float32(1.5*v.scale), 2, colornames.Yellow, true)
	})

	ecs.ForEach2(w, component.DebrisComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, d *component.Debris, _ *component.Transform) {
		for _, p := range d.Particles {
			x, y := v.project(d.Origin.Add(p.Offset))
			vector.FillRect(screen, x-2, y-2, 4, 4, colornames.Orangered, false)
		}
	})

	if pe, _, ok := ecs.Single(w, component.PlayerComponent.Kind()); ok {
		if t, ok := ecs.Get(w, pe, component.TransformComponent.Kind()); ok {
			half := common.V3(0.5, 0.5, 0.5)
			if c, ok := ecs.Get(w, pe, component.ColliderComponent.Kind()); ok {
				half = c.Half
			}
			fill := colornames.Seagreen
			if m, ok := ecs.Get(w, pe, component.MotionComponent.Kind()); ok && m.IsDashing() {
				fill = colornames.Lime
			}
			v.box(common.BoxAt(t.Position, half), fill, colornames.White)
			v.heading(t.Position, t.Rotation, common.UnitX, 1.2, colornames.White)
		}
	}

	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Projectile, t *component.Transform) {
		x, y := v.project(t.Position)
		c := colornames.Lightgray
		if p.Phase == component.ProjectileLaunched {
			c = colornames.Cyan
		}
		vector.FillCircle(screen, x, y, float32(0.15*v.scale)+1, c, true)
	})

	r.drawHUD(w, screen)
}

func (r *RenderSystem) drawMission(w *ecs.World, v view) {
	_, m, ok := ecs.Single(w, component.MissionComponent.Kind())
	if !ok || m.State != component.MissionPursuing {
		return
	}
	for i := 1; i < len(m.Path); i++ {
		x0, y0 := v.project(m.Path[i-1])
		x1, y1 := v.project(m.Path[i])
		vector.StrokeLine(v.screen, x0, y0, x1, y1, 2, colornames.Gold, true)
	}
}

func (r *RenderSystem) drawHUD(w *ecs.World, screen *ebiten.Image) {
	state, mission := "-", "-"
	if pe, _, ok := ecs.Single(w, component.PlayerComponent.Kind()); ok {
		if m, ok := ecs.Get(w, pe, component.MotionComponent.Kind()); ok && m.State != nil {
			state = m.State.Name()
		}
	}
	if _, m, ok := ecs.Single(w, component.MissionComponent.Kind()); ok {
		mission = fmt.Sprintf("%s rest=%.2f", m.State, m.RestDistance)
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("t=%.1fs  motion=%s  mission=%s", w.Clock().Now()/1000, state, mission), 8, 8)
}

// Unproject maps a screen position back to the ground plane for a view of
// the given size, the inverse of what Draw uses.
func (r *RenderSystem) Unproject(w *ecs.World, x, y, width, height float64) common.Vec3 {
	scale := r.Scale
	if scale <= 0 {
		scale = 12
	}
	var cx, cz float64
	if p, ok := playerPosition(w); ok {
		cx, cz = p.X, p.Z
	}
	return common.V3(cx+(x-width/2)/scale, 0, cz-(y-height/2)/scale)
}
