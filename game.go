package main

import (
	"encoding/json"
	"sync"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/pursuit/ecs/system"
	"github.com/milk9111/pursuit/logger"
	"github.com/milk9111/pursuit/prefabs"
	"github.com/milk9111/pursuit/sim"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	sim      *sim.Sim
	render   *system.RenderSystem
	input    *Input
	watcher  *prefabs.Watcher
	pauseUI  *ebitenui.UI
	paused   bool
	quit     bool
	lastDraw [2]float64
}

func NewGame(tuning prefabs.TuningSpec, debug bool) (*Game, error) {
	g := &Game{}
	g.input = NewInput(g.unproject)

	s, err := sim.New(tuning, g.input)
	if err != nil {
		return nil, err
	}
	g.sim = s
	g.render = system.NewRenderSystem(s.NavMesh())
	g.applyViewer(tuning.Viewer)
	g.render.ShowPhysics = debug
	g.pauseUI = NewPauseUI(g)

	if debug {
		w, err := prefabs.NewDefaultWatcher()
		if err != nil {
			logger.L().Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) applyViewer(v prefabs.ViewerSpec) {
	if v.Scale > 0 {
		g.render.Scale = v.Scale
	}
	if v.Background.Color != nil {
		g.render.Background = v.Background.Color
	}
	g.render.ShowNav = v.ShowNav
}

// reloadTuning re-reads the tuning file and applies it to the running
// session.
func (g *Game) reloadTuning() {
	t, err := prefabs.LoadTuning("")
	if err != nil {
		logger.L().Warn("tuning reload rejected", "err", err)
		return
	}
	g.sim.ApplyTuning(t)
	g.applyViewer(t.Viewer)
}

var clipboardInit = sync.OnceValue(clipboard.Init)

// copyFrame puts the current frame, as the observer stream encodes it, on the
// system clipboard.
func (g *Game) copyFrame() {
	if err := clipboardInit(); err != nil {
		logger.L().Warn("clipboard unavailable", "err", err)
		return
	}
	b, err := json.MarshalIndent(g.sim.Snapshot(), "", "  ")
	if err != nil {
		logger.L().Warn("encode frame", "err", err)
		return
	}
	clipboard.Write(clipboard.FmtText, b)
	logger.L().Info("frame copied to clipboard", "bytes", len(b))
}

func (g *Game) unproject(x, y int) (float64, float64, float64) {
	p := g.render.Unproject(g.sim.World(), float64(x), float64(y), g.lastDraw[0], g.lastDraw[1])
	return p.X, p.Y, p.Z
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if g.watcher != nil {
		select {
		case path := <-g.watcher.Events:
			if prefabs.Classify(path) == prefabs.ChangeTuning {
				g.reloadTuning()
			} else {
				g.sim.HandleChange(path)
			}
		case err := <-g.watcher.Errors:
			logger.L().Warn("watch error", "err", err)
		default:
		}
	}

	g.input.Update()
	g.sim.Step(1000 / float64(ebiten.TPS()))
	for _, ev := range g.sim.World().Events().Drain() {
		logger.L().Debug("event", "type", ev.Type, "data", ev.Data)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	g.lastDraw = [2]float64{float64(b.Dx()), float64(b.Dy())}
	g.render.Draw(g.sim.World(), screen)
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}
