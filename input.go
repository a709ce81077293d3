package main

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs/system"
)

// Input collects keyboard and mouse edges into raw events for the
// simulation. The right mouse button orbits the view; the left button picks
// a ground point.
type Input struct {
	unproject func(x, y int) (float64, float64, float64)

	pending  []system.RawEvent
	dragging bool
	lastX    int
	keys     []ebiten.Key
}

func NewInput(unproject func(x, y int) (float64, float64, float64)) *Input {
	return &Input{unproject: unproject}
}

// keyName maps an ebiten key to the lower-case names the key map uses.
func keyName(k ebiten.Key) string {
	name := strings.ToLower(k.String())
	if strings.HasPrefix(name, "shift") {
		return "shift"
	}
	return name
}

// Update polls devices once per frame.
func (i *Input) Update() {
	i.keys = inpututil.AppendJustPressedKeys(i.keys[:0])
	for _, k := range i.keys {
		i.pending = append(i.pending, system.RawEvent{Kind: system.KeyDown, Key: keyName(k)})
	}
	i.keys = inpututil.AppendJustReleasedKeys(i.keys[:0])
	for _, k := range i.keys {
		i.pending = append(i.pending, system.RawEvent{Kind: system.KeyUp, Key: keyName(k)})
	}

	mx, my := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		i.dragging, i.lastX = true, mx
		i.pending = append(i.pending, system.RawEvent{Kind: system.DragStart})
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) && i.dragging:
		i.dragging = false
		i.pending = append(i.pending, system.RawEvent{Kind: system.DragEnd})
	case i.dragging && mx != i.lastX:
		i.pending = append(i.pending, system.RawEvent{Kind: system.DragMove, DX: float64(mx - i.lastX)})
		i.lastX = mx
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && i.unproject != nil {
		x, y, z := i.unproject(mx, my)
		i.pending = append(i.pending, system.RawEvent{Kind: system.PointerPick, Point: common.V3(x, y, z)})
	}
}

func (i *Input) Poll() []system.RawEvent {
	out := i.pending
	i.pending = nil
	return out
}
