package system

import (
	"math"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs"
	"github.com/milk9111/pursuit/ecs/component"
)

// SlideAnimationSystem plays keyframed X offsets on simulated time.
type SlideAnimationSystem struct{}

func NewSlideAnimationSystem() *SlideAnimationSystem {
	return &SlideAnimationSystem{}
}

func (a *SlideAnimationSystem) Update(w *ecs.World) {
	dt := w.Clock().Delta()
	ecs.ForEach2(w, component.SlideAnimationComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, anim *component.SlideAnimation, t *component.Transform) {
		if len(anim.Keys) == 0 || anim.FPS <= 0 {
			return
		}
		anim.Elapsed += dt
		t.Position.X = anim.BaseX + SampleSlide(anim.Keys, anim.Elapsed/1000*anim.FPS, anim.Loop)
	})
}

// SampleSlide interpolates keys at a fractional frame.
func SampleSlide(keys []component.Keyframe, frame float64, loop bool) float64 {
	if len(keys) == 0 {
		return 0
	}
	first, last := keys[0], keys[len(keys)-1]
	span := float64(last.Frame - first.Frame)
	if loop && span > 0 && frame > float64(last.Frame) {
		frame = float64(first.Frame) + math.Mod(frame-float64(first.Frame), span)
	}
	if frame <= float64(first.Frame) {
		return first.Value
	}
	for i := 1; i < len(keys); i++ {
		k0, k1 := keys[i-1], keys[i]
		if frame > float64(k1.Frame) {
			continue
		}
		f := float64(k1.Frame - k0.Frame)
		if f <= 0 {
			return k1.Value
		}
		return common.Lerp(k0.Value, k1.Value, (frame-float64(k0.Frame))/f)
	}
	return last.Value
}
