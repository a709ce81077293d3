package component

// Keyframe is one key of a slide animation, in animation frames.
type Keyframe struct {
	Frame int
	Value float64
}

// SlideAnimation offsets the actor's X from BaseX by interpolated keys.
type SlideAnimation struct {
	Keys    []Keyframe
	FPS     float64
	Loop    bool
	Elapsed float64
	BaseX   float64
}

var SlideAnimationComponent = NewComponent[SlideAnimation]()
