package sim

import (
	"fmt"
	"sort"

	"github.com/milk9111/pursuit/common"
	"github.com/milk9111/pursuit/ecs/system"
	"gopkg.in/yaml.v3"
)

// PlanStep is a batch of raw events delivered at a simulated time.
type PlanStep struct {
	AtMs   float64     `yaml:"at_ms"`
	Events []PlanEvent `yaml:"events"`
}

type PlanEvent struct {
	Kind  string     `yaml:"kind"`
	Key   string     `yaml:"key,omitempty"`
	DX    float64    `yaml:"dx,omitempty"`
	Point [3]float64 `yaml:"point,omitempty"`
}

var planKinds = map[string]system.RawEventKind{
	"key_down":   system.KeyDown,
	"key_up":     system.KeyUp,
	"drag_start": system.DragStart,
	"drag_move":  system.DragMove,
	"drag_end":   system.DragEnd,
	"pick":       system.PointerPick,
}

// Plan is a scripted input source driven by simulated time.
type Plan struct {
	steps []PlanStep
	now   func() float64
	next  int
}

// ParsePlan decodes a YAML list of plan steps.
func ParsePlan(data []byte) ([]PlanStep, error) {
	var steps []PlanStep
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("sim: parse plan: %w", err)
	}
	for i, st := range steps {
		for _, ev := range st.Events {
			if _, ok := planKinds[ev.Kind]; !ok {
				return nil, fmt.Errorf("sim: plan step %d: unknown event kind %q", i, ev.Kind)
			}
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].AtMs < steps[j].AtMs })
	return steps, nil
}

// NewPlan returns a source that releases steps once now() reaches them.
func NewPlan(steps []PlanStep, now func() float64) *Plan {
	return &Plan{steps: steps, now: now}
}

func (p *Plan) Poll() []system.RawEvent {
	if p == nil || p.now == nil {
		return nil
	}
	var out []system.RawEvent
	t := p.now()
	for p.next < len(p.steps) && p.steps[p.next].AtMs <= t {
		for _, ev := range p.steps[p.next].Events {
			out = append(out, system.RawEvent{
				Kind:  planKinds[ev.Kind],
				Key:   ev.Key,
				DX:    ev.DX,
				Point: common.V3(ev.Point[0], ev.Point[1], ev.Point[2]),
			})
		}
		p.next++
	}
	return out
}

// Done reports whether every step has been delivered.
func (p *Plan) Done() bool {
	return p == nil || p.next >= len(p.steps)
}
