package ecs

// Clock tracks simulated time in milliseconds.
type Clock struct {
	now   float64
	delta float64
	frame uint64
}

func (c *Clock) advance(dtMs float64) {
	if dtMs < 0 {
		dtMs = 0
	}
	c.delta = dtMs
	c.now += dtMs
	c.frame++
}

// Now is the simulated time since the world was created.
func (c *Clock) Now() float64 { return c.now }

// Delta is the duration of the current frame.
func (c *Clock) Delta() float64 { return c.delta }

func (c *Clock) Frame() uint64 { return c.frame }
