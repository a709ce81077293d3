package component

// TTL destroys its entity once Millis of simulated time have elapsed.
type TTL struct {
	Millis float64
}

var TTLComponent = NewComponent[TTL]()
