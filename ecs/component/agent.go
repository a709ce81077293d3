package component

import "github.com/milk9111/pursuit/common"

// Agent links a visual actor to its crowd slot.
type Agent struct {
	Index    int
	TurnRate float64
}

var AgentComponent = NewComponent[Agent]()

type MissionState uint8

const (
	MissionIdle MissionState = iota
	MissionPursuing
)

func (m MissionState) String() string {
	if m == MissionPursuing {
		return "pursuing"
	}
	return "idle"
}

// Mission is the shared pursuit arbitration state.
type Mission struct {
	State          MissionState
	Destination    common.Vec3
	HasDestination bool
	RestDistance   float64
	Path           []common.Vec3
	Scatter        bool
	RetargetTimer  uint64
}

var MissionComponent = NewComponent[Mission]()

// PickMarker shows a picked destination until its TTL runs out.
type PickMarker struct {
	Radius float64
}

var PickMarkerComponent = NewComponent[PickMarker]()
