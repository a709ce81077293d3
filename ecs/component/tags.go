package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type TargetTag struct{}

var TargetTagComponent = NewComponent[TargetTag]()

type ProjectileTag struct{}

var ProjectileTagComponent = NewComponent[ProjectileTag]()

type AgentTag struct{}

var AgentTagComponent = NewComponent[AgentTag]()

type StaticTag struct{}

var StaticTagComponent = NewComponent[StaticTag]()
