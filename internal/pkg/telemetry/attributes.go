package telemetry

// Span attribute keys shared by the usecases.
const (
	AttrTopic     = "citytwin.topic"
	AttrPersona   = "citytwin.persona"
	AttrSessionID = "citytwin.session_id"
	AttrScore     = "citytwin.score"
	AttrKind      = "citytwin.simulation"
)
