package auctiontypes

type EventType string

const (
	AgentWithdrewEventType             EventType = "agent.withdrew"
	RoundResolvedEventType             EventType = "round.resolved"
	SessionCompletedEventType          EventType = "session.completed"
	VerificationStepCompletedEventType EventType = "verification.step_completed"
	SessionLiveEventType               EventType = "session.live"
	SessionAbortedEventType            EventType = "session.aborted"
)

// Event is implemented only by the variants below.
type Event interface {
	EventType() EventType
	SessionGuid() string
	event()
}

type EventEmitter interface {
	Emit(Event)
}

type EventEmitterFunc func(Event)

func (f EventEmitterFunc) Emit(e Event) {
	f(e)
}

type AgentWithdrewEvent struct {
	Session     string `json:"session_guid"`
	ClusterID   int    `json:"cluster_id"`
	CountryName string `json:"country_name"`
	Round       int    `json:"round"`
}

type RoundResolvedEvent struct {
	Session string        `json:"session_guid"`
	Round   int           `json:"round"`
	Winners []RoundWinner `json:"winners"`
}

type SessionCompletedEvent struct {
	Session string           `json:"session_guid"`
	Totals  SettlementTotals `json:"totals"`
}

type VerificationStepCompletedEvent struct {
	Session string `json:"session_guid"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
}

type SessionLiveEvent struct {
	Session string `json:"session_guid"`
	Round   int    `json:"round"`
}

type SessionAbortedEvent struct {
	Session string        `json:"session_guid"`
	Status  SessionStatus `json:"status"`
	Round   int           `json:"round"`
}

func (AgentWithdrewEvent) EventType() EventType             { return AgentWithdrewEventType }
func (RoundResolvedEvent) EventType() EventType             { return RoundResolvedEventType }
func (SessionCompletedEvent) EventType() EventType          { return SessionCompletedEventType }
func (VerificationStepCompletedEvent) EventType() EventType { return VerificationStepCompletedEventType }
func (SessionLiveEvent) EventType() EventType               { return SessionLiveEventType }
func (SessionAbortedEvent) EventType() EventType            { return SessionAbortedEventType }

func (e AgentWithdrewEvent) SessionGuid() string             { return e.Session }
func (e RoundResolvedEvent) SessionGuid() string             { return e.Session }
func (e SessionCompletedEvent) SessionGuid() string          { return e.Session }
func (e VerificationStepCompletedEvent) SessionGuid() string { return e.Session }
func (e SessionLiveEvent) SessionGuid() string               { return e.Session }
func (e SessionAbortedEvent) SessionGuid() string            { return e.Session }

func (AgentWithdrewEvent) event()             {}
func (RoundResolvedEvent) event()             {}
func (SessionCompletedEvent) event()          {}
func (VerificationStepCompletedEvent) event() {}
func (SessionLiveEvent) event()               {}
func (SessionAbortedEvent) event()            {}

// EventEnvelope is the wire shape used when events leave the process.
type EventEnvelope struct {
	Type EventType `json:"type"`
	Data Event     `json:"data"`
}

func NewEventEnvelope(e Event) EventEnvelope {
	return EventEnvelope{Type: e.EventType(), Data: e}
}
