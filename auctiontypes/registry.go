package auctiontypes

type EventSubscription interface {
	Events() <-chan Event
	Close()
}

// SessionRegistry is what outer surfaces (HTTP, the simulator) need from the
// engine.
type SessionRegistry interface {
	CreateSession(params SessionParams) (SessionState, error)
	StartVerification(guid string) error
	Observe(guid string) (SessionState, error)
	Sessions() []SessionState
	Abort(guid string) error
	Report(guid string) (SettlementReport, error)
	Subscribe(guid string) (EventSubscription, error)
}
