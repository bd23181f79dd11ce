package auctionrunner_test

import (
	"sync"

	"code.cloudfoundry.org/clusterauction/auctionrunner"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/util"
)

// ScriptedModel bids a fixed amount per agent index and applies whatever
// decision the test last set.
type ScriptedModel struct {
	lock        *sync.Mutex
	bids        []float64
	decision    auctionrunner.Decision
	perAgent    map[int]auctionrunner.Decision
	decideCalls int
}

func NewScriptedModel(bids ...float64) *ScriptedModel {
	return &ScriptedModel{
		lock:     &sync.Mutex{},
		bids:     bids,
		decision: auctionrunner.Stay,
		perAgent: map[int]auctionrunner.Decision{},
	}
}

func (m *ScriptedModel) SetDecision(decision auctionrunner.Decision) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.decision = decision
	m.perAgent = map[int]auctionrunner.Decision{}
}

func (m *ScriptedModel) SetDecisionFor(agentIndex int, decision auctionrunner.Decision) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.perAgent[agentIndex] = decision
}

func (m *ScriptedModel) DecideCalls() int {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.decideCalls
}

func (m *ScriptedModel) BidAmount(r util.Randomizer, seat auctionrunner.Seat, basePrice float64) float64 {
	if len(m.bids) == 0 {
		return basePrice
	}
	return m.bids[seat.AgentIndex%len(m.bids)]
}

func (m *ScriptedModel) Decide(r util.Randomizer, seat auctionrunner.Seat, agent auctiontypes.AgentState) auctionrunner.Decision {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.decideCalls++
	if decision, ok := m.perAgent[seat.AgentIndex]; ok {
		return decision
	}
	return m.decision
}

type RecordingEmitter struct {
	lock   *sync.Mutex
	events []auctiontypes.Event
}

func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{lock: &sync.Mutex{}}
}

func (e *RecordingEmitter) Emit(event auctiontypes.Event) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.events = append(e.events, event)
}

func (e *RecordingEmitter) Events() []auctiontypes.Event {
	e.lock.Lock()
	defer e.lock.Unlock()
	events := make([]auctiontypes.Event, len(e.events))
	copy(events, e.events)
	return events
}

func (e *RecordingEmitter) Types() []auctiontypes.EventType {
	types := []auctiontypes.EventType{}
	for _, event := range e.Events() {
		types = append(types, event.EventType())
	}
	return types
}

func (e *RecordingEmitter) EventsOfType(eventType auctiontypes.EventType) []auctiontypes.Event {
	events := []auctiontypes.Event{}
	for _, event := range e.Events() {
		if event.EventType() == eventType {
			events = append(events, event)
		}
	}
	return events
}

// FakeRandomizer replays Float64 draws and hands out the identity permutation.
type FakeRandomizer struct {
	Floats []float64
}

func (r *FakeRandomizer) Float64() float64 {
	if len(r.Floats) == 0 {
		return 0
	}
	f := r.Floats[0]
	r.Floats = r.Floats[1:]
	return f
}

func (r *FakeRandomizer) Intn(n int) int {
	return 0
}

func (r *FakeRandomizer) Int63() int64 {
	return 0
}

func (r *FakeRandomizer) Perm(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

func BuildCountryPool(n int) auctionrunner.CountryPool {
	return auctionrunner.NewCountryPool(auctionrunner.DefaultCountryNames[:n])
}

// GatedEmitter records like RecordingEmitter but holds the first event of
// the gated type until Open is called.
type GatedEmitter struct {
	*RecordingEmitter
	gatedType auctiontypes.EventType
	once      *sync.Once
	blocked   chan struct{}
	gate      chan struct{}
}

func NewGatedEmitter(gatedType auctiontypes.EventType) *GatedEmitter {
	return &GatedEmitter{
		RecordingEmitter: NewRecordingEmitter(),
		gatedType:        gatedType,
		once:             &sync.Once{},
		blocked:          make(chan struct{}),
		gate:             make(chan struct{}),
	}
}

func (e *GatedEmitter) Emit(event auctiontypes.Event) {
	if event.EventType() == e.gatedType {
		held := false
		e.once.Do(func() { held = true })
		if held {
			close(e.blocked)
			<-e.gate
		}
	}
	e.RecordingEmitter.Emit(event)
}

func (e *GatedEmitter) Blocked() <-chan struct{} {
	return e.blocked
}

func (e *GatedEmitter) Open() {
	close(e.gate)
}
