package fake_auctioneer

import (
	"sync"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
)

type FakeSessionRegistry struct {
	lock *sync.Mutex

	createParams []auctiontypes.SessionParams
	createState  auctiontypes.SessionState
	createError  error

	verified          []string
	verificationError error

	observeState auctiontypes.SessionState
	observeError error

	sessions []auctiontypes.SessionState

	aborted    []string
	abortError error

	report      auctiontypes.SettlementReport
	reportError error

	subscription   *FakeEventSubscription
	subscribeError error
}

func NewFakeSessionRegistry() *FakeSessionRegistry {
	return &FakeSessionRegistry{
		lock: &sync.Mutex{},
	}
}

func (r *FakeSessionRegistry) CreateSession(params auctiontypes.SessionParams) (auctiontypes.SessionState, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.createParams = append(r.createParams, params)
	return r.createState, r.createError
}

func (r *FakeSessionRegistry) StartVerification(guid string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.verified = append(r.verified, guid)
	return r.verificationError
}

func (r *FakeSessionRegistry) Observe(guid string) (auctiontypes.SessionState, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.observeState, r.observeError
}

func (r *FakeSessionRegistry) Sessions() []auctiontypes.SessionState {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.sessions
}

func (r *FakeSessionRegistry) Abort(guid string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.aborted = append(r.aborted, guid)
	return r.abortError
}

func (r *FakeSessionRegistry) Report(guid string) (auctiontypes.SettlementReport, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.report, r.reportError
}

func (r *FakeSessionRegistry) Subscribe(guid string) (auctiontypes.EventSubscription, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.subscribeError != nil {
		return nil, r.subscribeError
	}
	return r.subscription, nil
}

func (r *FakeSessionRegistry) SetCreateResult(state auctiontypes.SessionState, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.createState, r.createError = state, err
}

func (r *FakeSessionRegistry) GetCreateParams() []auctiontypes.SessionParams {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.createParams
}

func (r *FakeSessionRegistry) SetVerificationError(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.verificationError = err
}

func (r *FakeSessionRegistry) GetVerified() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.verified
}

func (r *FakeSessionRegistry) SetObserveResult(state auctiontypes.SessionState, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.observeState, r.observeError = state, err
}

func (r *FakeSessionRegistry) SetSessions(sessions []auctiontypes.SessionState) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.sessions = sessions
}

func (r *FakeSessionRegistry) SetAbortError(err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.abortError = err
}

func (r *FakeSessionRegistry) GetAborted() []string {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.aborted
}

func (r *FakeSessionRegistry) SetReportResult(report auctiontypes.SettlementReport, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.report, r.reportError = report, err
}

func (r *FakeSessionRegistry) SetSubscription(subscription *FakeEventSubscription, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.subscription, r.subscribeError = subscription, err
}

// FakeEventSubscription hands out whatever is sent on Send.
type FakeEventSubscription struct {
	events    chan auctiontypes.Event
	closed    chan struct{}
	closeOnce *sync.Once
}

func NewFakeEventSubscription() *FakeEventSubscription {
	return &FakeEventSubscription{
		events:    make(chan auctiontypes.Event, 16),
		closed:    make(chan struct{}),
		closeOnce: &sync.Once{},
	}
}

func (s *FakeEventSubscription) Events() <-chan auctiontypes.Event {
	return s.events
}

func (s *FakeEventSubscription) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

func (s *FakeEventSubscription) Send(event auctiontypes.Event) {
	s.events <- event
}

// End closes the event channel, as a hub does once its session stops.
func (s *FakeEventSubscription) End() {
	close(s.events)
}

func (s *FakeEventSubscription) Closed() <-chan struct{} {
	return s.closed
}
