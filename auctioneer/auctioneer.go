// Package auctioneer keeps a registry of independent auction sessions. Each
// session runs as its own ifrit process with its own event hub; sessions share
// nothing mutable.
package auctioneer

import (
	"errors"
	"os"
	"sort"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/clusterauction/auctionevents"
	"code.cloudfoundry.org/clusterauction/auctionrunner"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/util"
	"code.cloudfoundry.org/lager"
	"code.cloudfoundry.org/workpool"
	"github.com/tedsuo/ifrit"
)

var ErrShuttingDown = errors.New("auctioneer is shutting down")

var _ auctiontypes.SessionRegistry = &Auctioneer{}

type managedSession struct {
	session *auctionrunner.Session
	hub     *auctionevents.Hub
	process ifrit.Process
	exited  chan struct{}
}

type Auctioneer struct {
	logger    lager.Logger
	clock     clock.Clock
	workPool  *workpool.WorkPool
	seeds     *util.SeedSource
	rules     auctiontypes.AuctionRules
	maxQueued int
	retention time.Duration

	lock     *sync.RWMutex
	sessions map[string]*managedSession
	stopping bool
	stop     chan struct{}
}

// New builds an empty registry. A session that has stopped stays observable
// for retention and is then forgotten; a retention <= 0 keeps it until the
// auctioneer exits.
func New(
	logger lager.Logger,
	clk clock.Clock,
	workPool *workpool.WorkPool,
	seeds *util.SeedSource,
	rules auctiontypes.AuctionRules,
	maxQueued int,
	retention time.Duration,
) *Auctioneer {
	return &Auctioneer{
		logger:    logger.Session("auctioneer"),
		clock:     clk,
		workPool:  workPool,
		seeds:     seeds,
		rules:     rules,
		maxQueued: maxQueued,
		retention: retention,

		lock:     &sync.RWMutex{},
		sessions: map[string]*managedSession{},
		stop:     make(chan struct{}),
	}
}

// CreateSession validates params, starts the session's process and returns
// its initial snapshot. Nothing is registered when validation fails.
func (a *Auctioneer) CreateSession(params auctiontypes.SessionParams) (auctiontypes.SessionState, error) {
	logger := a.logger.Session("create-session", lager.Data{"resource": params.ResourceID})

	a.lock.Lock()
	defer a.lock.Unlock()

	if a.stopping {
		return auctiontypes.SessionState{}, ErrShuttingDown
	}

	hub := auctionevents.NewHub(logger, a.maxQueued)
	session, err := auctionrunner.NewSession(
		a.logger,
		a.clock,
		a.workPool,
		hub,
		util.NewRandomizer(a.seeds.Next()),
		a.rules,
		params,
		nil,
	)
	if err != nil {
		logger.Info("rejected", lager.Data{"reason": err.Error()})
		return auctiontypes.SessionState{}, err
	}

	managed := &managedSession{
		session: session,
		hub:     hub,
		process: ifrit.Background(session),
		exited:  make(chan struct{}),
	}
	a.sessions[session.Guid] = managed

	go func() {
		err := <-managed.process.Wait()
		hub.Close()
		close(managed.exited)
		if err != nil {
			logger.Error("session-exited-with-error", err, lager.Data{"guid": session.Guid})
		} else {
			logger.Info("session-exited", lager.Data{"guid": session.Guid})
		}
		a.evictAfterRetention(logger, session.Guid)
	}()

	logger.Info("created", lager.Data{"guid": session.Guid})
	return session.Snapshot(), nil
}

func (a *Auctioneer) StartVerification(guid string) error {
	managed, err := a.lookup(guid)
	if err != nil {
		return err
	}
	return managed.session.StartVerification()
}

func (a *Auctioneer) Observe(guid string) (auctiontypes.SessionState, error) {
	managed, err := a.lookup(guid)
	if err != nil {
		return auctiontypes.SessionState{}, err
	}
	return managed.session.Snapshot(), nil
}

// Sessions returns a snapshot of every known session, ordered by guid.
func (a *Auctioneer) Sessions() []auctiontypes.SessionState {
	a.lock.RLock()
	managed := make([]*managedSession, 0, len(a.sessions))
	for _, m := range a.sessions {
		managed = append(managed, m)
	}
	a.lock.RUnlock()

	states := make([]auctiontypes.SessionState, 0, len(managed))
	for _, m := range managed {
		states = append(states, m.session.Snapshot())
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Guid < states[j].Guid })
	return states
}

func (a *Auctioneer) Abort(guid string) error {
	managed, err := a.lookup(guid)
	if err != nil {
		return err
	}
	return managed.session.Abort()
}

func (a *Auctioneer) Report(guid string) (auctiontypes.SettlementReport, error) {
	managed, err := a.lookup(guid)
	if err != nil {
		return auctiontypes.SettlementReport{}, err
	}
	return managed.session.Report()
}

// Subscribe returns a subscription whose channel closes once the session has
// stopped and its remaining events were delivered. Subscribing to a session
// that already stopped yields auctionevents.ErrHubClosed.
func (a *Auctioneer) Subscribe(guid string) (auctiontypes.EventSubscription, error) {
	managed, err := a.lookup(guid)
	if err != nil {
		return nil, err
	}

	subscription, err := managed.hub.Subscribe()
	if err != nil {
		return nil, err
	}
	return subscription, nil
}

// Done is closed once the session's process has exited.
func (a *Auctioneer) Done(guid string) (<-chan struct{}, error) {
	managed, err := a.lookup(guid)
	if err != nil {
		return nil, err
	}
	return managed.exited, nil
}

// Run waits for a signal, then forwards it to every session and waits for them
// to stop.
func (a *Auctioneer) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	logger := a.logger.Session("run")
	close(ready)
	logger.Info("started")

	signal := <-signals
	logger.Info("signalled", lager.Data{"signal": signal.String()})

	a.lock.Lock()
	a.stopping = true
	close(a.stop)
	managed := make([]*managedSession, 0, len(a.sessions))
	for _, m := range a.sessions {
		managed = append(managed, m)
	}
	a.lock.Unlock()

	for _, m := range managed {
		m.process.Signal(signal)
	}
	for _, m := range managed {
		<-m.exited
	}

	logger.Info("stopped", lager.Data{"sessions": len(managed)})
	return nil
}

func (a *Auctioneer) evictAfterRetention(logger lager.Logger, guid string) {
	if a.retention <= 0 {
		return
	}

	timer := a.clock.NewTimer(a.retention)
	defer timer.Stop()

	select {
	case <-timer.C():
		a.lock.Lock()
		delete(a.sessions, guid)
		a.lock.Unlock()
		logger.Info("session-evicted", lager.Data{"guid": guid})
	case <-a.stop:
	}
}

func (a *Auctioneer) lookup(guid string) (*managedSession, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	managed, ok := a.sessions[guid]
	if !ok {
		return nil, auctiontypes.ErrSessionNotFound
	}
	return managed, nil
}
