package auctionrunner

import (
	"os"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/settlement"
	"code.cloudfoundry.org/clusterauction/util"
	"code.cloudfoundry.org/lager"
	"code.cloudfoundry.org/workpool"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

/*
Session is a single auction run. It moves through Setup, Verifying, Live and
Completed, and may be aborted from any phase before Completed.

All mutation happens on the goroutine executing Run, under the session lock.
Every mutation re-checks the aborted flag while holding the lock, so an abort
and a timer fire competing for the same round can never both take effect.
Events are collected under the lock and emitted after it is released, but
before emitLock is released. Every mutating path takes emitLock first, so
subscribers see events in the order their mutations were committed.
*/
type Session struct {
	Guid string

	logger     lager.Logger
	clock      clock.Clock
	workPool   *workpool.WorkPool
	emitter    auctiontypes.EventEmitter
	randomizer util.Randomizer
	model      AgentModel
	pool       CountryPool
	rules      auctiontypes.AuctionRules
	params     auctiontypes.SessionParams

	verifying chan clock.Ticker
	done      chan struct{}
	doneOnce  *sync.Once

	emitLock          *sync.Mutex
	lock              *sync.RWMutex
	status            auctiontypes.SessionStatus
	aborted           bool
	currentRound      int
	verificationStep  int
	ticks             int
	pendingResolution bool
	clusters          []*Cluster
	roundWinners      []auctiontypes.RoundWinner
	totalRevenue      decimal.Decimal
}

// NewSession validates params against rules and returns a session in Setup.
// A nil model falls back to the stochastic model described by rules; a nil
// work pool steps clusters sequentially.
func NewSession(
	logger lager.Logger,
	clk clock.Clock,
	workPool *workpool.WorkPool,
	emitter auctiontypes.EventEmitter,
	randomizer util.Randomizer,
	rules auctiontypes.AuctionRules,
	params auctiontypes.SessionParams,
	model AgentModel,
) (*Session, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	params, err := ResolveParams(rules, params)
	if err != nil {
		return nil, err
	}

	if model == nil {
		model = NewStochasticModel(rules)
	}
	if emitter == nil {
		emitter = auctiontypes.EventEmitterFunc(func(auctiontypes.Event) {})
	}

	guid := uuid.NewString()

	return &Session{
		Guid: guid,

		logger: logger.Session("session", lager.Data{
			"guid":     guid,
			"resource": params.ResourceID,
		}),
		clock:      clk,
		workPool:   workPool,
		emitter:    emitter,
		randomizer: randomizer,
		model:      model,
		pool:       NewCountryPool(rules.CountryNames),
		rules:      rules,
		params:     params,

		verifying: make(chan clock.Ticker, 1),
		done:      make(chan struct{}),
		doneOnce:  &sync.Once{},

		emitLock:     &sync.Mutex{},
		lock:         &sync.RWMutex{},
		status:       auctiontypes.StatusSetup,
		totalRevenue: decimal.Zero,
	}, nil
}

func (s *Session) Params() auctiontypes.SessionParams {
	return s.params
}

// StartVerification moves the session from Setup to Verifying. The steps are
// played out by Run.
func (s *Session) StartVerification() error {
	s.lock.Lock()
	if s.aborted || s.status != auctiontypes.StatusSetup {
		err := s.transitionError("start verification")
		s.lock.Unlock()
		return err
	}

	s.status = auctiontypes.StatusVerifying
	s.verifying <- s.clock.NewTicker(s.rules.VerificationStepInterval)
	s.lock.Unlock()

	s.logger.Info("verifying", lager.Data{"steps": len(s.rules.VerificationSteps)})
	return nil
}

func (s *Session) Run(signals <-chan os.Signal, ready chan<- struct{}) error {
	logger := s.logger.Session("run")
	logger.Info("starting")
	defer logger.Info("finished")

	var stepTicker, roundTicker clock.Ticker
	var decisionTimer clock.Timer
	var stepC, tickC, decisionC <-chan time.Time

	defer func() {
		select {
		case ticker := <-s.verifying:
			ticker.Stop()
		default:
		}
		if stepTicker != nil {
			stepTicker.Stop()
		}
		if roundTicker != nil {
			roundTicker.Stop()
		}
		if decisionTimer != nil {
			decisionTimer.Stop()
		}
	}()

	close(ready)

	for {
		select {
		case signal := <-signals:
			logger.Info("signalled", lager.Data{"signal": signal.String()})
			err := s.Abort()
			if err != nil && err != auctiontypes.ErrAlreadyAborted {
				logger.Info("abort-skipped", lager.Data{"reason": err.Error()})
			}
			return nil

		case <-s.done:
			return nil

		case stepTicker = <-s.verifying:
			stepC = stepTicker.C()

		case <-stepC:
			ticker, err := s.completeVerificationStep()
			if err != nil {
				if s.terminal() {
					return nil
				}
				logger.Error("failed-to-complete-verification-step", err)
				return nil
			}
			if ticker != nil {
				stepTicker.Stop()
				stepTicker, stepC = nil, nil
				roundTicker, tickC = ticker, ticker.C()
			}

		case <-tickC:
			timer := s.tick()
			if timer != nil {
				decisionTimer, decisionC = timer, timer.C()
			}

		case <-decisionC:
			decisionTimer, decisionC = nil, nil
			err := s.resolveRound()
			if err != nil {
				if s.terminal() {
					return nil
				}
				logger.Error("failed-to-resolve-round", err)
				continue
			}
			if s.terminal() {
				return nil
			}
		}
	}
}

// completeVerificationStep returns the round ticker once the last step
// completes and the session has gone live.
func (s *Session) completeVerificationStep() (clock.Ticker, error) {
	events := []auctiontypes.Event{}

	s.emitLock.Lock()
	defer s.emitLock.Unlock()

	s.lock.Lock()
	if s.aborted || s.status != auctiontypes.StatusVerifying {
		err := s.transitionError("complete verification step")
		s.lock.Unlock()
		return nil, err
	}

	name := s.rules.VerificationSteps[s.verificationStep]
	s.verificationStep++
	events = append(events, auctiontypes.VerificationStepCompletedEvent{
		Session: s.Guid,
		Index:   s.verificationStep,
		Name:    name,
	})

	var ticker clock.Ticker
	if s.verificationStep == len(s.rules.VerificationSteps) {
		err := s.goLive()
		if err != nil {
			s.lock.Unlock()
			return nil, err
		}
		ticker = s.clock.NewTicker(s.rules.TickInterval)
		events = append(events, auctiontypes.SessionLiveEvent{Session: s.Guid, Round: s.currentRound})
	}
	s.lock.Unlock()

	s.logger.Info("verification-step-completed", lager.Data{"step": name})
	s.emit(events)
	return ticker, nil
}

// goLive must be called with the lock held.
func (s *Session) goLive() error {
	clusters := make([]*Cluster, 0, s.params.ClusterCount)
	for i := 0; i < s.params.ClusterCount; i++ {
		clusters = append(clusters, NewCluster(i+1, s.params.AgentsPerCluster, util.Derive(s.randomizer)))
	}

	s.clusters = clusters
	s.currentRound = 1
	err := s.seedClusters()
	if err != nil {
		return err
	}

	s.status = auctiontypes.StatusLive
	s.logger.Info("live", lager.Data{
		"clusters":           len(s.clusters),
		"agents-per-cluster": s.params.AgentsPerCluster,
		"max-rounds":         s.params.MaxRounds,
	})
	return nil
}

func (s *Session) seedClusters() error {
	for _, cluster := range s.clusters {
		err := cluster.Seed(s.currentRound, s.pool, s.model, s.params.BasePrice)
		if err != nil {
			return err
		}
	}
	return nil
}

// Abort stops the session. It is a no-op returning ErrAlreadyAborted when the
// session was already aborted, and fails once the session has completed.
func (s *Session) Abort() error {
	s.emitLock.Lock()
	defer s.emitLock.Unlock()

	s.lock.Lock()
	if s.aborted {
		s.lock.Unlock()
		return auctiontypes.ErrAlreadyAborted
	}
	if s.status == auctiontypes.StatusCompleted {
		err := s.transitionError("abort")
		s.lock.Unlock()
		return err
	}

	s.aborted = true
	event := auctiontypes.SessionAbortedEvent{
		Session: s.Guid,
		Status:  s.status,
		Round:   s.currentRound,
	}
	s.lock.Unlock()

	s.logger.Info("aborted", lager.Data{"status": event.Status, "round": event.Round})
	s.emit([]auctiontypes.Event{event})
	s.finish()
	return nil
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() auctiontypes.SessionState {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot()
}

func (s *Session) snapshot() auctiontypes.SessionState {
	clusters := make([]auctiontypes.ClusterState, 0, len(s.clusters))
	for _, cluster := range s.clusters {
		clusters = append(clusters, cluster.State())
	}

	roundWinners := make([]auctiontypes.RoundWinner, len(s.roundWinners))
	copy(roundWinners, s.roundWinners)

	totalRevenue := 0.0
	for _, winner := range roundWinners {
		totalRevenue += winner.WinningBid
	}
	avgWinningBid := 0.0
	if len(roundWinners) > 0 {
		avgWinningBid = totalRevenue / float64(len(roundWinners))
	}

	steps := make([]string, len(s.rules.VerificationSteps))
	copy(steps, s.rules.VerificationSteps)

	return auctiontypes.SessionState{
		Guid:       s.Guid,
		ResourceID: s.params.ResourceID,
		BasePrice:  s.params.BasePrice,
		TotalUnits: s.params.TotalUnits,

		Status:  s.status,
		Aborted: s.aborted,

		CurrentRound: s.currentRound,
		MaxRounds:    s.params.MaxRounds,

		VerificationStep:  s.verificationStep,
		VerificationSteps: steps,

		Ticks:             s.ticks,
		PendingResolution: s.pendingResolution,

		Clusters:      clusters,
		RoundWinners:  roundWinners,
		TotalRevenue:  totalRevenue,
		AvgWinningBid: avgWinningBid,
	}
}

// Report is only available once the session has completed.
func (s *Session) Report() (auctiontypes.SettlementReport, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	if s.aborted || s.status != auctiontypes.StatusCompleted {
		return auctiontypes.SettlementReport{}, s.transitionError("report")
	}
	return settlement.Aggregate(s.snapshot()), nil
}

func (s *Session) terminal() bool {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.aborted || s.status == auctiontypes.StatusCompleted
}

// Done is closed once the session has completed or been aborted.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) finish() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Session) transitionError(operation string) error {
	return &auctiontypes.InvalidTransitionError{
		From:      s.status,
		Operation: operation,
		Aborted:   s.aborted,
	}
}

func (s *Session) emit(events []auctiontypes.Event) {
	for _, event := range events {
		s.emitter.Emit(event)
	}
}
