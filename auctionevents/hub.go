// Package auctionevents fans session events out to any number of
// subscribers. Emit never blocks: each subscriber owns an unbounded queue that
// a dedicated goroutine drains into its channel.
package auctionevents

import (
	"errors"
	"sync"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/lager"
	"github.com/gammazero/deque"
)

var ErrHubClosed = errors.New("event hub is closed")

// DefaultMaxQueued bounds a single subscriber's backlog. The oldest event is
// discarded once a subscriber falls this far behind.
const DefaultMaxQueued = 4096

type Hub struct {
	logger    lager.Logger
	maxQueued int

	lock        *sync.Mutex
	subscribers []*Subscription
	nextID      int
	closed      bool
}

func NewHub(logger lager.Logger, maxQueued int) *Hub {
	if maxQueued <= 0 {
		maxQueued = DefaultMaxQueued
	}
	return &Hub{
		logger:    logger.Session("event-hub"),
		maxQueued: maxQueued,
		lock:      &sync.Mutex{},
	}
}

func (h *Hub) Emit(event auctiontypes.Event) {
	h.lock.Lock()
	subscribers := make([]*Subscription, len(h.subscribers))
	copy(subscribers, h.subscribers)
	closed := h.closed
	h.lock.Unlock()

	if closed {
		return
	}

	for _, subscriber := range subscribers {
		if subscriber.push(event) {
			h.logger.Info("dropped-oldest-event", lager.Data{
				"subscriber": subscriber.id,
				"event":      event.EventType(),
			})
		}
	}
}

func (h *Hub) Subscribe() (*Subscription, error) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	h.nextID++
	subscription := newSubscription(h, h.nextID, h.maxQueued)
	h.subscribers = append(h.subscribers, subscription)
	go subscription.pump()

	return subscription, nil
}

func (h *Hub) SubscriberCount() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.subscribers)
}

// Close stops accepting events. Subscribers still receive whatever was queued
// before their channel is closed.
func (h *Hub) Close() {
	h.lock.Lock()
	if h.closed {
		h.lock.Unlock()
		return
	}
	h.closed = true
	subscribers := h.subscribers
	h.subscribers = nil
	h.lock.Unlock()

	for _, subscriber := range subscribers {
		subscriber.drain()
	}
}

func (h *Hub) unsubscribe(subscription *Subscription) {
	h.lock.Lock()
	defer h.lock.Unlock()

	for i, s := range h.subscribers {
		if s == subscription {
			h.subscribers = append(h.subscribers[:i], h.subscribers[i+1:]...)
			return
		}
	}
}

type Subscription struct {
	id        int
	hub       *Hub
	maxQueued int

	lock      *sync.Mutex
	queue     *deque.Deque[auctiontypes.Event]
	draining  bool
	hasEvents chan struct{}

	events    chan auctiontypes.Event
	done      chan struct{}
	closeOnce *sync.Once
}

func newSubscription(hub *Hub, id int, maxQueued int) *Subscription {
	return &Subscription{
		id:        id,
		hub:       hub,
		maxQueued: maxQueued,

		lock:      &sync.Mutex{},
		queue:     deque.New[auctiontypes.Event](),
		hasEvents: make(chan struct{}, 1),

		events:    make(chan auctiontypes.Event),
		done:      make(chan struct{}),
		closeOnce: &sync.Once{},
	}
}

// Events is closed after Close, or once the hub closes and the backlog has
// been delivered.
func (s *Subscription) Events() <-chan auctiontypes.Event {
	return s.events
}

func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.hub.unsubscribe(s)
	})
}

// push reports whether the oldest queued event had to be dropped.
func (s *Subscription) push(event auctiontypes.Event) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.draining {
		return false
	}

	dropped := false
	if s.queue.Len() >= s.maxQueued {
		s.queue.PopFront()
		dropped = true
	}
	s.queue.PushBack(event)
	s.claimToHaveEvents()
	return dropped
}

func (s *Subscription) drain() {
	s.lock.Lock()
	s.draining = true
	s.claimToHaveEvents()
	s.lock.Unlock()
}

func (s *Subscription) next() (auctiontypes.Event, bool, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.queue.Len() == 0 {
		return nil, false, s.draining
	}
	return s.queue.PopFront(), true, s.draining
}

func (s *Subscription) pump() {
	defer close(s.events)

	for {
		select {
		case <-s.hasEvents:
		case <-s.done:
			return
		}

		for {
			event, ok, draining := s.next()
			if !ok {
				if draining {
					return
				}
				break
			}

			select {
			case s.events <- event:
			case <-s.done:
				return
			}
		}
	}
}

func (s *Subscription) claimToHaveEvents() {
	select {
	case s.hasEvents <- struct{}{}:
	default:
	}
}
