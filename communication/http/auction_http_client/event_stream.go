package auction_http_client

import (
	"encoding/json"
	"fmt"
	"sync"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/lager"
	"github.com/gorilla/websocket"
)

type eventStream struct {
	conn      *websocket.Conn
	events    chan auctiontypes.Event
	closed    chan struct{}
	closeOnce *sync.Once
	logger    lager.Logger
}

func (s *eventStream) Events() <-chan auctiontypes.Event {
	return s.events
}

func (s *eventStream) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.conn.Close()
	})
}

func (s *eventStream) read() {
	defer close(s.events)

	for {
		var envelope struct {
			Type auctiontypes.EventType `json:"type"`
			Data json.RawMessage        `json:"data"`
		}

		err := s.conn.ReadJSON(&envelope)
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				select {
				case <-s.closed:
				default:
					s.logger.Error("failed-to-read-event", err)
				}
			}
			return
		}

		event, err := DecodeEvent(envelope.Type, envelope.Data)
		if err != nil {
			s.logger.Error("failed-to-decode-event", err)
			continue
		}

		select {
		case s.events <- event:
		case <-s.closed:
			return
		}
	}
}

// DecodeEvent rebuilds a typed event from an envelope's type and data.
func DecodeEvent(eventType auctiontypes.EventType, data []byte) (auctiontypes.Event, error) {
	var event auctiontypes.Event
	var err error

	switch eventType {
	case auctiontypes.AgentWithdrewEventType:
		var e auctiontypes.AgentWithdrewEvent
		err = json.Unmarshal(data, &e)
		event = e
	case auctiontypes.RoundResolvedEventType:
		var e auctiontypes.RoundResolvedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case auctiontypes.SessionCompletedEventType:
		var e auctiontypes.SessionCompletedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case auctiontypes.VerificationStepCompletedEventType:
		var e auctiontypes.VerificationStepCompletedEvent
		err = json.Unmarshal(data, &e)
		event = e
	case auctiontypes.SessionLiveEventType:
		var e auctiontypes.SessionLiveEvent
		err = json.Unmarshal(data, &e)
		event = e
	case auctiontypes.SessionAbortedEventType:
		var e auctiontypes.SessionAbortedEvent
		err = json.Unmarshal(data, &e)
		event = e
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}

	if err != nil {
		return nil, err
	}
	return event, nil
}
