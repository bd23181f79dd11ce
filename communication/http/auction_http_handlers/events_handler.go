package auction_http_handlers

import (
	"net/http"
	"time"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/lager"
	"github.com/gorilla/websocket"
	"github.com/tedsuo/rata"
)

// streamEvents forwards a session's events over a websocket as
// auctiontypes.EventEnvelope text frames. The stream ends with a normal
// closure once the session has stopped and every queued event was sent.
type streamEvents struct {
	registry     auctiontypes.SessionRegistry
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       lager.Logger
}

func (h *streamEvents) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guid := rata.Param(r, "guid")
	logger := h.logger.Session("stream-events", lager.Data{"guid": guid})
	logger.Info("handling")

	// subscribe first so a missing session is still a plain HTTP error
	subscription, err := h.registry.Subscribe(guid)
	if err != nil {
		logger.Error("failed-to-subscribe", err)
		writeError(w, err)
		return
	}
	defer subscription.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed-to-upgrade", err)
		return
	}
	defer conn.Close()

	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	sent := 0
	for {
		select {
		case <-clientGone:
			logger.Info("client-disconnected", lager.Data{"sent": sent})
			return

		case event, ok := <-subscription.Events():
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				logger.Info("success", lager.Data{"sent": sent})
				return
			}

			conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
			err := conn.WriteJSON(auctiontypes.NewEventEnvelope(event))
			if err != nil {
				logger.Error("failed-to-write-event", err)
				return
			}
			sent++
		}
	}
}
