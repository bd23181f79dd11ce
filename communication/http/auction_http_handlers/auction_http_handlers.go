package auction_http_handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"code.cloudfoundry.org/clusterauction/auctionevents"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/communication/http/routes"
	"code.cloudfoundry.org/lager"
	"github.com/gorilla/websocket"
	"github.com/tedsuo/rata"
)

const DefaultWriteTimeout = 10 * time.Second

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func New(registry auctiontypes.SessionRegistry, logger lager.Logger) rata.Handlers {
	handlers := rata.Handlers{
		routes.CreateSession: &createSession{registry: registry, logger: logger},
		routes.ListSessions:  &listSessions{registry: registry, logger: logger},

		routes.GetSession:   &getSession{registry: registry, logger: logger},
		routes.AbortSession: &abortSession{registry: registry, logger: logger},

		routes.StartVerification: &startVerification{registry: registry, logger: logger},
		routes.GetReport:         &getReport{registry: registry, logger: logger},
		routes.StreamEvents: &streamEvents{
			registry:     registry,
			logger:       logger,
			writeTimeout: DefaultWriteTimeout,
			upgrader: websocket.Upgrader{
				ReadBufferSize:  1024,
				WriteBufferSize: 1024,
				CheckOrigin:     func(*http.Request) bool { return true },
			},
		},
	}

	return handlers
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// statusFor maps registry errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case auctiontypes.IsValidationError(err):
		return http.StatusBadRequest
	case auctiontypes.IsInvalidTransition(err):
		return http.StatusConflict
	case errors.Is(err, auctiontypes.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, auctionevents.ErrHubClosed):
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	response := ErrorResponse{Error: err.Error()}

	var validationErr *auctiontypes.ValidationError
	if errors.As(err, &validationErr) {
		response.Field = validationErr.Field
	}

	writeJSON(w, statusFor(err), response)
}
