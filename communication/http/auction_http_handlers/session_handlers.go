package auction_http_handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/rata"
)

type createSession struct {
	registry auctiontypes.SessionRegistry
	logger   lager.Logger
}

func (h *createSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("create-session")
	logger.Info("handling")

	var params auctiontypes.SessionParams
	err := json.NewDecoder(r.Body).Decode(&params)
	if err != nil {
		logger.Error("failed-to-parse-request", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "malformed request body"})
		return
	}

	state, err := h.registry.CreateSession(params)
	if err != nil {
		logger.Error("failed-to-create-session", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, state)
	logger.Info("success", lager.Data{"guid": state.Guid})
}

type listSessions struct {
	registry auctiontypes.SessionRegistry
	logger   lager.Logger
}

func (h *listSessions) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("list-sessions")
	logger.Info("handling")

	sessions := h.registry.Sessions()
	writeJSON(w, http.StatusOK, sessions)
	logger.Info("success", lager.Data{"sessions": len(sessions)})
}

type getSession struct {
	registry auctiontypes.SessionRegistry
	logger   lager.Logger
}

func (h *getSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guid := rata.Param(r, "guid")
	logger := h.logger.Session("get-session", lager.Data{"guid": guid})

	state, err := h.registry.Observe(guid)
	if err != nil {
		logger.Error("failed-to-observe-session", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, state)
}

type abortSession struct {
	registry auctiontypes.SessionRegistry
	logger   lager.Logger
}

// Aborting twice is not an error.
func (h *abortSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guid := rata.Param(r, "guid")
	logger := h.logger.Session("abort-session", lager.Data{"guid": guid})
	logger.Info("handling")

	err := h.registry.Abort(guid)
	if err != nil && !errors.Is(err, auctiontypes.ErrAlreadyAborted) {
		logger.Error("failed-to-abort-session", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	logger.Info("success")
}

type startVerification struct {
	registry auctiontypes.SessionRegistry
	logger   lager.Logger
}

func (h *startVerification) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guid := rata.Param(r, "guid")
	logger := h.logger.Session("start-verification", lager.Data{"guid": guid})
	logger.Info("handling")

	err := h.registry.StartVerification(guid)
	if err != nil {
		logger.Error("failed-to-start-verification", err)
		writeError(w, err)
		return
	}

	state, err := h.registry.Observe(guid)
	if err != nil {
		logger.Error("failed-to-observe-session", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, state)
	logger.Info("success")
}

type getReport struct {
	registry auctiontypes.SessionRegistry
	logger   lager.Logger
}

func (h *getReport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	guid := rata.Param(r, "guid")
	logger := h.logger.Session("get-report", lager.Data{"guid": guid})

	report, err := h.registry.Report(guid)
	if err != nil {
		logger.Error("failed-to-fetch-report", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
