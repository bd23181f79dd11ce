package auction_http_handlers_test

import (
	"errors"
	"net/http"

	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/communication/http/auction_http_handlers"
	"code.cloudfoundry.org/clusterauction/communication/http/routes"
	"github.com/tedsuo/rata"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session handlers", func() {
	var state auctiontypes.SessionState

	BeforeEach(func() {
		state = auctiontypes.SessionState{
			Guid:       sessionGuid,
			ResourceID: "gpu-h100",
			BasePrice:  10,
			TotalUnits: 100,
			Status:     auctiontypes.StatusSetup,
			MaxRounds:  5,
		}
	})

	Describe("CreateSession", func() {
		var params auctiontypes.SessionParams

		BeforeEach(func() {
			params = auctiontypes.SessionParams{
				ResourceID: "gpu-h100",
				BasePrice:  10,
				TotalUnits: 100,
			}
		})

		Context("when the session is created", func() {
			BeforeEach(func() {
				registry.SetCreateResult(state, nil)
			})

			It("returns the new session", func() {
				status, body := Request(routes.CreateSession, nil, JSONReaderFor(params))
				Ω(status).Should(Equal(http.StatusCreated))
				Ω(body).Should(MatchJSON(JSONFor(state)))

				Ω(registry.GetCreateParams()).Should(Equal([]auctiontypes.SessionParams{params}))
			})
		})

		Context("when the params are invalid", func() {
			BeforeEach(func() {
				registry.SetCreateResult(auctiontypes.SessionState{}, auctiontypes.NewValidationError("base_price", "must be positive"))
			})

			It("names the offending field", func() {
				status, body := Request(routes.CreateSession, nil, JSONReaderFor(params))
				Ω(status).Should(Equal(http.StatusBadRequest))
				Ω(body).Should(MatchJSON(JSONFor(auction_http_handlers.ErrorResponse{
					Error: "invalid base_price: must be positive",
					Field: "base_price",
				})))
			})
		})

		Context("when the body is not JSON", func() {
			It("fails without touching the registry", func() {
				status, _ := Request(routes.CreateSession, nil, JSONReaderFor("{"))
				Ω(status).Should(Equal(http.StatusBadRequest))
				Ω(registry.GetCreateParams()).Should(BeEmpty())
			})
		})

		Context("when the registry fails", func() {
			It("returns an internal error", func() {
				registry.SetCreateResult(auctiontypes.SessionState{}, errors.New("boom"))

				status, body := Request(routes.CreateSession, nil, JSONReaderFor(params))
				Ω(status).Should(Equal(http.StatusInternalServerError))
				Ω(body).Should(MatchJSON(`{"error":"boom"}`))
			})
		})
	})

	Describe("ListSessions", func() {
		It("returns every session", func() {
			other := state
			other.Guid = "beta"
			registry.SetSessions([]auctiontypes.SessionState{state, other})

			status, body := Request(routes.ListSessions, nil, nil)
			Ω(status).Should(Equal(http.StatusOK))
			Ω(body).Should(MatchJSON(JSONFor([]auctiontypes.SessionState{state, other})))
		})
	})

	Describe("GetSession", func() {
		It("returns the snapshot", func() {
			registry.SetObserveResult(state, nil)

			status, body := Request(routes.GetSession, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusOK))
			Ω(body).Should(MatchJSON(JSONFor(state)))
		})

		It("404s for an unknown session", func() {
			registry.SetObserveResult(auctiontypes.SessionState{}, auctiontypes.ErrSessionNotFound)

			status, _ := Request(routes.GetSession, rata.Params{"guid": "nope"}, nil)
			Ω(status).Should(Equal(http.StatusNotFound))
		})
	})

	Describe("AbortSession", func() {
		It("aborts the session", func() {
			status, body := Request(routes.AbortSession, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusNoContent))
			Ω(body).Should(BeEmpty())

			Ω(registry.GetAborted()).Should(Equal([]string{sessionGuid}))
		})

		It("treats a repeated abort as success", func() {
			registry.SetAbortError(auctiontypes.ErrAlreadyAborted)

			status, _ := Request(routes.AbortSession, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusNoContent))
		})

		It("conflicts once the session has completed", func() {
			registry.SetAbortError(&auctiontypes.InvalidTransitionError{
				From:      auctiontypes.StatusCompleted,
				Operation: "abort",
			})

			status, body := Request(routes.AbortSession, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusConflict))
			Ω(body).Should(MatchJSON(`{"error":"cannot abort: session is completed"}`))
		})
	})

	Describe("StartVerification", func() {
		It("starts verification and returns the session", func() {
			state.Status = auctiontypes.StatusVerifying
			registry.SetObserveResult(state, nil)

			status, body := Request(routes.StartVerification, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusAccepted))
			Ω(body).Should(MatchJSON(JSONFor(state)))

			Ω(registry.GetVerified()).Should(Equal([]string{sessionGuid}))
		})

		It("conflicts when the session is not in setup", func() {
			registry.SetVerificationError(&auctiontypes.InvalidTransitionError{
				From:      auctiontypes.StatusLive,
				Operation: "start verification",
			})

			status, _ := Request(routes.StartVerification, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusConflict))
		})
	})

	Describe("GetReport", func() {
		It("returns the settlement report", func() {
			report := auctiontypes.SettlementReport{
				SessionGuid: sessionGuid,
				ResourceID:  "gpu-h100",
				MaxRounds:   1,
				Totals: auctiontypes.SettlementTotals{
					TotalRevenue:    15,
					AvgWinningBid:   15,
					CompletedRounds: 1,
					TotalUnitsSold:  100,
				},
			}
			registry.SetReportResult(report, nil)

			status, body := Request(routes.GetReport, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusOK))
			Ω(body).Should(MatchJSON(JSONFor(report)))
		})

		It("conflicts before the session completes", func() {
			registry.SetReportResult(auctiontypes.SettlementReport{}, &auctiontypes.InvalidTransitionError{
				From:      auctiontypes.StatusLive,
				Operation: "report",
			})

			status, _ := Request(routes.GetReport, rata.Params{"guid": sessionGuid}, nil)
			Ω(status).Should(Equal(http.StatusConflict))
		})
	})
})
