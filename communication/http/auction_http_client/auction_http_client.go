package auction_http_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"code.cloudfoundry.org/clusterauction/auctionevents"
	"code.cloudfoundry.org/clusterauction/auctiontypes"
	"code.cloudfoundry.org/clusterauction/communication/http/routes"
	"code.cloudfoundry.org/lager"
	"github.com/gorilla/websocket"
	"github.com/tedsuo/rata"
)

// ResponseError is returned for any non-success status that does not map
// onto one of the auctiontypes sentinels.
type ResponseError struct {
	StatusCode int
	Message    string
	Field      string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Message)
}

type AuctionHTTPClient struct {
	client           *http.Client
	dialer           *websocket.Dialer
	address          string
	requestGenerator *rata.RequestGenerator
	logger           lager.Logger
}

func New(client *http.Client, address string, logger lager.Logger) *AuctionHTTPClient {
	return &AuctionHTTPClient{
		client:           client,
		dialer:           websocket.DefaultDialer,
		address:          address,
		requestGenerator: rata.NewRequestGenerator(address, routes.Routes),
		logger:           logger.Session("auction-http-client", lager.Data{"address": address}),
	}
}

func (c *AuctionHTTPClient) CreateSession(params auctiontypes.SessionParams) (auctiontypes.SessionState, error) {
	logger := c.logger.Session("creating-session", lager.Data{"resource": params.ResourceID})

	var state auctiontypes.SessionState
	err := c.do(logger, routes.CreateSession, nil, params, http.StatusCreated, &state)
	return state, err
}

func (c *AuctionHTTPClient) Sessions() ([]auctiontypes.SessionState, error) {
	logger := c.logger.Session("listing-sessions")

	states := []auctiontypes.SessionState{}
	err := c.do(logger, routes.ListSessions, nil, nil, http.StatusOK, &states)
	return states, err
}

func (c *AuctionHTTPClient) Observe(guid string) (auctiontypes.SessionState, error) {
	logger := c.logger.Session("observing-session", lager.Data{"guid": guid})

	var state auctiontypes.SessionState
	err := c.do(logger, routes.GetSession, rata.Params{"guid": guid}, nil, http.StatusOK, &state)
	return state, err
}

func (c *AuctionHTTPClient) StartVerification(guid string) (auctiontypes.SessionState, error) {
	logger := c.logger.Session("starting-verification", lager.Data{"guid": guid})

	var state auctiontypes.SessionState
	err := c.do(logger, routes.StartVerification, rata.Params{"guid": guid}, nil, http.StatusAccepted, &state)
	return state, err
}

func (c *AuctionHTTPClient) Abort(guid string) error {
	logger := c.logger.Session("aborting-session", lager.Data{"guid": guid})
	return c.do(logger, routes.AbortSession, rata.Params{"guid": guid}, nil, http.StatusNoContent, nil)
}

func (c *AuctionHTTPClient) Report(guid string) (auctiontypes.SettlementReport, error) {
	logger := c.logger.Session("fetching-report", lager.Data{"guid": guid})

	var report auctiontypes.SettlementReport
	err := c.do(logger, routes.GetReport, rata.Params{"guid": guid}, nil, http.StatusOK, &report)
	return report, err
}

// Subscribe opens the session's event stream. The returned subscription's
// channel closes when the server ends the stream or the connection drops.
func (c *AuctionHTTPClient) Subscribe(guid string) (auctiontypes.EventSubscription, error) {
	logger := c.logger.Session("subscribing", lager.Data{"guid": guid})

	req, err := c.requestGenerator.CreateRequest(routes.StreamEvents, rata.Params{"guid": guid}, nil)
	if err != nil {
		logger.Error("failed-to-create-request", err)
		return nil, err
	}

	url := "ws" + strings.TrimPrefix(req.URL.String(), "http")
	conn, resp, err := c.dialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			defer resp.Body.Close()
			return nil, responseError(resp)
		}
		logger.Error("failed-to-dial", err)
		return nil, err
	}

	subscription := &eventStream{
		conn:      conn,
		events:    make(chan auctiontypes.Event),
		closed:    make(chan struct{}),
		closeOnce: &sync.Once{},
		logger:    logger,
	}
	go subscription.read()

	logger.Debug("subscribed")
	return subscription, nil
}

func (c *AuctionHTTPClient) do(logger lager.Logger, route string, params rata.Params, request interface{}, expectedStatus int, response interface{}) error {
	logger.Debug("requesting")

	var body io.Reader
	if request != nil {
		payload, err := json.Marshal(request)
		if err != nil {
			logger.Error("failed-to-marshal-request", err)
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.requestGenerator.CreateRequest(route, params, body)
	if err != nil {
		logger.Error("failed-to-create-request", err)
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Error("failed-to-perform-request", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		err := responseError(resp)
		logger.Error("invalid-status-code", err)
		return err
	}

	if response != nil {
		err = json.NewDecoder(resp.Body).Decode(response)
		if err != nil {
			logger.Error("failed-to-decode-response", err)
			return err
		}
	}

	logger.Debug("done")
	return nil
}

// responseError turns an error body back into the sentinel it came from
// where one exists.
func responseError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return auctiontypes.ErrSessionNotFound
	case http.StatusGone:
		return auctionevents.ErrHubClosed
	case http.StatusBadRequest:
		if body.Field != "" {
			reason := strings.TrimPrefix(body.Error, "invalid "+body.Field+": ")
			return auctiontypes.NewValidationError(body.Field, reason)
		}
	}

	return &ResponseError{
		StatusCode: resp.StatusCode,
		Message:    body.Error,
		Field:      body.Field,
	}
}
