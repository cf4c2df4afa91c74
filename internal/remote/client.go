// Package remote talks to the spreadsheet web-app endpoint that holds the live staff roster.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/logging"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
)

// DefaultTimeout bounds a single request when the caller does not supply an http.Client.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a response is read. A school roster is a few hundred KB at most.
const maxBody = 16 << 20

// Client reads and writes the roster over HTTP. The zero value is usable.
type Client struct {
	HTTP   *http.Client
	Logger logrus.FieldLogger
}

func NewClient(timeout time.Duration, logger logrus.FieldLogger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP:   &http.Client{Timeout: timeout},
		Logger: logger,
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func (c *Client) log() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Discard()
}

// FetchAll downloads every row. Redirects are followed (the script host answers with one).
// Any failure is a *ConnectivityError and no partial roster is returned.
func (c *Client) FetchAll(ctx context.Context, url string) (model.Roster, error) {
	const op = "fetch roster"
	reqID := uuid.NewString()
	log := c.log().WithFields(logrus.Fields{"op": op, "url": url, "request_id": reqID})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ConnectivityError{Kind: KindTransport, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return nil, &ConnectivityError{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "duration_ms": time.Since(start).Milliseconds()})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("unexpected status")
		return nil, &ConnectivityError{Kind: KindTransport, Op: op, Status: resp.StatusCode}
	}

	rows, err := decodeRows(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		log.WithError(err).Warn("bad response body")
		return nil, &ConnectivityError{Kind: KindFormat, Op: op, Status: resp.StatusCode, Err: err}
	}

	out := make(model.Roster, 0, len(rows))
	for _, r := range rows {
		out = append(out, toRecord(r))
	}
	log.WithField("rows", len(out)).Info("roster fetched")
	return out, nil
}

type saveRequest struct {
	Action string           `json:"action"`
	Data   model.Record     `json:"data"`
	KeyMap schema.HeaderMap `json:"keyMap"`
}

type saveResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SaveOne asks the endpoint to update the row with rec's BIL. It succeeds only when the
// endpoint answers {"status":"success"}; any other answer wraps ErrSaveRejected.
func (c *Client) SaveOne(ctx context.Context, url string, rec model.Record) error {
	const op = "save record"
	reqID := uuid.NewString()
	log := c.log().WithFields(logrus.Fields{"op": op, "url": url, "request_id": reqID, "bil": rec.Key()})

	body, err := json.Marshal(saveRequest{Action: "update", Data: rec, KeyMap: schema.KeyMap()})
	if err != nil {
		return fmt.Errorf("encode save request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &ConnectivityError{Kind: KindTransport, Op: op, Err: err}
	}
	// text/plain keeps the request "simple" for the script host, which rejects preflights.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return &ConnectivityError{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("unexpected status")
		return &ConnectivityError{Kind: KindTransport, Op: op, Status: resp.StatusCode}
	}

	var out saveResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&out); err != nil {
		log.WithError(err).Warn("bad response body")
		return &ConnectivityError{Kind: KindFormat, Op: op, Status: resp.StatusCode, Err: err}
	}
	if out.Status != "success" {
		rej := &RejectedError{Status: out.Status, Message: out.Message}
		log.WithField("outcome", out.Status).Warn("update rejected")
		return rej
	}
	log.WithField("outcome", "success").Info("record saved")
	return nil
}
