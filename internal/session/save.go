package session

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/remote"
)

// SaveRequest is a snapshot of the record being saved. An empty Endpoint means the save
// stays in memory.
type SaveRequest struct {
	Endpoint string
	Record   model.Record
	seq      uint64
}

// BeginSave marks the session as saving and snapshots the open record.
func (c *Controller) BeginSave() (SaveRequest, error) {
	if !c.loggedIn {
		return SaveRequest{}, ErrNotLoggedIn
	}
	if c.saveState == SaveSaving {
		return SaveRequest{}, ErrSaveInProgress
	}
	c.saveSeq++
	c.saveState = SaveSaving
	req := SaveRequest{Record: c.active, seq: c.saveSeq}
	if c.connected && c.endpoint != "" {
		req.Endpoint = c.endpoint
	}
	return req, nil
}

// Push sends a save to the endpoint. Like Fetch it may run on any goroutine.
// Local-only requests succeed without I/O.
func (c *Controller) Push(ctx context.Context, req SaveRequest) error {
	if req.Endpoint == "" {
		return nil
	}
	if c.syncer == nil {
		return &remote.ConnectivityError{Kind: remote.KindTransport, Op: "save record", Err: errors.New("no sync client")}
	}
	return c.syncer.SaveOne(ctx, req.Endpoint, req.Record)
}

// FinishSave applies the result of Push.
//
// On success the saved snapshot replaces the roster entry with the same BIL. The session
// stays dirty only if the record was edited again while the save was in flight. On failure
// the roster is untouched, the session stays dirty and SaveFailed is returned with the error.
func (c *Controller) FinishSave(req SaveRequest, err error) (SaveOutcome, error) {
	log := c.log.WithFields(logrus.Fields{"op": "save", "bil": req.Record.Key()})
	current := req.seq == c.saveSeq && c.saveState == SaveSaving

	if err != nil {
		if current {
			c.saveState = SaveError
		}
		log.WithError(err).Warn("save failed")
		return SaveFailed, err
	}

	c.roster.Replace(req.Record)
	outcome := Persisted
	if req.Endpoint == "" {
		outcome = SavedLocally
	}
	log.WithField("outcome", outcome.String()).Info("record saved")

	if !current {
		return outcome, nil
	}
	if c.loggedIn && c.active == req.Record {
		c.dirty = false
	}
	if outcome == Persisted {
		c.saveState = SaveSaved
	} else {
		c.saveState = SaveIdle
	}
	return outcome, nil
}

// Save runs a whole save synchronously.
func (c *Controller) Save(ctx context.Context) (SaveOutcome, error) {
	req, err := c.BeginSave()
	if err != nil {
		return SaveFailed, err
	}
	return c.FinishSave(req, c.Push(ctx, req))
}
