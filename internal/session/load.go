package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/remote"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"
)

// LoadRequest is a snapshot of what a reload should read. An empty Endpoint means the
// fallback snapshot.
type LoadRequest struct {
	Endpoint string
	discard  bool
	seq      uint64
}

// LoadResult is what Fetch produced for a LoadRequest.
type LoadResult struct {
	Request LoadRequest
	Roster  model.Roster
	Err     error
}

// LoadReport describes the effect of applying a load.
type LoadReport struct {
	Source   Source
	Records  int
	Endpoint string
	// Err is set when the endpoint could not be used. The roster is then unchanged.
	Err      error
	Warnings []tabular.Warning
	// Stale is set when the result arrived after a newer load or a disconnect and was dropped.
	Stale bool
	// LoggedOut is set when a discard could not find the open record in the fresh roster.
	LoggedOut bool
}

func (r LoadReport) Failed() bool { return r.Err != nil }

// BeginLoad starts a reload from the endpoint, or from the fallback when there is none.
func (c *Controller) BeginLoad() LoadRequest {
	c.loadSeq++
	return LoadRequest{Endpoint: c.endpoint, seq: c.loadSeq}
}

// BeginDiscard starts a reload from the current source of truth for Discard.
func (c *Controller) BeginDiscard() LoadRequest {
	c.loadSeq++
	req := LoadRequest{discard: true, seq: c.loadSeq}
	if c.connected {
		req.Endpoint = c.endpoint
	}
	return req
}

// Fetch performs the network part of a load. It reads no controller state besides the
// injected Syncer and may run on any goroutine.
func (c *Controller) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	if req.Endpoint == "" {
		return LoadResult{Request: req}
	}
	if c.syncer == nil {
		return LoadResult{Request: req, Err: &remote.ConnectivityError{Kind: remote.KindTransport, Op: "fetch roster", Err: errors.New("no sync client")}}
	}
	ro, err := c.syncer.FetchAll(ctx, req.Endpoint)
	if err == nil && len(ro) == 0 {
		err = fmt.Errorf("%w: %w", remote.ErrConnectivity, ErrEmptyRoster)
	}
	if err != nil {
		return LoadResult{Request: req, Err: err}
	}
	return LoadResult{Request: req, Roster: ro}
}

// ApplyLoad installs a fetched roster. The roster is replaced in one assignment, or not at
// all when the endpoint failed.
func (c *Controller) ApplyLoad(res LoadResult) LoadReport {
	req := res.Request
	if req.seq != c.loadSeq {
		return LoadReport{Stale: true, Source: c.source, Records: len(c.roster), Endpoint: c.endpoint}
	}

	log := c.log.WithFields(logrus.Fields{"op": "load", "url": req.Endpoint})
	rep := LoadReport{Endpoint: req.Endpoint}

	switch {
	case req.Endpoint == "":
		rep.Warnings = c.installFallback()
		c.connected = false
	case res.Err != nil:
		c.connected = false
		rep.Err = res.Err
		log.WithError(res.Err).Warn("endpoint unavailable; keeping current roster")
	default:
		c.roster = res.Roster
		c.source = SourceRemote
		c.connected = true
		log.WithField("rows", len(res.Roster)).Info("roster loaded")
	}
	rep.Source = c.source
	rep.Records = len(c.roster)

	if req.discard {
		rep.LoggedOut = c.reopen()
	}
	return rep
}

// reopen re-selects the open record from the roster and reports whether it vanished.
func (c *Controller) reopen() bool {
	if !c.loggedIn {
		return false
	}
	c.dirty = false
	c.saveState = SaveIdle
	rec, ok := c.roster.FindByIdentity(c.active.Identity())
	if !ok {
		_ = c.Logout(true)
		return true
	}
	c.active = rec
	return false
}

// Reload is BeginLoad, Fetch and ApplyLoad in one call.
func (c *Controller) Reload(ctx context.Context) LoadReport {
	return c.ApplyLoad(c.Fetch(ctx, c.BeginLoad()))
}
