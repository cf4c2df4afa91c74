package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/logging"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/remote"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/schema"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/store"
	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/tabular"
)

type Options struct {
	Syncer   Syncer
	Settings Settings
	// Fallback is the CSV installed when no endpoint is reachable.
	Fallback []byte
	// DefaultEndpoint is used when Settings holds no URL. It may be empty.
	DefaultEndpoint string
	Logger          logrus.FieldLogger
}

type Controller struct {
	syncer          Syncer
	settings        Settings
	fallback        []byte
	defaultEndpoint string
	log             logrus.FieldLogger

	roster    model.Roster
	source    Source
	endpoint  string
	connected bool

	active    model.Record
	loggedIn  bool
	dirty     bool
	saveState SaveState

	// loadSeq and saveSeq tag in-flight requests so late results can be recognised.
	loadSeq uint64
	saveSeq uint64
}

func New(opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	settings := opts.Settings
	if settings == nil {
		settings = store.NewMemorySettings(nil)
	}
	return &Controller{
		syncer:          opts.Syncer,
		settings:        settings,
		fallback:        opts.Fallback,
		defaultEndpoint: strings.TrimSpace(opts.DefaultEndpoint),
		log:             log,
		roster:          model.Roster{},
	}
}

// Start installs the fallback roster, resolves the endpoint (stored URL, else the default)
// and, when there is one, replaces the fallback with the remote roster.
func (c *Controller) Start(ctx context.Context) LoadReport {
	warnings := c.Prepare(ctx)
	if c.endpoint == "" {
		return LoadReport{Source: SourceFallback, Records: len(c.roster), Warnings: warnings}
	}
	rep := c.Reload(ctx)
	rep.Warnings = append(warnings, rep.Warnings...)
	return rep
}

// Prepare is Start without the network: the fallback roster is installed and the endpoint
// resolved, leaving the remote load to a later BeginLoad.
func (c *Controller) Prepare(ctx context.Context) []tabular.Warning {
	warnings := c.installFallback()

	url, ok, err := c.settings.Get(ctx, store.SheetURLKey)
	if err != nil {
		c.log.WithError(err).Warn("read stored sheet url")
	}
	url = strings.TrimSpace(url)
	if !ok || url == "" {
		url = c.defaultEndpoint
	}
	c.endpoint = url
	return warnings
}

// Connect stores url as the endpoint and loads from it.
func (c *Controller) Connect(ctx context.Context, url string) (LoadReport, error) {
	if err := c.SetEndpoint(ctx, url); err != nil {
		return LoadReport{}, err
	}
	return c.Reload(ctx), nil
}

// SetEndpoint persists url without loading. The caller follows with BeginLoad.
func (c *Controller) SetEndpoint(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrNoEndpoint
	}
	if err := c.settings.Set(ctx, store.SheetURLKey, url); err != nil {
		return fmt.Errorf("store sheet url: %w", err)
	}
	c.endpoint = url
	c.log.WithFields(logrus.Fields{"op": "connect", "url": url}).Info("sheet url stored")
	return nil
}

// Disconnect forgets the endpoint and goes back to the fallback roster. Loads already in
// flight are ignored when they finish. The open record, if any, stays open.
func (c *Controller) Disconnect(ctx context.Context) error {
	if err := c.settings.Remove(ctx, store.SheetURLKey); err != nil {
		return fmt.Errorf("remove sheet url: %w", err)
	}
	c.endpoint = ""
	c.connected = false
	c.loadSeq++
	c.installFallback()
	c.log.WithField("op", "disconnect").Info("sheet disconnected")
	return nil
}

func (c *Controller) installFallback() []tabular.Warning {
	res := tabular.Decode(c.fallback)
	for _, w := range res.Warnings {
		c.log.WithFields(logrus.Fields{"op": "fallback", "row": w.Row}).Warn(w.Message)
	}
	c.roster = res.Records
	c.source = SourceFallback
	return res.Warnings
}

// Login opens the first record whose identity number matches input, digits only.
// An open record with unsaved changes must be saved or logged out first.
func (c *Controller) Login(input string) error {
	if c.loggedIn && c.dirty {
		return ErrUnsavedChanges
	}
	rec, ok := c.roster.FindByIdentity(input)
	if !ok {
		return ErrLookupMiss
	}
	c.active = rec
	c.loggedIn = true
	c.dirty = false
	c.saveState = SaveIdle
	c.log.WithFields(logrus.Fields{"op": "login", "bil": rec.Key()}).Info("record opened")
	return nil
}

// Edit changes one field of the open record. The roster is untouched until a save.
func (c *Controller) Edit(f schema.Field, value string) error {
	if !c.loggedIn {
		return ErrNotLoggedIn
	}
	if !f.Valid() {
		return ErrUnknownField
	}
	if f.Locked() {
		return fmt.Errorf("%s: %w", f.ID(), ErrFieldLocked)
	}
	c.active.Set(f, value)
	c.dirty = true
	if c.saveState != SaveSaving {
		c.saveState = SaveIdle
	}
	return nil
}

// EditByID is Edit keyed by field identifier.
func (c *Controller) EditByID(id, value string) error {
	f, ok := schema.FieldByID(id)
	if !ok {
		return fmt.Errorf("%q: %w", id, ErrUnknownField)
	}
	return c.Edit(f, value)
}

// Logout closes the open record. With unsaved changes it refuses unless confirmed.
func (c *Controller) Logout(confirmed bool) error {
	if c.dirty && !confirmed {
		return ErrUnsavedChanges
	}
	c.active = model.Record{}
	c.loggedIn = false
	c.dirty = false
	c.saveState = SaveIdle
	return nil
}

// Discard drops unsaved edits by reloading the roster from its source (the endpoint when
// connected, else the fallback) and reopening the same person. If they are no longer on
// the roster the session logs out.
func (c *Controller) Discard(ctx context.Context) LoadReport {
	req := c.BeginDiscard()
	return c.ApplyLoad(c.Fetch(ctx, req))
}

// ClearSaveNotice ends the "saved" notice.
func (c *Controller) ClearSaveNotice() {
	if c.saveState == SaveSaved {
		c.saveState = SaveIdle
	}
}

// ExportCSV encodes the whole in-memory roster, including local-only saves.
func (c *Controller) ExportCSV() string {
	return tabular.Encode(c.roster)
}

func (c *Controller) Roster() model.Roster { return c.roster.Clone() }

// Active returns a copy of the open record.
func (c *Controller) Active() (model.Record, bool) { return c.active, c.loggedIn }

func (c *Controller) LoggedIn() bool       { return c.loggedIn }
func (c *Controller) Dirty() bool          { return c.dirty }
func (c *Controller) SaveState() SaveState { return c.saveState }
func (c *Controller) Connected() bool      { return c.connected }
func (c *Controller) Endpoint() string     { return c.endpoint }
func (c *Controller) Source() Source       { return c.source }

// IsConnectivity reports whether err came from an unreachable or misbehaving endpoint.
func IsConnectivity(err error) bool { return errors.Is(err, remote.ErrConnectivity) }
