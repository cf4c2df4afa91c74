// Package session owns the in-memory roster and the record being edited, and reconciles
// them with the spreadsheet endpoint and the built-in fallback snapshot.
//
// A Controller is not safe for concurrent use. It is meant to be owned by one goroutine
// (the TUI update loop or a CLI command); network calls can run elsewhere through the
// Begin*/Finish* and BeginLoad/ApplyLoad pairs, which carry immutable snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/model"
)

// SavedNoticeFor is how long the "saved" state is shown before reverting to idle.
const SavedNoticeFor = 3 * time.Second

var (
	ErrLookupMiss     = errors.New("identity number not found")
	ErrNotLoggedIn    = errors.New("no staff record is open")
	ErrFieldLocked    = errors.New("field is read-only")
	ErrUnknownField   = errors.New("unknown field")
	ErrSaveInProgress = errors.New("a save is already in progress")
	ErrUnsavedChanges = errors.New("record has unsaved changes")
	ErrNoEndpoint     = errors.New("spreadsheet URL is empty")
	// ErrEmptyRoster is reported (wrapped with remote.ErrConnectivity) when the endpoint
	// answers with zero rows; an empty sheet is treated as a failed connection.
	ErrEmptyRoster = errors.New("spreadsheet returned no rows")
)

// Syncer is the remote roster endpoint.
type Syncer interface {
	FetchAll(ctx context.Context, url string) (model.Roster, error)
	SaveOne(ctx context.Context, url string, rec model.Record) error
}

// Settings is durable string storage for the endpoint URL.
type Settings interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveSaved
	SaveError
)

func (s SaveState) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SaveSaving:
		return "saving"
	case SaveSaved:
		return "saved"
	case SaveError:
		return "error"
	default:
		return fmt.Sprintf("SaveState(%d)", int(s))
	}
}

// SaveOutcome tells a successful save apart from one that only changed memory.
type SaveOutcome int

const (
	// SaveFailed accompanies every save error; nothing was written anywhere.
	SaveFailed SaveOutcome = iota
	// Persisted means the endpoint confirmed the write.
	Persisted
	// SavedLocally means no endpoint was connected; the change lives in memory only and is
	// lost on the next reload unless exported. Callers must warn as loudly as for a failure.
	SavedLocally
)

func (o SaveOutcome) String() string {
	switch o {
	case SaveFailed:
		return "failed"
	case Persisted:
		return "persisted"
	case SavedLocally:
		return "saved-locally"
	default:
		return fmt.Sprintf("SaveOutcome(%d)", int(o))
	}
}

// Source names where the current roster came from.
type Source int

const (
	SourceNone Source = iota
	SourceFallback
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceFallback:
		return "fallback"
	case SourceRemote:
		return "remote"
	default:
		return "none"
	}
}
