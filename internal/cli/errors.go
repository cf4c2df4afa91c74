package cli

import (
	"fmt"

	"github.com/g-99215544-beep/MAKLUMAT-STAFF-SRIAMAN/internal/session"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Unwrap() error { return session.ErrLookupMiss }

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// unpersistedError is returned by commands whose save stayed in memory because no
// spreadsheet was reachable. The change is lost when the process exits.
type unpersistedError struct {
	bil string
}

func (e unpersistedError) Error() string {
	return fmt.Sprintf("record %s was not saved to the spreadsheet (offline); the change is lost unless exported", e.bil)
}

type assignmentError struct {
	arg string
}

func (e assignmentError) Error() string {
	return fmt.Sprintf("invalid assignment %q (expected FIELD=value)", e.arg)
}
