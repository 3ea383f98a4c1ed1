// Package engineerr defines the closed error taxonomy shared across the
// scheduling pipeline. Every fallible operation in the engine returns one
// of these, wrapped with fmt.Errorf("...: %w", ...) -- never a bare
// panic, except for calendar construction faults which are programmer
// errors by construction.
package engineerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the closed taxonomy. Use errors.Is against these;
// StoreUnavailable, StoreIntegrity, PersistenceError and
// ConfigurationError abort the run, InvalidContactData is tallied and
// skipped, CancelRequested propagates cooperative cancellation.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreIntegrity   = errors.New("store integrity violation")
	ErrPersistence      = errors.New("persistence error")
	ErrConfiguration    = errors.New("configuration error")
	ErrCancelRequested  = errors.New("cancel requested")
)

// InvalidContactData reports a malformed contact. The contact carrying
// this error is skipped and tallied in the run report; it never aborts
// the run.
type InvalidContactData struct {
	ContactID int64
	Reason    string
}

func (e *InvalidContactData) Error() string {
	return fmt.Sprintf("invalid contact data (contact_id=%d): %s", e.ContactID, e.Reason)
}

// NewInvalidContactData builds an *InvalidContactData for contactID.
func NewInvalidContactData(contactID int64, reason string) *InvalidContactData {
	return &InvalidContactData{ContactID: contactID, Reason: reason}
}
