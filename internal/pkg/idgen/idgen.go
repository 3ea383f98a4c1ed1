// Package idgen generates opaque run and row identifiers. scheduler_run_id
// is a ULID (github.com/oklog/ulid/v2): lexicographically sortable by
// creation time, unlike a random UUID, so "timestamp+uuid" needs no
// hand-rolled concatenation.
package idgen

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// NewRunID returns a fresh opaque scheduler_run_id for the given instant.
// Passing the run's clock-derived "now" (rather than calling time.Now()
// here) keeps run-id generation on the same injected time source as the
// rest of the engine.
func NewRunID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
