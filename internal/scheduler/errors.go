package scheduler

import "github.com/ignite/policymail-scheduler/internal/engineerr"

// Re-exported for callers that only import this package: the closed error
// taxonomy lives in engineerr to keep it free of planner/store import
// cycles, but scheduler is where most callers encounter it.
var (
	ErrStoreUnavailable = engineerr.ErrStoreUnavailable
	ErrStoreIntegrity   = engineerr.ErrStoreIntegrity
	ErrPersistence      = engineerr.ErrPersistence
	ErrConfiguration    = engineerr.ErrConfiguration
	ErrCancelRequested  = engineerr.ErrCancelRequested
)
