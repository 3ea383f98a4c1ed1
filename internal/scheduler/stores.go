// Package scheduler implements SchedulerDriver: orchestrating contact
// load, planning, exclusion stamping, load balancing, diffing, and
// transactional persistence for a single run.
package scheduler

import (
	"context"

	"github.com/ignite/policymail-scheduler/internal/domain"
)

// ContactStore is the engine's read-only view of the contact population.
type ContactStore interface {
	ContactsInWindow(ctx context.Context, lookaheadDays, lookbackDays int) ([]domain.Contact, error)
	AllContacts(ctx context.Context) ([]domain.Contact, error)
	TotalContactCount(ctx context.Context) (int, error)
}

// ExistingScheduleRecord is the minimal shape the store must return per
// prior schedule row for diffing.
type ExistingScheduleRecord = domain.EmailSchedule

// Interaction carries the two follow-up signals a store computes for a
// contact since a point in time.
type Interaction struct {
	HasClicks       bool
	HasHealthAnswers bool
	AnsweredYes     bool
}

// ScheduleStore is the engine's interface onto campaign configuration, the
// prior schedule set, follow-up signal inputs, and the transactional
// write path.
type ScheduleStore interface {
	ExistingSchedules(ctx context.Context) ([]ExistingScheduleRecord, error)
	ActiveCampaignInstances(ctx context.Context) ([]domain.CampaignInstance, error)
	CampaignTypeConfig(ctx context.Context, name string) (domain.CampaignTypeConfig, bool, error)
	SentEmailsForFollowup(ctx context.Context, lookbackDays int) ([]domain.EmailSchedule, error)
	ContactInteractions(ctx context.Context, contactID int64) (Interaction, error)

	// ApplyDiff persists inserts/updates/deletes in a single transaction
	// and returns the total rows written. No partial success: on any
	// per-statement failure the whole transaction rolls back.
	ApplyDiff(ctx context.Context, inserts, updates, deletes []domain.EmailSchedule) (int, error)
}
