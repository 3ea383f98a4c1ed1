// Package memory provides in-memory ContactStore/ScheduleStore
// implementations, used by the engine's own tests and suitable as a
// reference for a future cache-backed store.
package memory

import (
	"context"
	"sync"

	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/scheduler"
)

// Store is a single in-memory ContactStore + ScheduleStore, safe for
// concurrent reads once populated.
type Store struct {
	mu sync.Mutex

	Contacts         []domain.Contact
	Schedules        []domain.EmailSchedule
	Instances        []domain.CampaignInstance
	Types            map[string]domain.CampaignTypeConfig
	Interactions     map[int64]scheduler.Interaction
	SentForFollowup  []domain.EmailSchedule
}

// New returns an empty store ready for tests to populate.
func New() *Store {
	return &Store{
		Types:        make(map[string]domain.CampaignTypeConfig),
		Interactions: make(map[int64]scheduler.Interaction),
	}
}

func (s *Store) ContactsInWindow(ctx context.Context, lookaheadDays, lookbackDays int) ([]domain.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Contact, len(s.Contacts))
	copy(out, s.Contacts)
	return out, nil
}

func (s *Store) AllContacts(ctx context.Context) ([]domain.Contact, error) {
	return s.ContactsInWindow(ctx, 0, 0)
}

func (s *Store) TotalContactCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Contacts), nil
}

func (s *Store) ExistingSchedules(ctx context.Context) ([]scheduler.ExistingScheduleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EmailSchedule, len(s.Schedules))
	copy(out, s.Schedules)
	return out, nil
}

func (s *Store) ActiveCampaignInstances(ctx context.Context) ([]domain.CampaignInstance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CampaignInstance, len(s.Instances))
	copy(out, s.Instances)
	return out, nil
}

func (s *Store) CampaignTypeConfig(ctx context.Context, name string) (domain.CampaignTypeConfig, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ct, ok := s.Types[name]
	return ct, ok, nil
}

func (s *Store) SentEmailsForFollowup(ctx context.Context, lookbackDays int) ([]domain.EmailSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EmailSchedule, len(s.SentForFollowup))
	copy(out, s.SentForFollowup)
	return out, nil
}

func (s *Store) ContactInteractions(ctx context.Context, contactID int64) (scheduler.Interaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Interactions[contactID], nil
}

// ApplyDiff applies inserts/updates/deletes directly against the in-memory
// slice, keyed by (contact_id, email_kind_string, scheduled_date).
func (s *Store) ApplyDiff(ctx context.Context, inserts, updates, deletes []domain.EmailSchedule) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byKey := make(map[domain.ScheduleKey]domain.EmailSchedule, len(s.Schedules))
	for _, row := range s.Schedules {
		byKey[row.Key()] = row
	}
	for _, row := range inserts {
		byKey[row.Key()] = row
	}
	for _, row := range updates {
		byKey[row.Key()] = row
	}
	for _, row := range deletes {
		delete(byKey, row.Key())
	}

	next := make([]domain.EmailSchedule, 0, len(byKey))
	for _, row := range byKey {
		next = append(next, row)
	}
	s.Schedules = next

	return len(inserts) + len(updates) + len(deletes), nil
}
