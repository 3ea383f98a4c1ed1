package scheduler

import (
	"context"
	"fmt"
	"sort"

	"github.com/ignite/policymail-scheduler/internal/balancer"
	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/clock"
	"github.com/ignite/policymail-scheduler/internal/diffsync"
	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/engineerr"
	"github.com/ignite/policymail-scheduler/internal/pkg/idgen"
	"github.com/ignite/policymail-scheduler/internal/pkg/logger"
	"github.com/ignite/policymail-scheduler/internal/planner/anniversary"
	"github.com/ignite/policymail-scheduler/internal/planner/campaign"
	"github.com/ignite/policymail-scheduler/internal/planner/followup"
)

// contactWindowDays bounds contacts_in_window on either side of today. It
// is wide enough that no birthday or effective-date anniversary within a
// year is ever missed by the pre-filter, regardless of where in the year
// the run happens to execute.
const contactWindowDays = 400

// Driver orchestrates one scheduling run against a ContactStore and
// ScheduleStore pair.
type Driver struct {
	Contacts  ContactStore
	Schedules ScheduleStore
	Clock     clock.Clock
}

// Run executes the full pipeline once: load, plan, stamp exclusions,
// balance, diff, and persist. Only the persist step runs inside the store's
// single transaction; loading and planning happen before it opens.
func (d Driver) Run(ctx context.Context, org domain.OrganizationConfig) (RunReport, error) {
	if err := validateOrg(org); err != nil {
		return RunReport{}, err
	}

	now := d.Clock.Now()
	today := d.Clock.Today(org.Location())
	runID := idgen.NewRunID(now)

	contacts, err := d.Contacts.ContactsInWindow(ctx, contactWindowDays, contactWindowDays)
	if err != nil {
		return RunReport{}, fmt.Errorf("load contacts in window: %w: %v", engineerr.ErrStoreUnavailable, err)
	}
	totalContacts, err := d.Contacts.TotalContactCount(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("load total contact count: %w: %v", engineerr.ErrStoreUnavailable, err)
	}
	existing, err := d.Schedules.ExistingSchedules(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("load existing schedules: %w: %v", engineerr.ErrStoreUnavailable, err)
	}
	instances, err := d.Schedules.ActiveCampaignInstances(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("load active campaign instances: %w: %v", engineerr.ErrStoreUnavailable, err)
	}
	sentForFollowup, err := d.Schedules.SentEmailsForFollowup(ctx, org.LookbackDaysForFollowup)
	if err != nil {
		return RunReport{}, fmt.Errorf("load sent emails for followup: %w: %v", engineerr.ErrStoreUnavailable, err)
	}

	sentByContact := make(map[int64][]domain.EmailSchedule)
	for _, s := range sentForFollowup {
		sentByContact[s.ContactID] = append(sentByContact[s.ContactID], s)
	}

	typeOf := campaign.TypeLookup(func(name string) (domain.CampaignTypeConfig, bool) {
		ct, ok, lookupErr := d.Schedules.CampaignTypeConfig(ctx, name)
		if lookupErr != nil || !ok {
			return domain.CampaignTypeConfig{}, false
		}
		return ct, true
	})

	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID < contacts[j].ID })

	var candidates []domain.EmailSchedule
	report := RunReport{SchedulerRunID: runID}

	for _, contact := range contacts {
		select {
		case <-ctx.Done():
			return RunReport{}, fmt.Errorf("run cancelled: %w", engineerr.ErrCancelRequested)
		default:
		}

		rows, planErr := d.planContact(ctx, contact, today, org, instances, typeOf, sentByContact[contact.ID])
		if planErr != nil {
			report.Skipped++
			report.Errors = append(report.Errors, ContactError{ContactID: contact.ID, Reason: planErr.Error()})
			logger.Warn("contact planning failed", "contact_id", contact.ID, "reason", planErr.Error())
			continue
		}
		candidates = append(candidates, rows...)
		report.ContactsProcessed++
	}

	sortCandidates(candidates)
	balanced := balancer.Balance(candidates, totalContacts, org)

	diffResult := diffsync.Diff(existing, balanced, runID)
	inserts, updates, deletes := splitChanges(diffResult.Changes)

	if _, err := d.Schedules.ApplyDiff(ctx, inserts, updates, deletes); err != nil {
		return RunReport{}, fmt.Errorf("apply diff: %w: %v", engineerr.ErrPersistence, err)
	}

	report.Inserts = diffResult.Inserts
	report.Updates = diffResult.Updates
	report.Preserved = diffResult.Preserved
	report.Deletes = diffResult.Deletes

	return report, nil
}

func validateOrg(org domain.OrganizationConfig) error {
	if org.PreExclusionBufferDays < 0 {
		return fmt.Errorf("negative pre-exclusion buffer: %w", engineerr.ErrConfiguration)
	}
	if org.SendTimeHour < 0 || org.SendTimeHour > 23 {
		return fmt.Errorf("invalid send time hour %d: %w", org.SendTimeHour, engineerr.ErrConfiguration)
	}
	return nil
}

// planContact runs every planner for a single contact, converting a panic
// from malformed contact data into a non-fatal InvalidContactData error
// rather than aborting the run.
func (d Driver) planContact(
	ctx context.Context,
	contact domain.Contact,
	today calendar.Date,
	org domain.OrganizationConfig,
	instances []domain.CampaignInstance,
	typeOf campaign.TypeLookup,
	sent []domain.EmailSchedule,
) (rows []domain.EmailSchedule, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = engineerr.NewInvalidContactData(contact.ID, fmt.Sprintf("%v", r))
		}
	}()

	if !contact.Schedulable() {
		return nil, engineerr.NewInvalidContactData(contact.ID, "contact has no email address")
	}

	rows = append(rows, anniversary.Plan(contact, today, org)...)
	rows = append(rows, campaign.Plan(contact, instances, typeOf, today, org)...)

	rows = append(rows, d.classifyFollowup(ctx, contact, sent, today, org)...)

	return rows, nil
}

func (d Driver) classifyFollowup(ctx context.Context, contact domain.Contact, sent []domain.EmailSchedule, today calendar.Date, org domain.OrganizationConfig) []domain.EmailSchedule {
	interaction, err := d.Schedules.ContactInteractions(ctx, contact.ID)
	if err != nil {
		return nil
	}

	signals := make([]followup.Signal, 0, len(sent))
	for _, s := range sent {
		signals = append(signals, followup.Signal{
			Schedule:    s,
			Clicked:     interaction.HasClicks,
			AnsweredHQ:  interaction.HasHealthAnswers,
			AnsweredYes: interaction.AnsweredYes,
		})
	}

	return followup.Classify(contact, signals, today, org)
}

// sortCandidates orders the merged candidate set by (contact_id,
// email_kind_string, scheduled_date) so load balancing never depends on
// the order contacts were planned in.
func sortCandidates(rows []domain.EmailSchedule) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ContactID != rows[j].ContactID {
			return rows[i].ContactID < rows[j].ContactID
		}
		if rows[i].Kind.String() != rows[j].Kind.String() {
			return rows[i].Kind.String() < rows[j].Kind.String()
		}
		return rows[i].ScheduledDate.Before(rows[j].ScheduledDate)
	})
}

func splitChanges(changes []diffsync.Change) (inserts, updates, deletes []domain.EmailSchedule) {
	for _, c := range changes {
		switch c.Op {
		case diffsync.OpInsert:
			inserts = append(inserts, c.Row)
		case diffsync.OpUpdate:
			updates = append(updates, c.Row)
		case diffsync.OpDelete:
			deletes = append(deletes, c.Row)
		}
	}
	return inserts, updates, deletes
}
