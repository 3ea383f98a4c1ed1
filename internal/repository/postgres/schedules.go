package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
	"github.com/ignite/policymail-scheduler/internal/engineerr"
	"github.com/ignite/policymail-scheduler/internal/scheduler"
)

// bulkInsertThreshold is the row count at or above which ScheduleRepo switches
// from individual prepared INSERTs to a pq.CopyIn bulk load.
const bulkInsertThreshold = 1000

// ScheduleRepo implements scheduler.ScheduleStore against PostgreSQL.
type ScheduleRepo struct{ db *sql.DB }

// NewScheduleRepo creates a Postgres-backed schedule repository.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{db: db} }

func (r *ScheduleRepo) ExistingSchedules(ctx context.Context) ([]domain.EmailSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT contact_id, email_type, scheduled_send_date, scheduled_send_time,
		       status, COALESCE(skip_reason,''), COALESCE(batch_id,''),
		       COALESCE(template_id,''), COALESCE(campaign_instance_id,''),
		       created_at, updated_at
		FROM email_schedules
	`)
	if err != nil {
		return nil, fmt.Errorf("query existing schedules: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailSchedule
	for rows.Next() {
		var (
			s                        domain.EmailSchedule
			emailType                string
			scheduledDate, scheduledTime string
		)
		if err := rows.Scan(
			&s.ContactID, &emailType, &scheduledDate, &scheduledTime,
			&s.Status, &s.SkipReason, &s.SchedulerRunID,
			&s.TemplateID, &s.CampaignInstanceID,
			&s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}

		date, err := calendar.ParseDate(scheduledDate)
		if err != nil {
			return nil, fmt.Errorf("parse scheduled_send_date: %w: %v", engineerr.ErrStoreIntegrity, err)
		}
		s.ScheduledDate = date
		if _, err := fmt.Sscanf(scheduledTime, "%d:%d:%d", &s.ScheduledTime.Hour, &s.ScheduledTime.Minute, &s.ScheduledTime.Second); err != nil {
			return nil, fmt.Errorf("parse scheduled_send_time: %w: %v", engineerr.ErrStoreIntegrity, err)
		}
		s.Kind = parseEmailType(emailType, s.CampaignInstanceID)
		out = append(out, s)
	}
	return out, rows.Err()
}

// parseEmailType reverses the fixed email_type stringification: birthday,
// effective_date, post_window, aep, campaign_{type}_{instance_id},
// followup_{variant}.
func parseEmailType(s, campaignInstanceID string) domain.EmailKind {
	switch s {
	case string(domain.AnniversaryBirthday), string(domain.AnniversaryEffectiveDate),
		string(domain.AnniversaryPostWindow), string(domain.AnniversaryAEP):
		return domain.NewAnniversaryKind(domain.AnniversaryVariant(s))
	}
	if len(s) > len("followup_") && s[:len("followup_")] == "followup_" {
		return domain.NewFollowupKind(domain.FollowupVariant(s[len("followup_"):]))
	}
	// campaign_{type}_{instance_id}: instance id is carried in its own
	// column, so only the type name needs recovering from the middle of
	// the string.
	const prefix, suffix = "campaign_", ""
	_ = suffix
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		rest := s[len(prefix):]
		typeName := rest
		if campaignInstanceID != "" && len(rest) > len(campaignInstanceID)+1 {
			typeName = rest[:len(rest)-len(campaignInstanceID)-1]
		}
		return domain.NewCampaignKind(typeName, campaignInstanceID, false, 0, 0)
	}
	return domain.EmailKind{}
}

func (r *ScheduleRepo) ActiveCampaignInstances(ctx context.Context) ([]domain.CampaignInstance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type_name, instance_name, COALESCE(template_id,''),
		       active_start_date, active_end_date, spread_start_date, spread_end_date,
		       COALESCE(target_states,''), COALESCE(target_carriers,'')
		FROM campaign_instances
	`)
	if err != nil {
		return nil, fmt.Errorf("query campaign instances: %w", err)
	}
	defer rows.Close()

	var out []domain.CampaignInstance
	for rows.Next() {
		var (
			ci                                                     domain.CampaignInstance
			activeStart, activeEnd, spreadStart, spreadEnd sql.NullTime
		)
		if err := rows.Scan(&ci.ID, &ci.TypeName, &ci.InstanceName, &ci.TemplateID,
			&activeStart, &activeEnd, &spreadStart, &spreadEnd,
			&ci.TargetStates, &ci.TargetCarriers); err != nil {
			return nil, fmt.Errorf("scan campaign instance: %w", err)
		}
		ci.ActiveStartDate = nullTimeToDate(activeStart)
		ci.ActiveEndDate = nullTimeToDate(activeEnd)
		ci.SpreadStartDate = nullTimeToDate(spreadStart)
		ci.SpreadEndDate = nullTimeToDate(spreadEnd)
		out = append(out, ci)
	}
	return out, rows.Err()
}

func nullTimeToDate(t sql.NullTime) *calendar.Date {
	if !t.Valid {
		return nil
	}
	d := calendar.Date{Year: t.Time.Year(), Month: int(t.Time.Month()), Day: t.Time.Day()}
	return &d
}

func (r *ScheduleRepo) CampaignTypeConfig(ctx context.Context, name string) (domain.CampaignTypeConfig, bool, error) {
	var ct domain.CampaignTypeConfig
	ct.Name = name
	err := r.db.QueryRowContext(ctx, `
		SELECT respect_exclusion_windows, enable_followups, days_before_event,
		       target_all_contacts, priority, active, spread_evenly, skip_failed_underwriting
		FROM campaign_type_configs WHERE name = $1
	`, name).Scan(&ct.RespectExclusionWindows, &ct.EnableFollowups, &ct.DaysBeforeEvent,
		&ct.TargetAllContacts, &ct.Priority, &ct.Active, &ct.SpreadEvenly, &ct.SkipFailedUnderwriting)
	if err == sql.ErrNoRows {
		return domain.CampaignTypeConfig{}, false, nil
	}
	if err != nil {
		return domain.CampaignTypeConfig{}, false, fmt.Errorf("get campaign type config: %w", err)
	}
	return ct, true, nil
}

func (r *ScheduleRepo) SentEmailsForFollowup(ctx context.Context, lookbackDays int) ([]domain.EmailSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT contact_id, email_type, scheduled_send_date, scheduled_send_time,
		       status, '', COALESCE(batch_id,''), COALESCE(template_id,''),
		       COALESCE(campaign_instance_id,''), created_at, updated_at
		FROM email_schedules
		WHERE status = 'sent' AND scheduled_send_date >= (now() - ($1 || ' days')::interval)
	`, lookbackDays)
	if err != nil {
		return nil, fmt.Errorf("query sent emails for followup: %w", err)
	}
	defer rows.Close()

	var out []domain.EmailSchedule
	for rows.Next() {
		var (
			s                             domain.EmailSchedule
			emailType                     string
			scheduledDate, scheduledTime  string
		)
		if err := rows.Scan(&s.ContactID, &emailType, &scheduledDate, &scheduledTime,
			&s.Status, &s.SkipReason, &s.SchedulerRunID, &s.TemplateID, &s.CampaignInstanceID,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sent email: %w", err)
		}
		date, err := calendar.ParseDate(scheduledDate)
		if err != nil {
			return nil, fmt.Errorf("parse scheduled_send_date: %w: %v", engineerr.ErrStoreIntegrity, err)
		}
		s.ScheduledDate = date
		s.Kind = parseEmailType(emailType, s.CampaignInstanceID)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ScheduleRepo) ContactInteractions(ctx context.Context, contactID int64) (scheduler.Interaction, error) {
	var out scheduler.Interaction
	err := r.db.QueryRowContext(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM contact_clicks WHERE contact_id = $1),
			EXISTS(SELECT 1 FROM contact_health_answers WHERE contact_id = $1),
			EXISTS(SELECT 1 FROM contact_health_answers WHERE contact_id = $1 AND answer = true)
	`, contactID).Scan(&out.HasClicks, &out.HasHealthAnswers, &out.AnsweredYes)
	if err != nil {
		return out, fmt.Errorf("query contact interactions: %w", err)
	}
	return out, nil
}

// ApplyDiff writes inserts/updates/deletes in a single transaction. Insert
// batches at or above bulkInsertThreshold use pq.CopyIn; smaller batches
// and all updates/deletes use prepared statements within the same
// transaction. Any failure rolls back the whole transaction.
func (r *ScheduleRepo) ApplyDiff(ctx context.Context, inserts, updates, deletes []domain.EmailSchedule) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w: %v", engineerr.ErrPersistence, err)
	}
	defer tx.Rollback()

	if err := insertRows(ctx, tx, inserts); err != nil {
		return 0, fmt.Errorf("insert schedules: %w: %v", engineerr.ErrPersistence, err)
	}
	if err := updateRows(ctx, tx, updates); err != nil {
		return 0, fmt.Errorf("update schedules: %w: %v", engineerr.ErrPersistence, err)
	}
	if err := deleteRows(ctx, tx, deletes); err != nil {
		return 0, fmt.Errorf("delete schedules: %w: %v", engineerr.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w: %v", engineerr.ErrPersistence, err)
	}
	return len(inserts) + len(updates) + len(deletes), nil
}

func insertRows(ctx context.Context, tx *sql.Tx, rows []domain.EmailSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	if len(rows) >= bulkInsertThreshold {
		return bulkInsertRows(ctx, tx, rows)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO email_schedules
			(contact_id, email_type, scheduled_send_date, scheduled_send_time,
			 status, skip_reason, batch_id, template_id, campaign_instance_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx, s.ContactID, s.Kind.String(), s.ScheduledDate.String(),
			s.ScheduledTime.String(), string(s.Status), s.SkipReason, s.SchedulerRunID,
			s.TemplateID, s.CampaignInstanceID); err != nil {
			return err
		}
	}
	return nil
}

func bulkInsertRows(ctx context.Context, tx *sql.Tx, rows []domain.EmailSchedule) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("email_schedules",
		"contact_id", "email_type", "scheduled_send_date", "scheduled_send_time",
		"status", "skip_reason", "batch_id", "template_id", "campaign_instance_id"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx, s.ContactID, s.Kind.String(), s.ScheduledDate.String(),
			s.ScheduledTime.String(), string(s.Status), s.SkipReason, s.SchedulerRunID,
			s.TemplateID, s.CampaignInstanceID); err != nil {
			return err
		}
	}
	_, err = stmt.ExecContext(ctx)
	return err
}

func updateRows(ctx context.Context, tx *sql.Tx, rows []domain.EmailSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		UPDATE email_schedules
		SET scheduled_send_time = $1, status = $2, skip_reason = $3,
		    batch_id = $4, updated_at = NOW()
		WHERE contact_id = $5 AND email_type = $6 AND scheduled_send_date = $7
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx, s.ScheduledTime.String(), string(s.Status), s.SkipReason,
			s.SchedulerRunID, s.ContactID, s.Kind.String(), s.ScheduledDate.String()); err != nil {
			return err
		}
	}
	return nil
}

func deleteRows(ctx context.Context, tx *sql.Tx, rows []domain.EmailSchedule) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		DELETE FROM email_schedules
		WHERE contact_id = $1 AND email_type = $2 AND scheduled_send_date = $3
		  AND status IN ('pre-scheduled', 'scheduled', 'skipped')
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range rows {
		if _, err := stmt.ExecContext(ctx, s.ContactID, s.Kind.String(), s.ScheduledDate.String()); err != nil {
			return err
		}
	}
	return nil
}
