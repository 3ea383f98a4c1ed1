package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/policymail-scheduler/internal/calendar"
	"github.com/ignite/policymail-scheduler/internal/domain"
)

// ContactRepo implements scheduler.ContactStore against PostgreSQL.
type ContactRepo struct{ db *sql.DB }

// NewContactRepo creates a Postgres-backed contact repository.
func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{db: db} }

// ContactsInWindow returns contacts whose birthday or effective-date
// month/day falls within the given window of today, using a calendar-
// agnostic month-day pre-filter; semantic year-boundary rejection happens
// in the engine, not here.
func (r *ContactRepo) ContactsInWindow(ctx context.Context, lookaheadDays, lookbackDays int) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, zip_code, state_code, birthday, effective_date, carrier, failed_underwriting
		FROM scheduler_contacts
		WHERE (
			birthday IS NOT NULL AND
			to_char(birthday, 'MM-DD') BETWEEN to_char(now() - ($1 || ' days')::interval, 'MM-DD')
			                                AND to_char(now() + ($2 || ' days')::interval, 'MM-DD')
		) OR (
			effective_date IS NOT NULL AND
			to_char(effective_date, 'MM-DD') BETWEEN to_char(now() - ($1 || ' days')::interval, 'MM-DD')
			                                       AND to_char(now() + ($2 || ' days')::interval, 'MM-DD')
		)
	`, lookbackDays, lookaheadDays)
	if err != nil {
		return nil, fmt.Errorf("query contacts in window: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

// AllContacts returns the full contact population, used when a
// lookback/lookahead pre-filter would be more expensive than scanning.
func (r *ContactRepo) AllContacts(ctx context.Context) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, zip_code, state_code, birthday, effective_date, carrier, failed_underwriting
		FROM scheduler_contacts
	`)
	if err != nil {
		return nil, fmt.Errorf("query all contacts: %w", err)
	}
	defer rows.Close()
	return scanContacts(rows)
}

// TotalContactCount returns the total population size, used to derive
// LoadBalancer's daily capacity from the organization's size profile.
func (r *ContactRepo) TotalContactCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scheduler_contacts`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

func scanContacts(rows *sql.Rows) ([]domain.Contact, error) {
	var out []domain.Contact
	for rows.Next() {
		var (
			c             domain.Contact
			stateCode     sql.NullString
			birthday      sql.NullTime
			effectiveDate sql.NullTime
			carrier       sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Email, &c.ZipCode, &stateCode, &birthday, &effectiveDate, &carrier, &c.FailedUnderwriting); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		c.State = domain.NewState(stateCode.String)
		c.Carrier = carrier.String
		if birthday.Valid {
			d := calendar.Date{Year: birthday.Time.Year(), Month: int(birthday.Time.Month()), Day: birthday.Time.Day()}
			c.Birthday = &d
		}
		if effectiveDate.Valid {
			d := calendar.Date{Year: effectiveDate.Time.Year(), Month: int(effectiveDate.Time.Month()), Day: effectiveDate.Time.Day()}
			c.EffectiveDate = &d
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
