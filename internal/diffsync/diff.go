// Package diffsync implements the Diff & Persistence stage:
// classifying a freshly computed schedule set N against the pre-existing
// set E by identity key, and producing the INSERT/UPDATE/PRESERVE/DELETE
// operations a store must apply.
package diffsync

import "github.com/ignite/policymail-scheduler/internal/domain"

// Op names the classification of a single EmailSchedule in a diff result.
type Op int

const (
	OpInsert Op = iota
	OpUpdate
	OpPreserve
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpPreserve:
		return "preserve"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change pairs a classified operation with the row it applies to. For
// OpUpdate, Row carries the fields to persist (scheduler_run_id stamped by
// Diff; updated_at is left for the store to set); for OpPreserve, Row is the
// original, untouched record E held, with no database write required; for
// OpDelete, Row is the existing record being removed.
type Change struct {
	Op  Op
	Row domain.EmailSchedule
}

// Result is the classified output of Diff: a run's complete set of
// required writes, plus counts for the run report.
type Result struct {
	Changes  []Change
	Inserts  int
	Updates  int
	Preserved int
	Deletes  int
}

// Diff classifies every member of existing (E) and fresh (N) by identity
// key. fresh rows should already carry the new scheduler_run_id; Diff
// stamps it onto INSERT/UPDATE rows only, leaving PRESERVE rows with
// their original run id and timestamps untouched.
func Diff(existing, fresh []domain.EmailSchedule, runID string) Result {
	existingByKey := make(map[domain.ScheduleKey]domain.EmailSchedule, len(existing))
	for _, e := range existing {
		existingByKey[e.Key()] = e
	}
	freshByKey := make(map[domain.ScheduleKey]domain.EmailSchedule, len(fresh))
	for _, n := range fresh {
		freshByKey[n.Key()] = n
	}

	var res Result

	for _, n := range fresh {
		key := n.Key()
		old, ok := existingByKey[key]
		if !ok {
			n.SchedulerRunID = runID
			res.Changes = append(res.Changes, Change{Op: OpInsert, Row: n})
			res.Inserts++
			continue
		}
		// A Sent/Processing row is never overwritten, whatever the fresh row says.
		if !old.Status.Terminal() && contentDiffers(old, n) {
			n.SchedulerRunID = runID
			n.CreatedAt = old.CreatedAt
			res.Changes = append(res.Changes, Change{Op: OpUpdate, Row: n})
			res.Updates++
		} else {
			res.Changes = append(res.Changes, Change{Op: OpPreserve, Row: old})
			res.Preserved++
		}
	}

	for _, e := range existing {
		key := e.Key()
		if _, stillPresent := freshByKey[key]; stillPresent {
			continue
		}
		if e.Status.Terminal() {
			continue
		}
		res.Changes = append(res.Changes, Change{Op: OpDelete, Row: e})
		res.Deletes++
	}

	return res
}

// contentDiffers reports whether a and b differ in any field that
// warrants an UPDATE: scheduled_time, status, skip_reason, or
// the email_kind stringification. scheduled_date and contact_id are
// already equal (they're part of the identity key).
func contentDiffers(a, b domain.EmailSchedule) bool {
	if a.ScheduledTime != b.ScheduledTime {
		return true
	}
	if a.Status != b.Status {
		return true
	}
	if a.SkipReason != b.SkipReason {
		return true
	}
	if a.Kind.String() != b.Kind.String() {
		return true
	}
	return false
}
