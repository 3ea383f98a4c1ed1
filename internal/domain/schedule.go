package domain

import (
	"fmt"
	"time"

	"github.com/ignite/policymail-scheduler/internal/calendar"
)

// AnniversaryVariant enumerates the anniversary sub-kinds.
type AnniversaryVariant string

const (
	AnniversaryBirthday      AnniversaryVariant = "birthday"
	AnniversaryEffectiveDate AnniversaryVariant = "effective_date"
	AnniversaryPostWindow    AnniversaryVariant = "post_window"
	AnniversaryAEP           AnniversaryVariant = "aep"
)

// FollowupVariant enumerates the follow-up classification outcomes.
type FollowupVariant string

const (
	FollowupCold        FollowupVariant = "cold"
	FollowupClickedNoHQ FollowupVariant = "clicked_no_hq"
	FollowupHQNoYes     FollowupVariant = "hq_no_yes"
	FollowupHQWithYes   FollowupVariant = "hq_with_yes"
)

// EmailKindTag discriminates the EmailKind tagged union.
type EmailKindTag int

const (
	KindAnniversary EmailKindTag = iota
	KindCampaign
	KindFollowup
)

// EmailKind is the closed tagged union of email kinds. Exactly one of the
// three variant-specific field groups is meaningful, selected by Tag.
// Treat this as a sum type: every switch over Tag in the codebase must
// handle all three cases (planners, LoadBalancer, stringification).
type EmailKind struct {
	Tag EmailKindTag

	// Populated when Tag == KindAnniversary.
	Anniversary AnniversaryVariant

	// Populated when Tag == KindCampaign.
	CampaignType       string
	CampaignInstanceID string
	RespectExclusions  bool
	DaysBeforeEvent    int
	CampaignPriority   int

	// Populated when Tag == KindFollowup.
	Followup FollowupVariant
}

// NewAnniversaryKind builds an Anniversary-tagged EmailKind.
func NewAnniversaryKind(v AnniversaryVariant) EmailKind {
	return EmailKind{Tag: KindAnniversary, Anniversary: v}
}

// NewCampaignKind builds a Campaign-tagged EmailKind.
func NewCampaignKind(typeName, instanceID string, respectExclusions bool, daysBeforeEvent, priority int) EmailKind {
	return EmailKind{
		Tag:                KindCampaign,
		CampaignType:       typeName,
		CampaignInstanceID: instanceID,
		RespectExclusions:  respectExclusions,
		DaysBeforeEvent:    daysBeforeEvent,
		CampaignPriority:   priority,
	}
}

// NewFollowupKind builds a Followup-tagged EmailKind.
func NewFollowupKind(v FollowupVariant) EmailKind {
	return EmailKind{Tag: KindFollowup, Followup: v}
}

// String renders the fixed email_type stringification: birthday,
// effective_date, post_window, aep, campaign_{type}_{instance_id},
// followup_{variant}. This string, not the struct, is the diff identity
// component and the persisted email_type column value.
func (k EmailKind) String() string {
	switch k.Tag {
	case KindAnniversary:
		return string(k.Anniversary)
	case KindCampaign:
		return fmt.Sprintf("campaign_%s_%s", k.CampaignType, k.CampaignInstanceID)
	case KindFollowup:
		return fmt.Sprintf("followup_%s", k.Followup)
	default:
		return "unknown"
	}
}

// Priority returns the planning precedence for this kind (lower value wins):
// Birthday=10, EffectiveDate=20, PostWindow=40, AEP=40,
// Campaign=campaign_type.priority, Followup=50.
func (k EmailKind) Priority() int {
	switch k.Tag {
	case KindAnniversary:
		switch k.Anniversary {
		case AnniversaryBirthday:
			return 10
		case AnniversaryEffectiveDate:
			return 20
		default: // PostWindow, AEP
			return 40
		}
	case KindCampaign:
		return k.CampaignPriority
	case KindFollowup:
		return 50
	default:
		return 100
	}
}

// ScheduleStatus is the closed set of lifecycle states for an EmailSchedule.
// The engine only ever writes PreScheduled and Skipped;
// Scheduled/Processing/Sent are externally set by the downstream dispatcher
// and must be preserved across runs.
type ScheduleStatus string

const (
	StatusPreScheduled ScheduleStatus = "pre-scheduled"
	StatusScheduled    ScheduleStatus = "scheduled"
	StatusProcessing   ScheduleStatus = "processing"
	StatusSent         ScheduleStatus = "sent"
	StatusSkipped      ScheduleStatus = "skipped"
)

// Terminal reports whether a schedule in this status must never be
// deleted or overwritten by a run.
func (s ScheduleStatus) Terminal() bool {
	return s == StatusSent || s == StatusProcessing
}

// EmailSchedule is a single planned (or already-dispatched) outbound email.
// Identity for dedup/diff purposes is the triple
// (ContactID, Kind.String(), ScheduledDate).
type EmailSchedule struct {
	ContactID          int64
	Kind               EmailKind
	ScheduledDate      calendar.Date
	ScheduledTime      calendar.Time
	Status             ScheduleStatus
	SkipReason         string
	Priority           int
	TemplateID         string
	CampaignInstanceID string
	SchedulerRunID     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the (contact_id, email_kind_string, scheduled_date) identity
// triple used throughout diffing.
func (e EmailSchedule) Key() ScheduleKey {
	return ScheduleKey{
		ContactID: e.ContactID,
		KindStr:   e.Kind.String(),
		Date:      e.ScheduledDate,
	}
}

// ScheduleKey is the comparable diff-identity triple for an EmailSchedule.
type ScheduleKey struct {
	ContactID int64
	KindStr   string
	Date      calendar.Date
}
