package domain

import "github.com/ignite/policymail-scheduler/internal/calendar"

// State identifies a contact's home jurisdiction for exclusion-window
// purposes. The closed set carries explicit members for every
// state with a non-default exclusion rule; every other jurisdiction is
// represented by Other(code).
type State struct {
	// Code is the two-letter state code. For the closed set below it is
	// one of the named constants' underlying value; for anything else it
	// is whatever code the host's ZIP lookup returned.
	Code string
}

// Known state codes with a non-default StateRules entry.
const (
	StateCA = "CA"
	StateCT = "CT"
	StateID = "ID"
	StateKY = "KY"
	StateMA = "MA"
	StateMD = "MD"
	StateMO = "MO"
	StateNV = "NV"
	StateNY = "NY"
	StateOK = "OK"
	StateOR = "OR"
	StateVA = "VA"
	StateWA = "WA"
)

// NewState constructs a State from a raw code. Unrecognized codes are not
// rejected here -- StateRules.Lookup treats anything outside its table as
// Other/NoExclusion.
func NewState(code string) State {
	return State{Code: code}
}

// IsOther reports whether code falls outside the closed set of states that
// carry a dedicated exclusion rule.
func (s State) IsOther() bool {
	switch s.Code {
	case StateCA, StateCT, StateID, StateKY, StateMA, StateMD, StateMO,
		StateNV, StateNY, StateOK, StateOR, StateVA, StateWA:
		return false
	default:
		return true
	}
}

// Contact is a single insurance contact in the population the engine
// schedules email for.
type Contact struct {
	ID                 int64
	Email              string
	ZipCode            string
	State              State
	Birthday           *calendar.Date
	EffectiveDate      *calendar.Date
	Carrier            string
	FailedUnderwriting bool
}

// Schedulable reports whether the contact has enough data to receive any
// scheduled email. An empty email address makes a contact unschedulable
// regardless of any other field.
func (c Contact) Schedulable() bool {
	return c.Email != ""
}

// HasZipOrState reports whether the contact carries location data, used by
// CampaignPlanner's universal-targeting + no-zip gate.
func (c Contact) HasZipOrState() bool {
	return c.ZipCode != "" || c.State.Code != ""
}
