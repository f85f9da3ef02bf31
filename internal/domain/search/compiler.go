package search

import (
	"strings"

	"github.com/google/uuid"
)

// Field names a filterable attribute of a hit.
type Field string

const (
	FieldSampleID       Field = "sampleId"
	FieldProfileID      Field = "profileId"
	FieldActivationDate Field = "activationDate"
	FieldResultDate     Field = "resultDate"
	FieldPatientName    Field = "patientName"
)

type Op int

const (
	OpContains Op = iota // case-insensitive substring of Value
	OpEquals             // case-insensitive equality with Value
	OpOnDay              // timestamp falls on Day (UTC)
)

// Predicate is one store-level filter. Stores translate predicates into
// their own query language; Match is the in-memory equivalent.
type Predicate struct {
	Field Field
	Op    Op
	Value string
	Day   Day
}

// Match evaluates p against h with the same semantics the stores use.
func (p Predicate) Match(h Hit) bool {
	switch p.Field {
	case FieldSampleID:
		return matchText(p.Op, h.Result.SampleID, p.Value)
	case FieldProfileID:
		return matchText(p.Op, h.Profile.ID.String(), p.Value)
	case FieldActivationDate:
		return DayOf(h.Result.ActivateTime.UTC()) == p.Day
	case FieldResultDate:
		return h.Result.ResultTime != nil && DayOf(h.Result.ResultTime.UTC()) == p.Day
	}
	return false
}

func matchText(op Op, have, want string) bool {
	if op == OpEquals {
		return strings.EqualFold(have, want)
	}
	return strings.Contains(strings.ToLower(have), strings.ToLower(want))
}

// Rejected records a supplied filter that was dropped during compilation.
type Rejected struct {
	Field Field
	Raw   string
	Err   error
}

// Query is a compiled, organisation-scoped search. Predicates are applied by
// the store; Profile and PatientName are additionally checked in memory by
// the engine.
type Query struct {
	OrganisationID uuid.UUID
	Predicates     []Predicate
	Profile        *IdentifierMatch
	PatientName    string
	Rejected       []Rejected
}

// NamePending reports whether a patient name filter must run in memory.
func (q *Query) NamePending() bool { return q.PatientName != "" }

// ProfilePending reports whether the profile identifier re-check applies.
func (q *Query) ProfilePending() bool { return q.Profile != nil }

// MatchesName applies the case-insensitive patient name substring filter.
func (q *Query) MatchesName(h Hit) bool {
	if q.PatientName == "" {
		return true
	}
	return strings.Contains(strings.ToLower(h.Profile.Name), strings.ToLower(q.PatientName))
}

// MatchesProfile applies the profile identifier rule.
func (q *Query) MatchesProfile(h Hit) bool {
	if q.Profile == nil {
		return true
	}
	return q.Profile.Matches(h.Profile.ID)
}

// Compile turns resolved parameters into a query scoped to orgID. Dates that
// cannot be parsed are left out and listed in Rejected. The patient name is
// never turned into a predicate.
func Compile(orgID uuid.UUID, p Params) *Query {
	q := &Query{OrganisationID: orgID, PatientName: p.PatientName}

	if p.SampleID != "" {
		q.Predicates = append(q.Predicates, Predicate{Field: FieldSampleID, Op: OpContains, Value: p.SampleID})
	}

	if p.ProfileID != "" {
		q.Profile = NewIdentifierMatch(p.ProfileID)
		op := OpContains
		if q.Profile.Kind == Exact {
			op = OpEquals
		}
		q.Predicates = append(q.Predicates, Predicate{Field: FieldProfileID, Op: op, Value: p.ProfileID})
	}

	q.addDay(FieldActivationDate, p.ActivationDate)
	q.addDay(FieldResultDate, p.ResultDate)

	return q
}

func (q *Query) addDay(field Field, raw string) {
	if raw == "" {
		return
	}
	day, err := NormalizeDay(raw)
	if err != nil {
		q.Rejected = append(q.Rejected, Rejected{Field: field, Raw: raw, Err: err})
		return
	}
	q.Predicates = append(q.Predicates, Predicate{Field: field, Op: OpOnDay, Day: day})
}
