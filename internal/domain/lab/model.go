package lab

import (
	"time"

	"github.com/google/uuid"

	"github.com/labtrack/labtrack/internal/platform/jsonapi"
)

// Resource type names used in response documents.
const (
	TypeOrganisation = "organisation"
	TypeProfile      = "profile"
	TypeResult       = "result"
	TypeSample       = "sample"
)

// ResultType is the assay a sample was taken for.
type ResultType string

const (
	ResultTypeRTPCR    ResultType = "rtpcr"
	ResultTypeAntigen  ResultType = "antigen"
	ResultTypeAntibody ResultType = "antibody"
	ResultTypeRTLAMP   ResultType = "rtlamp"
)

// KnownResultTypes lists the assay types the lab reports on.
var KnownResultTypes = []ResultType{
	ResultTypeRTPCR,
	ResultTypeAntigen,
	ResultTypeAntibody,
	ResultTypeRTLAMP,
}

// Known reports whether t is one of KnownResultTypes. Other values are
// stored unchanged; clients display them as N/A.
func (t ResultType) Known() bool {
	for _, k := range KnownResultTypes {
		if t == k {
			return true
		}
	}
	return false
}

type Organisation struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
}

func (o *Organisation) ToResource() jsonapi.Resource {
	return jsonapi.Resource{
		ID:         o.ID.String(),
		Type:       TypeOrganisation,
		Attributes: OrganisationAttributes{Name: o.Name},
	}
}

type OrganisationAttributes struct {
	Name string `json:"name"`
}

// Profile is a patient registered with an organisation.
type Profile struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	OrganisationID uuid.UUID `db:"organisation_id" json:"organisation_id"`
}

func (p *Profile) ToResource() jsonapi.Resource {
	return jsonapi.Resource{
		ID:         p.ID.String(),
		Type:       TypeProfile,
		Attributes: ProfileAttributes{Name: p.Name},
		Relationships: map[string]jsonapi.Relationship{
			"organisation": {Data: jsonapi.Identifier{Type: TypeOrganisation, ID: p.OrganisationID.String()}},
		},
	}
}

type ProfileAttributes struct {
	Name string `json:"name"`
}

// Result is one lab sample. Outcome stays nil until the lab records it.
type Result struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SampleID     string     `db:"sample_id" json:"sample_id"`
	Type         ResultType `db:"result_type" json:"result_type"`
	Outcome      *string    `db:"result" json:"result,omitempty"`
	ActivateTime time.Time  `db:"activate_time" json:"activate_time"`
	ResultTime   *time.Time `db:"result_time" json:"result_time,omitempty"`
	ProfileID    uuid.UUID  `db:"profile_id" json:"profile_id"`
}

// Pending reports whether no outcome has been recorded yet.
func (r *Result) Pending() bool {
	return r.Outcome == nil
}

type ResultAttributes struct {
	SampleID     string     `json:"sampleId"`
	ResultType   ResultType `json:"resultType"`
	Result       *string    `json:"result"`
	ActivateTime time.Time  `json:"activateTime"`
	ResultTime   *time.Time `json:"resultTime"`
}

// ToResource renders r as a search hit with a profile relationship.
func (r *Result) ToResource() jsonapi.Resource {
	return jsonapi.Resource{
		ID:   r.ID.String(),
		Type: TypeResult,
		Attributes: ResultAttributes{
			SampleID:     r.SampleID,
			ResultType:   r.Type,
			Result:       r.Outcome,
			ActivateTime: r.ActivateTime,
			ResultTime:   r.ResultTime,
		},
		Relationships: map[string]jsonapi.Relationship{
			"profile": {Data: jsonapi.Identifier{Type: TypeProfile, ID: r.ProfileID.String()}},
		},
	}
}

type SampleAttributes struct {
	SampleID     string     `json:"sampleId"`
	ResultType   ResultType `json:"resultType"`
	Result       *string    `json:"result,omitempty"`
	ActivateTime time.Time  `json:"activateTime"`
	ResultTime   *time.Time `json:"resultTime,omitempty"`
}

// ToSampleResource renders r the way the sample endpoints return it.
func (r *Result) ToSampleResource() jsonapi.Resource {
	return jsonapi.Resource{
		ID:   r.ID.String(),
		Type: TypeSample,
		Attributes: SampleAttributes{
			SampleID:     r.SampleID,
			ResultType:   r.Type,
			Result:       r.Outcome,
			ActivateTime: r.ActivateTime,
			ResultTime:   r.ResultTime,
		},
	}
}
