package lab

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalid = errors.New("lab: invalid input")

type Service struct {
	orgs     OrganisationRepository
	profiles ProfileRepository
	results  ResultRepository
	now      func() time.Time
}

func NewService(orgs OrganisationRepository, profiles ProfileRepository, results ResultRepository) *Service {
	return &Service{
		orgs:     orgs,
		profiles: profiles,
		results:  results,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) CreateOrganisation(ctx context.Context, o *Organisation) error {
	o.Name = strings.TrimSpace(o.Name)
	if o.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return s.orgs.Create(ctx, o)
}

func (s *Service) GetOrganisation(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *Service) ListOrganisations(ctx context.Context) ([]*Organisation, error) {
	return s.orgs.List(ctx)
}

func (s *Service) CreateProfile(ctx context.Context, p *Profile) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if p.OrganisationID == uuid.Nil {
		return fmt.Errorf("%w: organisation is required", ErrInvalid)
	}
	return s.profiles.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, orgID, id uuid.UUID) (*Profile, error) {
	return s.profiles.Get(ctx, orgID, id)
}

// AddResult registers a new sample for a profile of orgID. The activation
// time is set here; outcome and result time stay empty unless r carries them.
func (s *Service) AddResult(ctx context.Context, orgID, profileID uuid.UUID, r *Result) error {
	r.SampleID = strings.TrimSpace(r.SampleID)
	if r.SampleID == "" {
		return fmt.Errorf("%w: sampleId is required", ErrInvalid)
	}
	if strings.TrimSpace(string(r.Type)) == "" {
		return fmt.Errorf("%w: resultType is required", ErrInvalid)
	}
	if r.ResultTime != nil && r.Outcome == nil {
		return fmt.Errorf("%w: resultTime requires a result", ErrInvalid)
	}

	if _, err := s.profiles.Get(ctx, orgID, profileID); err != nil {
		return err
	}

	r.ProfileID = profileID
	if r.ActivateTime.IsZero() {
		r.ActivateTime = s.now()
	}
	return s.results.Create(ctx, r)
}

func (s *Service) GetResult(ctx context.Context, orgID, profileID uuid.UUID, sampleID string) (*Result, error) {
	return s.results.GetBySampleID(ctx, orgID, profileID, sampleID)
}
