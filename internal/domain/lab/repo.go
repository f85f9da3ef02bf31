package lab

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("lab: not found")
)

type OrganisationRepository interface {
	Create(ctx context.Context, o *Organisation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error)
	List(ctx context.Context) ([]*Organisation, error)
}

// ProfileRepository lookups are always scoped to an organisation.
type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, orgID, id uuid.UUID) (*Profile, error)
}

type ResultRepository interface {
	Create(ctx context.Context, r *Result) error
	GetBySampleID(ctx context.Context, orgID, profileID uuid.UUID, sampleID string) (*Result, error)
}
