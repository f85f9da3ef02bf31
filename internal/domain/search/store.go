package search

import (
	"context"

	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/pkg/pagination"
)

// Hit is a result together with the profile it belongs to.
type Hit struct {
	Result  lab.Result
	Profile lab.Profile
}

// Store runs compiled queries. Every method must restrict rows to
// q.OrganisationID, apply every predicate in q.Predicates and return hits
// ordered by activation time descending, then id descending.
type Store interface {
	Count(ctx context.Context, q *Query) (int, error)
	Find(ctx context.Context, q *Query, page pagination.Params) ([]Hit, error)
	FindAll(ctx context.Context, q *Query) ([]Hit, error)
}
