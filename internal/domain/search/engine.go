package search

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/internal/platform/jsonapi"
	"github.com/labtrack/labtrack/pkg/pagination"
)

// Engine runs organisation-scoped result searches against a Store.
type Engine struct {
	store    Store
	logger   zerolog.Logger
	maxLimit int
}

// NewEngine creates an Engine. maxLimit caps the page size; <= 0 means
// pagination.MaxLimit.
func NewEngine(store Store, logger zerolog.Logger, maxLimit int) *Engine {
	return &Engine{store: store, logger: logger, maxLimit: maxLimit}
}

// Page is the outcome of a search before it is rendered.
type Page struct {
	Hits   []Hit
	Total  int
	Window pagination.Params
}

// Search resolves raw parameters, runs the search inside org and renders
// the response document.
func (e *Engine) Search(ctx context.Context, org *lab.Organisation, raw map[string]string) (*jsonapi.Document, error) {
	if org == nil {
		return nil, ErrInvalidScope
	}
	page, err := e.Run(ctx, org, ParseParams(raw, e.maxLimit))
	if err != nil {
		return nil, err
	}
	return Assemble(org, page), nil
}

// Run executes a search with already resolved parameters.
//
// Without a patient name the store does the filtering and paging. The page
// is then re-checked against the profile identifier rule; hits failing it
// are dropped and the total is reduced accordingly.
//
// With a patient name every scoped hit matching the store predicates is
// loaded, the name and profile identifier rules are applied in memory, and
// the window is cut from the filtered list.
func (e *Engine) Run(ctx context.Context, org *lab.Organisation, params Params) (*Page, error) {
	if org == nil {
		return nil, ErrInvalidScope
	}

	q := Compile(org.ID, params)
	log := e.logger.With().Str("organisation_id", org.ID.String()).Logger()
	for _, r := range q.Rejected {
		log.Warn().Err(r.Err).Str("field", string(r.Field)).Str("value", r.Raw).Msg("search filter ignored")
	}

	if q.NamePending() {
		return e.scan(ctx, q, params.Page, log)
	}

	total, err := e.store.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: count: %w", ErrRetrieval, err)
	}
	hits, err := e.store.Find(ctx, q, params.Page)
	if err != nil {
		return nil, fmt.Errorf("%w: find: %w", ErrRetrieval, err)
	}

	if q.ProfilePending() {
		kept := make([]Hit, 0, len(hits))
		for _, h := range hits {
			if q.MatchesProfile(h) {
				kept = append(kept, h)
			}
		}
		if dropped := len(hits) - len(kept); dropped > 0 {
			log.Warn().
				Str("profile_id", q.Profile.Value).
				Str("match", q.Profile.Kind.String()).
				Int("dropped", dropped).
				Msg("store returned hits outside the profile filter")
			total -= dropped
			if total < 0 {
				total = 0
			}
		}
		hits = kept
	}

	return &Page{Hits: hits, Total: total, Window: params.Page}, nil
}

func (e *Engine) scan(ctx context.Context, q *Query, window pagination.Params, log zerolog.Logger) (*Page, error) {
	all, err := e.store.FindAll(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: scan: %w", ErrRetrieval, err)
	}

	// TODO: push the name filter into the store once profile.name has a
	// trigram index; until then this loads the organisation's whole
	// filtered result set.
	matched := make([]Hit, 0, len(all))
	for _, h := range all {
		if q.MatchesProfile(h) && q.MatchesName(h) {
			matched = append(matched, h)
		}
	}
	log.Debug().Int("scanned", len(all)).Int("matched", len(matched)).Msg("patient name scan")

	return &Page{
		Hits:   pagination.Window(matched, window),
		Total:  len(matched),
		Window: window,
	}, nil
}
