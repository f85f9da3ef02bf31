// Package seed fills an organisation with generated profiles and samples
// for local development and load testing.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labtrack/labtrack/internal/domain/lab"
)

var firstNames = []string{
	"Ada", "Alan", "Grace", "Edsger", "Barbara", "Donald", "Frances", "Ken",
	"Margaret", "Dennis", "Radia", "John", "Katherine", "Niklaus", "Sophie", "Tim",
}

var lastNames = []string{
	"Lovelace", "Turing", "Hopper", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson",
	"Hamilton", "Ritchie", "Perlman", "McCarthy", "Johnson", "Wirth", "Wilson", "Lee",
}

var outcomes = []string{"positive", "negative", "inconclusive"}

// unknownType is seeded alongside the known assays so clients exercise
// their fallback rendering.
const unknownType lab.ResultType = "coyote"

type Options struct {
	Profiles int
	Samples  int
	// Seed makes a run reproducible. Zero picks a random seed.
	Seed uint64
	// RecordedShare is the fraction of samples that get an outcome.
	RecordedShare float64
	// Span is how far back activation times are spread.
	Span time.Duration
}

func DefaultOptions() Options {
	return Options{
		Profiles:      50,
		Samples:       500,
		RecordedShare: 0.6,
		Span:          30 * 24 * time.Hour,
	}
}

// Writer is the part of lab.Service the generator needs.
type Writer interface {
	CreateProfile(ctx context.Context, p *lab.Profile) error
	AddResult(ctx context.Context, orgID, profileID uuid.UUID, r *lab.Result) error
}

type Summary struct {
	Profiles int
	Samples  int
	Recorded int
}

type Generator struct {
	w      Writer
	logger zerolog.Logger
	now    func() time.Time
}

func NewGenerator(w Writer, logger zerolog.Logger) *Generator {
	return &Generator{w: w, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Run creates opts.Profiles profiles in orgID and spreads opts.Samples
// samples across them.
func (g *Generator) Run(ctx context.Context, orgID uuid.UUID, opts Options) (*Summary, error) {
	if opts.Profiles <= 0 {
		return nil, fmt.Errorf("profiles must be positive, got %d", opts.Profiles)
	}
	if opts.Samples < 0 {
		return nil, fmt.Errorf("samples must not be negative, got %d", opts.Samples)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rnd := rand.New(rand.NewPCG(seed, seed>>1))
	g.logger.Info().Uint64("seed", seed).Str("organisation_id", orgID.String()).Msg("seeding")

	profiles := make([]uuid.UUID, 0, opts.Profiles)
	for i := 0; i < opts.Profiles; i++ {
		p := &lab.Profile{OrganisationID: orgID, Name: randomName(rnd)}
		if err := g.w.CreateProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("create profile %d: %w", i, err)
		}
		profiles = append(profiles, p.ID)
	}

	sum := &Summary{Profiles: len(profiles)}
	now := g.now()
	for i := 0; i < opts.Samples; i++ {
		r := g.sample(rnd, i, now, opts)
		if r.Outcome != nil {
			sum.Recorded++
		}
		profileID := profiles[rnd.IntN(len(profiles))]
		if err := g.w.AddResult(ctx, orgID, profileID, r); err != nil {
			return nil, fmt.Errorf("add sample %s: %w", r.SampleID, err)
		}
		sum.Samples++
	}

	g.logger.Info().
		Int("profiles", sum.Profiles).
		Int("samples", sum.Samples).
		Int("recorded", sum.Recorded).
		Msg("seed complete")
	return sum, nil
}

func (g *Generator) sample(rnd *rand.Rand, i int, now time.Time, opts Options) *lab.Result {
	types := append(lab.KnownResultTypes[:len(lab.KnownResultTypes):len(lab.KnownResultTypes)], unknownType)

	r := &lab.Result{
		SampleID: SampleID(i + 1),
		Type:     types[rnd.IntN(len(types))],
	}
	if opts.Span > 0 {
		r.ActivateTime = now.Add(-time.Duration(rnd.Int64N(int64(opts.Span))))
	} else {
		r.ActivateTime = now
	}
	if rnd.Float64() < opts.RecordedShare {
		outcome := outcomes[rnd.IntN(len(outcomes))]
		resultTime := r.ActivateTime.Add(time.Duration(1+rnd.IntN(48)) * time.Hour)
		if resultTime.After(now) {
			resultTime = now
		}
		r.Outcome = &outcome
		r.ResultTime = &resultTime
	}
	return r
}

func SampleID(n int) string {
	return fmt.Sprintf("SAMPLE-%06d", n)
}

func randomName(rnd *rand.Rand) string {
	return firstNames[rnd.IntN(len(firstNames))] + " " + lastNames[rnd.IntN(len(lastNames))]
}
