package search

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labtrack/labtrack/internal/platform/db"
	"github.com/labtrack/labtrack/internal/platform/sqlbuilder"
	"github.com/labtrack/labtrack/pkg/pagination"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type storePG struct{ pool *pgxpool.Pool }

// NewStorePG returns a Store backed by pgx.
func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func (s *storePG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

const (
	hitFrom = `result r
		JOIN profile p ON p.id = r.profile_id
		JOIN organisation o ON o.id = p.organisation_id`

	hitCols = `r.id, r.sample_id, r.result_type, r.result, r.activate_time, r.result_time, r.profile_id,
		p.id, p.name, p.organisation_id`

	hitOrder = `r.activate_time DESC, r.id DESC`
)

// buildSQL is the single place a Query becomes SQL; count, page and scan
// statements are all rendered from its result.
func buildSQL(q *Query) *sqlbuilder.SearchQuery {
	sq := sqlbuilder.NewSearchQuery(hitFrom, hitCols)
	sq.AddEquals("o.id", q.OrganisationID)

	for _, p := range q.Predicates {
		switch p.Field {
		case FieldSampleID:
			sq.AddContains("r.sample_id", p.Value)
		case FieldProfileID:
			if p.Op == OpEquals {
				if id, err := uuid.Parse(p.Value); err == nil {
					sq.AddEquals("p.id", id)
				} else {
					sq.AddEquals("p.id::text", strings.ToLower(p.Value))
				}
			} else {
				sq.AddContains("p.id::text", p.Value)
			}
		case FieldActivationDate:
			sq.AddDayEquals("r.activate_time", p.Day.Time())
		case FieldResultDate:
			sq.AddDayEquals("r.result_time", p.Day.Time())
		}
	}

	sq.OrderBy(hitOrder)
	return sq
}

func (s *storePG) Count(ctx context.Context, q *Query) (int, error) {
	sq := buildSQL(q)
	var total int
	if err := s.conn(ctx).QueryRow(ctx, sq.CountSQL(), sq.CountArgs()...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *storePG) Find(ctx context.Context, q *Query, page pagination.Params) ([]Hit, error) {
	sq := buildSQL(q)
	return s.collect(ctx, sq.DataSQL(), sq.DataArgs(page.Limit, page.Offset))
}

func (s *storePG) FindAll(ctx context.Context, q *Query) ([]Hit, error) {
	sq := buildSQL(q)
	return s.collect(ctx, sq.AllSQL(), sq.AllArgs())
}

func (s *storePG) collect(ctx context.Context, sql string, args []interface{}) ([]Hit, error) {
	rows, err := s.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(
			&h.Result.ID, &h.Result.SampleID, &h.Result.Type, &h.Result.Outcome,
			&h.Result.ActivateTime, &h.Result.ResultTime, &h.Result.ProfileID,
			&h.Profile.ID, &h.Profile.Name, &h.Profile.OrganisationID,
		); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
