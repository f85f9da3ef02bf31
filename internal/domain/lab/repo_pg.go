package lab

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labtrack/labtrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// -- Organisation --

type orgRepoPG struct{ pool *pgxpool.Pool }

func NewOrganisationRepoPG(pool *pgxpool.Pool) OrganisationRepository {
	return &orgRepoPG{pool: pool}
}

func (r *orgRepoPG) Create(ctx context.Context, o *Organisation) error {
	o.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO organisation (id, name) VALUES ($1, $2)`, o.ID, o.Name)
	return err
}

func (r *orgRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Organisation, error) {
	var o Organisation
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name FROM organisation WHERE id = $1`, id).Scan(&o.ID, &o.Name)
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *orgRepoPG) List(ctx context.Context) ([]*Organisation, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id, name FROM organisation ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Organisation
	for rows.Next() {
		var o Organisation
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			return nil, err
		}
		items = append(items, &o)
	}
	return items, rows.Err()
}

// -- Profile --

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository {
	return &profileRepoPG{pool: pool}
}

func (r *profileRepoPG) Create(ctx context.Context, p *Profile) error {
	p.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO profile (id, name, organisation_id) VALUES ($1, $2, $3)`,
		p.ID, p.Name, p.OrganisationID)
	return err
}

func (r *profileRepoPG) Get(ctx context.Context, orgID, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, organisation_id FROM profile WHERE id = $1 AND organisation_id = $2`,
		id, orgID).Scan(&p.ID, &p.Name, &p.OrganisationID)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// -- Result --

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewResultRepoPG(pool *pgxpool.Pool) ResultRepository {
	return &resultRepoPG{pool: pool}
}

const resultCols = `r.id, r.sample_id, r.result_type, r.result, r.activate_time, r.result_time, r.profile_id`

// scanResult reads a row laid out as resultCols.
func scanResult(row pgx.Row, dest *Result) error {
	return row.Scan(&dest.ID, &dest.SampleID, &dest.Type, &dest.Outcome,
		&dest.ActivateTime, &dest.ResultTime, &dest.ProfileID)
}

func (r *resultRepoPG) Create(ctx context.Context, res *Result) error {
	res.ID = uuid.New()
	if res.ActivateTime.IsZero() {
		res.ActivateTime = time.Now().UTC()
	}
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO result (id, sample_id, result_type, result, activate_time, result_time, profile_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.SampleID, res.Type, res.Outcome, res.ActivateTime, res.ResultTime, res.ProfileID)
	return err
}

func (r *resultRepoPG) GetBySampleID(ctx context.Context, orgID, profileID uuid.UUID, sampleID string) (*Result, error) {
	var res Result
	err := scanResult(conn(ctx, r.pool).QueryRow(ctx, `
		SELECT `+resultCols+`
		FROM result r
		JOIN profile p ON p.id = r.profile_id
		WHERE p.organisation_id = $1 AND r.profile_id = $2 AND r.sample_id = $3
		ORDER BY r.activate_time DESC, r.id DESC
		LIMIT 1`, orgID, profileID, sampleID), &res)
	if err != nil {
		return nil, notFound(err)
	}
	return &res, nil
}
