package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/labtrack/labtrack/internal/domain/lab"
	"github.com/labtrack/labtrack/internal/platform/sqlbuilder"
	"github.com/labtrack/labtrack/pkg/pagination"
)

// hitRow is the flattened shape of one joined result/profile row.
type hitRow struct {
	ID             uuid.UUID
	SampleID       string
	ResultType     string
	Result         *string
	ActivateTime   time.Time
	ResultTime     *time.Time
	ProfileID      uuid.UUID
	ProfileName    string
	OrganisationID uuid.UUID
}

func (r hitRow) hit() Hit {
	return Hit{
		Result: lab.Result{
			ID:           r.ID,
			SampleID:     r.SampleID,
			Type:         lab.ResultType(r.ResultType),
			Outcome:      r.Result,
			ActivateTime: r.ActivateTime,
			ResultTime:   r.ResultTime,
			ProfileID:    r.ProfileID,
		},
		Profile: lab.Profile{
			ID:             r.ProfileID,
			Name:           r.ProfileName,
			OrganisationID: r.OrganisationID,
		},
	}
}

const gormHitCols = `r.id, r.sample_id, r.result_type, r.result, r.activate_time, r.result_time,
	r.profile_id, p.name AS profile_name, p.organisation_id`

type storeGorm struct{ db *gorm.DB }

// NewStoreGorm returns a Store backed by gorm.
func NewStoreGorm(db *gorm.DB) Store {
	return &storeGorm{db: db}
}

// scoped applies the organisation scope and every predicate of q.
func scoped(q *Query) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		tx = tx.Table("result r").
			Joins("JOIN profile p ON p.id = r.profile_id").
			Joins("JOIN organisation o ON o.id = p.organisation_id").
			Where("o.id = ?", q.OrganisationID)

		for _, p := range q.Predicates {
			switch p.Field {
			case FieldSampleID:
				tx = tx.Where("r.sample_id ILIKE ?", "%"+sqlbuilder.EscapeLike(p.Value)+"%")
			case FieldProfileID:
				if p.Op == OpEquals {
					tx = tx.Where("p.id::text = ?", strings.ToLower(p.Value))
				} else {
					tx = tx.Where("p.id::text ILIKE ?", "%"+sqlbuilder.EscapeLike(p.Value)+"%")
				}
			case FieldActivationDate:
				tx = tx.Where("(r.activate_time AT TIME ZONE 'UTC')::date = CAST(? AS date)", p.Day.String())
			case FieldResultDate:
				tx = tx.Where("(r.result_time AT TIME ZONE 'UTC')::date = CAST(? AS date)", p.Day.String())
			}
		}
		return tx
	}
}

func (s *storeGorm) Count(ctx context.Context, q *Query) (int, error) {
	var total int64
	if err := scoped(q)(s.db.WithContext(ctx)).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (s *storeGorm) Find(ctx context.Context, q *Query, page pagination.Params) ([]Hit, error) {
	return s.collect(scoped(q)(s.db.WithContext(ctx)).Limit(page.Limit).Offset(page.Offset))
}

func (s *storeGorm) FindAll(ctx context.Context, q *Query) ([]Hit, error) {
	return s.collect(scoped(q)(s.db.WithContext(ctx)))
}

func (s *storeGorm) collect(tx *gorm.DB) ([]Hit, error) {
	var rows []hitRow
	if err := tx.Select(gormHitCols).Order(hitOrder).Find(&rows).Error; err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, r.hit())
	}
	return hits, nil
}
