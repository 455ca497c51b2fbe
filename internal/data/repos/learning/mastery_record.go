package learning

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	domainlearning "github.com/yungbote/neurobridge-studyplan/internal/domain/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type MasteryRecordRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID, conceptID uuid.UUID) (*types.MasteryRecord, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MasteryRecord, error)
	RecordAttempt(dbc dbctx.Context, userID uuid.UUID, conceptID uuid.UUID, score float64, at time.Time) (*types.MasteryRecord, error)
}

type masteryRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMasteryRecordRepo(db *gorm.DB, baseLog *logger.Logger) MasteryRecordRepo {
	return &masteryRecordRepo{db: db, log: baseLog.With("repo", "MasteryRecordRepo")}
}

func (r *masteryRecordRepo) Get(dbc dbctx.Context, userID uuid.UUID, conceptID uuid.UUID) (*types.MasteryRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || conceptID == uuid.Nil {
		return nil, nil
	}
	var row types.MasteryRecord
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND concept_id = ?", userID, conceptID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *masteryRecordRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MasteryRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.MasteryRecord{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("concept_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// RecordAttempt stores the latest mastery estimate for a graded attempt and
// bumps the attempt counter. The score is clamped to the mastery range.
func (r *masteryRecordRepo) RecordAttempt(dbc dbctx.Context, userID uuid.UUID, conceptID uuid.UUID, score float64, at time.Time) (*types.MasteryRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || conceptID == uuid.Nil {
		return nil, nil
	}
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	row := &types.MasteryRecord{
		ID:           uuid.New(),
		UserID:       userID,
		ConceptID:    conceptID,
		MasteryScore: clampMastery(score),
		Attempts:     1,
		LastUpdated:  at,
		CreatedAt:    at,
	}
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "concept_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"mastery_score": row.MasteryScore,
				"last_updated":  row.LastUpdated,
				"attempts":      gorm.Expr("mastery_record.attempts + 1"),
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	return r.Get(dbc, userID, conceptID)
}

func clampMastery(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return domainlearning.MinMasteryScore
	}
	if v < domainlearning.MinMasteryScore {
		return domainlearning.MinMasteryScore
	}
	if v > domainlearning.MaxMasteryScore {
		return domainlearning.MaxMasteryScore
	}
	return v
}
