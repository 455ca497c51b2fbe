package learning

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	daggs "github.com/yungbote/neurobridge-studyplan/internal/data/aggregates"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	domainaggs "github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	domainlearning "github.com/yungbote/neurobridge-studyplan/internal/domain/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type StudyPlanRepo interface {
	// Upsert writes the plan for (userID, planDate), replacing any earlier plan
	// for that day. It fails with referential_integrity when the user is unknown.
	Upsert(dbc dbctx.Context, userID uuid.UUID, planDate time.Time, conceptIDs []uuid.UUID, reasoning string) (*types.StudyPlan, error)
	GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, planDate time.Time) (*types.StudyPlan, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudyPlan, error)
}

type studyPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Upsert(dbc dbctx.Context, userID uuid.UUID, planDate time.Time, conceptIDs []uuid.UUID, reasoning string) (*types.StudyPlan, error) {
	const op = "StudyPlanRepo.Upsert"
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil {
		return nil, domainaggs.NewError(domainaggs.CodeValidation, op, "user_id is required", nil)
	}
	if planDate.IsZero() {
		return nil, domainaggs.NewError(domainaggs.CodeValidation, op, "plan_date is required", nil)
	}
	if conceptIDs == nil {
		conceptIDs = []uuid.UUID{}
	}
	payload, err := json.Marshal(conceptIDs)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	day := domainlearning.TruncateToDate(planDate)

	var out *types.StudyPlan
	err = transaction.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&types.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domainaggs.NewError(domainaggs.CodeReferentialIntegrity, op, "user does not exist", nil)
		}

		now := time.Now().UTC()
		row := &types.StudyPlan{
			ID:                  uuid.New(),
			UserID:              userID,
			PlanDate:            datatypes.Date(day),
			RecommendedConcepts: datatypes.JSON(payload),
			Reasoning:           reasoning,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "plan_date"}},
			DoUpdates: clause.AssignmentColumns([]string{"recommended_concepts", "reasoning", "updated_at"}),
		}).Create(row).Error; err != nil {
			return err
		}

		var stored types.StudyPlan
		if err := tx.Where("user_id = ? AND plan_date = ?", userID, datatypes.Date(day)).
			Limit(1).
			Find(&stored).Error; err != nil {
			return err
		}
		if stored.ID == uuid.Nil {
			return domainaggs.NewError(domainaggs.CodeInternal, op, "plan not readable after write", nil)
		}
		out = &stored
		return nil
	})
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	return out, nil
}

func (r *studyPlanRepo) GetByUserAndDate(dbc dbctx.Context, userID uuid.UUID, planDate time.Time) (*types.StudyPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || planDate.IsZero() {
		return nil, nil
	}
	day := domainlearning.TruncateToDate(planDate)
	var row types.StudyPlan
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND plan_date = ?", userID, datatypes.Date(day)).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// ListByUser returns the most recent plans first. limit <= 0 means no limit.
func (r *studyPlanRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudyPlan, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.StudyPlan{}
	if userID == uuid.Nil {
		return out, nil
	}
	q := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("plan_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
