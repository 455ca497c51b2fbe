package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type ConceptPrerequisiteRepo interface {
	ListAll(dbc dbctx.Context) ([]*types.ConceptPrerequisite, error)
	ListByConceptIDs(dbc dbctx.Context, conceptIDs []uuid.UUID) ([]*types.ConceptPrerequisite, error)
	ReplaceForConcept(dbc dbctx.Context, conceptID uuid.UUID, prerequisiteIDs []uuid.UUID) error
}

type conceptPrerequisiteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptPrerequisiteRepo(db *gorm.DB, baseLog *logger.Logger) ConceptPrerequisiteRepo {
	return &conceptPrerequisiteRepo{db: db, log: baseLog.With("repo", "ConceptPrerequisiteRepo")}
}

func (r *conceptPrerequisiteRepo) ListAll(dbc dbctx.Context) ([]*types.ConceptPrerequisite, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.ConceptPrerequisite{}
	if err := transaction.WithContext(dbc.Ctx).
		Order("concept_id ASC, prerequisite_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conceptPrerequisiteRepo) ListByConceptIDs(dbc dbctx.Context, conceptIDs []uuid.UUID) ([]*types.ConceptPrerequisite, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.ConceptPrerequisite{}
	if len(conceptIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("concept_id IN ?", conceptIDs).
		Order("concept_id ASC, prerequisite_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForConcept makes prerequisiteIDs the full prerequisite list of
// conceptID. Duplicates and nil ids are dropped.
func (r *conceptPrerequisiteRepo) ReplaceForConcept(dbc dbctx.Context, conceptID uuid.UUID, prerequisiteIDs []uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if conceptID == uuid.Nil {
		return nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("concept_id = ?", conceptID).
		Delete(&types.ConceptPrerequisite{}).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	seen := map[uuid.UUID]bool{}
	rows := make([]*types.ConceptPrerequisite, 0, len(prerequisiteIDs))
	for _, p := range prerequisiteIDs {
		if p == uuid.Nil || seen[p] {
			continue
		}
		seen[p] = true
		rows = append(rows, &types.ConceptPrerequisite{
			ID:             uuid.New(),
			ConceptID:      conceptID,
			PrerequisiteID: p,
			CreatedAt:      now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}
