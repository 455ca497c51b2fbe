package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type ConceptRepo interface {
	Create(dbc dbctx.Context, concepts []*types.Concept) ([]*types.Concept, error)
	UpsertByKey(dbc dbctx.Context, concept *types.Concept) (*types.Concept, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Concept, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Concept, error)
	GetByKeys(dbc dbctx.Context, keys []string) ([]*types.Concept, error)
	ListAll(dbc dbctx.Context) ([]*types.Concept, error)
	UpdateExamWeight(dbc dbctx.Context, id uuid.UUID, weight int) error
}

type conceptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	return &conceptRepo{db: db, log: baseLog.With("repo", "ConceptRepo")}
}

func (r *conceptRepo) Create(dbc dbctx.Context, concepts []*types.Concept) ([]*types.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(concepts) == 0 {
		return []*types.Concept{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&concepts).Error; err != nil {
		return nil, err
	}
	return concepts, nil
}

// UpsertByKey inserts the concept or refreshes its descriptive columns and exam
// weight when the key already exists. The stored row is returned.
func (r *conceptRepo) UpsertByKey(dbc dbctx.Context, concept *types.Concept) (*types.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if concept == nil || strings.TrimSpace(concept.Key) == "" {
		return nil, nil
	}
	now := time.Now().UTC()
	if concept.ID == uuid.Nil {
		concept.ID = uuid.New()
	}
	if concept.CreatedAt.IsZero() {
		concept.CreatedAt = now
	}
	concept.UpdatedAt = now

	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"subject", "topic", "name", "exam_weight", "updated_at",
			}),
		}).
		Create(concept).Error
	if err != nil {
		return nil, err
	}

	var row types.Concept
	if err := transaction.WithContext(dbc.Ctx).
		Where("key = ?", concept.Key).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *conceptRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Concept
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *conceptRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Concept{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conceptRepo) GetByKeys(dbc dbctx.Context, keys []string) ([]*types.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Concept{}
	if len(keys) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("key IN ?", keys).
		Order("key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *conceptRepo) ListAll(dbc dbctx.Context) ([]*types.Concept, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Concept{}
	if err := transaction.WithContext(dbc.Ctx).
		Order("subject ASC, topic ASC, key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateExamWeight returns gorm.ErrRecordNotFound when no live concept matches.
func (r *conceptRepo) UpdateExamWeight(dbc dbctx.Context, id uuid.UUID, weight int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Concept{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"exam_weight": weight,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
