package services

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	daggs "github.com/yungbote/neurobridge-studyplan/internal/data/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

// MasteryService is the mastery tracker. Planning only reads through it; the
// grading collaborator is the only caller of RecordAttempt.
type MasteryService interface {
	ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MasteryRecord, error)
	RecordAttempt(dbc dbctx.Context, userID uuid.UUID, conceptID uuid.UUID, score float64, at time.Time) (*types.MasteryRecord, error)
}

type masteryService struct {
	tx       daggs.TxRunner
	log      *logger.Logger
	users    repos.UserRepo
	concepts repos.ConceptRepo
	mastery  repos.MasteryRecordRepo
	metrics  *observability.Metrics
}

func NewMasteryService(db *gorm.DB, log *logger.Logger, users repos.UserRepo, concepts repos.ConceptRepo, mastery repos.MasteryRecordRepo, metrics *observability.Metrics) MasteryService {
	return &masteryService{
		tx:       daggs.NewGormTxRunner(db),
		log:      log.With("service", "MasteryService"),
		users:    users,
		concepts: concepts,
		mastery:  mastery,
		metrics:  metrics,
	}
}

func (s *masteryService) ListForUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.MasteryRecord, error) {
	const op = "MasteryService.ListForUser"
	if userID == uuid.Nil {
		return nil, aggregates.NewError(aggregates.CodeValidation, op, "user_id is required", nil)
	}
	rows, err := s.mastery.ListByUser(dbc, userID)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	return rows, nil
}

func (s *masteryService) RecordAttempt(dbc dbctx.Context, userID uuid.UUID, conceptID uuid.UUID, score float64, at time.Time) (*types.MasteryRecord, error) {
	const op = "MasteryService.RecordAttempt"
	if userID == uuid.Nil || conceptID == uuid.Nil {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, op, "user_id and concept_id are required", nil)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, op, "mastery_score must be a finite number", nil)
	}

	var out *types.MasteryRecord
	run := func(inner dbctx.Context) error {
		ok, err := s.users.Exists(inner, userID)
		if err != nil {
			return err
		}
		if !ok {
			return aggregates.NewError(aggregates.CodeReferentialIntegrity, op, "user does not exist", nil)
		}
		c, err := s.concepts.GetByID(inner, conceptID)
		if err != nil {
			return err
		}
		if c == nil {
			return aggregates.NewError(aggregates.CodeNotFound, op, "concept not found", nil)
		}
		out, err = s.mastery.RecordAttempt(inner, userID, conceptID, score, at)
		return err
	}

	var err error
	if dbc.Tx != nil {
		err = run(dbc)
	} else {
		err = s.tx.InTx(dbc.Ctx, run)
	}
	if err != nil {
		s.log.Warn("record attempt failed", "user_id", userID, "concept_id", conceptID, "error", err)
		return nil, daggs.MapError(op, err)
	}
	s.metrics.IncMasteryAttempt()
	s.log.Debug("mastery attempt recorded", "user_id", userID, "concept_id", conceptID, "mastery_score", out.MasteryScore, "attempts", out.Attempts)
	return out, nil
}
