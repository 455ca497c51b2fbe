package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	daggs "github.com/yungbote/neurobridge-studyplan/internal/data/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/data/graph"
	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/curriculum"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/validation"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/neo4jdb"
)

// ConceptView is a concept with its prerequisite ids attached.
type ConceptView struct {
	*types.Concept
	Prerequisites []uuid.UUID `json:"prerequisites"`
}

type SeedResult struct {
	Syllabus string `json:"syllabus"`
	Concepts int    `json:"concepts"`
	Edges    int    `json:"edges"`
}

// IntegrityReport combines the in-memory graph validation with the SQL checks.
type IntegrityReport struct {
	Healthy   bool                       `json:"healthy"`
	Faults    []studyplan.IntegrityFault `json:"faults"`
	Invariant validation.InvariantReport `json:"invariants"`
}

type CurriculumService interface {
	Seed(ctx context.Context, syllabus *curriculum.Syllabus) (*SeedResult, error)
	ListConcepts(dbc dbctx.Context) ([]ConceptView, error)
	UpdateExamWeight(dbc dbctx.Context, conceptID uuid.UUID, weight int) (*types.Concept, error)
	Integrity(ctx context.Context) (*IntegrityReport, error)
	SyncGraph(ctx context.Context) error
}

type curriculumService struct {
	db       *gorm.DB
	tx       daggs.TxRunner
	log      *logger.Logger
	concepts repos.ConceptRepo
	prereqs  repos.ConceptPrerequisiteRepo
	graph    *neo4jdb.Client
}

func NewCurriculumService(db *gorm.DB, log *logger.Logger, concepts repos.ConceptRepo, prereqs repos.ConceptPrerequisiteRepo, graphClient *neo4jdb.Client) CurriculumService {
	return &curriculumService{
		db:       db,
		tx:       daggs.NewGormTxRunner(db),
		log:      log.With("service", "CurriculumService"),
		concepts: concepts,
		prereqs:  prereqs,
		graph:    graphClient,
	}
}

// Seed upserts every concept by key and replaces each concept's prerequisite
// list, all in one transaction. A syllabus that fails validation is rejected
// before anything is written.
func (s *curriculumService) Seed(ctx context.Context, syllabus *curriculum.Syllabus) (*SeedResult, error) {
	const op = "CurriculumService.Seed"
	if err := syllabus.Validate(); err != nil {
		return nil, err
	}

	res := &SeedResult{Syllabus: syllabus.Name}
	err := s.tx.InTx(ctx, func(dbc dbctx.Context) error {
		ids := make(map[string]uuid.UUID, len(syllabus.Concepts))
		for _, spec := range syllabus.Concepts {
			row, err := s.concepts.UpsertByKey(dbc, &types.Concept{
				Key:        spec.Key,
				Subject:    spec.Subject,
				Topic:      spec.Topic,
				Name:       spec.Name,
				ExamWeight: spec.ExamWeight,
			})
			if err != nil {
				return err
			}
			ids[spec.Key] = row.ID
			res.Concepts++
		}
		for _, spec := range syllabus.Concepts {
			prereqIDs := make([]uuid.UUID, 0, len(spec.Requires))
			for _, key := range spec.Requires {
				prereqIDs = append(prereqIDs, ids[key])
			}
			if err := s.prereqs.ReplaceForConcept(dbc, ids[spec.Key], prereqIDs); err != nil {
				return err
			}
			res.Edges += len(prereqIDs)
		}
		return nil
	})
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	s.log.Info("curriculum seeded", "syllabus", res.Syllabus, "concepts", res.Concepts, "edges", res.Edges)

	if err := s.SyncGraph(ctx); err != nil {
		s.log.Warn("neo4j curriculum mirror failed (continuing)", "error", err)
	}
	return res, nil
}

func (s *curriculumService) ListConcepts(dbc dbctx.Context) ([]ConceptView, error) {
	const op = "CurriculumService.ListConcepts"
	concepts, err := s.concepts.ListAll(dbc)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	edges, err := s.prereqs.ListAll(dbc)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	byConcept := map[uuid.UUID][]uuid.UUID{}
	for _, e := range edges {
		byConcept[e.ConceptID] = append(byConcept[e.ConceptID], e.PrerequisiteID)
	}
	out := make([]ConceptView, 0, len(concepts))
	for _, c := range concepts {
		pre := byConcept[c.ID]
		if pre == nil {
			pre = []uuid.UUID{}
		}
		out = append(out, ConceptView{Concept: c, Prerequisites: pre})
	}
	return out, nil
}

func (s *curriculumService) UpdateExamWeight(dbc dbctx.Context, conceptID uuid.UUID, weight int) (*types.Concept, error) {
	const op = "CurriculumService.UpdateExamWeight"
	if conceptID == uuid.Nil {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, op, "concept id is required", nil)
	}
	if !types.ValidExamWeight(weight) {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, op, "exam_weight must be between 1 and 10", nil)
	}
	if err := s.concepts.UpdateExamWeight(dbc, conceptID, weight); err != nil {
		return nil, daggs.MapError(op, err)
	}
	c, err := s.concepts.GetByID(dbc, conceptID)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	if c == nil {
		return nil, aggregates.NewError(aggregates.CodeNotFound, op, "concept not found", nil)
	}
	s.log.Info("exam weight revised", "concept_id", conceptID, "exam_weight", weight)
	return c, nil
}

func (s *curriculumService) Integrity(ctx context.Context) (*IntegrityReport, error) {
	const op = "CurriculumService.Integrity"
	dbc := dbctx.Context{Ctx: ctx}
	concepts, err := s.concepts.ListAll(dbc)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	edges, err := s.prereqs.ListAll(dbc)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	g := studyplan.NewConceptGraph(concepts, edges)
	inv := validation.ValidateCurriculum(ctx, s.db)
	report := &IntegrityReport{
		Healthy:   g.Healthy() && inv.Passed(),
		Faults:    g.Faults(),
		Invariant: inv,
	}
	if !report.Healthy {
		s.log.Error("curriculum integrity check failed", "faults", len(report.Faults), "status", inv.Status)
	}
	return report, nil
}

func (s *curriculumService) SyncGraph(ctx context.Context) error {
	if s.graph == nil {
		return nil
	}
	start := time.Now()
	dbc := dbctx.Context{Ctx: ctx}
	concepts, err := s.concepts.ListAll(dbc)
	if err != nil {
		return err
	}
	edges, err := s.prereqs.ListAll(dbc)
	if err != nil {
		return err
	}
	if err := graph.SyncCurriculumGraph(ctx, s.graph, s.log, concepts, edges); err != nil {
		return err
	}
	s.log.Debug("curriculum graph sync finished", "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
