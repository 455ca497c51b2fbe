package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	daggs "github.com/yungbote/neurobridge-studyplan/internal/data/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/redisbus"
)

// PlanEventPublisher receives a notification after every persisted plan.
type PlanEventPublisher interface {
	Publish(ctx context.Context, ev redisbus.Event) error
}

// PlanOutcome is the persisted plan plus everything the planner learned while
// building it.
type PlanOutcome struct {
	Plan     *types.StudyPlan           `json:"plan"`
	Ranked   []studyplan.Ranked         `json:"ranked"`
	Faults   []studyplan.IntegrityFault `json:"integrity_faults"`
	Excluded []uuid.UUID                `json:"excluded"`
	Degraded []uuid.UUID                `json:"degraded"`
}

type StudyPlanService interface {
	Generate(ctx context.Context, userID uuid.UUID, date time.Time) (*PlanOutcome, error)
	Get(dbc dbctx.Context, userID uuid.UUID, date time.Time) (*types.StudyPlan, error)
	List(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudyPlan, error)
	// Rank scores ad-hoc candidates with the configured weights. Pure.
	Rank(candidates []studyplan.Candidate) []studyplan.Ranked
}

type studyPlanService struct {
	log      *logger.Logger
	planner  *studyplan.Planner
	concepts repos.ConceptRepo
	prereqs  repos.ConceptPrerequisiteRepo
	mastery  repos.MasteryRecordRepo
	plans    repos.StudyPlanRepo
	events   PlanEventPublisher
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewStudyPlanService(
	log *logger.Logger,
	cfg studyplan.Config,
	concepts repos.ConceptRepo,
	prereqs repos.ConceptPrerequisiteRepo,
	mastery repos.MasteryRecordRepo,
	plans repos.StudyPlanRepo,
	events PlanEventPublisher,
	metrics *observability.Metrics,
) StudyPlanService {
	return &studyPlanService{
		log:      log.With("service", "StudyPlanService"),
		planner:  studyplan.NewPlanner(cfg),
		concepts: concepts,
		prereqs:  prereqs,
		mastery:  mastery,
		plans:    plans,
		events:   events,
		metrics:  metrics,
		now:      time.Now,
	}
}

func (s *studyPlanService) Generate(ctx context.Context, userID uuid.UUID, date time.Time) (out *PlanOutcome, err error) {
	const op = "StudyPlanService.Generate"
	start := time.Now()
	ctx, span := observability.Tracer().Start(ctx, "studyplan.generate")
	defer func() {
		outcome := "ok"
		ranked := 0
		if err != nil {
			outcome = string(aggregates.CodeOf(err))
			if outcome == "" {
				outcome = string(aggregates.CodeInternal)
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else if out != nil {
			ranked = len(out.Ranked)
		}
		s.metrics.ObservePlan(outcome, ranked, time.Since(start))
		span.End()
	}()

	if userID == uuid.Nil {
		return nil, aggregates.NewError(aggregates.CodeValidation, op, "user_id is required", nil)
	}
	if date.IsZero() {
		date = s.now().UTC()
	}
	day := learning.TruncateToDate(date)
	span.SetAttributes(attribute.String("plan.date", day.Format(types.PlanDateLayout)))

	var (
		concepts []*types.Concept
		edges    []*types.ConceptPrerequisite
		records  []*types.MasteryRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		concepts, err = s.concepts.ListAll(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		edges, err = s.prereqs.ListAll(dbctx.Context{Ctx: gctx})
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.mastery.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, daggs.MapError(op, err)
	}

	res := s.planner.Plan(studyplan.PlanInput{
		Concepts:      concepts,
		Prerequisites: edges,
		Mastery:       records,
	})
	span.SetAttributes(
		attribute.Int("plan.concepts", len(concepts)),
		attribute.Int("plan.recommended", len(res.Recommended)),
		attribute.Int("plan.faults", len(res.Faults)),
	)
	for _, f := range res.Faults {
		s.metrics.IncIntegrityFault(string(f.Kind))
		s.log.Error("curriculum integrity fault", "concept_id", f.ConceptID, "kind", f.Kind, "detail", f.Error())
	}
	if len(res.Degraded) > 0 {
		s.log.Warn("urgency degraded to zero", "count", len(res.Degraded))
	}

	plan, err := s.plans.Upsert(dbctx.Context{Ctx: ctx}, userID, day, res.Recommended, res.Reasoning)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, plan, res.Recommended)
	s.log.Info("study plan generated",
		"user_id", userID,
		"plan_date", day.Format(types.PlanDateLayout),
		"recommended", len(res.Recommended),
		"faults", len(res.Faults),
	)

	return &PlanOutcome{
		Plan:     plan,
		Ranked:   res.Ranked,
		Faults:   res.Faults,
		Excluded: res.Excluded,
		Degraded: res.Degraded,
	}, nil
}

func (s *studyPlanService) publish(ctx context.Context, plan *types.StudyPlan, ids []uuid.UUID) {
	if s.events == nil || plan == nil {
		return
	}
	conceptIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		conceptIDs = append(conceptIDs, id.String())
	}
	ev := redisbus.Event{
		Type:       redisbus.EventStudyPlanUpdated,
		UserID:     plan.UserID.String(),
		PlanDate:   plan.Date().Format(types.PlanDateLayout),
		ConceptIDs: conceptIDs,
		At:         plan.UpdatedAt,
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.metrics.IncPublishFailure()
		s.log.Warn("plan event publish failed", "user_id", plan.UserID, "error", err)
	}
}

func (s *studyPlanService) Get(dbc dbctx.Context, userID uuid.UUID, date time.Time) (*types.StudyPlan, error) {
	const op = "StudyPlanService.Get"
	if userID == uuid.Nil || date.IsZero() {
		return nil, aggregates.NewError(aggregates.CodeValidation, op, "user_id and date are required", nil)
	}
	plan, err := s.plans.GetByUserAndDate(dbc, userID, date)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	if plan == nil {
		return nil, aggregates.NewError(aggregates.CodeNotFound, op, "no plan for that date", nil)
	}
	return plan, nil
}

func (s *studyPlanService) List(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.StudyPlan, error) {
	const op = "StudyPlanService.List"
	if userID == uuid.Nil {
		return nil, aggregates.NewError(aggregates.CodeValidation, op, "user_id is required", nil)
	}
	if limit <= 0 || limit > 366 {
		limit = 30
	}
	rows, err := s.plans.ListByUser(dbc, userID, limit)
	if err != nil {
		return nil, daggs.MapError(op, err)
	}
	return rows, nil
}

func (s *studyPlanService) Rank(candidates []studyplan.Candidate) []studyplan.Ranked {
	return s.planner.Config().Weights.Rank(candidates)
}
