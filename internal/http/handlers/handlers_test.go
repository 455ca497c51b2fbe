package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/curriculum"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type fakePlans struct {
	generated []time.Time
	genErr    error
	plans     map[string]*types.StudyPlan
}

func (f *fakePlans) Generate(_ context.Context, userID uuid.UUID, date time.Time) (*services.PlanOutcome, error) {
	f.generated = append(f.generated, date)
	if f.genErr != nil {
		return nil, f.genErr
	}
	return &services.PlanOutcome{Plan: &types.StudyPlan{ID: uuid.New(), UserID: userID}}, nil
}

func (f *fakePlans) Get(_ dbctx.Context, _ uuid.UUID, date time.Time) (*types.StudyPlan, error) {
	if p, ok := f.plans[date.Format(types.PlanDateLayout)]; ok {
		return p, nil
	}
	return nil, aggregates.NewError(aggregates.CodeNotFound, "fake", "no plan for that date", nil)
}

func (f *fakePlans) List(_ dbctx.Context, _ uuid.UUID, limit int) ([]*types.StudyPlan, error) {
	out := []*types.StudyPlan{}
	for _, p := range f.plans {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlans) Rank(candidates []studyplan.Candidate) []studyplan.Ranked {
	return studyplan.Rank(candidates)
}

type fakeScheduler struct{ calls int }

func (s *fakeScheduler) ScheduleDailyPlan(_ context.Context, userID uuid.UUID, date time.Time) (string, string, error) {
	s.calls++
	return "study-plan:" + userID.String() + ":" + date.Format(types.PlanDateLayout), "run-1", nil
}

type fakeCurriculum struct {
	weights map[uuid.UUID]int
}

func (f *fakeCurriculum) Seed(context.Context, *curriculum.Syllabus) (*services.SeedResult, error) {
	return &services.SeedResult{}, nil
}

func (f *fakeCurriculum) ListConcepts(dbctx.Context) ([]services.ConceptView, error) {
	return []services.ConceptView{}, nil
}

func (f *fakeCurriculum) UpdateExamWeight(_ dbctx.Context, id uuid.UUID, weight int) (*types.Concept, error) {
	if weight < 1 || weight > 10 {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, "fake", "exam_weight must be between 1 and 10", nil)
	}
	if _, ok := f.weights[id]; !ok {
		return nil, aggregates.NewError(aggregates.CodeNotFound, "fake", "concept not found", nil)
	}
	f.weights[id] = weight
	return &types.Concept{ID: id, ExamWeight: weight}, nil
}

func (f *fakeCurriculum) Integrity(context.Context) (*services.IntegrityReport, error) {
	return &services.IntegrityReport{Healthy: true}, nil
}

func (f *fakeCurriculum) SyncGraph(context.Context) error { return nil }

type fakeMastery struct {
	recorded int
}

func (f *fakeMastery) ListForUser(dbctx.Context, uuid.UUID) ([]*types.MasteryRecord, error) {
	return []*types.MasteryRecord{}, nil
}

func (f *fakeMastery) RecordAttempt(_ dbctx.Context, userID, conceptID uuid.UUID, score float64, at time.Time) (*types.MasteryRecord, error) {
	if userID == uuid.Nil || conceptID == uuid.Nil {
		return nil, aggregates.NewError(aggregates.CodeInvalidInput, "fake", "user_id and concept_id are required", nil)
	}
	f.recorded++
	return &types.MasteryRecord{UserID: userID, ConceptID: conceptID, MasteryScore: score, Attempts: f.recorded, LastUpdated: at}, nil
}

func asUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, rec.Body.String())
	}
	return env.Error.Code
}

func TestStudyPlanHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := uuid.New()
	plans := &fakePlans{plans: map[string]*types.StudyPlan{}}
	sched := &fakeScheduler{}
	h := NewStudyPlanHandler(logger.NewNop(), plans, sched)
	h.now = func() time.Time { return time.Date(2026, 10, 15, 22, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.Use(asUser(user))
	r.POST("/api/study-plans/today", h.GenerateToday)
	r.POST("/api/study-plans/:date", h.GenerateForDate)
	r.GET("/api/study-plans/:date", h.GetByDate)
	r.GET("/api/study-plans", h.List)

	rec := do(r, http.MethodPost, "/api/study-plans/today", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("today: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if len(plans.generated) != 1 || plans.generated[0].Format(types.PlanDateLayout) != "2026-10-15" {
		t.Fatalf("today: unexpected dates %v", plans.generated)
	}

	rec = do(r, http.MethodPost, "/api/study-plans/2026-10-20", nil)
	if rec.Code != http.StatusOK || plans.generated[1].Format(types.PlanDateLayout) != "2026-10-20" {
		t.Fatalf("by date: status=%d dates=%v", rec.Code, plans.generated)
	}

	rec = do(r, http.MethodPost, "/api/study-plans/today?async=true", nil)
	if rec.Code != http.StatusAccepted || sched.calls != 1 {
		t.Fatalf("async: status=%d calls=%d", rec.Code, sched.calls)
	}

	rec = do(r, http.MethodPost, "/api/study-plans/20261020", nil)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_date" {
		t.Fatalf("bad date: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/api/study-plans/2026-01-01", nil)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "not_found" {
		t.Fatalf("missing plan: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodGet, "/api/study-plans?limit=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad limit: expected 400, got %d", rec.Code)
	}
}

func TestStudyPlanHandler_UnknownUserIs422(t *testing.T) {
	gin.SetMode(gin.TestMode)
	plans := &fakePlans{genErr: aggregates.NewError(aggregates.CodeReferentialIntegrity, "fake", "user does not exist", nil)}
	h := NewStudyPlanHandler(logger.NewNop(), plans, nil)
	r := gin.New()
	r.Use(asUser(uuid.New()))
	r.POST("/api/study-plans/today", h.GenerateToday)

	rec := do(r, http.MethodPost, "/api/study-plans/today", nil)
	if rec.Code != http.StatusUnprocessableEntity || errorCode(t, rec) != "referential_integrity" {
		t.Fatalf("expected 422 referential_integrity, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, http.MethodPost, "/api/study-plans/today?async=1", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("async without scheduler: expected 503, got %d", rec.Code)
	}
}

func TestStudyPlanHandler_UnreadablePlanIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	user := uuid.New()
	good := uuid.New()
	plans := &fakePlans{plans: map[string]*types.StudyPlan{
		"2026-02-01": {ID: uuid.New(), UserID: user, RecommendedConcepts: []byte(`["` + good.String() + `"]`)},
	}}
	h := NewStudyPlanHandler(logger.NewNop(), plans, nil)
	r := gin.New()
	r.Use(asUser(user))
	r.GET("/api/study-plans/:date", h.GetByDate)
	r.GET("/api/study-plans", h.List)

	rec := do(r, http.MethodGet, "/api/study-plans/2026-02-01", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readable plan: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Plan PlanView `json:"plan"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Plan.RecommendedConcepts) != 1 || body.Plan.RecommendedConcepts[0] != good {
		t.Fatalf("unexpected concepts %v", body.Plan.RecommendedConcepts)
	}

	plans.plans["2026-02-02"] = &types.StudyPlan{ID: uuid.New(), UserID: user, RecommendedConcepts: []byte(`{"not":"a list"}`)}
	for _, path := range []string{"/api/study-plans/2026-02-02", "/api/study-plans"} {
		rec = do(r, http.MethodGet, path, nil)
		if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "internal" {
			t.Fatalf("%s: expected 500 internal, got %d %s", path, rec.Code, rec.Body.String())
		}
		if bytes.Contains(rec.Body.Bytes(), []byte("uuid list")) {
			t.Fatalf("%s: internal cause leaked: %s", path, rec.Body.String())
		}
	}
}

func TestRecommendationHandler_Score(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewRecommendationHandler(&fakePlans{})
	r := gin.New()
	r.POST("/api/recommendations/score", h.Score)

	weak, strong := uuid.New(), uuid.New()
	rec := do(r, http.MethodPost, "/api/recommendations/score", map[string]any{
		"candidates": []map[string]any{
			{"concept_id": strong, "mastery_score": 90, "exam_weight": 5, "dependency_urgency": 0},
			{"concept_id": weak, "mastery_score": 10, "exam_weight": 5, "dependency_urgency": 0},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var out struct {
		Ranked []studyplan.Ranked `json:"ranked"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Ranked) != 2 || out.Ranked[0].ConceptID != weak {
		t.Fatalf("expected weak concept first, got %+v", out.Ranked)
	}
	if out.Ranked[0].PriorityScore != 55.5 {
		t.Fatalf("expected 55.5, got %v", out.Ranked[0].PriorityScore)
	}

	rec = do(r, http.MethodPost, "/api/recommendations/score", map[string]any{
		"candidates": []map[string]any{{"mastery_score": 10}},
	})
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_input" {
		t.Fatalf("missing concept_id: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestConceptHandler_UpdateExamWeight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New()
	cur := &fakeCurriculum{weights: map[uuid.UUID]int{id: 3}}
	h := NewConceptHandler(logger.NewNop(), cur)
	r := gin.New()
	r.PATCH("/api/concepts/:id/exam-weight", h.UpdateExamWeight)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"ok", "/api/concepts/" + id.String() + "/exam-weight", map[string]int{"exam_weight": 7}, http.StatusOK},
		{"out of range", "/api/concepts/" + id.String() + "/exam-weight", map[string]int{"exam_weight": 11}, http.StatusBadRequest},
		{"missing field", "/api/concepts/" + id.String() + "/exam-weight", map[string]int{}, http.StatusBadRequest},
		{"bad id", "/api/concepts/nope/exam-weight", map[string]int{"exam_weight": 4}, http.StatusBadRequest},
		{"unknown concept", "/api/concepts/" + uuid.NewString() + "/exam-weight", map[string]int{"exam_weight": 4}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, http.MethodPatch, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
	if cur.weights[id] != 7 {
		t.Fatalf("expected weight 7, got %d", cur.weights[id])
	}
}

func TestMasteryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := &fakeMastery{}
	h := NewMasteryHandler(m)
	r := gin.New()
	r.Use(asUser(uuid.New()))
	r.GET("/api/mastery", h.ListMine)
	r.POST("/api/internal/mastery/attempts", h.RecordAttempt)

	if rec := do(r, http.MethodGet, "/api/mastery", nil); rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}

	rec := do(r, http.MethodPost, "/api/internal/mastery/attempts", map[string]any{
		"user_id": uuid.New(), "concept_id": uuid.New(), "mastery_score": 72.5,
	})
	if rec.Code != http.StatusOK || m.recorded != 1 {
		t.Fatalf("record: status=%d recorded=%d", rec.Code, m.recorded)
	}

	rec = do(r, http.MethodPost, "/api/internal/mastery/attempts", map[string]any{
		"user_id": uuid.New(), "concept_id": uuid.New(),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing score: expected 400, got %d", rec.Code)
	}
}

func TestCurriculumHandler_Integrity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCurriculumHandler(&fakeCurriculum{})
	r := gin.New()
	r.GET("/api/curriculum/integrity", h.Integrity)
	rec := do(r, http.MethodGet, "/api/curriculum/integrity", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/healthcheck", NewHealthHandler().HealthCheck)
	rec := do(r, http.MethodGet, "/healthcheck", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}
