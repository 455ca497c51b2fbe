package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/http/response"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

// PlanScheduler hands plan generation to a background workflow.
type PlanScheduler interface {
	ScheduleDailyPlan(ctx context.Context, userID uuid.UUID, date time.Time) (workflowID string, runID string, err error)
}

type StudyPlanHandler struct {
	log       *logger.Logger
	plans     services.StudyPlanService
	scheduler PlanScheduler
	now       func() time.Time
}

func NewStudyPlanHandler(log *logger.Logger, plans services.StudyPlanService, scheduler PlanScheduler) *StudyPlanHandler {
	return &StudyPlanHandler{
		log:       log.With("handler", "StudyPlanHandler"),
		plans:     plans,
		scheduler: scheduler,
		now:       time.Now,
	}
}

type PlanView struct {
	ID                  uuid.UUID   `json:"id"`
	UserID              uuid.UUID   `json:"user_id"`
	Date                string      `json:"date"`
	RecommendedConcepts []uuid.UUID `json:"recommended_concepts"`
	Reasoning           string      `json:"reasoning"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func planView(p *learning.StudyPlan) (PlanView, error) {
	ids, err := p.ConceptIDs()
	if err != nil {
		return PlanView{}, aggregates.NewError(aggregates.CodeInternal, "planView", "stored recommended_concepts is not a uuid list", err)
	}
	return PlanView{
		ID:                  p.ID,
		UserID:              p.UserID,
		Date:                p.Date().Format(learning.PlanDateLayout),
		RecommendedConcepts: ids,
		Reasoning:           p.Reasoning,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}, nil
}

func (h *StudyPlanHandler) corruptPlan(c *gin.Context, p *learning.StudyPlan, err error) {
	h.log.Error("unreadable study plan row", "plan_id", p.ID, "user_id", p.UserID, "error", err)
	response.RespondAppError(c, err)
}

// POST /api/study-plans/today
func (h *StudyPlanHandler) GenerateToday(c *gin.Context) {
	h.generate(c, learning.TruncateToDate(h.now().UTC()))
}

// POST /api/study-plans/:date
func (h *StudyPlanHandler) GenerateForDate(c *gin.Context) {
	day, err := learning.ParsePlanDate(c.Param("date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	h.generate(c, day)
}

func (h *StudyPlanHandler) generate(c *gin.Context, day time.Time) {
	userID, err := callerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}

	if async, _ := strconv.ParseBool(c.Query("async")); async {
		if h.scheduler == nil {
			response.RespondError(c, http.StatusServiceUnavailable, "workflows_disabled", errWorkflowsDisabled)
			return
		}
		wfID, runID, err := h.scheduler.ScheduleDailyPlan(c.Request.Context(), userID, day)
		if err != nil {
			h.log.Warn("schedule study plan failed", "user_id", userID, "error", err)
			response.RespondError(c, http.StatusServiceUnavailable, "schedule_failed", err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"workflow_id": wfID, "run_id": runID})
		return
	}

	out, err := h.plans.Generate(c.Request.Context(), userID, day)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	view, err := planView(out.Plan)
	if err != nil {
		h.corruptPlan(c, out.Plan, err)
		return
	}
	faults := out.Faults
	if faults == nil {
		faults = []studyplan.IntegrityFault{}
	}
	response.RespondOK(c, gin.H{
		"plan":             view,
		"ranked":           out.Ranked,
		"integrity_faults": faults,
	})
}

// GET /api/study-plans/:date
func (h *StudyPlanHandler) GetByDate(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	day, err := learning.ParsePlanDate(c.Param("date"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date", err)
		return
	}
	plan, err := h.plans.Get(dbcFrom(c), userID, day)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	view, err := planView(plan)
	if err != nil {
		h.corruptPlan(c, plan, err)
		return
	}
	response.RespondOK(c, gin.H{"plan": view})
}

// GET /api/study-plans?limit=
func (h *StudyPlanHandler) List(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", errInvalidLimit)
			return
		}
	}
	rows, err := h.plans.List(dbcFrom(c), userID, limit)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	out := make([]PlanView, 0, len(rows))
	for _, p := range rows {
		view, err := planView(p)
		if err != nil {
			h.corruptPlan(c, p, err)
			return
		}
		out = append(out, view)
	}
	response.RespondOK(c, gin.H{"plans": out})
}
