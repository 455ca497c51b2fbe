package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/http/response"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

const maxScoreCandidates = 5000

type RecommendationHandler struct {
	plans services.StudyPlanService
}

func NewRecommendationHandler(plans services.StudyPlanService) *RecommendationHandler {
	return &RecommendationHandler{plans: plans}
}

type scoreRequest struct {
	Candidates []studyplan.Candidate `json:"candidates"`
}

// POST /api/recommendations/score
//
// Scores, explains and ranks caller-supplied candidates. Nothing is read or
// written; out-of-range numbers are clamped rather than rejected.
func (h *RecommendationHandler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if len(req.Candidates) > maxScoreCandidates {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("at most %d candidates per request", maxScoreCandidates))
		return
	}
	for i, cand := range req.Candidates {
		if cand.ConceptID == uuid.Nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_input", fmt.Errorf("candidates[%d].concept_id is required", i))
			return
		}
	}
	response.RespondOK(c, gin.H{"ranked": h.plans.Rank(req.Candidates)})
}
