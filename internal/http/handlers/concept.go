package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/http/response"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type ConceptHandler struct {
	log        *logger.Logger
	curriculum services.CurriculumService
}

func NewConceptHandler(log *logger.Logger, curriculum services.CurriculumService) *ConceptHandler {
	return &ConceptHandler{log: log.With("handler", "ConceptHandler"), curriculum: curriculum}
}

// GET /api/concepts
func (h *ConceptHandler) List(c *gin.Context) {
	concepts, err := h.curriculum.ListConcepts(dbcFrom(c))
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concepts": concepts})
}

type examWeightRequest struct {
	ExamWeight *int `json:"exam_weight"`
}

// PATCH /api/concepts/:id/exam-weight
func (h *ConceptHandler) UpdateExamWeight(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_concept_id", err)
		return
	}
	var req examWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ExamWeight == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", errExamWeightRequired)
		return
	}
	concept, err := h.curriculum.UpdateExamWeight(dbcFrom(c), id, *req.ExamWeight)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concept": concept})
}
