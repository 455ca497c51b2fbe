package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-studyplan/internal/http/response"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type CurriculumHandler struct {
	curriculum services.CurriculumService
}

func NewCurriculumHandler(curriculum services.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{curriculum: curriculum}
}

// GET /api/curriculum/integrity
func (h *CurriculumHandler) Integrity(c *gin.Context) {
	report, err := h.curriculum.Integrity(c.Request.Context())
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"integrity": report})
}
