package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/http/response"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type MasteryHandler struct {
	mastery services.MasteryService
}

func NewMasteryHandler(mastery services.MasteryService) *MasteryHandler {
	return &MasteryHandler{mastery: mastery}
}

// GET /api/mastery
func (h *MasteryHandler) ListMine(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	rows, err := h.mastery.ListForUser(dbcFrom(c), userID)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mastery": rows})
}

type attemptRequest struct {
	UserID      uuid.UUID  `json:"user_id"`
	ConceptID   uuid.UUID  `json:"concept_id"`
	Score       *float64   `json:"mastery_score"`
	AttemptedAt *time.Time `json:"attempted_at,omitempty"`
}

// POST /api/internal/mastery/attempts
func (h *MasteryHandler) RecordAttempt(c *gin.Context) {
	var req attemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if req.Score == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", errScoreRequired)
		return
	}
	at := time.Now().UTC()
	if req.AttemptedAt != nil && !req.AttemptedAt.IsZero() {
		at = req.AttemptedAt.UTC()
	}
	rec, err := h.mastery.RecordAttempt(dbcFrom(c), req.UserID, req.ConceptID, *req.Score, at)
	if err != nil {
		response.RespondAppError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"mastery": rec})
}
