package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
)

var errNoCaller = errors.New("no authenticated caller")

// callerID returns the authenticated user; RequireAuth guarantees one on
// protected routes.
func callerID(c *gin.Context) (uuid.UUID, error) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, errNoCaller
	}
	return rd.UserID, nil
}

var (
	errWorkflowsDisabled  = errors.New("background plan generation is not configured")
	errInvalidLimit       = errors.New("limit must be a non-negative integer")
	errExamWeightRequired = errors.New("exam_weight is required")
	errScoreRequired      = errors.New("mastery_score is required")
)

func dbcFrom(c *gin.Context) dbctx.Context {
	return dbctx.Context{Ctx: c.Request.Context()}
}
