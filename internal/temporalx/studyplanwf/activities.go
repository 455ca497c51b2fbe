package studyplanwf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

// PlanGenerator is the slice of the study plan service the activity needs.
type PlanGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, date time.Time) (*services.PlanOutcome, error)
}

type Activities struct {
	Log   *logger.Logger
	Plans PlanGenerator
}

func (a *Activities) GenerateStudyPlan(ctx context.Context, req PlanRequest) (PlanSummary, error) {
	res := PlanSummary{UserID: strings.TrimSpace(req.UserID), PlanDate: strings.TrimSpace(req.PlanDate)}
	if a == nil || a.Plans == nil {
		return res, fmt.Errorf("studyplanwf: activity not configured")
	}

	userID, err := uuid.Parse(res.UserID)
	if err != nil || userID == uuid.Nil {
		return res, temporal.NewNonRetryableApplicationError("invalid user_id", string(aggregates.CodeInvalidInput), err)
	}
	day, err := learning.ParsePlanDate(res.PlanDate)
	if err != nil {
		return res, temporal.NewNonRetryableApplicationError("invalid plan_date", string(aggregates.CodeInvalidInput), err)
	}

	out, err := a.Plans.Generate(ctx, userID, day)
	if err != nil {
		if retryable(err) {
			return res, err
		}
		return res, temporal.NewNonRetryableApplicationError(err.Error(), string(aggregates.CodeOf(err)), err)
	}

	res.Faults = len(out.Faults)
	if out.Plan != nil {
		res.PlanID = out.Plan.ID.String()
		if ids, err := out.Plan.ConceptIDs(); err == nil {
			res.Recommended = len(ids)
		}
	}
	if a.Log != nil {
		a.Log.Info("study plan activity complete", "user_id", userID, "plan_date", res.PlanDate, "recommended", res.Recommended)
	}
	return res, nil
}

// retryable reports whether Temporal should retry. Domain errors other than
// retryable/internal are final.
func retryable(err error) bool {
	switch aggregates.CodeOf(err) {
	case "", aggregates.CodeRetryable, aggregates.CodeInternal:
		return true
	}
	return false
}
