package studyplanwf

import (
	"fmt"
	"strings"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

func DailyStudyPlanWorkflow(ctx workflow.Context, req PlanRequest) (PlanSummary, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.PlanDate) == "" {
		return PlanSummary{}, fmt.Errorf("studyplanwf: user_id and plan_date are required")
	}

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	var out PlanSummary
	if err := workflow.ExecuteActivity(ctx, ActivityGenerate, req).Get(ctx, &out); err != nil {
		return PlanSummary{}, err
	}
	workflow.GetLogger(ctx).Info("daily study plan written",
		"user_id", out.UserID, "plan_date", out.PlanDate, "recommended", out.Recommended)
	return out, nil
}
