package studyplanwf

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	temporalsdkclient "go.temporal.io/sdk/client"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
)

// WorkflowID is stable per learner-day, so repeated requests attach to the
// run already in flight.
func WorkflowID(userID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("study-plan:%s:%s", userID, date.Format(types.PlanDateLayout))
}

type Scheduler struct {
	Client    temporalsdkclient.Client
	TaskQueue string
}

func NewScheduler(c temporalsdkclient.Client, taskQueue string) *Scheduler {
	if c == nil {
		return nil
	}
	return &Scheduler{Client: c, TaskQueue: taskQueue}
}

func (s *Scheduler) Enabled() bool { return s != nil && s.Client != nil }

// ScheduleDailyPlan starts (or joins) the workflow for the learner-day and
// returns the workflow and run ids.
func (s *Scheduler) ScheduleDailyPlan(ctx context.Context, userID uuid.UUID, date time.Time) (string, string, error) {
	if !s.Enabled() {
		return "", "", fmt.Errorf("studyplanwf: temporal is not configured")
	}
	id := WorkflowID(userID, date)
	run, err := s.Client.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:                       id,
		TaskQueue:                s.TaskQueue,
		WorkflowIDReusePolicy:    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowIDConflictPolicy: enumspb.WORKFLOW_ID_CONFLICT_POLICY_USE_EXISTING,
		WorkflowExecutionTimeout: 30 * time.Minute,
	}, WorkflowName, PlanRequest{
		UserID:   userID.String(),
		PlanDate: date.Format(types.PlanDateLayout),
	})
	if err != nil {
		return id, "", err
	}
	return run.GetID(), run.GetRunID(), nil
}
