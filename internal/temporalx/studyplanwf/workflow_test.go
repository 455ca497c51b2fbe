package studyplanwf

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type fakeGenerator struct {
	calls int
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, userID uuid.UUID, date time.Time) (*services.PlanOutcome, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	plan := &types.StudyPlan{ID: uuid.New(), UserID: userID}
	return &services.PlanOutcome{
		Plan:   plan,
		Faults: []studyplan.IntegrityFault{{ConceptID: uuid.New(), Kind: studyplan.FaultCycle}},
	}, nil
}

func newEnv(t *testing.T, gen *fakeGenerator) *testsuite.TestWorkflowEnvironment {
	t.Helper()
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(DailyStudyPlanWorkflow, workflow.RegisterOptions{Name: WorkflowName})
	acts := &Activities{Plans: gen}
	env.RegisterActivityWithOptions(acts.GenerateStudyPlan, activity.RegisterOptions{Name: ActivityGenerate})
	return env
}

func TestDailyStudyPlanWorkflow(t *testing.T) {
	gen := &fakeGenerator{}
	env := newEnv(t, gen)
	user := uuid.New()

	env.ExecuteWorkflow(WorkflowName, PlanRequest{UserID: user.String(), PlanDate: "2026-10-15"})
	if !env.IsWorkflowCompleted() {
		t.Fatalf("workflow did not complete")
	}
	if err := env.GetWorkflowError(); err != nil {
		t.Fatalf("workflow error: %v", err)
	}
	var out PlanSummary
	if err := env.GetWorkflowResult(&out); err != nil {
		t.Fatalf("result: %v", err)
	}
	if out.UserID != user.String() || out.PlanDate != "2026-10-15" || out.Faults != 1 || out.PlanID == "" {
		t.Fatalf("unexpected summary %+v", out)
	}
	if gen.calls != 1 {
		t.Fatalf("expected one generate call, got %d", gen.calls)
	}
}

func TestDailyStudyPlanWorkflow_FinalErrorsAreNotRetried(t *testing.T) {
	gen := &fakeGenerator{err: aggregates.NewError(aggregates.CodeReferentialIntegrity, "test", "user does not exist", nil)}
	env := newEnv(t, gen)

	env.ExecuteWorkflow(WorkflowName, PlanRequest{UserID: uuid.NewString(), PlanDate: "2026-10-15"})
	if env.GetWorkflowError() == nil {
		t.Fatalf("expected workflow error")
	}
	if gen.calls != 1 {
		t.Fatalf("expected no retries, got %d calls", gen.calls)
	}
}

func TestDailyStudyPlanWorkflow_BadDate(t *testing.T) {
	gen := &fakeGenerator{}
	env := newEnv(t, gen)

	env.ExecuteWorkflow(WorkflowName, PlanRequest{UserID: uuid.NewString(), PlanDate: "15/10/2026"})
	if env.GetWorkflowError() == nil {
		t.Fatalf("expected workflow error")
	}
	if gen.calls != 0 {
		t.Fatalf("generator must not run for a bad date")
	}
}

func TestWorkflowID(t *testing.T) {
	user := uuid.MustParse("2f1b7d4e-8c1a-4b7e-9d1f-3a5c6e7f8a9b")
	got := WorkflowID(user, time.Date(2026, 10, 15, 23, 59, 0, 0, time.UTC))
	if got != "study-plan:2f1b7d4e-8c1a-4b7e-9d1f-3a5c6e7f8a9b:2026-10-15" {
		t.Fatalf("unexpected id %q", got)
	}
}
