package validation

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/testutil"
)

func checkByName(t *testing.T, report InvariantReport, name string) InvariantCheck {
	t.Helper()
	for _, c := range report.Checks {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("check %s missing from report", name)
	return InvariantCheck{}
}

func TestValidateCurriculum_Pass(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	a := testutil.SeedConcept(t, ctx, tx, "a", 3)
	b := testutil.SeedConcept(t, ctx, tx, "b", 4, a.ID)
	testutil.SeedConcept(t, ctx, tx, "c", 5, a.ID, b.ID)

	report := ValidateCurriculum(ctx, tx)
	if !report.Passed() {
		t.Fatalf("expected pass, got %+v", report)
	}
	if len(report.Checks) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(report.Checks))
	}
}

func TestValidateCurriculum_Failures(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	a := testutil.SeedConcept(t, ctx, tx, "a", 3)
	b := testutil.SeedConcept(t, ctx, tx, "b", 12, a.ID)
	testutil.SeedPrerequisite(t, ctx, tx, a.ID, b.ID)
	testutil.SeedPrerequisite(t, ctx, tx, b.ID, b.ID)
	testutil.SeedPrerequisite(t, ctx, tx, a.ID, uuid.New())

	report := ValidateCurriculum(ctx, tx)
	if report.Status != "fail" {
		t.Fatalf("expected fail, got %+v", report)
	}
	if c := checkByName(t, report, "prereq_cycles"); c.Status != "fail" || c.Count != 2 {
		t.Fatalf("prereq_cycles: %+v", c)
	}
	if c := checkByName(t, report, "self_prerequisites"); c.Status != "fail" || c.Count != 1 {
		t.Fatalf("self_prerequisites: %+v", c)
	}
	if c := checkByName(t, report, "dangling_prerequisites"); c.Status != "fail" || c.Count != 1 {
		t.Fatalf("dangling_prerequisites: %+v", c)
	}
	if c := checkByName(t, report, "exam_weight_range"); c.Status != "fail" || c.Sample[0] != "b:12" {
		t.Fatalf("exam_weight_range: %+v", c)
	}
}

func TestValidateCurriculum_NoDB(t *testing.T) {
	if report := ValidateCurriculum(context.Background(), nil); report.Status != "skipped" {
		t.Fatalf("expected skipped, got %+v", report)
	}
}
