package learning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/testutil"
	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	domainaggs "github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/dbctx"
)

func TestStudyPlanRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewStudyPlanRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "studyplanrepo@example.com")
	c1 := testutil.SeedConcept(t, ctx, tx, "c1", 5)
	c2 := testutil.SeedConcept(t, ctx, tx, "c2", 5)

	day := time.Date(2026, 5, 4, 15, 30, 0, 0, time.UTC)
	first, err := repo.Upsert(dbc, u.ID, day, []uuid.UUID{c1.ID, c2.ID}, "first pass")
	if err != nil || first == nil {
		t.Fatalf("Upsert(first): plan=%v err=%v", first, err)
	}
	ids, err := first.ConceptIDs()
	if err != nil || len(ids) != 2 || ids[0] != c1.ID || ids[1] != c2.ID {
		t.Fatalf("Upsert(first) concepts: ids=%v err=%v", ids, err)
	}

	second, err := repo.Upsert(dbc, u.ID, day.Add(2*time.Hour), []uuid.UUID{c2.ID}, "second pass")
	if err != nil || second == nil {
		t.Fatalf("Upsert(second): plan=%v err=%v", second, err)
	}
	if second.ID != first.ID {
		t.Fatalf("Upsert(second): expected same row %v, got %v", first.ID, second.ID)
	}
	if second.Reasoning != "second pass" {
		t.Fatalf("Upsert(second): expected latest reasoning, got %q", second.Reasoning)
	}

	var n int64
	if err := tx.WithContext(ctx).Model(&types.StudyPlan{}).Where("user_id = ?", u.ID).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("expected exactly one plan row, got n=%d err=%v", n, err)
	}

	got, err := repo.GetByUserAndDate(dbc, u.ID, day)
	if err != nil || got == nil || got.Reasoning != "second pass" {
		t.Fatalf("GetByUserAndDate: got=%v err=%v", got, err)
	}
	if !got.Date().Equal(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("GetByUserAndDate: unexpected date %v", got.Date())
	}
	if got, err := repo.GetByUserAndDate(dbc, u.ID, day.AddDate(0, 0, 1)); err != nil || got != nil {
		t.Fatalf("GetByUserAndDate(other day): got=%v err=%v", got, err)
	}

	if _, err := repo.Upsert(dbc, u.ID, day.AddDate(0, 0, 1), nil, ""); err != nil {
		t.Fatalf("Upsert(empty): %v", err)
	}
	rows, err := repo.ListByUser(dbc, u.ID, 10)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if !rows[0].Date().After(rows[1].Date()) {
		t.Fatalf("ListByUser: expected newest first")
	}
	if rows, err := repo.ListByUser(dbc, u.ID, 1); err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser(limit): err=%v len=%d", err, len(rows))
	}
}

func TestStudyPlanRepoUnknownUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewStudyPlanRepo(db, testutil.Logger(t))

	_, err := repo.Upsert(dbc, uuid.New(), time.Now(), []uuid.UUID{uuid.New()}, "orphan")
	if !domainaggs.IsCode(err, domainaggs.CodeReferentialIntegrity) {
		t.Fatalf("expected referential_integrity, got %v", err)
	}

	var n int64
	if err := tx.WithContext(ctx).Model(&types.StudyPlan{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("expected no plan rows, got n=%d err=%v", n, err)
	}
}

func TestStudyPlanRepoValidation(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewStudyPlanRepo(db, testutil.Logger(t))
	if _, err := repo.Upsert(dbc, uuid.Nil, time.Now(), nil, ""); !domainaggs.IsCode(err, domainaggs.CodeValidation) {
		t.Fatalf("expected validation for nil user, got %v", err)
	}
	if _, err := repo.Upsert(dbc, uuid.New(), time.Time{}, nil, ""); !domainaggs.IsCode(err, domainaggs.CodeValidation) {
		t.Fatalf("expected validation for zero date, got %v", err)
	}
}
