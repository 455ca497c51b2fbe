package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		DisplayName: "Learner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedConcept(tb testing.TB, ctx context.Context, tx *gorm.DB, key string, examWeight int, prereqs ...uuid.UUID) *types.Concept {
	tb.Helper()
	c := &types.Concept{
		ID:         uuid.New(),
		Key:        key,
		Subject:    "math",
		Topic:      "algebra",
		Name:       key,
		ExamWeight: examWeight,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed concept: %v", err)
	}
	for _, p := range prereqs {
		SeedPrerequisite(tb, ctx, tx, c.ID, p)
	}
	return c
}

func SeedPrerequisite(tb testing.TB, ctx context.Context, tx *gorm.DB, conceptID, prerequisiteID uuid.UUID) *types.ConceptPrerequisite {
	tb.Helper()
	row := &types.ConceptPrerequisite{
		ID:             uuid.New(),
		ConceptID:      conceptID,
		PrerequisiteID: prerequisiteID,
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed prerequisite: %v", err)
	}
	return row
}

func SeedMastery(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, conceptID uuid.UUID, score float64, attempts int) *types.MasteryRecord {
	tb.Helper()
	row := &types.MasteryRecord{
		ID:           uuid.New(),
		UserID:       userID,
		ConceptID:    conceptID,
		MasteryScore: score,
		Attempts:     attempts,
		LastUpdated:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed mastery: %v", err)
	}
	return row
}
