package studyplan

import (
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
)

func mastery(n int, score float64) *types.MasteryRecord {
	return &types.MasteryRecord{ConceptID: cid(n), MasteryScore: score}
}

func TestPlanner_RanksAndTruncates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopN = 2
	p := NewPlanner(cfg)

	res := p.Plan(PlanInput{
		Concepts:      []*types.Concept{concept(1, 5), concept(2, 5), concept(3, 5)},
		Prerequisites: []*types.ConceptPrerequisite{requires(2, 1), requires(3, 2)},
		Mastery:       []*types.MasteryRecord{mastery(1, 95), mastery(2, 20)},
	})

	if len(res.Faults) != 0 || len(res.Excluded) != 0 || len(res.Degraded) != 0 {
		t.Fatalf("unexpected faults: %+v", res)
	}
	if len(res.Ranked) != 3 {
		t.Fatalf("expected all 3 ranked, got %d", len(res.Ranked))
	}
	// 3 has no mastery record so it is the weakest.
	want := []uuid.UUID{cid(3), cid(2)}
	if !reflect.DeepEqual(res.Recommended, want) {
		t.Fatalf("recommended=%v want %v", res.Recommended, want)
	}
	if !strings.Contains(res.Reasoning, "Concept 3") {
		t.Fatalf("reasoning should name the top concept: %q", res.Reasoning)
	}
}

func TestPlanner_DegradesAroundFaults(t *testing.T) {
	p := NewPlanner(DefaultConfig())
	// 1 and 2 form a cycle; 3 is a prerequisite of 1; 4 is independent.
	res := p.Plan(PlanInput{
		Concepts:      []*types.Concept{concept(1, 5), concept(2, 5), concept(3, 5), concept(4, 5)},
		Prerequisites: []*types.ConceptPrerequisite{requires(1, 2), requires(2, 1), requires(1, 3)},
	})

	if !reflect.DeepEqual(res.Excluded, []uuid.UUID{cid(1), cid(2)}) {
		t.Fatalf("excluded=%v", res.Excluded)
	}
	if !reflect.DeepEqual(res.Degraded, []uuid.UUID{cid(3)}) {
		t.Fatalf("degraded=%v", res.Degraded)
	}
	if len(res.Faults) != 2 {
		t.Fatalf("faults=%v", res.Faults)
	}
	if len(res.Ranked) != 2 {
		t.Fatalf("ranked=%v", res.Ranked)
	}
	for _, r := range res.Ranked {
		if r.DependencyUrgency != 0 {
			t.Fatalf("expected zero urgency for %v, got %v", r.ConceptID, r.DependencyUrgency)
		}
	}
	if !strings.Contains(res.Reasoning, "2 concept(s) skipped") {
		t.Fatalf("reasoning should mention skipped concepts: %q", res.Reasoning)
	}
}

func TestPlanner_Deterministic(t *testing.T) {
	in := PlanInput{
		Concepts:      []*types.Concept{concept(1, 3), concept(2, 3), concept(3, 3), concept(4, 9)},
		Prerequisites: []*types.ConceptPrerequisite{requires(2, 1), requires(4, 3)},
		Mastery:       []*types.MasteryRecord{mastery(1, 40), mastery(3, 40)},
	}
	p := NewPlanner(DefaultConfig())
	a := p.Plan(in)
	b := p.Plan(in)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("plan not deterministic")
	}
}

func TestPlanner_Empty(t *testing.T) {
	res := NewPlanner(Config{}).Plan(PlanInput{})
	if len(res.Recommended) != 0 || res.Reasoning != "No concepts to study today." {
		t.Fatalf("unexpected empty plan: %+v", res)
	}
}

func TestConfig_Normalized(t *testing.T) {
	cfg := NewPlanner(Config{Mode: "weird", MasteryThreshold: -1, TopN: -4}).Config()
	if cfg.Mode != ModeTransitive || cfg.MasteryThreshold != DefaultMasteryThreshold || cfg.TopN != 0 {
		t.Fatalf("unexpected normalized config %+v", cfg)
	}
	if cfg.Weights != DefaultWeights() {
		t.Fatalf("expected default weights, got %+v", cfg.Weights)
	}
}
