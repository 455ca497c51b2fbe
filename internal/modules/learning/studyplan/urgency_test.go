package studyplan

import (
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
)

// chain: 3 requires 2 requires 1; 4 requires 1. Weights sum to 20.
func chainGraph() *ConceptGraph {
	return NewConceptGraph(
		[]*types.Concept{concept(1, 2), concept(2, 4), concept(3, 6), concept(4, 8)},
		[]*types.ConceptPrerequisite{requires(2, 1), requires(3, 2), requires(4, 1)},
	)
}

func TestResolve_Direct(t *testing.T) {
	r := NewResolver(chainGraph(), ModeDirect, 80)
	got, err := r.Resolve(cid(1), map[uuid.UUID]float64{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// dependents 2 (4) and 4 (8): 100*12/20
	if got != 60 {
		t.Fatalf("direct urgency=%v want 60", got)
	}
}

func TestResolve_Transitive(t *testing.T) {
	r := NewResolver(chainGraph(), ModeTransitive, 80)
	got, err := r.Resolve(cid(1), map[uuid.UUID]float64{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// 2, 3 and 4: 100*18/20
	if got != 90 {
		t.Fatalf("transitive urgency=%v want 90", got)
	}
}

func TestResolve_MasteredDependentsDoNotCount(t *testing.T) {
	r := NewResolver(chainGraph(), ModeTransitive, 80)
	mastery := map[uuid.UUID]float64{cid(2): 80, cid(3): 79.9, cid(4): 100}
	got, err := r.Resolve(cid(1), mastery)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// only 3 (6) is below threshold: 100*6/20
	if got != 30 {
		t.Fatalf("urgency=%v want 30", got)
	}
}

func TestResolve_LeafHasZeroUrgency(t *testing.T) {
	r := NewResolver(chainGraph(), ModeTransitive, 80)
	got, err := r.Resolve(cid(3), nil)
	if err != nil || got != 0 {
		t.Fatalf("leaf urgency=%v err=%v", got, err)
	}
}

func TestResolve_DiamondCountsOnce(t *testing.T) {
	// 2 and 3 both require 1; 4 requires 2 and 3.
	g := NewConceptGraph(
		[]*types.Concept{concept(1, 1), concept(2, 1), concept(3, 1), concept(4, 1)},
		[]*types.ConceptPrerequisite{requires(2, 1), requires(3, 1), requires(4, 2), requires(4, 3)},
	)
	got, err := NewResolver(g, ModeTransitive, 80).Resolve(cid(1), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != 75 {
		t.Fatalf("urgency=%v want 75", got)
	}
	if math.IsNaN(got) || got > 100 {
		t.Fatalf("urgency out of range: %v", got)
	}
}

func TestResolve_FaultedConceptFailsFast(t *testing.T) {
	g := NewConceptGraph(
		[]*types.Concept{concept(1, 1), concept(2, 1), concept(3, 1)},
		[]*types.ConceptPrerequisite{requires(1, 2), requires(2, 1), requires(1, 3)},
	)
	r := NewResolver(g, ModeTransitive, 80)

	_, err := r.Resolve(cid(1), nil)
	if !aggregates.IsCode(err, aggregates.CodeStructuralIntegrity) {
		t.Fatalf("expected structural_integrity for cycle member, got %v", err)
	}
	var fault IntegrityFault
	if !errors.As(err, &fault) || fault.ConceptID != cid(1) {
		t.Fatalf("expected fault naming concept 1, got %v", err)
	}

	// 3 is healthy but its dependent 1 sits on the cycle.
	_, err = r.Resolve(cid(3), nil)
	if !aggregates.IsCode(err, aggregates.CodeStructuralIntegrity) {
		t.Fatalf("expected structural_integrity from traversal, got %v", err)
	}
	if !errors.As(err, &fault) || fault.ConceptID != cid(1) {
		t.Fatalf("expected traversal fault naming concept 1, got %v", err)
	}
}

func TestResolve_UnknownConcept(t *testing.T) {
	_, err := NewResolver(chainGraph(), ModeDirect, 80).Resolve(cid(42), nil)
	if !aggregates.IsCode(err, aggregates.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode(" Direct "); !ok || m != ModeDirect {
		t.Fatalf("ParseMode(direct)=%v,%v", m, ok)
	}
	if m, ok := ParseMode("bogus"); ok || m != ModeTransitive {
		t.Fatalf("ParseMode(bogus)=%v,%v", m, ok)
	}
}
