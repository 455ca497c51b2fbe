package studyplan

import (
	"fmt"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
)

func cid(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func concept(n int, weight int) *types.Concept {
	return &types.Concept{ID: cid(n), Key: fmt.Sprintf("c%d", n), Name: fmt.Sprintf("Concept %d", n), ExamWeight: weight}
}

// requires says concept a lists b as a prerequisite.
func requires(a, b int) *types.ConceptPrerequisite {
	return &types.ConceptPrerequisite{ConceptID: cid(a), PrerequisiteID: cid(b)}
}

func TestConceptGraph_Acyclic(t *testing.T) {
	g := NewConceptGraph(
		[]*types.Concept{concept(1, 2), concept(2, 3), concept(3, 5)},
		[]*types.ConceptPrerequisite{requires(2, 1), requires(3, 2), requires(3, 2)},
	)
	if !g.Healthy() {
		t.Fatalf("expected healthy graph, faults=%v", g.Faults())
	}
	if g.TotalExamWeight() != 10 {
		t.Fatalf("total weight=%d", g.TotalExamWeight())
	}
	if deps := g.Dependents(cid(1)); len(deps) != 1 || deps[0] != cid(2) {
		t.Fatalf("dependents(1)=%v", deps)
	}
	if pre := g.Prerequisites(cid(3)); len(pre) != 1 || pre[0] != cid(2) {
		t.Fatalf("prerequisites(3)=%v", pre)
	}
}

func TestConceptGraph_DetectsCycle(t *testing.T) {
	g := NewConceptGraph(
		[]*types.Concept{concept(1, 1), concept(2, 1), concept(3, 1), concept(4, 1)},
		[]*types.ConceptPrerequisite{requires(1, 2), requires(2, 3), requires(3, 1), requires(4, 1)},
	)
	for _, n := range []int{1, 2, 3} {
		f, ok := g.Fault(cid(n))
		if !ok || f.Kind != FaultCycle {
			t.Fatalf("expected cycle fault on %d, got %+v ok=%v", n, f, ok)
		}
		if len(f.Related) != 3 {
			t.Fatalf("expected 3 cycle members, got %v", f.Related)
		}
	}
	if _, ok := g.Fault(cid(4)); ok {
		t.Fatalf("concept 4 is not on the cycle")
	}
}

func TestConceptGraph_SelfLoop(t *testing.T) {
	g := NewConceptGraph([]*types.Concept{concept(1, 1)}, []*types.ConceptPrerequisite{requires(1, 1)})
	if f, ok := g.Fault(cid(1)); !ok || f.Kind != FaultCycle {
		t.Fatalf("expected self-loop cycle fault, got %+v ok=%v", f, ok)
	}
}

func TestConceptGraph_DanglingReferences(t *testing.T) {
	g := NewConceptGraph(
		[]*types.Concept{concept(1, 1), concept(2, 1)},
		[]*types.ConceptPrerequisite{requires(2, 99), requires(98, 1)},
	)
	f, ok := g.Fault(cid(2))
	if !ok || f.Kind != FaultDanglingPrerequisite || len(f.Related) != 1 || f.Related[0] != cid(99) {
		t.Fatalf("expected dangling prerequisite on 2, got %+v ok=%v", f, ok)
	}
	f, ok = g.Fault(cid(98))
	if !ok || f.Kind != FaultDanglingConcept {
		t.Fatalf("expected dangling concept fault on 98, got %+v ok=%v", f, ok)
	}
	if len(g.Faults()) != 2 {
		t.Fatalf("expected 2 faults, got %v", g.Faults())
	}
	if f.Error() == "" {
		t.Fatalf("fault should describe itself")
	}
}
