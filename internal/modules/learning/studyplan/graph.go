package studyplan

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
)

type FaultKind string

const (
	FaultCycle                FaultKind = "cycle"
	FaultDanglingPrerequisite FaultKind = "dangling_prerequisite"
	FaultDanglingConcept      FaultKind = "dangling_concept"
)

// IntegrityFault describes corrupted curriculum data around one concept.
type IntegrityFault struct {
	ConceptID uuid.UUID   `json:"concept_id"`
	Kind      FaultKind   `json:"kind"`
	Related   []uuid.UUID `json:"related,omitempty"`
}

func (f IntegrityFault) Error() string {
	switch f.Kind {
	case FaultCycle:
		return fmt.Sprintf("concept %s is part of a prerequisite cycle (%s)", f.ConceptID, joinIDs(f.Related))
	case FaultDanglingPrerequisite:
		return fmt.Sprintf("concept %s requires unknown concept(s) %s", f.ConceptID, joinIDs(f.Related))
	case FaultDanglingConcept:
		return fmt.Sprintf("prerequisite edge references unknown concept %s", f.ConceptID)
	default:
		return fmt.Sprintf("concept %s: %s", f.ConceptID, f.Kind)
	}
}

type node struct {
	id         uuid.UUID
	examWeight int
	prereqs    []uuid.UUID
	dependents []uuid.UUID
}

// ConceptGraph is an immutable, validated view of the prerequisite graph.
// Build one per request; it carries no per-user state.
type ConceptGraph struct {
	nodes       map[uuid.UUID]*node
	order       []uuid.UUID
	faults      map[uuid.UUID]IntegrityFault
	totalWeight int
}

// NewConceptGraph indexes concepts and edges and validates the result.
// Cycles and dangling references are recorded as faults instead of failing the
// whole graph.
func NewConceptGraph(concepts []*types.Concept, edges []*types.ConceptPrerequisite) *ConceptGraph {
	g := &ConceptGraph{
		nodes:  make(map[uuid.UUID]*node, len(concepts)),
		faults: map[uuid.UUID]IntegrityFault{},
	}
	for _, c := range concepts {
		if c == nil || c.ID == uuid.Nil {
			continue
		}
		if _, dup := g.nodes[c.ID]; dup {
			continue
		}
		g.nodes[c.ID] = &node{id: c.ID, examWeight: clampWeight(c.ExamWeight)}
		g.order = append(g.order, c.ID)
		g.totalWeight += clampWeight(c.ExamWeight)
	}
	sortIDs(g.order)

	dangling := map[uuid.UUID][]uuid.UUID{}
	seenEdge := map[[2]uuid.UUID]bool{}
	for _, e := range edges {
		if e == nil {
			continue
		}
		key := [2]uuid.UUID{e.ConceptID, e.PrerequisiteID}
		if seenEdge[key] {
			continue
		}
		seenEdge[key] = true

		dependent, okDep := g.nodes[e.ConceptID]
		prereq, okPre := g.nodes[e.PrerequisiteID]
		switch {
		case okDep && okPre:
			dependent.prereqs = append(dependent.prereqs, prereq.id)
			prereq.dependents = append(prereq.dependents, dependent.id)
		case okDep && !okPre:
			dangling[dependent.id] = append(dangling[dependent.id], e.PrerequisiteID)
		case !okDep && okPre:
			// The edge hangs off a concept that no longer exists. Keep it
			// reachable so traversal from the prerequisite reports it.
			prereq.dependents = append(prereq.dependents, e.ConceptID)
			if _, ok := g.faults[e.ConceptID]; !ok {
				g.faults[e.ConceptID] = IntegrityFault{ConceptID: e.ConceptID, Kind: FaultDanglingConcept}
			}
		}
	}
	for _, n := range g.nodes {
		sortIDs(n.prereqs)
		sortIDs(n.dependents)
	}
	for id, missing := range dangling {
		sortIDs(missing)
		g.faults[id] = IntegrityFault{ConceptID: id, Kind: FaultDanglingPrerequisite, Related: missing}
	}

	for _, scc := range g.stronglyConnected() {
		cyclic := len(scc) > 1
		if len(scc) == 1 {
			n := g.nodes[scc[0]]
			for _, p := range n.prereqs {
				if p == n.id {
					cyclic = true
					break
				}
			}
		}
		if !cyclic {
			continue
		}
		sortIDs(scc)
		for _, id := range scc {
			g.faults[id] = IntegrityFault{ConceptID: id, Kind: FaultCycle, Related: scc}
		}
	}
	return g
}

// stronglyConnected runs Tarjan's algorithm over prerequisite edges.
func (g *ConceptGraph) stronglyConnected() [][]uuid.UUID {
	index := 0
	indices := make(map[uuid.UUID]int, len(g.nodes))
	lowlink := make(map[uuid.UUID]int, len(g.nodes))
	onStack := make(map[uuid.UUID]bool, len(g.nodes))
	stack := make([]uuid.UUID, 0, len(g.nodes))
	var out [][]uuid.UUID

	var visit func(v uuid.UUID)
	visit = func(v uuid.UUID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.nodes[v].prereqs {
			if _, seen := indices[w]; !seen {
				visit(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] && indices[w] < lowlink[v] {
				lowlink[v] = indices[w]
			}
		}

		if lowlink[v] == indices[v] {
			var scc []uuid.UUID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			out = append(out, scc)
		}
	}

	for _, id := range g.order {
		if _, seen := indices[id]; !seen {
			visit(id)
		}
	}
	return out
}

func (g *ConceptGraph) Has(id uuid.UUID) bool {
	_, ok := g.nodes[id]
	return ok
}

// ConceptIDs returns every known concept in id order.
func (g *ConceptGraph) ConceptIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), g.order...)
}

func (g *ConceptGraph) ExamWeight(id uuid.UUID) int {
	if n, ok := g.nodes[id]; ok {
		return n.examWeight
	}
	return 0
}

func (g *ConceptGraph) TotalExamWeight() int { return g.totalWeight }

func (g *ConceptGraph) Prerequisites(id uuid.UUID) []uuid.UUID {
	if n, ok := g.nodes[id]; ok {
		return append([]uuid.UUID(nil), n.prereqs...)
	}
	return nil
}

// Dependents returns the concepts that list id as a prerequisite.
func (g *ConceptGraph) Dependents(id uuid.UUID) []uuid.UUID {
	if n, ok := g.nodes[id]; ok {
		return append([]uuid.UUID(nil), n.dependents...)
	}
	return nil
}

// Fault reports the integrity fault recorded for id, if any.
func (g *ConceptGraph) Fault(id uuid.UUID) (IntegrityFault, bool) {
	f, ok := g.faults[id]
	return f, ok
}

// Faults lists every recorded fault ordered by concept id.
func (g *ConceptGraph) Faults() []IntegrityFault {
	out := make([]IntegrityFault, 0, len(g.faults))
	for _, f := range g.faults {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].ConceptID[:], out[j].ConceptID[:]) < 0
	})
	return out
}

func (g *ConceptGraph) Healthy() bool { return len(g.faults) == 0 }

func clampWeight(w int) int {
	if w < int(MinExamWeight) {
		return int(MinExamWeight)
	}
	if w > int(MaxExamWeight) {
		return int(MaxExamWeight)
	}
	return w
}

func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
}

func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ", ")
}
