package studyplan

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-studyplan/internal/domain/aggregates"
)

// Mode selects which dependents count toward urgency.
type Mode string

const (
	// ModeTransitive counts every downstream concept once.
	ModeTransitive Mode = "transitive"
	// ModeDirect counts only concepts that list the target as a prerequisite.
	ModeDirect Mode = "direct"
)

const DefaultMasteryThreshold = 80.0

// ParseMode accepts "direct" or "transitive" (any case); anything else yields
// ModeTransitive and ok=false.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case ModeDirect:
		return ModeDirect, true
	case ModeTransitive:
		return ModeTransitive, true
	default:
		return ModeTransitive, false
	}
}

// Resolver computes dependency urgency over one graph and one learner's
// mastery map. Missing mastery counts as 0.
type Resolver struct {
	graph     *ConceptGraph
	mode      Mode
	threshold float64
}

func NewResolver(graph *ConceptGraph, mode Mode, masteryThreshold float64) *Resolver {
	if mode != ModeDirect {
		mode = ModeTransitive
	}
	if masteryThreshold <= MinMastery || masteryThreshold > MaxMastery {
		masteryThreshold = DefaultMasteryThreshold
	}
	return &Resolver{graph: graph, mode: mode, threshold: masteryThreshold}
}

// Resolve returns urgency(C) = 100 * sum(exam weight of unmastered dependents)
// / sum(exam weight of all concepts), clamped to [0, 100].
//
// A structural_integrity error is returned without traversing when conceptID
// itself is faulted, and as soon as traversal reaches a faulted concept.
func (r *Resolver) Resolve(conceptID uuid.UUID, mastery map[uuid.UUID]float64) (float64, error) {
	const op = "studyplan.Resolve"
	if r == nil || r.graph == nil {
		return 0, aggregates.NewError(aggregates.CodeInternal, op, "resolver has no graph", nil)
	}
	if f, ok := r.graph.Fault(conceptID); ok {
		return 0, aggregates.NewError(aggregates.CodeStructuralIntegrity, op, f.Error(), f)
	}
	if !r.graph.Has(conceptID) {
		return 0, aggregates.NewError(aggregates.CodeNotFound, op, "unknown concept "+conceptID.String(), nil)
	}
	total := r.graph.TotalExamWeight()
	if total <= 0 {
		return 0, nil
	}

	gated := 0
	visited := map[uuid.UUID]bool{conceptID: true}
	queue := r.graph.Dependents(conceptID)
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if visited[d] {
			continue
		}
		visited[d] = true

		if f, ok := r.graph.Fault(d); ok {
			return 0, aggregates.NewError(aggregates.CodeStructuralIntegrity, op, f.Error(), f)
		}
		if clampFinite(mastery[d], MinMastery, MaxMastery, MinMastery) < r.threshold {
			gated += r.graph.ExamWeight(d)
		}
		if r.mode == ModeTransitive {
			queue = append(queue, r.graph.Dependents(d)...)
		}
	}

	u := 100 * float64(gated) / float64(total)
	return clampFinite(u, MinUrgency, MaxUrgency, MinUrgency), nil
}
