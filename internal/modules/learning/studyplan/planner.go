package studyplan

import (
	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
)

type PlanInput struct {
	Concepts      []*types.Concept
	Prerequisites []*types.ConceptPrerequisite
	Mastery       []*types.MasteryRecord
}

type PlanResult struct {
	// Ranked holds every scored concept; Recommended is its truncated id list.
	Ranked      []Ranked    `json:"ranked"`
	Recommended []uuid.UUID `json:"recommended_concepts"`
	Reasoning   string      `json:"reasoning"`

	Faults []IntegrityFault `json:"integrity_faults,omitempty"`
	// Excluded concepts are themselves faulted and were not ranked.
	Excluded []uuid.UUID `json:"excluded,omitempty"`
	// Degraded concepts were ranked with urgency 0 because their traversal
	// reached a faulted concept.
	Degraded []uuid.UUID `json:"degraded,omitempty"`
}

type Planner struct {
	cfg Config
}

func NewPlanner(cfg Config) *Planner {
	return &Planner{cfg: cfg.normalized()}
}

func (p *Planner) Config() Config { return p.cfg }

// Plan builds the graph, resolves urgency per concept, ranks and renders the
// rationale. It performs no I/O.
func (p *Planner) Plan(in PlanInput) PlanResult {
	graph := NewConceptGraph(in.Concepts, in.Prerequisites)
	resolver := NewResolver(graph, p.cfg.Mode, p.cfg.MasteryThreshold)

	mastery := make(map[uuid.UUID]float64, len(in.Mastery))
	for _, m := range in.Mastery {
		if m == nil {
			continue
		}
		mastery[m.ConceptID] = m.MasteryScore
	}
	names := make(map[uuid.UUID]string, len(in.Concepts))
	for _, c := range in.Concepts {
		if c != nil {
			names[c.ID] = c.Name
		}
	}

	res := PlanResult{Faults: graph.Faults()}
	candidates := make([]Candidate, 0, len(graph.order))
	for _, id := range graph.ConceptIDs() {
		if _, faulted := graph.Fault(id); faulted {
			res.Excluded = append(res.Excluded, id)
			continue
		}
		urgency, err := resolver.Resolve(id, mastery)
		if err != nil {
			res.Degraded = append(res.Degraded, id)
			urgency = 0
		}
		candidates = append(candidates, Candidate{
			ConceptID:         id,
			MasteryScore:      mastery[id],
			ExamWeight:        float64(graph.ExamWeight(id)),
			DependencyUrgency: urgency,
		})
	}

	res.Ranked = p.cfg.Weights.Rank(candidates)
	top := res.Ranked
	if p.cfg.TopN > 0 && len(top) > p.cfg.TopN {
		top = top[:p.cfg.TopN]
	}
	res.Recommended = make([]uuid.UUID, 0, len(top))
	for _, r := range top {
		res.Recommended = append(res.Recommended, r.ConceptID)
	}
	res.Reasoning = Reasoning(top, names, len(res.Excluded))
	return res
}
