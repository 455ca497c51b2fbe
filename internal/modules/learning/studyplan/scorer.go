package studyplan

import (
	"math"

	"github.com/google/uuid"
)

const (
	MinMastery = 0.0
	MaxMastery = 100.0

	MinExamWeight = 1.0
	MaxExamWeight = 10.0

	MinUrgency = 0.0
	MaxUrgency = 100.0
)

// Weights are the coefficients of the priority formula.
type Weights struct {
	Weakness   float64 `json:"weakness"`
	Exam       float64 `json:"exam"`
	Dependency float64 `json:"dependency"`
}

func DefaultWeights() Weights {
	return Weights{Weakness: 0.6, Exam: 0.3, Dependency: 0.1}
}

// Candidate is one concept under consideration for a learner.
type Candidate struct {
	ConceptID         uuid.UUID `json:"concept_id"`
	MasteryScore      float64   `json:"mastery_score"`
	ExamWeight        float64   `json:"exam_weight"`
	DependencyUrgency float64   `json:"dependency_urgency"`
}

// Breakdown splits a priority score into its weighted parts.
type Breakdown struct {
	Weakness   float64 `json:"weakness"`
	Exam       float64 `json:"exam"`
	Dependency float64 `json:"dependency"`
}

// Score returns the priority of c under the default weights.
func Score(c Candidate) float64 {
	return DefaultWeights().Score(c)
}

// Explain returns the per-factor breakdown of Score(c).
func Explain(c Candidate) Breakdown {
	return DefaultWeights().Explain(c)
}

// Score clamps every input into range and never fails. Non-finite mastery and
// urgency count as 0; a non-finite exam weight counts as the minimum.
func (w Weights) Score(c Candidate) float64 {
	return round2(w.raw(c))
}

// Explain rounds weakness and exam individually and assigns the remainder to
// dependency, so the three parts always add up to Score.
func (w Weights) Explain(c Candidate) Breakdown {
	m, e, _ := normalize(c)
	total := round2(w.raw(c))
	weak := round2((MaxMastery - m) * w.Weakness)
	exam := round2(e * w.Exam)
	dep := round2(total - weak - exam)
	if dep < 0 {
		dep = 0
	}
	return Breakdown{Weakness: weak, Exam: exam, Dependency: dep}
}

func (w Weights) raw(c Candidate) float64 {
	m, e, u := normalize(c)
	v := (MaxMastery-m)*w.Weakness + e*w.Exam + u*w.Dependency
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

func normalize(c Candidate) (mastery, exam, urgency float64) {
	mastery = clampFinite(c.MasteryScore, MinMastery, MaxMastery, MinMastery)
	exam = clampFinite(c.ExamWeight, MinExamWeight, MaxExamWeight, MinExamWeight)
	urgency = clampFinite(c.DependencyUrgency, MinUrgency, MaxUrgency, MinUrgency)
	return mastery, exam, urgency
}

func clampFinite(v, lo, hi, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 is the only place scores are rounded.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
