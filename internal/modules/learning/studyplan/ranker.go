package studyplan

import (
	"bytes"
	"sort"
)

// Ranked is a candidate with its computed priority attached.
type Ranked struct {
	Candidate
	PriorityScore float64   `json:"priority_score"`
	Breakdown     Breakdown `json:"breakdown"`
}

// Rank scores candidates with the default weights.
func Rank(candidates []Candidate) []Ranked {
	return DefaultWeights().Rank(candidates)
}

// Rank returns a new slice ordered by priority descending, ties broken by
// concept id ascending. The input is not modified.
func (w Weights) Rank(candidates []Candidate) []Ranked {
	out := make([]Ranked, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Ranked{
			Candidate:     c,
			PriorityScore: w.Score(c),
			Breakdown:     w.Explain(c),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PriorityScore != out[j].PriorityScore {
			return out[i].PriorityScore > out[j].PriorityScore
		}
		return bytes.Compare(out[i].ConceptID[:], out[j].ConceptID[:]) < 0
	})
	return out
}
