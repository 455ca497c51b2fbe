package studyplan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxReasonedConcepts = 3

// Reasoning renders a fixed-template rationale for the top of a ranking. The
// same ranking always produces the same text.
func Reasoning(ranked []Ranked, names map[uuid.UUID]string, skipped int) string {
	if len(ranked) == 0 {
		if skipped > 0 {
			return fmt.Sprintf("No concepts could be recommended; %d skipped due to curriculum integrity faults.", skipped)
		}
		return "No concepts to study today."
	}

	var b strings.Builder
	b.WriteString("Focus order by priority. ")
	n := len(ranked)
	if n > maxReasonedConcepts {
		n = maxReasonedConcepts
	}
	for i := 0; i < n; i++ {
		r := ranked[i]
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%d. %s (priority %.2f): %s.", i+1, displayName(r.ConceptID, names), r.PriorityScore, dominantFactor(r))
	}
	if rest := len(ranked) - n; rest > 0 {
		fmt.Fprintf(&b, " %d more concept(s) follow.", rest)
	}
	if skipped > 0 {
		fmt.Fprintf(&b, " %d concept(s) skipped due to curriculum integrity faults.", skipped)
	}
	return b.String()
}

func dominantFactor(r Ranked) string {
	bd := r.Breakdown
	switch {
	case bd.Weakness >= bd.Exam && bd.Weakness >= bd.Dependency:
		return fmt.Sprintf("low mastery (%.0f/100)", clampFinite(r.MasteryScore, MinMastery, MaxMastery, MinMastery))
	case bd.Exam >= bd.Dependency:
		return fmt.Sprintf("high exam weight (%.0f/10)", clampFinite(r.ExamWeight, MinExamWeight, MaxExamWeight, MinExamWeight))
	default:
		return "unlocks unmastered downstream concepts"
	}
}

func displayName(id uuid.UUID, names map[uuid.UUID]string) string {
	if name := strings.TrimSpace(names[id]); name != "" {
		return name
	}
	return id.String()
}
