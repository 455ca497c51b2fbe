package domain

import (
	"github.com/yungbote/neurobridge-studyplan/internal/domain/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/domain/user"
)

type User = user.User

type Concept = learning.Concept
type ConceptPrerequisite = learning.ConceptPrerequisite
type MasteryRecord = learning.MasteryRecord
type StudyPlan = learning.StudyPlan

const PlanDateLayout = learning.PlanDateLayout

func ValidExamWeight(w int) bool { return learning.ValidExamWeight(w) }

// Models lists every persisted type, in migration order.
func Models() []interface{} {
	return []interface{}{
		&User{},
		&Concept{},
		&ConceptPrerequisite{},
		&MasteryRecord{},
		&StudyPlan{},
	}
}
