package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type Repos struct {
	User                repos.UserRepo
	Concept             repos.ConceptRepo
	ConceptPrerequisite repos.ConceptPrerequisiteRepo
	MasteryRecord       repos.MasteryRecordRepo
	StudyPlan           repos.StudyPlanRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:                repos.NewUserRepo(db, log),
		Concept:             repos.NewConceptRepo(db, log),
		ConceptPrerequisite: repos.NewConceptPrerequisiteRepo(db, log),
		MasteryRecord:       repos.NewMasteryRecordRepo(db, log),
		StudyPlan:           repos.NewStudyPlanRepo(db, log),
	}
}
