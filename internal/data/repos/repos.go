package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/learning"
	"github.com/yungbote/neurobridge-studyplan/internal/data/repos/user"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type UserRepo = user.UserRepo

type ConceptRepo = learning.ConceptRepo
type ConceptPrerequisiteRepo = learning.ConceptPrerequisiteRepo
type MasteryRecordRepo = learning.MasteryRecordRepo
type StudyPlanRepo = learning.StudyPlanRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewConceptRepo(db *gorm.DB, baseLog *logger.Logger) ConceptRepo {
	return learning.NewConceptRepo(db, baseLog)
}

func NewConceptPrerequisiteRepo(db *gorm.DB, baseLog *logger.Logger) ConceptPrerequisiteRepo {
	return learning.NewConceptPrerequisiteRepo(db, baseLog)
}

func NewMasteryRecordRepo(db *gorm.DB, baseLog *logger.Logger) MasteryRecordRepo {
	return learning.NewMasteryRecordRepo(db, baseLog)
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return learning.NewStudyPlanRepo(db, baseLog)
}
