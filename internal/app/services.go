package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
	"github.com/yungbote/neurobridge-studyplan/internal/temporalx/studyplanwf"
)

type Services struct {
	Mastery    services.MasteryService
	Curriculum services.CurriculumService
	StudyPlan  services.StudyPlanService
	Scheduler  *studyplanwf.Scheduler
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var events services.PlanEventPublisher
	if clients.Bus.Enabled() {
		events = clients.Bus
	}

	return Services{
		Mastery: services.NewMasteryService(db, log,
			reposet.User, reposet.Concept, reposet.MasteryRecord, metrics),
		Curriculum: services.NewCurriculumService(db, log,
			reposet.Concept, reposet.ConceptPrerequisite, clients.Neo4j),
		StudyPlan: services.NewStudyPlanService(log, cfg.StudyPlan,
			reposet.Concept, reposet.ConceptPrerequisite, reposet.MasteryRecord, reposet.StudyPlan,
			events, metrics),
		Scheduler: studyplanwf.NewScheduler(clients.Temporal, cfg.Temporal.TaskQueue),
	}
}
