package app

import (
	httpH "github.com/yungbote/neurobridge-studyplan/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-studyplan/internal/http/middleware"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type Handlers struct {
	Health         *httpH.HealthHandler
	StudyPlan      *httpH.StudyPlanHandler
	Recommendation *httpH.RecommendationHandler
	Concept        *httpH.ConceptHandler
	Mastery        *httpH.MasteryHandler
	Curriculum     *httpH.CurriculumHandler
}

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	var scheduler httpH.PlanScheduler
	if services.Scheduler.Enabled() {
		scheduler = services.Scheduler
	}
	return Handlers{
		Health:         httpH.NewHealthHandler(),
		StudyPlan:      httpH.NewStudyPlanHandler(log, services.StudyPlan, scheduler),
		Recommendation: httpH.NewRecommendationHandler(services.StudyPlan),
		Concept:        httpH.NewConceptHandler(log, services.Curriculum),
		Mastery:        httpH.NewMasteryHandler(services.Mastery),
		Curriculum:     httpH.NewCurriculumHandler(services.Curriculum),
	}
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	if cfg.JWTSecretKey == "" {
		log.Warn("JWT_SECRET_KEY not set; every /api request will be rejected")
	}
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, cfg.JWTSecretKey)}
}
