package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/neurobridge-studyplan/internal/http"
	httpMW "github.com/yungbote/neurobridge-studyplan/internal/http/middleware"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		Metrics:        metrics.Handler(),
		MetricsMW:      httpMW.Metrics(metrics),

		HealthHandler:         handlers.Health,
		StudyPlanHandler:      handlers.StudyPlan,
		RecommendationHandler: handlers.Recommendation,
		ConceptHandler:        handlers.Concept,
		MasteryHandler:        handlers.Mastery,
		CurriculumHandler:     handlers.Curriculum,
	})
}
