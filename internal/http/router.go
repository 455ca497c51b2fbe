package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/neurobridge-studyplan/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-studyplan/internal/http/middleware"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware
	Metrics        http.Handler
	MetricsMW      gin.HandlerFunc

	HealthHandler         *httpH.HealthHandler
	StudyPlanHandler      *httpH.StudyPlanHandler
	RecommendationHandler *httpH.RecommendationHandler
	ConceptHandler        *httpH.ConceptHandler
	MasteryHandler        *httpH.MasteryHandler
	CurriculumHandler     *httpH.CurriculumHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	if cfg.MetricsMW != nil {
		r.Use(cfg.MetricsMW)
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// Study plans
	if cfg.StudyPlanHandler != nil {
		api.GET("/study-plans", cfg.StudyPlanHandler.List)
		api.POST("/study-plans/today", cfg.StudyPlanHandler.GenerateToday)
		api.POST("/study-plans/:date", cfg.StudyPlanHandler.GenerateForDate)
		api.GET("/study-plans/:date", cfg.StudyPlanHandler.GetByDate)
	}

	// Recommendations (pure scoring)
	if cfg.RecommendationHandler != nil {
		api.POST("/recommendations/score", cfg.RecommendationHandler.Score)
	}

	// Curriculum
	if cfg.ConceptHandler != nil {
		api.GET("/concepts", cfg.ConceptHandler.List)
		api.PATCH("/concepts/:id/exam-weight", requireRole(cfg.AuthMiddleware, httpMW.RoleCurriculumAuthor), cfg.ConceptHandler.UpdateExamWeight)
	}
	if cfg.CurriculumHandler != nil {
		api.GET("/curriculum/integrity", cfg.CurriculumHandler.Integrity)
	}

	// Mastery
	if cfg.MasteryHandler != nil {
		api.GET("/mastery", cfg.MasteryHandler.ListMine)
		api.POST("/internal/mastery/attempts", requireRole(cfg.AuthMiddleware, httpMW.RoleGrader), cfg.MasteryHandler.RecordAttempt)
	}

	return r
}

func requireRole(am *httpMW.AuthMiddleware, role string) gin.HandlerFunc {
	if am == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return am.RequireRole(role)
}
