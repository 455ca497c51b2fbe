package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-studyplan/internal/data/db"
	apphttp "github.com/yungbote/neurobridge-studyplan/internal/http"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/curriculum"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/envutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/redisbus"
	"github.com/yungbote/neurobridge-studyplan/internal/services"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients
	Metrics  *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	dbService, err := db.NewService(cfg.DB, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := dbService.AutoMigrateAll(); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	metrics := observability.NewMetrics()
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients, metrics)
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, cfg)
	router := wireRouter(log, cfg, handlerset, middleware, metrics)

	a := &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Clients:      clients,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}

	if cfg.SeedOnStart {
		if _, err := a.SeedCurriculum(ctx, ""); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// SeedCurriculum loads a syllabus (path, CURRICULUM_SYLLABUS_YAML, or the
// embedded default) and upserts it.
func (a *App) SeedCurriculum(ctx context.Context, path string) (*services.SeedResult, error) {
	syllabus, err := curriculum.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load syllabus: %w", err)
	}
	return a.Services.Curriculum.Seed(ctx, syllabus)
}

// Start launches background loops: the plan event forwarder, when Redis is
// configured.
func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	err := a.Clients.Bus.StartForwarder(ctx, func(ev redisbus.Event) {
		a.Log.Debug("plan event", "type", ev.Type, "user_id", ev.UserID, "plan_date", ev.PlanDate, "concepts", len(ev.ConceptIDs))
	})
	if err != nil {
		a.Log.Warn("plan event forwarder not started", "error", err)
	}
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Listening", "port", a.Cfg.Port)
	return (&apphttp.Server{Engine: a.Router}).Run(ctx, ":"+a.Cfg.Port)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	ctx := context.Background()
	a.Clients.Close(ctx)
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
