package app

import (
	"strings"

	"github.com/yungbote/neurobridge-studyplan/internal/data/db"
	"github.com/yungbote/neurobridge-studyplan/internal/modules/learning/studyplan"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/envutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/temporalx"
)

type Config struct {
	Port        string
	Environment string
	ServiceName string
	Version     string

	JWTSecretKey string
	CORSOrigins  []string

	DB        db.Config
	StudyPlan studyplan.Config
	Temporal  temporalx.Config

	// SeedOnStart loads CURRICULUM_SYLLABUS_YAML (or the embedded default)
	// before serving.
	SeedOnStart bool
}

func LoadConfig(log *logger.Logger) Config {
	plan := studyplan.DefaultConfig()
	plan.TopN = envutil.Int("STUDYPLAN_TOP_N", plan.TopN, log)
	plan.MasteryThreshold = envutil.Float("STUDYPLAN_MASTERY_THRESHOLD", plan.MasteryThreshold, log)
	if mode, ok := studyplan.ParseMode(envutil.String("STUDYPLAN_URGENCY_MODE", string(plan.Mode), log)); ok {
		plan.Mode = mode
	} else if log != nil {
		log.Warn("unknown STUDYPLAN_URGENCY_MODE; using default", "default", plan.Mode)
	}

	return Config{
		Port:         envutil.String("PORT", "8080", log),
		Environment:  envutil.String("APP_ENV", "development", log),
		ServiceName:  envutil.String("OTEL_SERVICE_NAME", "studyplan-api", log),
		Version:      envutil.String("APP_VERSION", "dev", log),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", "", log),
		CORSOrigins:  splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		DB:           db.LoadConfig(log),
		StudyPlan:    plan,
		Temporal:     temporalx.LoadConfig(log),
		SeedOnStart:  envutil.Bool("CURRICULUM_SEED_ON_START", false, log),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
