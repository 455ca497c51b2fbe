package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	httpH "github.com/yungbote/neurobridge-studyplan/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-studyplan/internal/http/middleware"
	"github.com/yungbote/neurobridge-studyplan/internal/observability"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func TestRouter_PublicAndProtectedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := observability.NewMetrics()
	r := NewRouter(RouterConfig{
		Log:                   logger.NewNop(),
		AuthMiddleware:        httpMW.NewAuthMiddleware(logger.NewNop(), "secret"),
		Metrics:               metrics.Handler(),
		MetricsMW:             httpMW.Metrics(metrics),
		HealthHandler:         httpH.NewHealthHandler(),
		RecommendationHandler: httpH.NewRecommendationHandler(nil),
	})

	tests := []struct {
		method string
		path   string
		auth   bool
		status int
	}{
		{http.MethodGet, "/healthcheck", false, http.StatusOK},
		{http.MethodGet, "/metrics", false, http.StatusOK},
		{http.MethodPost, "/api/recommendations/score", false, http.StatusUnauthorized},
		{http.MethodPost, "/api/recommendations/score", true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		if tt.auth {
			tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
				Subject:   uuid.NewString(),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}).SignedString([]byte("secret"))
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.status {
			t.Fatalf("%s %s (auth=%v): expected %d, got %d", tt.method, tt.path, tt.auth, tt.status, rec.Code)
		}
	}
}
