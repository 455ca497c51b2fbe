package temporalx

import (
	"context"
	"errors"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{5, time.Second},
	}
	for _, tt := range tests {
		if got := Backoff(100*time.Millisecond, time.Second, tt.attempt); got != tt.want {
			t.Fatalf("Backoff(attempt=%d): expected %v, got %v", tt.attempt, tt.want, got)
		}
	}
}

func TestIsRetryableRPC(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", status.Error(codes.Unavailable, "down"), true},
		{"permission", status.Error(codes.PermissionDenied, "no"), false},
		{"deadline", context.DeadlineExceeded, true},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := IsRetryableRPC(tt.err); got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestNewClient_DisabledWithoutAddress(t *testing.T) {
	t.Setenv("TEMPORAL_ADDRESS", "")
	cfg := LoadConfig(nil)
	if cfg.Enabled() || cfg.TaskQueue != "studyplan" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	c, err := NewClient(cfg, nil)
	if c != nil || err != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", c, err)
	}
}
