package neo4jdb

import (
	"context"
	"testing"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func TestNewFromEnv_DisabledWithoutURI(t *testing.T) {
	t.Setenv("NEO4J_URI", "")
	log := logger.NewNop()
	c, err := NewFromEnv(log)
	if err != nil || c != nil {
		t.Fatalf("expected disabled client, got c=%v err=%v", c, err)
	}
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}

func TestNewFromEnv_RequiresLogger(t *testing.T) {
	if _, err := NewFromEnv(nil); err == nil {
		t.Fatalf("expected error without logger")
	}
}
