package graph

import (
	"context"
	"testing"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

func TestSyncCurriculumGraph_DisabledClientIsNoop(t *testing.T) {
	err := SyncCurriculumGraph(context.Background(), nil, logger.NewNop(), []*types.Concept{{Key: "a"}}, nil)
	if err != nil {
		t.Fatalf("expected nil error for disabled client, got %v", err)
	}
}
