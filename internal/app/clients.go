package app

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/neo4jdb"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/redisbus"
	"github.com/yungbote/neurobridge-studyplan/internal/temporalx"
)

// Clients are optional: each is nil when its address is not configured.
type Clients struct {
	Neo4j    *neo4jdb.Client
	Bus      *redisbus.Bus
	Temporal temporalsdkclient.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	graph, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return out, fmt.Errorf("init neo4j: %w", err)
	}
	out.Neo4j = graph

	bus, err := redisbus.NewFromEnv(log)
	if err != nil {
		out.Close(context.Background())
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	out.Bus = bus

	tc, err := temporalx.NewClient(cfg.Temporal, log)
	if err != nil {
		out.Close(context.Background())
		return Clients{}, fmt.Errorf("init temporal: %w", err)
	}
	out.Temporal = tc
	return out, nil
}

func (c Clients) Close(ctx context.Context) {
	if c.Temporal != nil {
		c.Temporal.Close()
	}
	_ = c.Bus.Close()
	if c.Neo4j != nil {
		_ = c.Neo4j.Close(ctx)
	}
}
