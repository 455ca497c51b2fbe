package graph

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	types "github.com/yungbote/neurobridge-studyplan/internal/domain"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/neo4jdb"
)

// SyncCurriculumGraph mirrors concepts and prerequisite edges into Neo4j.
// It is a no-op when the client is disabled. Relationships that no longer
// exist in Postgres are removed so the mirror never keeps a stale edge.
func SyncCurriculumGraph(ctx context.Context, client *neo4jdb.Client, log *logger.Logger, concepts []*types.Concept, edges []*types.ConceptPrerequisite) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	nodes := make([]map[string]any, 0, len(concepts))
	for _, c := range concepts {
		if c == nil || c.ID == uuid.Nil {
			continue
		}
		nodes = append(nodes, map[string]any{
			"id":          c.ID.String(),
			"key":         c.Key,
			"subject":     c.Subject,
			"topic":       c.Topic,
			"name":        c.Name,
			"exam_weight": int64(c.ExamWeight),
			"synced_at":   now,
		})
	}

	rels := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		if e == nil || e.ConceptID == uuid.Nil || e.PrerequisiteID == uuid.Nil {
			continue
		}
		rels = append(rels, map[string]any{
			"concept_id":      e.ConceptID.String(),
			"prerequisite_id": e.PrerequisiteID.String(),
			"synced_at":       now,
		})
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort; restricted users may not create schema.
	if res, err := session.Run(ctx, `CREATE CONSTRAINT curriculum_concept_id IF NOT EXISTS FOR (c:Concept) REQUIRE c.id IS UNIQUE`, nil); err != nil {
		if log != nil {
			log.Warn("neo4j schema init failed (continuing)", "error", err)
		}
	} else {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if len(nodes) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (c:Concept {id: n.id})
SET c += n
`, map[string]any{"nodes": nodes})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(rels) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:Concept {id: r.concept_id})
MATCH (b:Concept {id: r.prerequisite_id})
MERGE (a)-[e:REQUIRES]->(b)
SET e.synced_at = r.synced_at
`, map[string]any{"rels": rels})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		res, err := tx.Run(ctx, `
MATCH (:Concept)-[e:REQUIRES]->(:Concept)
WHERE e.synced_at <> $now
DELETE e
`, map[string]any{"now": now})
		if err != nil {
			return nil, err
		}
		if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil && log != nil {
		log.Info("curriculum graph mirrored to neo4j", "concepts", len(nodes), "edges", len(rels))
	}
	return err
}
