package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-studyplan/internal/platform/envutil"
	"github.com/yungbote/neurobridge-studyplan/internal/platform/logger"
)

const EventStudyPlanUpdated = "study_plan.updated"

// Event is the payload published when a learner's plan changes.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	PlanDate   string    `json:"plan_date"`
	ConceptIDs []string  `json:"concept_ids"`
	At         time.Time `json:"at"`
}

// Bus publishes and forwards plan events. A nil *Bus is valid and drops
// everything, which is how the service runs without REDIS_ADDR.
type Bus struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

// NewFromEnv returns (nil, nil) when REDIS_ADDR is unset.
func NewFromEnv(log *logger.Logger) (*Bus, error) {
	addr := envutil.String("REDIS_ADDR", "", log)
	if addr == "" {
		return nil, nil
	}
	ch := envutil.String("REDIS_CHANNEL", "study_plan_events", log)
	return New(addr, ch, log)
}

func New(addr, channel string, log *logger.Logger) (*Bus, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if strings.TrimSpace(channel) == "" {
		channel = "study_plan_events"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Bus{
		log:     log.With("client", "RedisPlanBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *Bus) Enabled() bool { return b != nil && b.rdb != nil }

func (b *Bus) Publish(ctx context.Context, ev Event) error {
	if !b.Enabled() {
		return nil
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes and calls onEvent for each message until ctx ends.
func (b *Bus) StartForwarder(ctx context.Context, onEvent func(Event)) error {
	if !b.Enabled() {
		return nil
	}
	sub := b.rdb.Subscribe(ctx, b.channel)

	// ensures subscription actually started
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad redis plan event payload", "error", err)
					continue
				}
				onEvent(ev)
			}
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	if !b.Enabled() {
		return nil
	}
	return b.rdb.Close()
}
