package analytics

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// StreamConfig holds settings for the Redis Streams sink.
type StreamConfig struct {
	ConnectionURL string `env:"ANALYTICS_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	StreamKey     string `env:"ANALYTICS_STREAM_KEY" envDefault:"analytics:events"`
	MaxLen        int64  `env:"ANALYTICS_STREAM_MAXLEN" envDefault:"10000"`
}

// Stream appends events to a capped Redis stream for a downstream pipeline
// to consume. Delivery failures are logged and dropped, never surfaced —
// analytics transport must not disturb engine transitions.
type Stream struct {
	client *redis.Client
	key    string
	maxLen int64
	log    *slog.Logger
}

// NewStream connects to Redis and returns a stream sink.
func NewStream(ctx context.Context, cfg StreamConfig, log *slog.Logger) (*Stream, error) {
	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewStreamWithClient(client, cfg, log), nil
}

// NewStreamWithClient wraps an existing client, e.g. one shared with a
// Redis-backed kv store.
func NewStreamWithClient(client *redis.Client, cfg StreamConfig, log *slog.Logger) *Stream {
	if log == nil {
		log = slog.Default()
	}
	return &Stream{
		client: client,
		key:    cfg.StreamKey,
		maxLen: max(cfg.MaxLen, 1),
		log:    log,
	}
}

func (s *Stream) Track(ctx context.Context, event string, params Params) {
	payload, err := json.Marshal(params)
	if err != nil {
		s.log.WarnContext(ctx, "analytics event dropped: unencodable params",
			"event", event, "error", err)
		return
	}

	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.key,
		MaxLen: s.maxLen,
		Approx: true,
		Values: map[string]any{"event": event, "params": string(payload)},
	}).Err()
	if err != nil {
		s.log.WarnContext(ctx, "analytics event dropped: stream append failed",
			"event", event, "error", err)
	}
}

// Close releases the underlying Redis connection.
func (s *Stream) Close() error {
	return s.client.Close()
}
