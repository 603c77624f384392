// Package redis provides an EvaluationStore backed by Redis, for deployments
// where completed determinations must survive process restarts or be shared
// across replicas.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"

	"lattice/pkg/domain"
)

// Store implements ports.EvaluationStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored evaluations.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for evaluations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "lattice:evaluation:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(caseID string) string {
	return s.prefix + caseID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the evaluation to Redis.
func (s *Store) Save(ctx context.Context, caseID string, eval *domain.Evaluation) error {
	data, err := json.Marshal(eval)
	if err != nil {
		return fmt.Errorf("failed to marshal evaluation: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(caseID), data, s.ttl)

	// Index members carry their expiry as the score so List can prune
	// lazily. No TTL gets a far-future score.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: caseID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the evaluation from Redis.
func (s *Store) Load(ctx context.Context, caseID string) (*domain.Evaluation, error) {
	val, err := s.client.Get(ctx, s.key(caseID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var eval domain.Evaluation
	if err := json.Unmarshal([]byte(val), &eval); err != nil {
		return nil, fmt.Errorf("failed to unmarshal evaluation: %w", err)
	}
	return &eval, nil
}

// Delete removes the evaluation.
func (s *Store) Delete(ctx context.Context, caseID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(caseID))
	pipe.ZRem(ctx, s.indexKey(), caseID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored case IDs, lazily pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired evaluations: %w", err)
	}

	cases, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return cases, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
