// Package redis provides a controls store backed by Redis, for hosts that
// rebuild the canvas across processes and still want user-entered control
// values to survive.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.ControlsStore using Redis.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the store.
type Option func(*Store)

// WithTTL sets the expiration for persisted controls.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a Redis store connected to the given address.
func New(address, password string, db int, opts ...Option) *Store {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "canvas:controls:",
		ttl:    0, // no expiration by default
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(nodeID string) string {
	return s.prefix + nodeID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Persist stores the controls for a node as JSON, replacing any previous set.
func (s *Store) Persist(ctx context.Context, nodeID string, controls []domain.ControlDescriptor) error {
	data, err := json.Marshal(controls)
	if err != nil {
		return fmt.Errorf("failed to marshal controls: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(nodeID), data, s.ttl)

	// Index score is the expiry time; entries that never expire sit far in
	// the future so lazy pruning leaves them alone.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: nodeID})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Cached retrieves the persisted controls for a node.
func (s *Store) Cached(ctx context.Context, nodeID string) ([]domain.ControlDescriptor, error) {
	val, err := s.client.Get(ctx, s.key(nodeID)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrControlsNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var controls []domain.ControlDescriptor
	if err := json.Unmarshal([]byte(val), &controls); err != nil {
		return nil, fmt.Errorf("failed to unmarshal controls: %w", err)
	}
	return controls, nil
}

// Delete removes the persisted controls for a node.
func (s *Store) Delete(ctx context.Context, nodeID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(nodeID))
	pipe.ZRem(ctx, s.indexKey(), nodeID)
	_, err := pipe.Exec(ctx)
	return err
}

// List returns node ids with persisted controls, pruning expired entries
// from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err(); err != nil {
		return nil, fmt.Errorf("failed to prune expired controls: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list controls: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
