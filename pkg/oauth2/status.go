package oauth2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"authflow/pkg/cache"
)

var ErrFlowNotFound = errors.New("flow not found")

const statusKeyPrefix = "oauth2:flow:"

// FlowRecord is the externally visible status of a flow. It never carries token bodies.
type FlowRecord struct {
	ID         string     `json:"id"`
	Provider   string     `json:"provider"`
	State      State      `json:"state"`
	Error      string     `json:"error,omitempty"`
	StatusCode int        `json:"status_code,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// StatusStore keeps the latest FlowRecord per flow id
type StatusStore interface {
	Save(ctx context.Context, rec FlowRecord) error
	Get(ctx context.Context, id string) (*FlowRecord, error)
}

// FlowRecorder receives every flow that reached a terminal state
type FlowRecorder interface {
	RecordFlow(ctx context.Context, rec FlowRecord) error
}

type nopRecorder struct{}

func (nopRecorder) RecordFlow(context.Context, FlowRecord) error { return nil }

// NopRecorder is used when no audit trail is configured
func NopRecorder() FlowRecorder { return nopRecorder{} }

type cacheStatusStore struct {
	cache cache.Cache
	ttl   time.Duration
}

// NewCacheStatusStore stores records as JSON in c, expiring after ttl
func NewCacheStatusStore(c cache.Cache, ttl time.Duration) StatusStore {
	return &cacheStatusStore{cache: c, ttl: ttl}
}

func (s *cacheStatusStore) Save(ctx context.Context, rec FlowRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal flow record: %w", err)
	}
	if err := s.cache.Set(ctx, statusKeyPrefix+rec.ID, string(payload), s.ttl); err != nil {
		return fmt.Errorf("failed to store flow record: %w", err)
	}
	return nil
}

func (s *cacheStatusStore) Get(ctx context.Context, id string) (*FlowRecord, error) {
	payload, err := s.cache.Get(ctx, statusKeyPrefix+id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrFlowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load flow record: %w", err)
	}

	var rec FlowRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flow record: %w", err)
	}
	return &rec, nil
}
