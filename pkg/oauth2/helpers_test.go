package oauth2

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"authflow/pkg/logger"
)

const testRedirectURI = "http://app.test/auth/callback/test"

func testProvider() ProviderConfig {
	return ProviderConfig{
		Name:         "test",
		ClientID:     "client-123",
		ClientSecret: "secret-456",
		AuthURL:      "https://provider.test/oauth/authorize",
		TokenURL:     "https://provider.test/oauth/token",
		RedirectURI:  testRedirectURI,
	}
}

// mockExchanger records calls without the context argument
type mockExchanger struct {
	mock.Mock
}

func (m *mockExchanger) Exchange(_ context.Context, cfg ProviderConfig, code string) Result {
	args := m.Called(cfg, code)
	return args.Get(0).(Result)
}

type sequenceIDs struct {
	n atomic.Int64
}

func (s *sequenceIDs) GenerateID() string {
	return strconv.FormatInt(s.n.Add(1), 10)
}

type memoryStatusStore struct {
	mu      sync.Mutex
	records map[string]FlowRecord
	history []FlowRecord
}

func newMemoryStatusStore() *memoryStatusStore {
	return &memoryStatusStore{records: make(map[string]FlowRecord)}
}

func (s *memoryStatusStore) Save(_ context.Context, rec FlowRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	s.history = append(s.history, rec)
	return nil
}

func (s *memoryStatusStore) Get(_ context.Context, id string) (*FlowRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrFlowNotFound
	}
	return &rec, nil
}

func (s *memoryStatusStore) statesFor(id string) []State {
	s.mu.Lock()
	defer s.mu.Unlock()
	var states []State
	for _, rec := range s.history {
		if rec.ID == id {
			states = append(states, rec.State)
		}
	}
	return states
}

type chanRecorder struct {
	records chan FlowRecord
}

func newChanRecorder() *chanRecorder {
	return &chanRecorder{records: make(chan FlowRecord, 16)}
}

func (r *chanRecorder) RecordFlow(_ context.Context, rec FlowRecord) error {
	r.records <- rec
	return nil
}

func (r *chanRecorder) next(t *testing.T) FlowRecord {
	t.Helper()
	select {
	case rec := <-r.records:
		return rec
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no flow recorded")
		return FlowRecord{}
	}
}

func waitDone(t *testing.T, f *Flow) {
	t.Helper()
	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		require.FailNow(t, "flow did not resolve")
	}
}

func newStartedFlow(t *testing.T, ex Exchanger) *Flow {
	t.Helper()
	f := NewFlow("flow-1", testProvider(), ex, logger.Nop())
	_, err := f.Start()
	require.NoError(t, err)
	return f
}
