package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"authflow/pkg/idgen"
	"authflow/pkg/logger"
)

var (
	ErrProviderNotFound  = errors.New("provider not found")
	ErrDuplicateProvider = errors.New("provider already registered")
	ErrNoActiveFlow      = errors.New("no active flow for provider")
)

const storeTimeout = 5 * time.Second

// Manager owns the registered providers and at most one open flow per provider.
// Status snapshots go to a StatusStore and finished flows to a FlowRecorder.
type Manager struct {
	exchanger Exchanger
	ids       idgen.Generator
	statuses  StatusStore
	recorder  FlowRecorder
	logger    logger.Client

	mu        sync.Mutex
	providers map[string]ProviderConfig
	active    map[string]*Flow

	// serializes snapshot+save so an older state never overwrites a newer one
	statusMu sync.Mutex
	watchers sync.WaitGroup
}

func NewManager(exchanger Exchanger, ids idgen.Generator, statuses StatusStore, recorder FlowRecorder, log logger.Client) *Manager {
	if recorder == nil {
		recorder = NopRecorder()
	}
	return &Manager{
		exchanger: exchanger,
		ids:       ids,
		statuses:  statuses,
		recorder:  recorder,
		logger:    log,
		providers: make(map[string]ProviderConfig),
		active:    make(map[string]*Flow),
	}
}

// RegisterProvider makes cfg available to StartFlow under cfg.Name
func (m *Manager) RegisterProvider(cfg ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.providers[cfg.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateProvider, cfg.Name)
	}
	m.providers[cfg.Name] = cfg
	return nil
}

// StartFlow opens a new flow for the provider and returns the URL to send the user to.
// A flow still open for the same provider is closed first.
func (m *Manager) StartFlow(ctx context.Context, providerName string) (*Flow, string, error) {
	m.mu.Lock()
	cfg, exists := m.providers[providerName]
	if !exists {
		m.mu.Unlock()
		return nil, "", ErrProviderNotFound
	}

	flow := NewFlow(m.ids.GenerateID(), cfg, m.exchanger, m.logger)
	authURL, err := flow.Start()
	if err != nil {
		m.mu.Unlock()
		return nil, "", fmt.Errorf("failed to start flow: %w", err)
	}
	prev := m.active[providerName]
	m.active[providerName] = flow
	m.mu.Unlock()

	if prev != nil {
		m.logger.Info("replacing open flow",
			logger.Field{Key: "provider", Value: providerName},
			logger.Field{Key: "previous_flow_id", Value: prev.ID()},
		)
		prev.Close()
	}

	m.saveStatus(ctx, flow)

	m.watchers.Add(1)
	go m.watch(flow)

	return flow, authURL, nil
}

// HandleRedirect routes an observed redirect to the provider's open flow
func (m *Manager) HandleRedirect(ctx context.Context, providerName, uri string) (*Flow, Action, error) {
	m.mu.Lock()
	_, exists := m.providers[providerName]
	flow := m.active[providerName]
	m.mu.Unlock()

	if !exists {
		return nil, ActionIgnored, ErrProviderNotFound
	}
	if flow == nil {
		return nil, ActionIgnored, ErrNoActiveFlow
	}

	action := flow.OnRedirect(ctx, uri)
	if action == ActionExchange {
		m.saveStatus(ctx, flow)
	}
	return flow, action, nil
}

// FlowStatus returns the last stored record for a flow id
func (m *Manager) FlowStatus(ctx context.Context, id string) (*FlowRecord, error) {
	return m.statuses.Get(ctx, id)
}

// Close closes every open flow and waits for their final records to be written
func (m *Manager) Close() {
	m.mu.Lock()
	flows := make([]*Flow, 0, len(m.active))
	for _, f := range m.active {
		flows = append(flows, f)
	}
	m.mu.Unlock()

	for _, f := range flows {
		f.Close()
	}
	m.watchers.Wait()
}

func (m *Manager) watch(flow *Flow) {
	defer m.watchers.Done()

	<-flow.Done()

	m.mu.Lock()
	if m.active[flow.Provider()] == flow {
		delete(m.active, flow.Provider())
	}
	m.mu.Unlock()

	// the request that triggered the flow may be long gone
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	rec := m.saveStatus(ctx, flow)
	if err := m.recorder.RecordFlow(ctx, rec); err != nil {
		m.logger.Error("failed to record flow",
			logger.Field{Key: "flow_id", Value: rec.ID},
			logger.Err(err),
		)
	}
}

func (m *Manager) saveStatus(ctx context.Context, flow *Flow) FlowRecord {
	m.statusMu.Lock()
	defer m.statusMu.Unlock()

	rec := flow.Record()
	if err := m.statuses.Save(ctx, rec); err != nil {
		m.logger.Error("failed to save flow status",
			logger.Field{Key: "flow_id", Value: rec.ID},
			logger.Field{Key: "state", Value: string(rec.State)},
			logger.Err(err),
		)
	}
	return rec
}
