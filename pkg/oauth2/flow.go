package oauth2

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"authflow/pkg/logger"
)

var (
	ErrFlowStarted = errors.New("flow already started")
	ErrFlowClosed  = errors.New("flow closed without a result")
)

// State is a position in the flow state machine:
//
//	idle -> awaiting_redirect -> cancelled
//	                          -> exchanging -> succeeded | failed
//
// closed is entered when the flow is torn down before reaching a terminal state.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingRedirect State = "awaiting_redirect"
	StateExchanging       State = "exchanging"
	StateCancelled        State = "cancelled"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
	StateClosed           State = "closed"
)

func (s State) Terminal() bool {
	switch s {
	case StateCancelled, StateSucceeded, StateFailed, StateClosed:
		return true
	}
	return false
}

func stateFor(res Result) State {
	switch res.Status {
	case StatusSuccess:
		return StateSucceeded
	case StatusCancelled:
		return StateCancelled
	default:
		return StateFailed
	}
}

// Action reports what OnRedirect did with a redirect event
type Action int

const (
	ActionIgnored Action = iota
	ActionCancelled
	ActionExchange
)

func (a Action) String() string {
	switch a {
	case ActionCancelled:
		return "cancelled"
	case ActionExchange:
		return "exchange"
	default:
		return "ignored"
	}
}

// Flow drives one authorization code grant from URL construction to result.
// Redirect events may be delivered any number of times; only the first one carrying
// an error or a code acts, every later delivery is ignored.
type Flow struct {
	id        string
	cfg       ProviderConfig
	exchanger Exchanger
	logger    logger.Client

	mu         sync.Mutex
	state      State
	finished   bool
	closed     bool
	result     *Result
	startedAt  time.Time
	finishedAt time.Time
	done       chan struct{}
	worker     sync.WaitGroup
}

func NewFlow(id string, cfg ProviderConfig, exchanger Exchanger, log logger.Client) *Flow {
	return &Flow{
		id:        id,
		cfg:       cfg,
		exchanger: exchanger,
		logger: log.With(
			logger.Field{Key: "flow_id", Value: id},
			logger.Field{Key: "provider", Value: cfg.Name},
		),
		state: StateIdle,
		done:  make(chan struct{}),
	}
}

func (f *Flow) ID() string { return f.id }

func (f *Flow) Provider() string { return f.cfg.Name }

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Start builds the authorization URL the user agent must be sent to and moves the
// flow to awaiting_redirect. It can only be called once.
func (f *Flow) Start() (string, error) {
	authURL, err := BuildAuthorizationURL(f.cfg)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return "", ErrFlowStarted
	}
	f.state = StateAwaitingRedirect
	f.startedAt = time.Now()

	f.logger.Info("authorization flow started")
	return authURL, nil
}

// OnRedirect feeds one observed redirect into the flow.
// The exchange runs on its own goroutine and is not cancelled with ctx.
func (f *Flow) OnRedirect(ctx context.Context, uri string) Action {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.finished || f.state != StateAwaitingRedirect {
		return ActionIgnored
	}
	if uri == "" || !strings.HasPrefix(uri, f.cfg.RedirectURI) {
		f.logger.Debug("ignoring redirect outside redirect uri", logger.Field{Key: "uri", Value: uri})
		return ActionIgnored
	}

	u, err := url.Parse(uri)
	if err != nil {
		f.logger.Debug("ignoring unparseable redirect", logger.Err(err))
		return ActionIgnored
	}
	query := u.Query()

	if query.Has("error") {
		f.finished = true
		res := Result{
			Status:           StatusCancelled,
			Error:            query.Get("error"),
			ErrorDescription: query.Get("error_description"),
		}
		f.logger.Info("authorization cancelled by provider", logger.Field{Key: "error", Value: res.Error})
		f.resolve(StateCancelled, &res)
		return ActionCancelled
	}

	if query.Has("code") {
		f.finished = true
		f.state = StateExchanging
		f.worker.Add(1)
		go f.runExchange(context.WithoutCancel(ctx), query.Get("code"))
		return ActionExchange
	}

	return ActionIgnored
}

func (f *Flow) runExchange(ctx context.Context, code string) {
	defer f.worker.Done()

	res := f.exchanger.Exchange(ctx, f.cfg, code)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.logger.Info("discarding exchange result of closed flow", logger.Field{Key: "result", Value: string(res.Status)})
		return
	}
	f.logger.Info("authorization flow finished", logger.Field{Key: "result", Value: string(res.Status)})
	f.resolve(stateFor(res), &res)
}

// resolve must be called with f.mu held and at most once per flow
func (f *Flow) resolve(state State, res *Result) {
	f.state = state
	f.result = res
	f.finishedAt = time.Now()
	close(f.done)
}

// Done is closed once the flow reaches a terminal state
func (f *Flow) Done() <-chan struct{} {
	return f.done
}

// Result returns the flow outcome. ok is false while the flow is still running
// and when it was closed before producing one.
func (f *Flow) Result() (res Result, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return Result{}, false
	}
	return *f.result, true
}

// Wait blocks until the flow resolves or ctx ends
func (f *Flow) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}

	res, ok := f.Result()
	if !ok {
		return Result{}, ErrFlowClosed
	}
	return res, nil
}

// Close tears the flow down. Later redirects are ignored. An exchange already in
// flight runs to completion and its result is dropped.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.finished = true

	if f.state.Terminal() {
		return
	}
	if f.state == StateExchanging {
		f.logger.Warn("flow closed during token exchange")
	}
	f.resolve(StateClosed, nil)
}

// Record returns a status snapshot of the flow without any token material
func (f *Flow) Record() FlowRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := FlowRecord{
		ID:        f.id,
		Provider:  f.cfg.Name,
		State:     f.state,
		StartedAt: f.startedAt,
	}
	if !f.finishedAt.IsZero() {
		finished := f.finishedAt
		rec.FinishedAt = &finished
	}
	if f.result != nil {
		rec.Error = f.result.Error
		if rec.Error == "" {
			rec.Error = f.result.Exception
		}
		rec.StatusCode = f.result.StatusCode
	}
	return rec
}
