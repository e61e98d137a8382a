package messaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/framelink/framelink-go/contracts"
)

// DefaultTimeout is the response window applied when no override is given.
const DefaultTimeout = 1000 * time.Millisecond

// DispatchEngine sends outbound actions and correlates response events back
// to the dispatching call. Each in-flight dispatch owns an independent
// response subscription and timeout; correlation is solely by action
// identifier equality.
type DispatchEngine struct {
	publisher Publisher
	registry  *SubscriptionRegistry
	timeout   time.Duration
	logger    *slog.Logger
}

// EngineOption configures the DispatchEngine.
type EngineOption func(*DispatchEngine)

// WithDefaultTimeout sets the response window used when a dispatch gives no
// per-call override.
func WithDefaultTimeout(timeout time.Duration) EngineOption {
	return func(e *DispatchEngine) {
		e.timeout = timeout
	}
}

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *DispatchEngine) {
		e.logger = logger
	}
}

// NewDispatchEngine creates an engine posting through publisher and
// listening for response events on registry. A nil publisher is allowed and
// makes every dispatch fail with ErrNoPeerChannel.
func NewDispatchEngine(publisher Publisher, registry *SubscriptionRegistry, opts ...EngineOption) (*DispatchEngine, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	e := &DispatchEngine{
		publisher: publisher,
		registry:  registry,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// DispatchOption configures a single dispatch call.
type DispatchOption func(*dispatchConfig)

type dispatchConfig struct {
	timeout time.Duration
}

// WithDispatchTimeout overrides the engine's default response window for
// one call.
func WithDispatchTimeout(timeout time.Duration) DispatchOption {
	return func(c *dispatchConfig) {
		c.timeout = timeout
	}
}

// Dispatch posts the action to the peer and waits for the correlating
// response event. It settles exactly once: nil when the peer reports
// success, ErrActionRejected when it reports failure, ErrActionTimeout when
// no matching response arrives within the window, ErrNoPeerChannel when no
// delivery channel exists. Response events carrying a different action
// identifier belong to other in-flight calls and are ignored.
func (e *DispatchEngine) Dispatch(ctx context.Context, action contracts.Action, opts ...DispatchOption) error {
	if e.publisher == nil {
		return fmt.Errorf("dispatch %s: %w", action.Type, contracts.ErrNoPeerChannel)
	}

	env, err := action.Envelope()
	if err != nil {
		return err
	}

	cfg := dispatchConfig{timeout: e.timeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	// Subscribe before posting so a response cannot slip past between the
	// post and the registration.
	responseCh := make(chan contracts.ResponsePayload, 1)
	unsubscribe := e.registry.Subscribe(contracts.EventResponse, func(payload any) {
		resp, ok := payload.(contracts.ResponsePayload)
		if !ok || resp.ActionID != action.ID {
			return
		}
		select {
		case responseCh <- resp:
		default:
		}
	})
	defer unsubscribe()

	if err := e.publisher.Post(ctx, env); err != nil {
		return fmt.Errorf("post action %s: %w", action.Type, err)
	}

	e.logger.Debug("action dispatched",
		"actionType", action.Type,
		"actionId", action.ID,
		"timeout", cfg.timeout,
	)

	select {
	case resp := <-responseCh:
		if !resp.OK {
			return fmt.Errorf("action %s (%s): %w", action.Type, action.ID, contracts.ErrActionRejected)
		}
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("action %s (%s): %w", action.Type, action.ID, contracts.ErrActionTimeout)
		}
		return ctx.Err()
	}
}
