// Copyright 2026 Framelink Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package framelink is a cross-boundary communication bridge: it lets an
// embedded endpoint exchange typed, correlated messages with exactly one
// parent peer over an opaque-message transport. The Bridge facade wires the
// protocol engine (state container, reducer, subscription registry,
// dispatch engine, inbound router) onto a transport and exposes the public
// surface: Subscribe, UnsubscribeAll, Dispatch, State.
package framelink

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/framelink/framelink-go/contracts"
	"github.com/framelink/framelink-go/messaging"
	"github.com/framelink/framelink-go/state"
)

// Environment describes the page context the bridge is embedded in.
// Location is the embedding page's URL; Referrer is the URL of the document
// that embedded it, used to derive the trusted peer origin.
type Environment struct {
	Location *url.URL
	Referrer *url.URL
}

// Bridge is one self-contained bridge instance. Multiple bridges in one
// process do not interfere; there is no shared process-wide state.
type Bridge struct {
	container  *state.Container
	registry   *messaging.SubscriptionRegistry
	engine     *messaging.DispatchEngine
	router     *messaging.InboundRouter
	transport  messaging.Transport
	peerOrigin string
}

type bridgeConfig struct {
	peerDomain string
	peerOrigin string
	timeout    time.Duration
	logger     *slog.Logger
	rejectHook func(origin string)
}

// Option configures the Bridge.
type Option func(*bridgeConfig)

// WithPeerDomain sets the peer domain explicitly instead of reading the
// "domain" query parameter of the page URL.
func WithPeerDomain(domain string) Option {
	return func(c *bridgeConfig) {
		c.peerDomain = domain
	}
}

// WithPeerOrigin sets the origin inbound messages are gated against,
// overriding the origin derived from the referrer.
func WithPeerOrigin(origin string) Option {
	return func(c *bridgeConfig) {
		c.peerOrigin = origin
	}
}

// WithResponseTimeout sets the default window a dispatched action waits for
// its response.
func WithResponseTimeout(timeout time.Duration) Option {
	return func(c *bridgeConfig) {
		c.timeout = timeout
	}
}

// WithBridgeLogger sets the logger.
func WithBridgeLogger(logger *slog.Logger) Option {
	return func(c *bridgeConfig) {
		c.logger = logger
	}
}

// WithOriginRejectHook installs an observer for inbound messages dropped by
// the origin gate.
func WithOriginRejectHook(hook func(origin string)) Option {
	return func(c *bridgeConfig) {
		c.rejectHook = hook
	}
}

// New creates a bridge embedded in env, communicating over transport.
//
// The initial state is seeded from the page URL: id from the "id" query
// parameter, path from the URL path, theme "dark" unless the "theme" query
// parameter is exactly "light", and domain from WithPeerDomain or the
// "domain" query parameter. The trusted peer origin comes from
// WithPeerOrigin, else the referrer's origin, else the peer domain.
//
// A nil transport is allowed: dispatches then fail with ErrNoPeerChannel
// and no inbound messages arrive. A missing Location fails fast with
// ErrEnvironmentUnavailable.
func New(env Environment, transport messaging.Transport, opts ...Option) (*Bridge, error) {
	if env.Location == nil {
		return nil, fmt.Errorf("bridge construction: %w", contracts.ErrEnvironmentUnavailable)
	}

	cfg := bridgeConfig{
		timeout: messaging.DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	query := env.Location.Query()

	domain := cfg.peerDomain
	if domain == "" {
		domain = query.Get("domain")
	}

	peerOrigin := cfg.peerOrigin
	if peerOrigin == "" && env.Referrer != nil {
		peerOrigin = env.Referrer.Scheme + "://" + env.Referrer.Host
	}
	if peerOrigin == "" {
		peerOrigin = domain
	}

	container := state.NewContainer(contracts.BridgeState{
		Domain: domain,
		ID:     query.Get("id"),
		Path:   env.Location.Path,
		Theme:  contracts.ParseTheme(query.Get("theme")),
	})
	registry := messaging.NewSubscriptionRegistry()

	var publisher messaging.Publisher
	if transport != nil {
		publisher = transport
	}
	engine, err := messaging.NewDispatchEngine(publisher, registry,
		messaging.WithDefaultTimeout(cfg.timeout),
		messaging.WithEngineLogger(cfg.logger),
	)
	if err != nil {
		return nil, err
	}

	routerOpts := []messaging.RouterOption{messaging.WithRouterLogger(cfg.logger)}
	if cfg.rejectHook != nil {
		routerOpts = append(routerOpts, messaging.WithOriginRejectHook(cfg.rejectHook))
	}
	router, err := messaging.NewInboundRouter(peerOrigin, container, registry, routerOpts...)
	if err != nil {
		return nil, err
	}

	b := &Bridge{
		container:  container,
		registry:   registry,
		engine:     engine,
		router:     router,
		transport:  transport,
		peerOrigin: peerOrigin,
	}

	if transport != nil {
		if err := router.Bind(transport); err != nil {
			return nil, fmt.Errorf("failed to bind transport: %w", err)
		}
	}
	return b, nil
}

// Subscribe registers a callback for one event type and returns its
// unsubscribe closure.
func (b *Bridge) Subscribe(eventType contracts.EventType, cb messaging.Callback) func() {
	return b.registry.Subscribe(eventType, cb)
}

// UnsubscribeAll removes every subscriber for the given event types, or all
// subscribers when called with no arguments.
func (b *Bridge) UnsubscribeAll(eventTypes ...contracts.EventType) {
	b.registry.UnsubscribeAll(eventTypes...)
}

// Dispatch sends an action to the peer and waits for its correlated
// response. See DispatchEngine.Dispatch for the settlement rules.
func (b *Bridge) Dispatch(ctx context.Context, action contracts.Action, opts ...messaging.DispatchOption) error {
	return b.engine.Dispatch(ctx, action, opts...)
}

// State returns the current read-only state snapshot.
func (b *Bridge) State() contracts.BridgeState {
	return b.container.State()
}

// PeerOrigin returns the origin inbound messages are gated against.
func (b *Bridge) PeerOrigin() string {
	return b.peerOrigin
}

// DroppedOriginCount returns how many inbound messages the origin gate has
// dropped.
func (b *Bridge) DroppedOriginCount() uint64 {
	return b.router.DroppedOriginCount()
}

// Close clears all subscriptions and releases the transport.
func (b *Bridge) Close() error {
	b.registry.UnsubscribeAll()
	if b.transport != nil {
		return b.transport.Close()
	}
	return nil
}
