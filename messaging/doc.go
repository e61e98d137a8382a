// Package messaging implements the framelink protocol engine.
//
// The engine has three cooperating parts:
//   - SubscriptionRegistry: per-event-type fan-out of inbound events to
//     registered callbacks, safe against removal during notification
//   - DispatchEngine: sends outbound actions and correlates asynchronous
//     response events back to the dispatching call by action identifier,
//     with timeout-bounded settlement
//   - InboundRouter: validates the sender origin, advances the shared state
//     through the reducer and fans the event out to subscribers
//
// The transport carrying envelopes across the peer boundary is an external
// collaborator behind the Transport interface; concrete implementations
// live under transports/.
package messaging
