// Package contracts provides the core types for the framelink bridge protocol.
//
// This package defines the data that flows between the bridge and its peer:
//   - BridgeState: the shared state snapshot owned by the state container
//   - Event: inbound messages from the peer (handshake, redirect, theme, response)
//   - Action: outbound requests carrying a unique action identifier
//   - Envelope: the wire shape exchanged over the transport
//
// All wire types are plain JSON so any peer implementation that speaks the
// {type, payload} envelope shape can interoperate with the bridge.
package contracts
