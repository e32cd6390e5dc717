// Package client talks to the remote WhatsApp assistant backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface): Login against
//     the remote credential service and Ping its health endpoint.
//  2. A concrete HTTP/JSON implementation (see HTTPClient).
//
// # Error Handling
//
// Outcomes are classified so the caller can decide whether to fall back to
// the local credential store:
//
//   - *common.RemoteAuthError: the service answered and rejected the login.
//     This is authoritative; callers must not retry locally.
//   - common.ErrRemoteUnavailable: transport failure, timeout, 5xx or a body
//     that does not decode. Only this class permits fallback.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
