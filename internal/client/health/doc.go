// Package health classifies the remote service's reachability.
//
// A Monitor races a Prober against a timer. Whichever settles first decides
// the ConnectionStatus; the loser is cancelled and its result discarded, so
// a probe that answers after the deadline can never flip a status that was
// already handed to a caller. Check never returns an error: every outcome,
// including a timeout, is a ConnectionStatus.
//
// Probers:
//   - client.HTTPClient (GET health path, JSON success marker)
//   - GRPCProber (grpc.health.v1 Check, SERVING)
package health
