// Package cli provides the interactive admin command-line client for the
// WhatsApp FAQ assistant.
//
// It wires configuration, the local slot store, the authentication service
// and an interactive REPL that keeps working while the backend is down.
// Typical flow: bootstrap local state, start a background connectivity
// watcher, prompt for credentials, and execute operator commands.
//
// Key features:
//   - Login / Logout (remote with local fallback)
//   - Status: connectivity and fallback state
//   - Whoami / Users: the active session and the local credential store
//   - Backup: save a snapshot of local state to object storage or a directory
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
