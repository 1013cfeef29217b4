// Package cli provides the interactive reader command-line client.
//
// It wires configuration, the local account store, the identity backend
// client and an interactive REPL that supports online/offline operation.
// Typical flow: prompt for credentials, start a background connectivity
// watcher, and execute user commands.
//
// Key features:
//   - Register / Login / Logout (online with offline fallback)
//   - Profile display and editing
//   - Follow / unfollow, block / unblock
//   - Privacy toggles (hidden subscriptions, copy protection, comments)
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
