// Package app provides the orchestration layer for the lifeboard client.
//
// # Overview
//
// This package wires together configuration, the API client, the board
// synchronization controller, and the UI. It is the composition root where
// all dependencies are initialized and connected; business logic lives in
// the domain packages.
//
// # Architecture
//
//  1. Load client configuration from ~/.config/lifeboard/config.toml
//  2. Initialize the HTTP client for the lifeboardd API
//  3. Construct the sync controller with every timer window injected
//  4. Fetch the initial canonical board (recoverable on failure)
//  5. Start the TUI and block until the user exits or the context cancels
//  6. Close the controller, cancelling its poll, debounce and expiry timers
//
// # Error Handling
//
// Fatal errors (returned from Run): unreadable or invalid configuration and
// API client construction failure. Everything after that is recoverable: a
// daemon that is down at startup simply shows up as a surfaced error in the
// UI, and the user can retry any operation once it is back.
package app
