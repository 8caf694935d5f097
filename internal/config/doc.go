// Package config handles loading and parsing the lifeboard client
// configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lifeboard/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Endpoint: 127.0.0.1:8391
//   - Refresh interval: 200 ms
//   - Resize debounce window: 500 ms
//   - Error display lifetime: 5000 ms
//   - Request timeout: 5000 ms
//
// # TOML Format
//
// Example config.toml:
//
//	endpoint = "127.0.0.1:8391"
//	refresh_ms = 200
//	debounce_ms = 500
//	error_ttl_ms = 5000
//	request_timeout_ms = 5000
//
// All fields are optional. Tilde expansion is performed automatically on the
// config path.
//
// # Design Rationale
//
// The controller takes every one of these values through its Options struct;
// this package is the only place that knows about files, so the controller
// stays free of ambient process-wide state.
package config
