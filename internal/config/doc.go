// Package config loads, normalizes, and validates vidscribe configuration.
//
// Settings come from a TOML file (default ~/.config/vidscribe/config.toml,
// falling back to ./vidscribe.toml), an optional .env file, and VIDSCRIBE_*
// environment variables, in increasing order of precedence. Paths are
// expanded to absolute form and the result is checked with struct tags
// before any subsystem sees it.
package config
