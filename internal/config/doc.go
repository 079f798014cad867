// Package config loads, validates, and defaults the TOML configuration that
// drives the jukebridge daemon and CLI.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/jukebridge/config.toml, then ./jukebridge.toml, falling back to
// built-in defaults when no file exists. The storage API key may be supplied
// through the JUKEBRIDGE_API_KEY environment variable so credentials can stay
// out of the config file.
package config
