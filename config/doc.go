// Package config loads and validates the module configuration.
//
// Configuration is YAML. Every section is optional; Load applies the
// documented defaults before validating, so an empty file yields a
// fully working configuration. Durations are written as Go duration
// strings ("500ms", "1m30s").
package config
