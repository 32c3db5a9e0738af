// Package config handles configuration loading and management for hitref.
//
// It provides functionality for:
//   - Loading configuration from .hitref.config.json or .hitref.yaml files
//   - Default configuration values
//   - Merging explicit overrides on top of a loaded file
package config
