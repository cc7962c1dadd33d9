// Package config provides configuration management for ytproc.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Validation of enum fields and numeric ranges
//   - Reconciliation of mutually exclusive options
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to downloads/%(channel)s/... via the engine's output template
//	// Video re-encode at CRF 18, preset slow, two workers
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Normalization
//
// Normalize() applies the option compatibility rules and returns warnings
// for anything it changed. Audio-only mode and subtitle embedding are
// incompatible: selecting both forces subtitles off with a warning rather
// than failing the run.
//
//	warnings := settings.Normalize()
//	for _, w := range warnings {
//	    logger.Warn(w)
//	}
package config
