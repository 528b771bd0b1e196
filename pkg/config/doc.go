// Package config defines the service configuration model and its loading
// pipeline: YAML file, defaults, environment overrides, validation.
//
// Configuration is loaded once at service start and passed by reference to
// the components that need it; there is no ambient global configuration
// state.
//
// Environment variables follow the ORDINANCE_SECTION_FIELD convention
// (e.g., ORDINANCE_RULESETS_PATH) and always take precedence over values
// from the file.
package config
