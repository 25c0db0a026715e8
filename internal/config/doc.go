// Package config resolves wpstat's configuration.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--format, --theme, --top, --community-field, etc.)
//  2. Environment variables (WPSTAT_FORMAT, WPSTAT_FIELDS_COMMUNITY, NO_COLOR, ...)
//  3. YAML config file (--config, else .wpstat.yaml in the working directory,
//     else $XDG_CONFIG_HOME/wpstat/.wpstat.yaml)
//  4. Hardcoded defaults
//
// A .env file in the working directory is loaded before resolution. It never
// overrides variables already present in the environment.
//
// # Field Contract
//
// The attribute names read from each water point are part of the contract
// with the upstream dataset and are configurable:
//
//	fields:
//	  community: communities_villages
//	  status: water_functioning
//	  functioning_value: "yes"
//
// # Environment Variables
//
// Every key maps to WPSTAT_<KEY> with dots replaced by underscores, e.g.
// WPSTAT_SOURCE, WPSTAT_TOP, WPSTAT_FIELDS_STATUS. NO_COLOR set to any
// non-empty value disables colors.
package config
