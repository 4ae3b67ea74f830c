// Package config holds all runtime configuration for wikigraph.
//
// Configuration comes from three places, in priority order:
//  1. CLI flags
//  2. The YAML configuration file (.wikigraph)
//  3. Package defaults
//
// The Config struct is passed through the application via dependency
// injection. There is no global configuration state.
package config
