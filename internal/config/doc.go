// Package config loads and validates chartd configuration from YAML.
//
// Files may reference environment variables with ${VAR} syntax; they are
// expanded before parsing. Use LoadAndValidate in binaries.
package config
