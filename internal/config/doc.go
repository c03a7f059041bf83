// Package config loads the server's own runtime configuration from multiple
// sources (YAML files, environment variables, CLI flags) with precedence:
// CLI flags > YAML config > Environment variables > Defaults. It exposes
// strongly typed settings to the rest of the application. The configuration
// documents served to clients are handled elsewhere, by the loader and store
// packages.
package config
