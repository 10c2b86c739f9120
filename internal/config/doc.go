// Package config loads and validates the server's configuration from an
// optional config.yaml and KAVRAM_-prefixed environment variables, with
// environment values taking precedence. The loaded Config struct is the
// only configuration surface the rest of the application sees.
package config
