// Package config loads typed configuration structs from environment
// variables.
//
// Components declare their configuration as a struct with `env` tags
// and receive a populated value at startup. Fields tagged as required
// fail loading when unset, so a missing TTL or limit stops the process
// instead of silently weakening a security control. A .env file is
// loaded once as a development convenience.
package config
