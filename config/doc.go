// Package config loads adminctl configuration.
//
// It uses Viper to read a YAML file and environment variables, and
// godotenv to load a .env file first. Environment variables carry the
// ADMINCTL_ prefix and map onto nested keys by underscore, so
// ADMINCTL_API_BASE_URL sets api.base_url.
//
// # Usage
//
//	var cfg config.AppConfig
//	if err := config.LoadConfig("adminctl", &cfg); err != nil { ... }
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil { ... }
package config
