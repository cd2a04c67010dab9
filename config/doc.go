// Package config loads settings from YAML files, .env files and the process
// environment using viper and godotenv.
//
// Environment variables are bound automatically: CLIENT_ID populates a field
// tagged `mapstructure:"client_id"`, and nested forms such as
// LOGGING_LEVEL populate `logging.level`. Comma separated values decode into
// string slices and Go duration strings into time.Duration.
//
// # Usage
//
//	var cfg Settings
//	err := config.LoadConfig("cognito", &cfg, config.WithEnvFile(".env"))
package config
