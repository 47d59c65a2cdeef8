// Package config provides configuration management for the proposal ingest service.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP port and API key
//   - Database: driver and connection details (DATABASE_URL is honoured)
//   - Storage: S3/MinIO credentials and the batch archive bucket
//   - Log: Logging level and format
//   - Ingest: concurrency and timeout limits for proposal batches
//
// Defaults come from the `default` struct tags of each partial config.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
