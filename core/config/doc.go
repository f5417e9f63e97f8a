// Package config provides configuration management for the reconciler.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from the `default` struct tags of
// each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit)
//   - Reconcile: minimum execution time, identifier pattern, delimiter, strict width, cache TTL
//   - Diff: job retention, download directory, wait timeout
//   - Templates: templates file and default column selection
//   - Export: spreadsheet fill colours and sheet name
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: run history connection details
//   - Log: Logging level and format
//   - Metrics: Prometheus endpoint
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Reconcile.MinExecutionTime)
package config
