package diff

import "time"

// Config holds configuration for the diff jobs served over HTTP.
type Config struct {
	// JobRetention is how long finished jobs stay available.
	JobRetention time.Duration `mapstructure:"job_retention" default:"1h"`
	// LocalRoot is the directory local sources must resolve under. Empty disables local sources.
	LocalRoot string `mapstructure:"local_root" default:""`
	// DownloadDir receives snapshots fetched from storage. Empty uses the system temp directory.
	DownloadDir string `mapstructure:"download_dir" default:""`
	// WaitTimeout bounds GET /diff/:id?wait=true.
	WaitTimeout time.Duration `mapstructure:"wait_timeout" default:"30s"`
}

func (c Config) waitTimeout() time.Duration {
	if c.WaitTimeout <= 0 {
		return 30 * time.Second
	}
	return c.WaitTimeout
}
