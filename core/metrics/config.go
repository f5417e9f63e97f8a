package metrics

// Config holds configuration for the Prometheus endpoint.
type Config struct {
	// Enabled exposes the metrics endpoint on the HTTP server.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Path is the route serving the metrics.
	Path string `mapstructure:"path" default:"/metrics"`
}

// RoutePath returns the configured path, defaulting to /metrics.
func (c Config) RoutePath() string {
	if c.Path == "" {
		return "/metrics"
	}
	return c.Path
}
