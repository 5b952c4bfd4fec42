// Package config loads application configuration for programs embedding the
// hub. The hub itself needs no configuration; these settings cover the
// ambient pieces around it (logging, metrics, tracing, inspector).
package config

// Config is the top-level application configuration.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" json:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing" json:"tracing"`
	Inspector InspectorConfig `yaml:"inspector" json:"inspector"`
}

// LoggingConfig configures the hub logger.
type LoggingConfig struct {
	// Level is the minimum log level (DEBUG, INFO, ERROR)
	Level string `yaml:"level" json:"level"`
	// JSON enables JSON structured output
	JSON bool `yaml:"json" json:"json"`
}

// MetricsConfig configures the prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
	Path    string `yaml:"path" json:"path"`
}

// TracingConfig configures OpenTelemetry.
type TracingConfig struct {
	Enabled        bool   `yaml:"enabled" json:"enabled"`
	ServiceName    string `yaml:"service_name" json:"service_name"`
	ServiceVersion string `yaml:"service_version" json:"service_version"`
	// Exporter is the exporter type: "jaeger", "zipkin", "stdout", "none"
	Exporter   string  `yaml:"exporter" json:"exporter"`
	Endpoint   string  `yaml:"endpoint" json:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate"`
}

// InspectorConfig configures the HTTP status endpoint.
type InspectorConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "INFO"},
		Metrics: MetricsConfig{Addr: ":9100", Path: "/metrics"},
		Tracing: TracingConfig{
			ServiceName:    "hub-service",
			ServiceVersion: "1.0.0",
			Exporter:       "stdout",
			SampleRate:     1.0,
		},
		Inspector: InspectorConfig{Addr: ":8090"},
	}
}
