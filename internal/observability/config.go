package observability

import (
	"strings"

	"github.com/smallbiznis/geodata/internal/config"
)

// Config is the observability view of the application configuration.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	MetricsEnabled bool

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "geodata"
	}
	t := cfg.Telemetry

	return Config{
		ServiceName:          serviceName,
		Environment:          strings.TrimSpace(cfg.Environment),
		Version:              strings.TrimSpace(cfg.AppVersion),
		LogLevel:             orDefault(strings.ToLower(strings.TrimSpace(t.LogLevel)), "info"),
		LogFormat:            orDefault(strings.ToLower(strings.TrimSpace(t.LogFormat)), "json"),
		MetricsEnabled:       t.MetricsEnabled,
		OtelEnabled:          t.OtelEnabled,
		OtelExporterEndpoint: strings.TrimSpace(t.OtelEndpoint),
		OtelExporterProtocol: orDefault(strings.ToLower(strings.TrimSpace(t.OtelProtocol)), "grpc"),
		OtelSamplingRatio:    t.OtelSamplingRatio,
	}
}

// Debug is true for the debug log level and for development environments.
func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
