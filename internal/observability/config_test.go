package observability

import (
	"testing"

	"github.com/smallbiznis/geodata/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig(config.Config{
		AppVersion:  "1.2.3",
		Environment: "production",
		Telemetry:   config.TelemetryConfig{OtelEndpoint: " otel:4317 "},
	})
	assert.Equal(t, "geodata", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "grpc", cfg.OtelExporterProtocol)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, "otel:4317", cfg.OtelExporterEndpoint)
	assert.False(t, cfg.Debug())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", "HTTP/protobuf")

	cfg := LoadConfig(config.Load())
	assert.Equal(t, "http/protobuf", cfg.OtelExporterProtocol)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{LogLevel: "debug", Environment: "production"}.Debug())
	assert.True(t, Config{Environment: "local"}.Debug())
	assert.False(t, Config{Environment: "staging"}.Debug())
}

func TestProvideMetricsConfig(t *testing.T) {
	assert.False(t, provideMetricsConfig(Config{OtelEnabled: false, MetricsEnabled: true}).Enabled)
	assert.True(t, provideMetricsConfig(Config{OtelEnabled: true, MetricsEnabled: true}).Enabled)
}
