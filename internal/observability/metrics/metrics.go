package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Search cache outcomes.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments. A nil *Metrics records
// nothing.
type Metrics struct {
	searches      metric.Int64Counter
	searchResults metric.Int64Histogram
	importRows    metric.Int64Counter
	importErrors  metric.Int64Counter
	exportRows    metric.Int64Counter
}

// NewProvider configures and registers the OTLP meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New creates the domain instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "geodata"
	}
	meter := provider.Meter(name)

	searches, err := meter.Int64Counter("geodata_search_requests_total",
		metric.WithDescription("City searches by language and cache outcome."))
	if err != nil {
		return nil, err
	}
	searchResults, err := meter.Int64Histogram("geodata_search_results",
		metric.WithDescription("Cities returned per search."),
		metric.WithExplicitBucketBoundaries(0, 1, 5, 10, 20, 50))
	if err != nil {
		return nil, err
	}
	importRows, err := meter.Int64Counter("geodata_import_rows_total",
		metric.WithDescription("Imported rows by entity."))
	if err != nil {
		return nil, err
	}
	importErrors, err := meter.Int64Counter("geodata_import_rejections_total",
		metric.WithDescription("Rejected import files by entity."))
	if err != nil {
		return nil, err
	}
	exportRows, err := meter.Int64Counter("geodata_export_rows_total",
		metric.WithDescription("Exported rows by entity and format."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		searches:      searches,
		searchResults: searchResults,
		importRows:    importRows,
		importErrors:  importErrors,
		exportRows:    exportRows,
	}, nil
}

func (m *Metrics) RecordSearch(ctx context.Context, language, cacheOutcome string, results int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("language", strings.TrimSpace(language)),
		attribute.String("cache", cacheOutcome),
	)
	m.searches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.searchResults.Record(ctx, int64(results), metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordImport(ctx context.Context, entity string, rows int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("entity", entity))
	m.importRows.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordImportRejected(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("entity", entity))
	m.importErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordExport(ctx context.Context, entity, format string, rows int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("entity", entity),
		attribute.String("format", format),
	)
	m.exportRows.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"language": {},
	"cache":    {},
	"entity":   {},
	"format":   {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; ok {
			filtered = append(filtered, attr)
		}
	}
	return filtered
}
