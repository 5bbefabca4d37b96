package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	traceexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	"go.opentelemetry.io/contrib/detectors/gcp"
	"go.opentelemetry.io/contrib/propagators/autoprop"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"

	"moviefinder/internal/config"
	"moviefinder/internal/logging"
)

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs global OpenTelemetry tracer and meter providers. When
// telemetry is disabled the globals are left as no-ops. Cloud Trace and
// Cloud Monitoring exporters are attached only when a project id is set.
func Setup(ctx context.Context, cfg config.Telemetry, logger *slog.Logger) (ShutdownFunc, error) {
	logger = logging.NewComponentLogger(logger, "telemetry")
	otel.SetTextMapPropagator(autoprop.NewTextMapPropagator())

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var err error
		for i := len(shutdownFuncs) - 1; i >= 0; i-- {
			err = errors.Join(err, shutdownFuncs[i](ctx))
		}
		shutdownFuncs = nil
		return err
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "moviefinder"
	}
	projectID := strings.TrimSpace(cfg.ProjectID)

	resourceOpts := []resource.Option{
		resource.WithTelemetrySDK(),
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)),
	}
	if projectID != "" {
		resourceOpts = append(resourceOpts, resource.WithDetectors(gcp.NewDetector()))
	}
	res, err := resource.New(ctx, resourceOpts...)
	if errors.Is(err, resource.ErrPartialResource) || errors.Is(err, resource.ErrSchemaURLConflict) {
		logger.Warn("partial resource detection", logging.Error(err))
	} else if err != nil {
		return nil, fmt.Errorf("build telemetry resource: %w", err)
	}

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if projectID != "" {
		spanExporter, err := traceexporter.New(traceexporter.WithProjectID(projectID))
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))

		metricExporter, err := mexporter.New(mexporter.WithProjectID(projectID))
		if err != nil {
			return nil, fmt.Errorf("create metric exporter: %w", err)
		}
		metricOpts = append(metricOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)))
	}

	tp := sdktrace.NewTracerProvider(traceOpts...)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	otel.SetTracerProvider(tp)

	mp := sdkmetric.NewMeterProvider(metricOpts...)
	shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	otel.SetMeterProvider(mp)

	logger.Info("telemetry enabled",
		logging.String("service", serviceName),
		logging.Bool("export", projectID != ""),
		logging.String("project_id", projectID),
	)
	return shutdown, nil
}
