package tracing

import (
	"fmt"

	"contrib.go.opencensus.io/integrations/ocsql"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/trace"

	"github.com/signalkit/signalkit/config"
)

// InitTracing configures the opencensus sampler and registers the database
// instrumentation views. Exporter fan-out is intentionally not configured
// here; spans stay in-process unless an operator wires an exporter.
func InitTracing(cfg *config.TracingConfig) error {
	if !cfg.Enabled {
		return nil
	}

	trace.ApplyConfig(trace.Config{
		DefaultSampler: trace.ProbabilitySampler(cfg.SamplingProbability),
	})

	if err := view.Register(ocsql.DefaultViews...); err != nil {
		return fmt.Errorf("failed to register ocsql views: %w", err)
	}

	return nil
}

// RegisterPostgresDriver wraps lib/pq with ocsql instrumentation and returns
// the driver name to pass to sql.Open. Call once at startup.
func RegisterPostgresDriver() (string, error) {
	driverName, err := ocsql.Register(
		"postgres",
		ocsql.WithQuery(true),
		ocsql.WithRowsAffected(true),
	)
	if err != nil {
		return "", fmt.Errorf("failed to register traced postgres driver: %w", err)
	}
	return driverName, nil
}
