package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the metrics registry and HTTP collectors.
var Module = fx.Provide(
	fx.Annotate(
		NewRegistry,
		fx.As(new(prometheus.Registerer)),
		fx.As(new(prometheus.Gatherer)),
	),
	NewServerMetrics,
)
