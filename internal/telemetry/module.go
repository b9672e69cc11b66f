package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Module provides the tracer provider and flushes it on shutdown.
var Module = fx.Options(
	fx.Provide(
		NewTracerProvider,
		func(tp *sdktrace.TracerProvider) trace.TracerProvider { return tp },
	),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, tp *sdktrace.TracerProvider) {
	Install(tp)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})
}
