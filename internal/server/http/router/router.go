package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/polkiloo/detta3d-orders/internal/config"
	"github.com/polkiloo/detta3d-orders/internal/metrics"
	"github.com/polkiloo/detta3d-orders/internal/server/http/handlers"
	"github.com/polkiloo/detta3d-orders/internal/server/http/middleware"
)

const metricsPath = "/metrics"

// Params collects router dependencies.
type Params struct {
	fx.In

	Facade         handlers.OrdersFacade
	Logger         *slog.Logger
	Config         *config.Config
	Metrics        *metrics.ServerMetrics
	Gatherer       prometheus.Gatherer
	TracerProvider trace.TracerProvider
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.RedirectTrailingSlash = false

	engine.Use(middleware.Recovery(p.Logger))
	engine.Use(middleware.RequestID())
	engine.Use(otelgin.Middleware(p.Config.ServiceName,
		otelgin.WithTracerProvider(p.TracerProvider),
		otelgin.WithFilter(func(r *http.Request) bool { return r.URL.Path != metricsPath }),
	))
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(p.Metrics.Middleware())
	engine.Use(middleware.CORS(p.Config.CORSAllowedOrigins))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{metricsPath})))

	orderHandler := handlers.NewOrderHandler(p.Facade, p.Logger)
	healthHandler := handlers.NewHealthHandler(p.Facade, p.Logger)

	engine.GET("/", healthHandler.Root)
	engine.GET("/healthz", healthHandler.Healthz)
	engine.GET(metricsPath, gin.WrapH(metrics.Handler(p.Gatherer)))

	orders := engine.Group("/orders")
	for _, root := range []string{"", "/"} {
		orders.POST(root, orderHandler.Create)
		orders.GET(root, orderHandler.List)
	}
	orders.GET("/completed", orderHandler.Completed)
	orders.GET("/completed/", orderHandler.Completed)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id", orderHandler.Update)

	return engine
}
