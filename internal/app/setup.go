// Package app contains the application setup for the catalog service.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/catalog/internal/cache"
	"github.com/abgdnv/catalog/internal/config"
	"github.com/abgdnv/catalog/internal/filestore"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/internal/transport/rest"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/abgdnv/catalog/pkg/server"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const serviceName = "catalog"

type Dependencies struct {
	CatalogService service.CatalogService
	Logger         *slog.Logger
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// Collaborators are the external systems the catalog service talks to.
type Collaborators struct {
	Store     store.Store
	Files     filestore.FileStore
	Publisher messaging.Publisher
	Cache     cache.Client
	CacheTTL  time.Duration
}

func SetupDependencies(c Collaborators, metricsHandler http.Handler, logger *slog.Logger) *Dependencies {
	var opts []service.Option
	if c.Cache != nil {
		opts = append(opts, service.WithCache(c.Cache, c.CacheTTL))
	}
	publisher := c.Publisher
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	svc := service.NewService(c.Store, c.Files, publisher, logger, opts...)

	return &Dependencies{
		CatalogService: svc,
		Logger:         logger,
		MetricsHandler: metricsHandler,
	}
}

// SetupHttpHandler initializes the routes and middleware of the catalog HTTP API.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return otelhttp.NewHandler(mux, serviceName,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/healthz" && r.URL.Path != "/metrics"
		}),
	)
}

// wireRoutes sets up the HTTP routes of the catalog service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	catalogHandler := rest.NewHandler(deps.CatalogService, deps.Logger)
	catalogHandler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the catalog service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	return server.NewHTTPServer(cfg.HTTPServer, SetupHttpHandler(deps))
}

// SetupGrpcServer initializes the gRPC server. It only carries the health and reflection services.
func SetupGrpcServer(reflectionEnabled bool) (*grpc.Server, *health.Server) {
	return server.NewGRPCServer(reflectionEnabled)
}
