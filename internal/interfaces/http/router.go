package http

import (
	"io/fs"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dreschagin/chaos-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/chaos-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/chaos-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/chaos-dashboard/pkg/logger"
)

// Router настраивает маршруты приложения
type Router struct {
	mux                  *http.ServeMux
	dashboardHandler     *handler.DashboardHandler
	websocketHandler     *handler.WebSocketHandler
	simulationAPIHandler *handler.SimulationAPIHandler
	triggerLimiter       *middleware.IPRateLimiter
	httpMetrics          *metrics.Metrics
	gatherer             prometheus.Gatherer
	logger               *logger.Logger
}

// NewRouter создает новый router.
// httpMetrics и gatherer могут быть nil: тогда /metrics не публикуется.
func NewRouter(
	dashboardHandler *handler.DashboardHandler,
	websocketHandler *handler.WebSocketHandler,
	simulationAPIHandler *handler.SimulationAPIHandler,
	triggerLimiter *middleware.IPRateLimiter,
	httpMetrics *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:                  http.NewServeMux(),
		dashboardHandler:     dashboardHandler,
		websocketHandler:     websocketHandler,
		simulationAPIHandler: simulationAPIHandler,
		triggerLimiter:       triggerLimiter,
		httpMetrics:          httpMetrics,
		gatherer:             gatherer,
		logger:               logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Static assets are embedded into the binary.
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	rt.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	rateLimit := middleware.RateLimit(rt.triggerLimiter)

	// Pages
	rt.mux.HandleFunc("GET /{$}", rt.dashboardHandler.ShowOverview)
	rt.mux.HandleFunc("GET /logs", rt.dashboardHandler.ShowLogs)
	rt.mux.HandleFunc("GET /charts", rt.dashboardHandler.ShowCharts)
	rt.mux.Handle("POST /charts/trigger", rateLimit(http.HandlerFunc(rt.dashboardHandler.TriggerFromForm)))

	// WebSocket
	rt.mux.HandleFunc("GET /ws", rt.websocketHandler.HandleConnection)

	// API endpoints
	rt.mux.HandleFunc("GET /api/v1/state", rt.simulationAPIHandler.GetState)
	rt.mux.HandleFunc("GET /api/v1/events", rt.simulationAPIHandler.GetEvents)
	rt.mux.Handle("POST /api/v1/simulation/trigger", rateLimit(http.HandlerFunc(rt.simulationAPIHandler.TriggerSimulation)))

	// promhttp сжимает ответ сам, поэтому /metrics обходит Compression
	root := http.NewServeMux()
	root.Handle("/", middleware.Compression(rt.mux))
	if rt.gatherer != nil {
		root.Handle("GET /metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))
	}

	// Применяем middleware
	var handler http.Handler = root
	if rt.httpMetrics != nil {
		handler = rt.httpMetrics.Middleware(handler)
	}
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
