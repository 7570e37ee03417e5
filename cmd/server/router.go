package main

import (
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/gorilla/mux"

	"github.com/mmynk/pokehouse/internal/catalog"
	"github.com/mmynk/pokehouse/internal/config"
	"github.com/mmynk/pokehouse/internal/metrics"
	"github.com/mmynk/pokehouse/internal/middleware"
	"github.com/mmynk/pokehouse/internal/order"
	"github.com/mmynk/pokehouse/internal/service"
	"github.com/mmynk/pokehouse/internal/storage"
	pb "github.com/mmynk/pokehouse/pkg/pokeapi"
)

type services struct {
	menu      *service.MenuService
	orders    *service.OrderService
	inventory *service.InventoryService
	reports   *service.ReportHandler
	limiter   *middleware.RateLimiter
}

func newServices(menu *catalog.Catalog, ledger *order.Ledger, store storage.Store, m *metrics.Metrics, loc *time.Location) *services {
	return &services{
		menu:      service.NewMenuService(menu),
		orders:    service.NewOrderService(menu, ledger, store, m, loc),
		inventory: service.NewInventoryService(ledger, m, loc),
		reports:   service.NewReportHandler(store, loc),
	}
}

// newRouter mounts the Connect services, the report download, health
// and metrics endpoints. Order placement is rate limited per customer when
// cfg.RateLimit is positive.
func newRouter(s *services, m *metrics.Metrics, cfg *config.Config) http.Handler {
	interceptors := connect.WithInterceptors(
		middleware.CustomerInterceptor(),
		middleware.LoggingInterceptor(),
	)

	r := mux.NewRouter()
	r.Use(middleware.HTTPMetrics(m))
	r.Use(middleware.RequestLogging)

	menuPath, menuHandler := pb.NewMenuServiceHandler(s.menu, interceptors)
	r.PathPrefix(menuPath).Handler(menuHandler)

	orderPath, orderHandler := pb.NewOrderServiceHandler(s.orders, interceptors)
	if cfg.RateLimit > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst, 10*time.Minute)
		orderHandler = s.limiter.Handler(orderHandler)
	}
	r.PathPrefix(orderPath).Handler(orderHandler)

	inventoryPath, inventoryHandler := pb.NewInventoryServiceHandler(s.inventory, interceptors)
	r.PathPrefix(inventoryPath).Handler(inventoryHandler)

	r.Handle("/reports/daily.xlsx", s.reports).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	return corsMiddleware(r)
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.CustomerHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
