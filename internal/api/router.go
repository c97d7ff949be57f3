package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"bullscows/internal/api/handler"
	"bullscows/internal/middleware"
	"bullscows/internal/services/registry"
	"bullscows/internal/transport/ws"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *registry.Controller
	Hub      *ws.Hub
}

// NewRouter creates the router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Registry)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Game channel
	r.HandleFunc("/ws", cfg.Hub.ServeWS).Methods(http.MethodGet)

	// Read-only API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
