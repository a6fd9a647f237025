package rest

import (
	"chatlens/internal/chart"
	"chatlens/internal/service"
	"chatlens/internal/transport/rest/handler"
	"chatlens/internal/transport/rest/middleware"
	"chatlens/internal/transport/ws"
	"chatlens/internal/view"
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	SessionService *service.SessionService
	UploadService  *service.UploadService
	Renderer       *view.Renderer
	Projector      *chart.Projector
	RateLimiter    *middleware.RateLimiter
	WSHub          *ws.Hub

	MaxUploadBytes int64
	SecureCookie   bool
	AllowedOrigins string
}

// NewRouter creates the router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	pageHandler := handler.NewPageHandler(c.UploadService, c.Renderer, c.Projector, c.MaxUploadBytes)
	exportHandler := handler.NewExportHandler(c.UploadService)
	resultHandler := handler.NewResultHandler(c.UploadService)
	wsHandler := ws.NewHandler(c.WSHub)

	sessionMW := middleware.NewSessionMiddleware(c.SessionService, c.SecureCookie)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Everything else belongs to a viewing session
	app := r.NewRoute().Subrouter()
	app.Use(corsMiddleware(c.AllowedOrigins))
	app.Use(sessionMW.Attach)
	app.Use(middleware.RequestLogger)

	app.HandleFunc("/", pageHandler.Index).Methods("GET")
	var analyze http.Handler = http.HandlerFunc(pageHandler.Analyze)
	if c.RateLimiter != nil {
		analyze = c.RateLimiter.Limit(analyze)
	}
	app.Handle("/analyze", analyze).Methods("POST", "OPTIONS")
	app.HandleFunc("/export/json", exportHandler.JSON).Methods("GET")
	app.HandleFunc("/export/csv", exportHandler.CSV).Methods("GET")

	v1 := app.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/results/latest", resultHandler.Latest).Methods("GET", "OPTIONS")
	v1.HandleFunc("/uploads", resultHandler.Uploads).Methods("GET", "OPTIONS")
	v1.HandleFunc("/ws/status", wsHandler.ServeStatus).Methods("GET")

	return r
}

func corsMiddleware(origins string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowedOrigins := origins
			if allowedOrigins == "" {
				allowedOrigins = "*"
			}

			allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
			if allowedMethods == "" {
				allowedMethods = "GET, POST, OPTIONS"
			}

			allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
			if allowedHeaders == "" {
				allowedHeaders = "Content-Type, Accept"
			}

			w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
