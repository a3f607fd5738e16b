package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"videoDubber/api/middleware"
)

// NewRouter wires the upload, status and download routes behind trace,
// logging, recovery and CORS middleware.
func NewRouter(h *JobHandler, allowedOrigins []string, logger *zap.Logger) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	r.HandleFunc("/status/{id}", h.Status).Methods(http.MethodGet)
	r.HandleFunc("/download/{id}", h.Download).Methods(http.MethodGet)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	r.Use(middleware.TraceID, middleware.Logging(logger), middleware.Recovery(logger))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", middleware.TraceIDHeader},
		ExposedHeaders: []string{middleware.TraceIDHeader},
	})

	return c.Handler(r)
}
