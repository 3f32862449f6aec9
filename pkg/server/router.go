package server

import (
	"net/http"
	"sort"
	"time"

	kserrors "github.com/kubescenarios/kubescenarios/pkg/errors"
	"github.com/kubescenarios/kubescenarios/pkg/serializer"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// Registered handlers with middleware
	for path, handler := range s.config.Handlers {
		mux.HandleFunc(path, s.withMiddleware(handler))
	}

	return mux
}

// defaultRootHandler returns the handler installed at "/" when the caller
// did not register one. It lists the routes the server exposes.
func (s *Server) defaultRootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			WriteError(w, r, http.StatusMethodNotAllowed, kserrors.ErrCodeMethodNotAllowed,
				"Method not allowed", false, map[string]any{
					"method": r.Method,
				})
			return
		}

		routes := make([]string, 0, len(s.config.Handlers)+3)
		for path := range s.config.Handlers {
			if path == "/" {
				continue
			}
			routes = append(routes, path)
		}
		routes = append(routes, "/health", "/ready", "/metrics")
		sort.Strings(routes)

		resp := struct {
			Name      string   `json:"name"`
			Version   string   `json:"version"`
			Ready     bool     `json:"ready"`
			Timestamp string   `json:"timestamp"`
			Routes    []string `json:"routes"`
		}{
			Name:      s.config.Name,
			Version:   s.config.Version,
			Ready:     s.isReady(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Routes:    routes,
		}

		serializer.RespondJSON(w, http.StatusOK, resp)
	}
}
