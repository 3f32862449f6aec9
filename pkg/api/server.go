package api

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/kubescenarios/kubescenarios/pkg/catalog"
	"github.com/kubescenarios/kubescenarios/pkg/defaults"
	"github.com/kubescenarios/kubescenarios/pkg/logging"
	"github.com/kubescenarios/kubescenarios/pkg/server"
)

const (
	name           = "scend"
	versionDefault = "dev"

	// dataDirEnvVar names an external scenario directory layered over the
	// embedded catalog. When set, the directory is watched for changes.
	dataDirEnvVar = "SCENARIOS_DATA_DIR"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/kubescenarios/kubescenarios/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// It configures logging, loads the catalog (layering SCENARIOS_DATA_DIR
// over the embedded data when set), sets up routes, and handles graceful
// shutdown. Returns an error if the server fails to start or encounters a
// fatal error.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	opts := []HandlerOption{WithVersion(version)}

	dataDir := os.Getenv(dataDirEnvVar)
	if dataDir != "" {
		provider, err := catalog.NewDefaultLayeredProvider(dataDir)
		if err != nil {
			slog.Error("failed to layer external data directory", "dir", dataDir, "error", err)
			return err
		}
		opts = append(opts, WithProvider(provider))
	}

	h := NewHandler(opts...)

	loadCtx, cancel := context.WithTimeout(ctx, defaults.CatalogLoadTimeout)
	err := h.Load(loadCtx)
	cancel()
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		return err
	}

	if dataDir != "" {
		if err := watchCatalog(ctx, h, dataDir); err != nil {
			slog.Error("failed to watch data directory", "dir", dataDir, "error", err)
			return err
		}
	}

	// Setup scenario and quiz handlers
	sessions := NewQuizSessions(h)

	r := map[string]http.HandlerFunc{
		"/v1/scenarios":  h.HandleScenarios,
		"/v1/scenarios/": h.HandleScenario,
		"/v1/search":     h.HandleSearch,
		"/v1/lint":       h.HandleLint,
		"/v1/quizzes":    sessions.HandleQuizzes,
		"/v1/quizzes/":   sessions.HandleQuizGrade,
	}

	// Create and run server
	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(r),
	)

	// No-op outside systemd Type=notify units.
	if ok, notifyErr := daemon.SdNotify(false, daemon.SdNotifyReady); notifyErr != nil {
		slog.Warn("systemd readiness notification failed", "error", notifyErr)
	} else if ok {
		slog.Debug("systemd notified", "state", "ready")
	}

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
