package api

import (
	"net/http"
	"testing"
)

// Test Coverage Note:
// The Serve() function is a blocking composition root: it initializes
// logging, loads the catalog, configures routes, and runs the HTTP server
// until shutdown. Direct unit testing is impractical, so these tests verify
// the pieces Serve() assembles: package constants, build variables, and the
// route table shape. Handler behavior is covered in handler_test.go and
// quiz_test.go; full-stack behavior belongs to end-to-end suites.

// TestConstants verifies package constants are properly defined
func TestConstants(t *testing.T) {
	if name != "scend" {
		t.Errorf("name = %q, want %q", name, "scend")
	}

	if versionDefault != "dev" {
		t.Errorf("versionDefault = %q, want %q", versionDefault, "dev")
	}

	if dataDirEnvVar != "SCENARIOS_DATA_DIR" {
		t.Errorf("dataDirEnvVar = %q, want %q", dataDirEnvVar, "SCENARIOS_DATA_DIR")
	}

	// Verify buildtime variables exist (they may have default values)
	if version == "" {
		t.Error("version should not be empty")
	}
	if commit == "" {
		t.Error("commit should not be empty")
	}
	if date == "" {
		t.Error("date should not be empty")
	}
}

// TestRouteConfiguration verifies that the correct routes are set up
func TestRouteConfiguration(t *testing.T) {
	h := NewHandler(WithVersion("test-version"))
	sessions := NewQuizSessions(h)

	routes := map[string]http.HandlerFunc{
		"/v1/scenarios":  h.HandleScenarios,
		"/v1/scenarios/": h.HandleScenario,
		"/v1/search":     h.HandleSearch,
		"/v1/lint":       h.HandleLint,
		"/v1/quizzes":    sessions.HandleQuizzes,
		"/v1/quizzes/":   sessions.HandleQuizGrade,
	}

	expected := []string{
		"/v1/scenarios",
		"/v1/scenarios/",
		"/v1/search",
		"/v1/lint",
		"/v1/quizzes",
		"/v1/quizzes/",
	}

	for _, path := range expected {
		handler, exists := routes[path]
		if !exists {
			t.Errorf("expected %s route to exist", path)
			continue
		}
		if handler == nil {
			t.Errorf("expected %s handler to be non-nil", path)
		}
	}

	if len(routes) != len(expected) {
		t.Errorf("expected exactly %d routes, got %d", len(expected), len(routes))
	}
}
