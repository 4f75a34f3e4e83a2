// Package integration provides shared helpers for cross-layer tests
// exercising the HTTP API over a real SQLite store.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mesh-intelligence/taskbase/internal/server"
	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/internal/sqlite"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// setupAPI starts an in-process HTTP server over an isolated temp
// database. Each test gets its own instance.
func setupAPI(t *testing.T) *httptest.Server {
	t.Helper()
	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{Backend: "sqlite", DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	t.Cleanup(func() { store.Detach() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store, logger)
	srv := httptest.NewServer(server.New(types.ServerConfig{}, svc, logger, "test").Handler())
	t.Cleanup(srv.Close)
	return srv
}

// call issues an HTTP request with a JSON body against the test server
// and decodes the response envelope.
func call(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

// mustCreateTask creates a task through the API and returns its id and
// version token.
func mustCreateTask(t *testing.T, srv *httptest.Server, body map[string]any) (string, int64) {
	t.Helper()
	code, out := call(t, srv, http.MethodPost, "/v1/task", body)
	if code != http.StatusOK {
		t.Fatalf("create task: status %d, error %v", code, out["error"])
	}
	result := out["result"].(map[string]any)
	return result["id"].(string), int64(result["updated_at"].(float64))
}

// mustAck acknowledges a notification through the API.
func mustAck(t *testing.T, srv *httptest.Server, recipient, taskID, sender string, status int) bool {
	t.Helper()
	code, out := call(t, srv, http.MethodPatch, "/v1/task/ack", map[string]any{
		"uid":    recipient,
		"tid":    taskID,
		"sender": sender,
		"status": status,
	})
	if code != http.StatusOK {
		t.Fatalf("ack: status %d, error %v", code, out["error"])
	}
	return out["result"].(bool)
}

// taskStatus reads a task's aggregate status through the API.
func taskStatus(t *testing.T, srv *httptest.Server, owner, taskID string) int {
	t.Helper()
	code, out := call(t, srv, http.MethodGet, "/v1/task?uid="+owner+"&id="+taskID, nil)
	if code != http.StatusOK {
		t.Fatalf("get task: status %d, error %v", code, out["error"])
	}
	return int(out["result"].(map[string]any)["status"].(float64))
}
