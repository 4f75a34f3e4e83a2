// HTTP API tests exercising the route tree end to end over a real store.
package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskbase/internal/service"
	"github.com/mesh-intelligence/taskbase/internal/sqlite"
	"github.com/mesh-intelligence/taskbase/pkg/types"
)

// setupServer builds the full handler stack over a throwaway database.
func setupServer(t *testing.T) http.Handler {
	t.Helper()
	store := sqlite.NewBackend()
	require.NoError(t, store.Attach(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}))
	t.Cleanup(func() { store.Detach() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store, logger)
	return New(types.ServerConfig{}, svc, logger, "test").Handler()
}

// doJSON issues a request with a JSON body and decodes the envelope.
func doJSON(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return rec.Code, out
}

func TestServer_VersionAndHealth(t *testing.T) {
	h := setupServer(t)

	code, out := doJSON(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, code)
	result := out["result"].(map[string]any)
	assert.Equal(t, "taskbased", result["name"])
	assert.Equal(t, "test", result["version"])

	code, out = doJSON(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["result"])
}

func TestServer_CreateTask(t *testing.T) {
	h := setupServer(t)

	code, out := doJSON(t, h, http.MethodPost, "/v1/task", map[string]any{
		"uid":       "alice",
		"gid":       "grp-1",
		"kind":      "deploy",
		"threshold": 2,
		"assignees": []string{"bob", "carol"},
		"message":   "please review",
	})
	require.Equal(t, http.StatusOK, code)

	result := out["result"].(map[string]any)
	assert.Equal(t, "alice", result["uid"])
	assert.NotEmpty(t, result["id"])
	assert.Equal(t, float64(0), result["status"])
	assert.Equal(t, "please review", result["message"])
	assert.NotZero(t, result["updated_at"])
}

func TestServer_CreateTask_Validation(t *testing.T) {
	h := setupServer(t)

	t.Run("missing uid", func(t *testing.T) {
		code, out := doJSON(t, h, http.MethodPost, "/v1/task", map[string]any{"kind": "x"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Contains(t, out["error"], "uid")
	})

	t.Run("group role out of range", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/v1/task", map[string]any{
			"uid":        "alice",
			"group_role": 5,
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/task", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// createTaskHTTP creates a task through the API and returns its id and
// version token.
func createTaskHTTP(t *testing.T, h http.Handler, body map[string]any) (string, int64) {
	t.Helper()
	code, out := doJSON(t, h, http.MethodPost, "/v1/task", body)
	require.Equal(t, http.StatusOK, code, "create task: %v", out["error"])
	result := out["result"].(map[string]any)
	return result["id"].(string), int64(result["updated_at"].(float64))
}

func TestServer_GetTask(t *testing.T) {
	h := setupServer(t)
	id, _ := createTaskHTTP(t, h, map[string]any{"uid": "alice", "kind": "deploy", "message": "hello"})

	t.Run("full read", func(t *testing.T) {
		code, out := doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id, nil)
		require.Equal(t, http.StatusOK, code)
		result := out["result"].(map[string]any)
		assert.Equal(t, "deploy", result["kind"])
		assert.Equal(t, "hello", result["message"])
	})

	t.Run("projection drops unselected fields", func(t *testing.T) {
		code, out := doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id+"&fields=message", nil)
		require.Equal(t, http.StatusOK, code)
		result := out["result"].(map[string]any)
		assert.Equal(t, "hello", result["message"])
		_, hasUpdated := result["updated_at"]
		assert.False(t, hasUpdated)
	})

	t.Run("unknown field", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id+"&fields=bogus", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("missing task", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+types.NewID(), nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("missing params", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodGet, "/v1/task?uid=alice", nil)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestServer_UpdateTask(t *testing.T) {
	h := setupServer(t)
	id, token := createTaskHTTP(t, h, map[string]any{"uid": "alice"})

	t.Run("stale token conflicts", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPatch, "/v1/task", map[string]any{
			"uid":        "alice",
			"id":         id,
			"updated_at": token - 1,
			"message":    "stale",
		})
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("fresh token applies and rotates", func(t *testing.T) {
		code, out := doJSON(t, h, http.MethodPatch, "/v1/task", map[string]any{
			"uid":        "alice",
			"id":         id,
			"updated_at": token,
			"message":    "edited",
			"duedate":    1700000000000,
		})
		require.Equal(t, http.StatusOK, code)
		newTok := int64(out["result"].(map[string]any)["updated_at"].(float64))
		assert.GreaterOrEqual(t, newTok, token)

		_, out = doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id, nil)
		result := out["result"].(map[string]any)
		assert.Equal(t, "edited", result["message"])
		assert.Equal(t, float64(1700000000000), result["duedate"])
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPatch, "/v1/task", map[string]any{
			"uid":        "alice",
			"id":         id,
			"updated_at": token,
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPatch, "/v1/task", map[string]any{
			"uid":        "alice",
			"id":         id,
			"updated_at": token,
			"kind":       "hijacked",
		})
		assert.Equal(t, http.StatusBadRequest, code)

		_, out := doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id, nil)
		result := out["result"].(map[string]any)
		assert.NotEqual(t, "hijacked", result["kind"])
	})
}

func TestServer_UpdateAssignees(t *testing.T) {
	h := setupServer(t)
	id, token := createTaskHTTP(t, h, map[string]any{
		"uid":       "alice",
		"assignees": []string{"bob"},
	})

	code, out := doJSON(t, h, http.MethodPatch, "/v1/task/assignees", map[string]any{
		"uid":        "alice",
		"id":         id,
		"updated_at": token,
		"remove":     []string{"bob"},
		"add":        []string{"carol", "dave"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.NotZero(t, out["result"].(map[string]any)["updated_at"])

	_, out = doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id+"&fields=assignees", nil)
	result := out["result"].(map[string]any)
	assert.ElementsMatch(t, []any{"carol", "dave"}, result["assignees"])
}

func TestServer_AckLifecycle(t *testing.T) {
	h := setupServer(t)
	id, _ := createTaskHTTP(t, h, map[string]any{
		"uid":       "alice",
		"threshold": 2,
		"assignees": []string{"bob", "carol"},
	})

	ack := func(recipient string, status int) (int, map[string]any) {
		return doJSON(t, h, http.MethodPatch, "/v1/task/ack", map[string]any{
			"uid":    recipient,
			"tid":    id,
			"sender": "alice",
			"status": status,
		})
	}

	code, out := ack("bob", 1)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["result"])

	// First vote alone must not flip the task.
	_, out = doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id, nil)
	assert.Equal(t, float64(0), out["result"].(map[string]any)["status"])

	// Repeat ack is a no-op.
	code, out = ack("bob", 1)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["result"])

	// Second voter crosses the threshold.
	code, _ = ack("carol", 1)
	require.Equal(t, http.StatusOK, code)

	_, out = doJSON(t, h, http.MethodGet, "/v1/task?uid=alice&id="+id, nil)
	assert.Equal(t, float64(1), out["result"].(map[string]any)["status"])

	t.Run("invalid ack status", func(t *testing.T) {
		code, _ := ack("bob", 0)
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("unknown notification", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPatch, "/v1/task/ack", map[string]any{
			"uid":    "mallory",
			"tid":    id,
			"sender": "alice",
			"status": 1,
		})
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestServer_ListTasks(t *testing.T) {
	h := setupServer(t)
	for i := 0; i < 3; i++ {
		createTaskHTTP(t, h, map[string]any{"uid": "alice", "kind": fmt.Sprintf("k%d", i)})
	}

	code, out := doJSON(t, h, http.MethodPost, "/v1/task/list", map[string]any{
		"uid":       "alice",
		"page_size": 2,
	})
	require.Equal(t, http.StatusOK, code)
	page1 := out["result"].([]any)
	assert.Len(t, page1, 2)
	next := out["next_page_token"].(string)
	require.NotEmpty(t, next)

	code, out = doJSON(t, h, http.MethodPost, "/v1/task/list", map[string]any{
		"uid":        "alice",
		"page_size":  2,
		"page_token": next,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["result"].([]any), 1)
	_, hasNext := out["next_page_token"]
	assert.False(t, hasNext)

	t.Run("bad page token", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/v1/task/list", map[string]any{
			"uid":        "alice",
			"page_token": "@@@",
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("bad status filter", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/v1/task/list", map[string]any{
			"uid":    "alice",
			"status": 5,
		})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestServer_DeleteTask(t *testing.T) {
	h := setupServer(t)
	id, _ := createTaskHTTP(t, h, map[string]any{"uid": "alice", "assignees": []string{"bob"}})

	code, out := doJSON(t, h, http.MethodPost, "/v1/task/delete", map[string]any{
		"uid": "alice", "id": id,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["result"])

	// The fan-out row went with it.
	code, out = doJSON(t, h, http.MethodPost, "/v1/notification/list", map[string]any{"uid": "bob"})
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, out["result"])

	// Deleting again reports it gone.
	code, out = doJSON(t, h, http.MethodPost, "/v1/task/delete", map[string]any{
		"uid": "alice", "id": id,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, out["result"])
}

func TestServer_Notifications(t *testing.T) {
	h := setupServer(t)
	id, _ := createTaskHTTP(t, h, map[string]any{
		"uid":       "alice",
		"gid":       "grp-1",
		"kind":      "deploy",
		"threshold": 5,
		"assignees": []string{"bob"},
	})

	t.Run("list joins the task", func(t *testing.T) {
		code, out := doJSON(t, h, http.MethodPost, "/v1/notification/list", map[string]any{"uid": "bob"})
		require.Equal(t, http.StatusOK, code)
		rows := out["result"].([]any)
		require.Len(t, rows, 1)
		row := rows[0].(map[string]any)
		assert.Equal(t, "alice", row["sender"])
		assert.Equal(t, id, row["tid"])
		assert.Equal(t, "deploy", row["kind"])
		assert.Equal(t, float64(0), row["ack_status"])
	})

	t.Run("single delete", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/v1/notification/delete", map[string]any{
			"uid": "bob", "tid": id, "sender": "alice",
		})
		require.Equal(t, http.StatusOK, code)

		code, out := doJSON(t, h, http.MethodPost, "/v1/notification/list", map[string]any{"uid": "bob"})
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, out["result"])
	})

	t.Run("delete without identity", func(t *testing.T) {
		code, _ := doJSON(t, h, http.MethodPost, "/v1/notification/delete", map[string]any{"uid": "bob"})
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestServer_BatchDeleteNotifications(t *testing.T) {
	h := setupServer(t)
	id1, _ := createTaskHTTP(t, h, map[string]any{"uid": "alice", "threshold": 5, "assignees": []string{"bob"}})
	createTaskHTTP(t, h, map[string]any{"uid": "alice", "threshold": 5, "assignees": []string{"bob"}})

	// Ack one so the status filter has something to match.
	code, _ := doJSON(t, h, http.MethodPatch, "/v1/task/ack", map[string]any{
		"uid": "bob", "tid": id1, "sender": "alice", "status": 1,
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, h, http.MethodPost, "/v1/notification/batch_delete", map[string]any{
		"uid": "bob", "status": 1,
	})
	require.Equal(t, http.StatusOK, code)

	code, out := doJSON(t, h, http.MethodPost, "/v1/notification/list", map[string]any{"uid": "bob"})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["result"].([]any), 1)

	code, _ = doJSON(t, h, http.MethodPost, "/v1/notification/batch_delete", map[string]any{"uid": "bob"})
	require.Equal(t, http.StatusOK, code)

	code, out = doJSON(t, h, http.MethodPost, "/v1/notification/list", map[string]any{"uid": "bob"})
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, out["result"])
}

func TestServer_GroupNotifications(t *testing.T) {
	h := setupServer(t)
	id, _ := createTaskHTTP(t, h, map[string]any{
		"uid":        "alice",
		"gid":        "grp-1",
		"group_role": 2,
	})

	code, out := doJSON(t, h, http.MethodPost, "/v1/group_notification/list", map[string]any{
		"gid": "grp-1",
	})
	require.Equal(t, http.StatusOK, code)
	rows := out["result"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, id, row["tid"])
	assert.Equal(t, "alice", row["sender"])
	assert.Equal(t, float64(2), row["role"])

	t.Run("role filter", func(t *testing.T) {
		code, out := doJSON(t, h, http.MethodPost, "/v1/group_notification/list", map[string]any{
			"gid": "grp-1", "role": 0,
		})
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, out["result"])
	})
}
