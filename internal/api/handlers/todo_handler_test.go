package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/imruiz/gotodo-be/internal/auth"
	"github.com/imruiz/gotodo-be/internal/models"
	"github.com/imruiz/gotodo-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTodoService implements services.TodoServiceProvider for testing.
type fakeTodoService struct {
	todo models.Todo
	list []models.Todo
	err  error

	gotCreator string
	gotID      string
}

func (f *fakeTodoService) Create(ctx context.Context, creatorID, text string, completed bool) (models.Todo, error) {
	f.gotCreator = creatorID
	return f.todo, f.err
}

func (f *fakeTodoService) ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error) {
	f.gotCreator = creatorID
	return f.list, f.err
}

func (f *fakeTodoService) GetForCreator(ctx context.Context, id, creatorID string) (models.Todo, error) {
	f.gotID, f.gotCreator = id, creatorID
	return f.todo, f.err
}

func (f *fakeTodoService) Update(ctx context.Context, id, creatorID string, upd services.TodoUpdate) (models.Todo, error) {
	f.gotID, f.gotCreator = id, creatorID
	return f.todo, f.err
}

func (f *fakeTodoService) Delete(ctx context.Context, id, creatorID string) (models.Todo, error) {
	f.gotID, f.gotCreator = id, creatorID
	return f.todo, f.err
}

func authedRequest(method, target string, body []byte, userID string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := auth.WithUser(req.Context(), models.User{ID: userID, Email: "a@x.com"})
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestTodoHandler_ListScopesToCaller(t *testing.T) {
	svc := &fakeTodoService{list: []models.Todo{{ID: "todo-1", Text: "buy milk", Creator: "user-a"}}}
	h := NewTodoHandler(svc)

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest("GET", "/todos", nil, "user-a"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-a", svc.gotCreator)

	var body struct {
		Todos []models.Todo `json:"todos"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Todos, 1)
	assert.Equal(t, "todo-1", body.Todos[0].ID)
}

func TestTodoHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeTodoService
		expectedCode int
	}{
		{
			name:         "invalid JSON",
			body:         `not a json`,
			service:      &fakeTodoService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "empty text",
			body:         `{"text":""}`,
			service:      &fakeTodoService{err: services.ErrEmptyText},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "success",
			body:         `{"text":"buy milk"}`,
			service:      &fakeTodoService{todo: models.Todo{ID: "todo-1", Text: "buy milk", Creator: "user-a"}},
			expectedCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := authedRequest("POST", "/todos", []byte(tt.body), "user-a")
			NewTodoHandler(tt.service).Create(rec, req)

			require.Equal(t, tt.expectedCode, rec.Code)
			if tt.expectedCode == http.StatusOK {
				var body models.Todo
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "todo-1", body.ID)
				assert.Equal(t, "user-a", tt.service.gotCreator)
			}
		})
	}
}

func TestTodoHandler_GetMapsForeignToNotFound(t *testing.T) {
	svc := &fakeTodoService{err: services.ErrNotFound}
	h := NewTodoHandler(svc)

	rec := httptest.NewRecorder()
	req := withURLParam(authedRequest("GET", "/todos/todo-2", nil, "user-a"), "id", "todo-2")
	h.Get(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "todo-2", svc.gotID)
	assert.Equal(t, "user-a", svc.gotCreator)
	// Never a 403: foreign records must look missing, not forbidden.
	assert.NotContains(t, rec.Body.String(), "forbidden")
}

func TestTodoHandler_UpdateAndDelete(t *testing.T) {
	todo := models.Todo{ID: "todo-1", Text: "renamed", Completed: true, Creator: "user-a"}

	svc := &fakeTodoService{todo: todo}
	h := NewTodoHandler(svc)

	rec := httptest.NewRecorder()
	req := withURLParam(authedRequest("PATCH", "/todos/todo-1", []byte(`{"text":"renamed","completed":true}`), "user-a"), "id", "todo-1")
	h.Update(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var patched struct {
		Todo models.Todo `json:"todo"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&patched))
	assert.Equal(t, "renamed", patched.Todo.Text)

	rec = httptest.NewRecorder()
	req = withURLParam(authedRequest("DELETE", "/todos/todo-1", nil, "user-a"), "id", "todo-1")
	h.Delete(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var deleted struct {
		Todo models.Todo `json:"todo"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&deleted))
	assert.Equal(t, "todo-1", deleted.Todo.ID)
}
