package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/imruiz/gotodo-be/internal/auth"
	"github.com/imruiz/gotodo-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TodoHandler handles HTTP requests for todo records. Every operation is
// scoped to the authenticated user; a record owned by someone else is
// answered exactly like a missing one.
type TodoHandler struct {
	todos services.TodoServiceProvider
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos services.TodoServiceProvider) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// CreateTodoPayload defines the structure for todo creation. There is
// deliberately no creator field; the creator is always the authenticated
// user.
type CreateTodoPayload struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// UpdateTodoPayload defines the structure for partial todo updates.
type UpdateTodoPayload struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// List returns the caller's own todos.
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	todos, err := h.todos.ListByCreator(r.Context(), user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to list todos")
		http.Error(w, "Failed to list todos", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todos": todos})
}

// Create inserts a new todo owned by the caller.
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload CreateTodoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	todo, err := h.todos.Create(r.Context(), user.ID, payload.Text, payload.Completed)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			http.Error(w, "Todo could not be saved", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", user.ID).Msg("failed to create todo")
		http.Error(w, "Failed to create todo", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// Get fetches one of the caller's todos by id.
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	todo, err := h.todos.GetForCreator(r.Context(), id, user.ID)
	if err != nil {
		h.notFoundOrFail(w, err, user.ID, id, "get")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

// Update applies a partial update to one of the caller's todos.
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload UpdateTodoPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "id")
	upd := services.TodoUpdate{Text: payload.Text, Completed: payload.Completed}
	todo, err := h.todos.Update(r.Context(), id, user.ID, upd)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			http.Error(w, "Todo could not be saved", http.StatusNotFound)
			return
		}
		h.notFoundOrFail(w, err, user.ID, id, "update")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

// Delete removes one of the caller's todos and returns the removed record.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := chi.URLParam(r, "id")
	todo, err := h.todos.Delete(r.Context(), id, user.ID)
	if err != nil {
		h.notFoundOrFail(w, err, user.ID, id, "delete")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

// notFoundOrFail writes the uniform 404 for missing or foreign records and
// a 500 for storage failures.
func (h *TodoHandler) notFoundOrFail(w http.ResponseWriter, err error, userID, todoID, op string) {
	if errors.Is(err, services.ErrNotFound) {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}
	log.Error().Err(err).Str("user_id", userID).Str("todo_id", todoID).Str("op", op).Msg("todo operation failed")
	http.Error(w, "Todo operation failed", http.StatusInternalServerError)
}
