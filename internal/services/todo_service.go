package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/imruiz/gotodo-be/internal/models"
)

// TodoUpdate carries a partial update; nil fields are left untouched.
type TodoUpdate struct {
	Text      *string
	Completed *bool
}

// TodoServiceProvider defines the interface for todo services. Every
// operation takes the authenticated user's id and conjoins it with the
// query, so records owned by other users behave exactly like missing ones.
type TodoServiceProvider interface {
	Create(ctx context.Context, creatorID, text string, completed bool) (models.Todo, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error)
	GetForCreator(ctx context.Context, id, creatorID string) (models.Todo, error)
	Update(ctx context.Context, id, creatorID string, upd TodoUpdate) (models.Todo, error)
	Delete(ctx context.Context, id, creatorID string) (models.Todo, error)
}

// TodoService provides ownership-scoped CRUD over todo records.
type TodoService struct {
	db *sql.DB
}

// NewTodoService creates a new TodoService.
func NewTodoService(db *sql.DB) *TodoService {
	return &TodoService{db: db}
}

// Create inserts a todo stamped with the authenticated user's id. Any
// caller-supplied creator is ignored by construction.
func (s *TodoService) Create(ctx context.Context, creatorID, text string, completed bool) (models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Todo{}, ErrEmptyText
	}

	todo := models.Todo{
		ID:        uuid.New().String(),
		Text:      text,
		Completed: completed,
		Creator:   creatorID,
	}
	if completed {
		now := time.Now().UTC()
		todo.CompletedAt = &now
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO todos(id, text, completed, completed_at, creator) VALUES(?, ?, ?, ?, ?)",
		todo.ID, todo.Text, todo.Completed, nullableTime(todo.CompletedAt), todo.Creator)
	if err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// ListByCreator returns the caller's own todos in creation order.
func (s *TodoService) ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, text, completed, completed_at, creator, created_at FROM todos WHERE creator = ? ORDER BY rowid",
		creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	return todos, rows.Err()
}

// GetForCreator fetches one todo if and only if the caller owns it.
func (s *TodoService) GetForCreator(ctx context.Context, id, creatorID string) (models.Todo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, text, completed, completed_at, creator, created_at FROM todos WHERE id = ? AND creator = ?",
		id, creatorID)
	todo, err := scanTodo(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Todo{}, ErrNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

// Update applies a partial update to a todo the caller owns. Setting
// completed stamps completedAt with the current time; clearing it nulls
// completedAt out.
func (s *TodoService) Update(ctx context.Context, id, creatorID string, upd TodoUpdate) (models.Todo, error) {
	todo, err := s.GetForCreator(ctx, id, creatorID)
	if err != nil {
		return models.Todo{}, err
	}

	if upd.Text != nil {
		text := strings.TrimSpace(*upd.Text)
		if text == "" {
			return models.Todo{}, ErrEmptyText
		}
		todo.Text = text
	}
	if upd.Completed != nil {
		todo.Completed = *upd.Completed
		if todo.Completed {
			now := time.Now().UTC()
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE todos SET text = ?, completed = ?, completed_at = ? WHERE id = ? AND creator = ?",
		todo.Text, todo.Completed, nullableTime(todo.CompletedAt), id, creatorID)
	if err != nil {
		return models.Todo{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Todo{}, ErrNotFound
	}
	return todo, nil
}

// Delete removes a todo the caller owns and returns the removed record.
func (s *TodoService) Delete(ctx context.Context, id, creatorID string) (models.Todo, error) {
	todo, err := s.GetForCreator(ctx, id, creatorID)
	if err != nil {
		return models.Todo{}, err
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ? AND creator = ?", id, creatorID)
	if err != nil {
		return models.Todo{}, err
	}
	return todo, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (models.Todo, error) {
	var todo models.Todo
	var completedAt sql.NullTime
	err := row.Scan(&todo.ID, &todo.Text, &todo.Completed, &completedAt, &todo.Creator, &todo.CreatedAt)
	if err != nil {
		return models.Todo{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		todo.CompletedAt = &t
	}
	return todo, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
