package models

import "time"

// Todo is a single task record owned by one user. CompletedAt is non-nil
// exactly when Completed is true.
type Todo struct {
	ID          string     `json:"_id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	Creator     string     `json:"creator"`
	CreatedAt   time.Time  `json:"-"`
}
