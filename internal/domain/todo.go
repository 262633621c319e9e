package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority of a todo. Stored as text in Postgres, guarded by a CHECK constraint.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Domain entity. Does not depend on Gin, Postgres or Redis.
type Todo struct {
	ID          uuid.UUID
	Title       string
	Description *string
	Completed   bool
	Priority    Priority
	DueDate     *time.Time
	Category    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
