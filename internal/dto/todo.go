package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DueDate parses due_date from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("due_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// MarshalJSON emits null, a date-only string for midnight-UTC values, or
// RFC3339 otherwise. Round-trips with UnmarshalJSON.
func (d DueDate) MarshalJSON() ([]byte, error) {
	if d.t == nil {
		return []byte("null"), nil
	}
	t := *d.t
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return json.Marshal(t.Format("2006-01-02"))
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

// NewDueDate wraps t in a DueDate.
func NewDueDate(t *time.Time) DueDate { return DueDate{t: t} }

type CreateTodoRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description *string `json:"description"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     DueDate `json:"due_date"` // optional: "2026-02-19" or RFC3339
	Category    *string `json:"category"`
}

type UpdateTodoRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Completed   *bool    `json:"completed"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *DueDate `json:"due_date"` // nil = keep current value
	Category    *string  `json:"category"`
}

type TodoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"due_date"` // date-only, "2006-01-02"
	Category    *string   `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTodosQuery binds the query string of GET /todos.
// Limit and offset are additive: zero limit means the full result set.
type ListTodosQuery struct {
	Filter string `form:"filter,default=all" binding:"oneof=all active completed"`
	Search string `form:"search"`
	Sort   string `form:"sort,default=created_at" binding:"oneof=created_at due_date priority title"`
	Order  string `form:"order,default=desc" binding:"oneof=asc desc"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// FieldError describes a single violated rule in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type DeleteTodoResponse struct {
	Message string `json:"message"`
}
