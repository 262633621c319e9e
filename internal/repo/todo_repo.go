package repo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	dom "taskdesk/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Filter names the completed-field subsets a list query can select.
const (
	FilterAll       = "all"
	FilterActive    = "active"
	FilterCompleted = "completed"
)

// ListQuery describes a todo list request at the store level.
// Zero Limit means the full result set.
type ListQuery struct {
	Filter string
	Search string
	Sort   string
	Order  string
	Limit  int
	Offset int
}

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error)
	List(ctx context.Context, q ListQuery) ([]dom.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

const todoColumns = "id, title, description, completed, priority, due_date, category, created_at, updated_at"

func scanTodo(row interface{ Scan(...any) error }) (dom.Todo, error) {
	var t dom.Todo
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed, &t.Priority,
		&t.DueDate, &t.Category, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (title, description, priority, due_date, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, t.Title, t.Description, t.Priority, t.DueDate, t.Category))
}

func (r *PGTodoRepo) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	return scanTodo(r.db.QueryRow(ctx, query, id))
}

func (r *PGTodoRepo) List(ctx context.Context, q ListQuery) ([]dom.Todo, error) {
	query, args := buildListQuery(q)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *PGTodoRepo) Update(ctx context.Context, id uuid.UUID, patch dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos
		SET title = $2, description = $3, completed = $4, priority = $5,
			due_date = $6, category = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + todoColumns
	return scanTodo(r.db.QueryRow(ctx, query, id,
		patch.Title, patch.Description, patch.Completed, patch.Priority, patch.DueDate, patch.Category))
}

// Delete reports whether a row was actually removed so the service can decide
// how to treat deletes of absent ids.
func (r *PGTodoRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// sortColumns whitelists ORDER BY targets. Never interpolate user input directly.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"due_date":   "due_date",
	"priority":   "priority",
	"title":      "title",
}

// buildListQuery assembles the SELECT for a list request. Search matches
// title or description case-insensitively as a substring.
func buildListQuery(q ListQuery) (string, []any) {
	var b strings.Builder
	var args []any

	b.WriteString("SELECT " + todoColumns + " FROM todos")

	var conds []string
	switch q.Filter {
	case FilterActive:
		conds = append(conds, "completed = FALSE")
	case FilterCompleted:
		conds = append(conds, "completed = TRUE")
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, "%"+s+"%")
		p := "$" + strconv.Itoa(len(args))
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	col, ok := sortColumns[q.Sort]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if q.Order == "asc" {
		dir = "ASC"
	}
	b.WriteString(" ORDER BY " + col + " " + dir)

	if q.Limit > 0 {
		args = append(args, q.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if q.Offset > 0 {
		args = append(args, q.Offset)
		b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	return b.String(), args
}
