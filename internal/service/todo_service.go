package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskdesk/internal/cache"
	dom "taskdesk/internal/domain"
	"taskdesk/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

// TodoPatch carries the fields of a partial update. Nil means "keep current value".
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *dom.Priority
	DueDate     *time.Time
	Category    *string
}

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.TodoCache
	sf    singleflight.Group
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.TodoCache) *TodoService {
	return &TodoService{repo: r, cache: c}
}

func (s *TodoService) Create(ctx context.Context, title string, desc *string, priority dom.Priority, dueDate *time.Time, category *string) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	if priority == "" {
		priority = dom.PriorityMedium
	}

	t, err := s.repo.Create(ctx, dom.Todo{
		Title:       title,
		Description: desc,
		Priority:    priority,
		DueDate:     dueDate,
		Category:    category,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

func (s *TodoService) List(ctx context.Context, q repo.ListQuery) ([]dom.Todo, error) {
	if s.cache != nil {
		key := s.cache.Key(q)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, q); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, q)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, q, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Todo), nil
	}
	return s.repo.List(ctx, q)
}

func (s *TodoService) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Update applies only the supplied patch fields over the current row.
// Omitted fields keep their prior value.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, p TodoPatch) (dom.Todo, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	patch := existing
	if p.Title != nil {
		patch.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		patch.Description = p.Description
	}
	if p.Completed != nil {
		patch.Completed = *p.Completed
	}
	if p.Priority != nil {
		patch.Priority = *p.Priority
	}
	if p.DueDate != nil {
		patch.DueDate = p.DueDate
	}
	if p.Category != nil {
		patch.Category = p.Category
	}
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx)
	return t, nil
}

// Delete removes the row if present. Deleting an absent id is not an error:
// the end state is the same either way, so delete stays idempotent.
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *TodoService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
