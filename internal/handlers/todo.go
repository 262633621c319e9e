package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	dom "taskdesk/internal/domain"
	"taskdesk/internal/dto"
	"taskdesk/internal/repo"
	"taskdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type TodoHandler struct {
	svc *service.TodoService
	log zerolog.Logger
}

func NewTodoHandler(svc *service.TodoService, log zerolog.Logger) *TodoHandler {
	return &TodoHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validationResponse(err))
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, blankTitleResponse())
		return
	}

	t, err := h.svc.Create(c.Request.Context(), req.Title, req.Description,
		dom.Priority(req.Priority), req.DueDate.Ptr(), req.Category)
	if err != nil {
		h.log.Error().Err(err).Msg("create todo")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to create todo"})
		return
	}

	c.JSON(http.StatusCreated, todoToResponse(t))
}

// List godoc
// @Summary      List todos
// @Tags         todos
// @Produce      json
// @Param        filter  query  string  false  "all | active | completed"
// @Param        search  query  string  false  "substring match on title or description"
// @Param        sort    query  string  false  "created_at | due_date | priority | title"
// @Param        order   query  string  false  "asc | desc"
// @Param        limit   query  int     false  "max rows to return, 0 = all"
// @Param        offset  query  int     false  "rows to skip"
// @Success      200  {array}   dto.TodoResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, validationResponse(err))
		return
	}

	list, err := h.svc.List(c.Request.Context(), repo.ListQuery{
		Filter: q.Filter,
		Search: q.Search,
		Sort:   q.Sort,
		Order:  q.Order,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("list todos")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to fetch todos"})
		return
	}
	c.JSON(http.StatusOK, todosToResponses(list))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "todo not found"})
			return
		}
		h.log.Error().Err(err).Str("id", id.String()).Msg("get todo")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to fetch todo"})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Update godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Param        id    path      string  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, validationResponse(err))
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, blankTitleResponse())
		return
	}

	patch := service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := dom.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.DueDate != nil {
		patch.DueDate = req.DueDate.Ptr()
	}

	t, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "todo not found"})
			return
		}
		h.log.Error().Err(err).Str("id", id.String()).Msg("update todo")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to update todo"})
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Produce      json
// @Param        id   path      string  true  "Todo ID"
// @Success      200  {object}  dto.DeleteTodoResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		h.log.Error().Err(err).Str("id", id.String()).Msg("delete todo")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "failed to delete todo"})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTodoResponse{Message: "todo deleted"})
}

// parseID reads the id path param. A malformed UUID cannot name any row, so
// it is reported as not found rather than a separate error shape.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "todo not found"})
		return uuid.Nil, false
	}
	return id, true
}

// validationResponse turns a binding error into a 400 body that enumerates
// every violated field and rule.
func validationResponse(err error) dto.ErrorResponse {
	resp := dto.ErrorResponse{Error: "validation failed"}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Details = append(resp.Details, dto.FieldError{
				Field:   strings.ToLower(fe.Field()),
				Rule:    fe.Tag(),
				Message: fieldMessage(fe),
			})
		}
		return resp
	}

	var terr *json.UnmarshalTypeError
	if errors.As(err, &terr) {
		resp.Details = append(resp.Details, dto.FieldError{
			Field:   terr.Field,
			Rule:    "type",
			Message: fmt.Sprintf("must be of type %s", terr.Type),
		})
		return resp
	}

	// Malformed JSON, bad due_date format and the like.
	resp.Details = append(resp.Details, dto.FieldError{
		Field:   "body",
		Rule:    "format",
		Message: err.Error(),
	})
	return resp
}

// blankTitleResponse covers titles that pass the length rule but are all
// whitespace. The trimmed title is what gets stored, so it must not be empty.
func blankTitleResponse() dto.ErrorResponse {
	return dto.ErrorResponse{
		Error: "validation failed",
		Details: []dto.FieldError{
			{Field: "title", Rule: "required", Message: "must not be blank"},
		},
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format("2006-01-02")
		due = &s
	}
	return dto.TodoResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		DueDate:     due,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// todosToResponses always returns a non-nil slice so an empty result
// serializes as [] rather than null.
func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
