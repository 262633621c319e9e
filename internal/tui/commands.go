package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/internal/dto"
)

// todosLoadedMsg carries a fetched list stamped with its fetch generation.
type todosLoadedMsg struct {
	gen   int
	todos []dto.TodoResponse
}

// fetchFailedMsg reports a failed list fetch for a given generation.
type fetchFailedMsg struct {
	gen int
	err error
}

type todoCreatedMsg struct{ todo dto.TodoResponse }

type todoUpdatedMsg struct{ todo dto.TodoResponse }

type todoDeletedMsg struct{ id string }

// mutationFailedMsg reports a failed create/update/delete. The list state is
// left as it was.
type mutationFailedMsg struct{ err error }

// searchDebouncedMsg fires after the quiescence delay, stamped with the
// search sequence current when the timer started.
type searchDebouncedMsg struct{ seq int }

// fetchTodos starts a list fetch for the current filter/search/sort state.
// The model's fetch generation must already be advanced by the caller so the
// response can be matched against the latest request.
func (m Model) fetchTodos() tea.Cmd {
	gen := m.fetchGen
	opts := m.listOptions()
	api := m.api
	return func() tea.Msg {
		todos, err := api.List(context.Background(), opts)
		if err != nil {
			return fetchFailedMsg{gen: gen, err: err}
		}
		return todosLoadedMsg{gen: gen, todos: todos}
	}
}

func (m Model) createTodo(req dto.CreateTodoRequest) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		t, err := api.Create(context.Background(), req)
		if err != nil {
			return mutationFailedMsg{err: err}
		}
		return todoCreatedMsg{todo: t}
	}
}

func (m Model) updateTodo(id string, req dto.UpdateTodoRequest) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		t, err := api.Update(context.Background(), id, req)
		if err != nil {
			return mutationFailedMsg{err: err}
		}
		return todoUpdatedMsg{todo: t}
	}
}

func (m Model) deleteTodo(id string) tea.Cmd {
	api := m.api
	return func() tea.Msg {
		if err := api.Delete(context.Background(), id); err != nil {
			return mutationFailedMsg{err: err}
		}
		return todoDeletedMsg{id: id}
	}
}

// debounceSearch schedules a quiescence tick for the current search sequence.
func (m Model) debounceSearch() tea.Cmd {
	seq := m.searchSeq
	return tea.Tick(searchDebounceMillis*time.Millisecond, func(time.Time) tea.Msg {
		return searchDebouncedMsg{seq: seq}
	})
}
