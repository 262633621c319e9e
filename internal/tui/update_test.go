package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"taskdesk/internal/client"
	"taskdesk/internal/dto"
)

func testModel() Model {
	return New(client.New("http://localhost:8080"))
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func todo(id, title string) dto.TodoResponse {
	return dto.TodoResponse{ID: id, Title: title, Priority: "medium"}
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFirstFetchLeavesLoading(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	assert.True(m.loading)

	m, _ = apply(t, m, todosLoadedMsg{gen: 0, todos: []dto.TodoResponse{todo("1", "a")}})
	assert.False(m.loading)
	assert.Len(m.todos, 1)

	// Later refetches never re-enter loading.
	m.fetchGen++
	m, _ = apply(t, m, todosLoadedMsg{gen: m.fetchGen, todos: nil})
	assert.False(m.loading)
}

func TestStaleFetchIsDropped(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	m.fetchGen = 2

	fresh := []dto.TodoResponse{todo("2", "fresh")}
	m, _ = apply(t, m, todosLoadedMsg{gen: 2, todos: fresh})
	assert.Equal("fresh", m.todos[0].Title)

	// A slow response from an earlier request must not overwrite state.
	m, _ = apply(t, m, todosLoadedMsg{gen: 1, todos: []dto.TodoResponse{todo("1", "stale")}})
	assert.Equal("fresh", m.todos[0].Title)

	m, _ = apply(t, m, fetchFailedMsg{gen: 1, err: errors.New("timeout")})
	assert.Empty(m.notice)
}

func TestSearchDebounce(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	m.loading = false

	m, _ = apply(t, m, key("/"))
	assert.Equal(modeSearch, m.mode)

	m, cmd := apply(t, m, key("m"))
	assert.NotNil(cmd)
	firstSeq := m.searchSeq

	m, _ = apply(t, m, key("i"))
	assert.Greater(m.searchSeq, firstSeq)

	// The first keystroke's tick is superseded and must not fetch.
	gen := m.fetchGen
	m, cmd = apply(t, m, searchDebouncedMsg{seq: firstSeq})
	assert.Nil(cmd)
	assert.Equal(gen, m.fetchGen)
	assert.Empty(m.appliedSearch)

	// The latest tick applies the input and fetches.
	m, cmd = apply(t, m, searchDebouncedMsg{seq: m.searchSeq})
	assert.NotNil(cmd)
	assert.Equal("mi", m.appliedSearch)
	assert.Greater(m.fetchGen, gen)
}

func TestCreatePrependsAndUpdatesInPlace(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	m.loading = false
	m.todos = []dto.TodoResponse{todo("1", "old")}
	m.busy = true

	m, _ = apply(t, m, todoCreatedMsg{todo: todo("2", "new")})
	assert.False(m.busy)
	assert.Equal([]string{"new", "old"}, []string{m.todos[0].Title, m.todos[1].Title})

	changed := todo("1", "renamed")
	m, _ = apply(t, m, todoUpdatedMsg{todo: changed})
	assert.Equal("renamed", m.todos[1].Title)
	assert.Len(m.todos, 2)
}

func TestDeleteConfirmFlow(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	m.loading = false
	m.todos = []dto.TodoResponse{todo("1", "doomed"), todo("2", "safe")}

	m, _ = apply(t, m, key("d"))
	assert.Equal(modeConfirmDelete, m.mode)

	// Declining keeps everything.
	m, _ = apply(t, m, key("n"))
	assert.Equal(modeNormal, m.mode)
	assert.Len(m.todos, 2)

	m, _ = apply(t, m, key("d"))
	m, cmd := apply(t, m, key("y"))
	assert.True(m.busy)
	assert.NotNil(cmd)

	m, _ = apply(t, m, todoDeletedMsg{id: "1"})
	assert.False(m.busy)
	assert.Len(m.todos, 1)
	assert.Equal("safe", m.todos[0].Title)
}

func TestBusyDisablesMutations(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	m.loading = false
	m.todos = []dto.TodoResponse{todo("1", "a")}
	m.busy = true

	m, cmd := apply(t, m, key("x"))
	assert.Nil(cmd)
	assert.Equal(modeNormal, m.mode)

	m, _ = apply(t, m, key("d"))
	assert.Equal(modeNormal, m.mode)
}

func TestMutationFailureSurfacesNotice(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	m := testModel()
	m.loading = false
	m.todos = []dto.TodoResponse{todo("1", "a")}
	m.busy = true

	m, _ = apply(t, m, mutationFailedMsg{err: errors.New("validation failed: title is required")})
	assert.False(m.busy)
	assert.True(m.noticeErr)
	assert.Contains(m.notice, "title is required")
	// Prior list state is untouched.
	assert.Len(m.todos, 1)

	// esc dismisses the notification.
	m, _ = apply(t, m, key("esc"))
	assert.Empty(m.notice)
}
