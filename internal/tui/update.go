package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/internal/dto"
)

// Update is the single message loop for the whole client.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = msg.Width - 4
		return m, nil

	case todosLoadedMsg:
		// A superseded fetch must never overwrite fresher state.
		if msg.gen != m.fetchGen {
			return m, nil
		}
		m.todos = msg.todos
		m.loading = false
		m.clampCursor()
		return m, nil

	case fetchFailedMsg:
		if msg.gen != m.fetchGen {
			return m, nil
		}
		m.setError("could not load todos: " + msg.err.Error())
		return m, nil

	case searchDebouncedMsg:
		// Only the tick started by the latest keystroke may fire a fetch.
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.appliedSearch = m.searchInput.Value()
		m.fetchGen++
		return m, m.fetchTodos()

	case todoCreatedMsg:
		m.busy = false
		m.mode = modeNormal
		m.todos = append([]dto.TodoResponse{msg.todo}, m.todos...)
		m.cursor = 0
		m.setNotice("created " + msg.todo.Title)
		return m, nil

	case todoUpdatedMsg:
		m.busy = false
		if m.mode == modeForm {
			m.mode = modeNormal
		}
		for i := range m.todos {
			if m.todos[i].ID == msg.todo.ID {
				m.todos[i] = msg.todo
				break
			}
		}
		return m, nil

	case todoDeletedMsg:
		m.busy = false
		kept := m.todos[:0]
		for _, t := range m.todos {
			if t.ID != msg.id {
				kept = append(kept, t)
			}
		}
		m.todos = kept
		m.clampCursor()
		m.setNotice("todo deleted")
		return m, nil

	case mutationFailedMsg:
		// Prior list state is left unchanged; the failure is surfaced on the
		// status line rather than being swallowed.
		m.busy = false
		m.setError(msg.err.Error())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeForm:
		return m.handleFormKey(msg)
	case modeConfirmDelete:
		return m.handleConfirmKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.notice = ""
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
		return m, nil

	case "/":
		m.mode = modeSearch
		return m, m.searchInput.Focus()

	case "f":
		m.filterIndex = (m.filterIndex + 1) % len(filters)
		m.fetchGen++
		return m, m.fetchTodos()

	case "s":
		m.sortIndex = (m.sortIndex + 1) % len(sortModes)
		m.fetchGen++
		return m, m.fetchTodos()

	case "o":
		m.orderDesc = !m.orderDesc
		m.fetchGen++
		return m, m.fetchTodos()

	case "r":
		m.fetchGen++
		return m, m.fetchTodos()

	case "a":
		if m.busy {
			return m, nil
		}
		m.mode = modeForm
		return m, m.form.startCreate()

	case "e":
		if m.busy {
			return m, nil
		}
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeForm
		return m, m.form.startEdit(t)

	case " ", "space", "x":
		if m.busy {
			return m, nil
		}
		t, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.busy = true
		completed := !t.Completed
		return m, m.updateTodo(t.ID, toggleRequest(completed))

	case "d":
		if m.busy {
			return m, nil
		}
		if _, ok := m.selected(); !ok {
			return m, nil
		}
		m.mode = modeConfirmDelete
		return m, nil
	}
	return m, nil
}

func toggleRequest(completed bool) dto.UpdateTodoRequest {
	return dto.UpdateTodoRequest{Completed: &completed}
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = modeNormal
		m.searchInput.Blur()
		// The pending debounce tick still applies the final value.
		return m, nil

	case "esc":
		m.mode = modeNormal
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.searchSeq++
		if m.appliedSearch != "" {
			m.appliedSearch = ""
			m.fetchGen++
			return m, m.fetchTodos()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchSeq++
	return m, tea.Batch(cmd, m.debounceSearch())
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		return m, nil

	case "enter", "tab":
		cmd, submit := m.form.nextField()
		if !submit {
			return m, cmd
		}
		return m.submitForm()

	case "shift+tab", "up":
		return m, m.form.prevField()
	}

	return m, m.form.updateFocused(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if m.form.editMode {
		req := m.form.updateRequest()
		if *req.Title == "" {
			m.setError("title must not be empty")
			return m, m.form.focusCurrent()
		}
		m.busy = true
		return m, m.updateTodo(m.form.editID, req)
	}

	req, err := m.form.createRequest()
	if err != nil {
		m.setError(err.Error())
		return m, m.form.focusCurrent()
	}
	if req.Title == "" {
		m.setError("title must not be empty")
		return m, m.form.focusCurrent()
	}
	m.busy = true
	return m, m.createTodo(req)
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		t, ok := m.selected()
		if !ok {
			m.mode = modeNormal
			return m, nil
		}
		m.mode = modeNormal
		m.busy = true
		return m, m.deleteTodo(t.ID)

	case "n", "N", "esc":
		m.mode = modeNormal
		return m, nil
	}
	return m, nil
}
