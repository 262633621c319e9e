// Package tui is the terminal front end for the Taskdesk API. All todo state
// lives in the model and is synced to the server: list fetches replace it
// wholesale, mutations patch it in place without a refetch.
package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/internal/client"
	"taskdesk/internal/dto"
)

// searchDebounce is how long the search input must stay unchanged before a
// fetch is issued.
const searchDebounceMillis = 300

// filters and sortModes are cycled in order by their keys.
var filters = []string{"all", "active", "completed"}

var sortModes = []string{"created_at", "due_date", "priority", "title"}

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeForm
	modeConfirmDelete
)

// Model is the root Bubble Tea model.
type Model struct {
	api *client.Client

	todos   []dto.TodoResponse
	cursor  int
	loading bool // true only until the first successful fetch

	mode mode

	filterIndex int
	sortIndex   int
	orderDesc   bool

	searchInput   textinput.Model
	appliedSearch string
	searchSeq     int // stamps debounce ticks so only the latest fires
	fetchGen      int // stamps fetches so stale responses are dropped

	form form

	busy bool // a mutation is in flight; its controls are disabled

	notice    string
	noticeErr bool

	width  int
	height int
}

// New creates the root model talking to api.
func New(api *client.Client) Model {
	si := textinput.New()
	si.Placeholder = "search todos..."
	si.Prompt = "/ "
	si.CharLimit = 255

	return Model{
		api:         api,
		loading:     true,
		searchInput: si,
		orderDesc:   true,
		form:        newForm(),
	}
}

// Init issues the initial fetch.
func (m Model) Init() tea.Cmd {
	return m.fetchTodos()
}

func (m Model) listOptions() client.ListOptions {
	order := "desc"
	if !m.orderDesc {
		order = "asc"
	}
	return client.ListOptions{
		Filter: filters[m.filterIndex],
		Search: m.appliedSearch,
		Sort:   sortModes[m.sortIndex],
		Order:  order,
	}
}

func (m *Model) setError(msg string) {
	m.notice = msg
	m.noticeErr = true
}

func (m *Model) setNotice(msg string) {
	m.notice = msg
	m.noticeErr = false
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (dto.TodoResponse, bool) {
	if len(m.todos) == 0 || m.cursor >= len(m.todos) {
		return dto.TodoResponse{}, false
	}
	return m.todos[m.cursor], true
}
