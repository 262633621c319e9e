package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskdesk/internal/dto"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldPriority
	fieldDueDate
	fieldCategory
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Priority", "Due date", "Category"}

// form is the create/edit surface. Creation exposes every field; inline edit
// exposes title and description only.
type form struct {
	inputs   [fieldCount]textinput.Model
	focus    int
	editMode bool
	editID   string
}

func newForm() form {
	var f form
	for i := range f.inputs {
		ti := textinput.New()
		ti.CharLimit = 255
		ti.Prompt = ""
		f.inputs[i] = ti
	}
	f.inputs[fieldPriority].Placeholder = "low | medium | high (default medium)"
	f.inputs[fieldDueDate].Placeholder = "YYYY-MM-DD"
	return f
}

// fieldCountFor returns how many fields the form currently exposes.
func (f form) fieldCountFor() int {
	if f.editMode {
		return 2 // title, description
	}
	return fieldCount
}

func (f *form) startCreate() tea.Cmd {
	f.editMode = false
	f.editID = ""
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = fieldTitle
	return f.inputs[fieldTitle].Focus()
}

func (f *form) startEdit(t dto.TodoResponse) tea.Cmd {
	f.editMode = true
	f.editID = t.ID
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.inputs[fieldTitle].SetValue(t.Title)
	if t.Description != nil {
		f.inputs[fieldDescription].SetValue(*t.Description)
	}
	f.focus = fieldTitle
	return f.inputs[fieldTitle].Focus()
}

// nextField moves focus forward and reports whether focus wrapped past the
// last field, which submits the form.
func (f *form) nextField() (tea.Cmd, bool) {
	f.inputs[f.focus].Blur()
	f.focus++
	if f.focus >= f.fieldCountFor() {
		f.focus = 0
		return nil, true
	}
	return f.inputs[f.focus].Focus(), false
}

func (f *form) prevField() tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus--
	if f.focus < 0 {
		f.focus = f.fieldCountFor() - 1
	}
	return f.inputs[f.focus].Focus()
}

// focusCurrent re-focuses the current field, e.g. after a rejected submit
// has wrapped focus back to the first input.
func (f *form) focusCurrent() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f *form) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// createRequest builds the API payload from the form fields.
func (f form) createRequest() (dto.CreateTodoRequest, error) {
	req := dto.CreateTodoRequest{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		Description: optional(f.inputs[fieldDescription].Value()),
		Priority:    strings.TrimSpace(f.inputs[fieldPriority].Value()),
		Category:    optional(f.inputs[fieldCategory].Value()),
	}
	if due := strings.TrimSpace(f.inputs[fieldDueDate].Value()); due != "" {
		// Round-trip through the JSON shape the API expects.
		if err := req.DueDate.UnmarshalJSON([]byte(`"` + due + `"`)); err != nil {
			return dto.CreateTodoRequest{}, err
		}
	}
	return req, nil
}

// updateRequest builds the partial payload for an inline edit: title and
// description only. Both are always sent so clearing the description sticks.
func (f form) updateRequest() dto.UpdateTodoRequest {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	desc := strings.TrimSpace(f.inputs[fieldDescription].Value())
	return dto.UpdateTodoRequest{
		Title:       &title,
		Description: &desc,
	}
}
