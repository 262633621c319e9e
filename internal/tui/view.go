package tui

import (
	"fmt"
	"strings"

	"taskdesk/internal/dto"
	"taskdesk/internal/theme"
)

// View renders the whole client: header, filter/sort bar, search, list (or
// form), and the status line.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.HeaderStyle.Render("Taskdesk"))
	b.WriteString("\n")
	b.WriteString(m.viewBar())
	b.WriteString("\n")

	if m.mode == modeSearch || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.mode == modeForm:
		b.WriteString(m.viewForm())
	case m.loading:
		b.WriteString(theme.BarStyle.Render("loading todos..."))
		b.WriteString("\n")
	case len(m.todos) == 0:
		b.WriteString(theme.BarStyle.Render("no todos — press 'a' to add one"))
		b.WriteString("\n")
	default:
		b.WriteString(m.viewList())
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m Model) viewBar() string {
	var parts []string
	for i, f := range filters {
		if i == m.filterIndex {
			parts = append(parts, theme.BarActiveStyle.Render("["+f+"]"))
		} else {
			parts = append(parts, theme.BarStyle.Render(f))
		}
	}
	order := "desc"
	if !m.orderDesc {
		order = "asc"
	}
	sortLabel := theme.BarStyle.Render("sort: ") +
		theme.BarActiveStyle.Render(sortModes[m.sortIndex]+" "+order)
	return strings.Join(parts, " ") + "   " + sortLabel
}

func (m Model) viewList() string {
	var b strings.Builder
	for i, t := range m.todos {
		line := renderTodo(t)
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(" " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func renderTodo(t dto.TodoResponse) string {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	title := t.Title
	if t.Completed {
		title = theme.DoneStyle.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", check, theme.PriorityStyle(t.Priority).Render("●"), title)
	var meta []string
	if t.DueDate != nil {
		meta = append(meta, "due "+*t.DueDate)
	}
	if t.Category != nil {
		meta = append(meta, *t.Category)
	}
	if len(meta) > 0 {
		line += " " + theme.HelpStyle.Render("("+strings.Join(meta, ", ")+")")
	}
	return line
}

func (m Model) viewForm() string {
	var b strings.Builder
	title := "New todo"
	if m.form.editMode {
		title = "Edit todo"
	}
	b.WriteString(theme.BarActiveStyle.Render(title))
	b.WriteString("\n\n")
	for i := 0; i < m.form.fieldCountFor(); i++ {
		label := fieldLabels[i]
		if i == m.form.focus {
			b.WriteString(theme.BarActiveStyle.Render("> " + label + ": "))
		} else {
			b.WriteString(theme.BarStyle.Render("  " + label + ": "))
		}
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("enter/tab next · shift+tab back · last field submits · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewStatus() string {
	if m.mode == modeConfirmDelete {
		if t, ok := m.selected(); ok {
			return theme.ErrorStyle.Render(fmt.Sprintf("delete %q? (y/n)", t.Title))
		}
	}
	if m.busy {
		return theme.BarStyle.Render("working...")
	}
	if m.notice != "" {
		if m.noticeErr {
			return theme.ErrorStyle.Render(m.notice) + theme.HelpStyle.Render("  esc to dismiss")
		}
		return theme.NoticeStyle.Render(m.notice)
	}
	return theme.HelpStyle.Render("a add · e edit · space toggle · d delete · / search · f filter · s sort · o order · r refresh · q quit")
}
