package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/ui/styles"
)

const (
	formFieldTitle = iota
	formFieldDescription
	formFieldDueDate
	formFieldPriority
	formFieldCount
)

var priorityOrder = []entity.Priority{entity.PriorityLow, entity.PriorityMedium, entity.PriorityHigh}

// taskForm is the add/edit overlay. editingID is zero for a new task.
type taskForm struct {
	editingID   int
	title       textinput.Model
	description textinput.Model
	dueDate     textinput.Model
	priority    int
	focus       int
}

func newTaskForm(defaultDue entity.Date) *taskForm {
	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200
	title.Focus()

	description := textinput.New()
	description.Placeholder = "Description (optional)"
	description.CharLimit = 1000

	dueDate := textinput.New()
	dueDate.Placeholder = "YYYY-MM-DD"
	dueDate.CharLimit = 10
	dueDate.SetValue(defaultDue.String())

	return &taskForm{
		title:       title,
		description: description,
		dueDate:     dueDate,
		priority:    1, // medium
	}
}

func newEditForm(task entity.Task) *taskForm {
	f := newTaskForm(task.DueDate)
	f.editingID = task.ID
	f.title.SetValue(task.Title)
	if task.Description != nil {
		f.description.SetValue(*task.Description)
	}
	for i, p := range priorityOrder {
		if p == task.Priority {
			f.priority = i
		}
	}
	return f
}

func (f *taskForm) editing() bool {
	return f.editingID != 0
}

func (f *taskForm) setFocus(idx int) {
	f.focus = (idx + formFieldCount) % formFieldCount
	for i, input := range []*textinput.Model{&f.title, &f.description, &f.dueDate} {
		if i == f.focus {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

// Update handles one key event. Returns true when the form consumed it.
func (f *taskForm) Update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return nil
	case "left":
		if f.focus == formFieldPriority {
			f.priority = (f.priority + len(priorityOrder) - 1) % len(priorityOrder)
			return nil
		}
	case "right":
		if f.focus == formFieldPriority {
			f.priority = (f.priority + 1) % len(priorityOrder)
			return nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case formFieldTitle:
		f.title, cmd = f.title.Update(msg)
	case formFieldDescription:
		f.description, cmd = f.description.Update(msg)
	case formFieldDueDate:
		f.dueDate, cmd = f.dueDate.Update(msg)
	}
	return cmd
}

// values validates and extracts the form content.
func (f *taskForm) values() (string, *string, entity.Date, entity.Priority, error) {
	due, err := entity.ParseDate(strings.TrimSpace(f.dueDate.Value()))
	if err != nil {
		return "", nil, entity.Date{}, "", err
	}

	title := strings.TrimSpace(f.title.Value())
	var description *string
	if d := strings.TrimSpace(f.description.Value()); d != "" {
		description = &d
	}

	return title, description, due, priorityOrder[f.priority], nil
}

func (f *taskForm) View(s *styles.Styles) string {
	header := "New task"
	if f.editing() {
		header = "Edit task"
	}

	inputStyle := func(field int) lipgloss.Style {
		if f.focus == field {
			return s.InputFocused
		}
		return s.Input
	}

	priorities := make([]string, len(priorityOrder))
	for i, p := range priorityOrder {
		label := string(p)
		if i == f.priority {
			label = "[" + label + "]"
		}
		priorities[i] = label
	}
	priorityLine := strings.Join(priorities, "  ")
	if f.focus == formFieldPriority {
		priorityLine = s.HelpKey.Render(priorityLine)
	}

	rows := []string{
		s.Title.Render(header),
		s.Label.Render("Title"),
		inputStyle(formFieldTitle).Render(f.title.View()),
		s.Label.Render("Description"),
		inputStyle(formFieldDescription).Render(f.description.View()),
		s.Label.Render("Due date"),
		inputStyle(formFieldDueDate).Render(f.dueDate.View()),
		s.Label.Render("Priority"),
		priorityLine,
		"",
		s.Help.Render("enter save · esc cancel · tab next field"),
	}

	return s.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
