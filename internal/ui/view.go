package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/taskcal/taskcal/internal/entity"
)

func (a *App) View() string {
	if a.form != nil {
		return a.overlay(a.withErrorBar(a.form.View(a.styles)))
	}
	if a.confirmTask != nil {
		return a.overlay(a.confirmView())
	}

	header := a.styles.Title.Render("taskcal")
	if a.fetching {
		header += a.styles.TitleMuted.Render("  syncing…")
	}

	calendar := renderCalendar(a.styles, a.month, a.cursor, a.state.SelectedDate(), a.state.Days())
	tasks := a.taskListView()

	calPane := a.paneStyle(paneCalendar).Render(calendar)
	taskPane := a.paneStyle(paneTasks).Render(tasks)

	body := lipgloss.JoinHorizontal(lipgloss.Top, calPane, " ", taskPane)

	parts := []string{header, body, a.helpView()}
	if a.errMsg != "" {
		parts = append(parts, a.styles.ErrorBar.Render("✗ "+a.errMsg+"  (any key to dismiss)"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) paneStyle(p pane) lipgloss.Style {
	if a.pane == p {
		return a.styles.PaneFocused
	}
	return a.styles.Pane
}

func (a *App) taskListView() string {
	visible := a.state.Visible()

	title := "All tasks"
	if sel := a.state.SelectedDate(); sel != nil {
		title = "Tasks for " + sel.String()
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render(title))
	b.WriteString("\n\n")

	if len(visible) == 0 {
		b.WriteString(a.styles.TitleMuted.Render("No tasks."))
		return b.String()
	}

	for i, task := range visible {
		b.WriteString(a.taskLine(task, i == a.listCursor && a.pane == paneTasks))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (a *App) taskLine(task entity.Task, selected bool) string {
	check := "[ ]"
	if task.Completed {
		check = "[✓]"
	}
	if a.pending[task.ID] {
		check = "[…]"
	}

	title := task.Title
	if task.Completed {
		title = a.styles.TaskDone.Render(title)
	}

	line := fmt.Sprintf("%s %s %s %s",
		check,
		a.priorityBadge(task.Priority),
		title,
		a.styles.TitleMuted.Render(task.DueDate.String()),
	)

	if selected {
		return a.styles.ListSelected.Render(line)
	}
	return a.styles.ListItem.Render(line)
}

func (a *App) priorityBadge(p entity.Priority) string {
	// Tasks hydrated from a cache written by an older client may carry an
	// empty priority.
	if p == "" {
		p = entity.PriorityMedium
	}
	var style = a.styles.PriorityLow
	switch p {
	case entity.PriorityHigh:
		style = a.styles.PriorityHigh
	case entity.PriorityMedium:
		style = a.styles.PriorityMed
	}
	return style.Render(string(p[:1]))
}

func (a *App) confirmView() string {
	task := a.confirmTask
	return a.styles.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.styles.Title.Render("Delete task?"),
		"",
		fmt.Sprintf("“%s” will be marked as deleted.", task.Title),
		"",
		a.styles.Help.Render("y delete · n cancel"),
	))
}

func (a *App) withErrorBar(content string) string {
	if a.errMsg == "" {
		return content
	}
	return lipgloss.JoinVertical(lipgloss.Left, content,
		a.styles.ErrorBar.Render("✗ "+a.errMsg))
}

func (a *App) overlay(content string) string {
	if a.width == 0 || a.height == 0 {
		return content
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) helpView() string {
	km := a.keys
	pairs := [][2]string{
		{km.SwitchPane.Help().Key, km.SwitchPane.Help().Desc},
		{km.New.Help().Key, km.New.Help().Desc},
		{km.Select.Help().Key, km.Select.Help().Desc},
		{km.ShowAll.Help().Key, km.ShowAll.Help().Desc},
		{km.Toggle.Help().Key, km.Toggle.Help().Desc},
		{km.Edit.Help().Key, km.Edit.Help().Desc},
		{km.Delete.Help().Key, km.Delete.Help().Desc},
		{km.Theme.Help().Key, km.Theme.Help().Desc},
		{km.Refresh.Help().Key, km.Refresh.Help().Desc},
		{km.Quit.Help().Key, km.Quit.Help().Desc},
	}

	entries := make([]string, 0, len(pairs))
	for _, p := range pairs {
		entries = append(entries, a.styles.HelpKey.Render(p[0])+" "+p[1])
	}

	return a.styles.Help.Render(strings.Join(entries, "  "))
}
