package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskcal/taskcal/internal/client"
	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/ui/keys"
	"github.com/taskcal/taskcal/internal/ui/styles"
)

type pane int

const (
	paneCalendar pane = iota
	paneTasks
)

// Messages produced by API commands.
type (
	tasksFetchedMsg struct{ tasks []entity.Task }
	taskCreatedMsg  struct{ task *entity.Task }
	taskUpdatedMsg  struct{ task *entity.Task }
	taskToggledMsg  struct{ task *entity.Task }
	taskDeletedMsg  struct{ id int }
	// requestFailedMsg re-enables the initiating control; id is zero for
	// create and fetch.
	requestFailedMsg struct {
		id  int
		err error
	}
)

// App is the root model: a month calendar pane and a task list pane over the
// shared client state.
type App struct {
	api    *client.API
	state  *client.State
	styles *styles.Styles
	keys   keys.KeyMap

	pane       pane
	month      entity.Date
	cursor     entity.Date
	listCursor int

	width  int
	height int

	form        *taskForm
	formBusy    bool
	confirmTask *entity.Task

	fetching bool
	creating bool
	pending  map[int]bool

	errMsg string
}

func NewApp(api *client.API, state *client.State) *App {
	today := entity.Today()
	return &App{
		api:     api,
		state:   state,
		styles:  styles.NewStyles(themeFor(state)),
		keys:    keys.DefaultKeyMap(),
		month:   firstOfMonth(today),
		cursor:  today,
		pending: map[int]bool{},
	}
}

func themeFor(state *client.State) styles.Theme {
	if state.DarkMode() {
		return styles.Dark
	}
	return styles.Light
}

func (a *App) Init() tea.Cmd {
	a.fetching = true
	return a.fetchTasks()
}

func (a *App) fetchTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.api.ListTasks(context.Background())
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return tasksFetchedMsg{tasks: tasks}
	}
}

func (a *App) createTask(req *entity.CreateTaskRequest) tea.Cmd {
	return func() tea.Msg {
		task, err := a.api.CreateTask(context.Background(), req)
		if err != nil {
			return requestFailedMsg{err: err}
		}
		return taskCreatedMsg{task: task}
	}
}

func (a *App) updateTask(id int, req *entity.UpdateTaskRequest) tea.Cmd {
	return func() tea.Msg {
		task, err := a.api.UpdateTask(context.Background(), id, req)
		if err != nil {
			return requestFailedMsg{id: id, err: err}
		}
		return taskUpdatedMsg{task: task}
	}
}

func (a *App) toggleTask(id int, completed bool) tea.Cmd {
	return func() tea.Msg {
		task, err := a.api.SetCompleted(context.Background(), id, completed)
		if err != nil {
			return requestFailedMsg{id: id, err: err}
		}
		return taskToggledMsg{task: task}
	}
}

func (a *App) deleteTask(id int) tea.Cmd {
	return func() tea.Msg {
		if err := a.api.DeleteTask(context.Background(), id); err != nil {
			return requestFailedMsg{id: id, err: err}
		}
		return taskDeletedMsg{id: id}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tasksFetchedMsg:
		a.fetching = false
		a.state.SetTasks(msg.tasks)
		a.clampListCursor()
		return a, nil

	case taskCreatedMsg:
		a.creating = false
		a.formBusy = false
		a.form = nil
		if err := a.state.Add(*msg.task); err != nil {
			a.errMsg = "failed to write local cache: " + err.Error()
		}
		return a, nil

	case taskUpdatedMsg:
		delete(a.pending, msg.task.ID)
		a.formBusy = false
		a.form = nil
		if err := a.state.Update(*msg.task); err != nil {
			a.errMsg = "failed to write local cache: " + err.Error()
		}
		return a, nil

	case taskToggledMsg:
		delete(a.pending, msg.task.ID)
		if err := a.state.Update(*msg.task); err != nil {
			a.errMsg = "failed to write local cache: " + err.Error()
		}
		return a, nil

	case taskDeletedMsg:
		delete(a.pending, msg.id)
		if err := a.state.Remove(msg.id); err != nil {
			a.errMsg = "failed to write local cache: " + err.Error()
		}
		a.clampListCursor()
		return a, nil

	case requestFailedMsg:
		// Failed requests leave the cached state untouched.
		a.fetching = false
		a.creating = false
		a.formBusy = false
		delete(a.pending, msg.id)
		a.errMsg = msg.err.Error()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any keypress dismisses the failure notice.
	a.errMsg = ""

	if a.form != nil {
		return a.handleFormKey(msg)
	}
	if a.confirmTask != nil {
		return a.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Theme):
		a.state.ToggleDarkMode()
		a.styles = styles.NewStyles(themeFor(a.state))
		return a, nil

	case key.Matches(msg, a.keys.Refresh):
		if a.fetching {
			return a, nil
		}
		a.fetching = true
		return a, a.fetchTasks()

	case key.Matches(msg, a.keys.SwitchPane):
		if a.pane == paneCalendar {
			a.pane = paneTasks
		} else {
			a.pane = paneCalendar
		}
		return a, nil

	case key.Matches(msg, a.keys.New):
		if a.creating {
			return a, nil
		}
		due := a.cursor
		if sel := a.state.SelectedDate(); sel != nil {
			due = *sel
		}
		a.form = newTaskForm(due)
		return a, nil

	case key.Matches(msg, a.keys.ShowAll):
		a.state.SelectDate(nil)
		a.clampListCursor()
		return a, nil
	}

	if a.pane == paneCalendar {
		return a.handleCalendarKey(msg)
	}
	return a.handleTasksKey(msg)
}

func (a *App) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Left):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Right):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-7)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(7)
	case key.Matches(msg, a.keys.PrevMonth):
		a.month = addMonths(a.month, -1)
		a.cursor = a.month
	case key.Matches(msg, a.keys.NextMonth):
		a.month = addMonths(a.month, 1)
		a.cursor = a.month
	case key.Matches(msg, a.keys.Select):
		selected := a.cursor
		a.state.SelectDate(&selected)
		a.clampListCursor()
	case key.Matches(msg, a.keys.Back):
		a.state.SelectDate(nil)
		a.clampListCursor()
	}
	return a, nil
}

func (a *App) moveCursor(days int) {
	a.cursor = a.cursor.AddDays(days)
	if a.cursor.Year != a.month.Year || a.cursor.Month != a.month.Month {
		a.month = firstOfMonth(a.cursor)
	}
}

func (a *App) handleTasksKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := a.state.Visible()

	switch {
	case key.Matches(msg, a.keys.Up):
		if a.listCursor > 0 {
			a.listCursor--
		}
	case key.Matches(msg, a.keys.Down):
		if a.listCursor < len(visible)-1 {
			a.listCursor++
		}

	case key.Matches(msg, a.keys.Toggle):
		task, ok := a.taskUnderCursor(visible)
		if !ok || a.pending[task.ID] {
			return a, nil
		}
		a.pending[task.ID] = true
		return a, a.toggleTask(task.ID, !task.Completed)

	case key.Matches(msg, a.keys.Edit):
		task, ok := a.taskUnderCursor(visible)
		if !ok || a.pending[task.ID] {
			return a, nil
		}
		a.form = newEditForm(task)

	case key.Matches(msg, a.keys.Delete):
		task, ok := a.taskUnderCursor(visible)
		if !ok || a.pending[task.ID] {
			return a, nil
		}
		t := task
		a.confirmTask = &t
	}
	return a, nil
}

func (a *App) taskUnderCursor(visible []entity.Task) (entity.Task, bool) {
	if a.listCursor < 0 || a.listCursor >= len(visible) {
		return entity.Task{}, false
	}
	return visible[a.listCursor], true
}

func (a *App) clampListCursor() {
	if n := len(a.state.Visible()); a.listCursor >= n {
		a.listCursor = n - 1
	}
	if a.listCursor < 0 {
		a.listCursor = 0
	}
}

func (a *App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.formBusy {
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.form = nil
		return a, nil

	case "enter":
		title, description, due, priority, err := a.form.values()
		if err != nil {
			a.errMsg = err.Error()
			return a, nil
		}

		if a.form.editing() {
			req := &entity.UpdateTaskRequest{
				Title:       title,
				Description: description,
				DueDate:     due,
				Priority:    priority,
			}
			if err := req.Validate(); err != nil {
				a.errMsg = err.Error()
				return a, nil
			}
			a.formBusy = true
			a.pending[a.form.editingID] = true
			return a, a.updateTask(a.form.editingID, req)
		}

		req := &entity.CreateTaskRequest{
			Title:       title,
			Description: description,
			DueDate:     due,
			Priority:    priority,
		}
		if err := req.Validate(); err != nil {
			a.errMsg = err.Error()
			return a, nil
		}
		a.formBusy = true
		a.creating = true
		return a, a.createTask(req)
	}

	return a, a.form.Update(msg)
}

func (a *App) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		task := a.confirmTask
		a.confirmTask = nil
		a.pending[task.ID] = true
		return a, a.deleteTask(task.ID)
	case "n", "esc":
		a.confirmTask = nil
	}
	return a, nil
}
