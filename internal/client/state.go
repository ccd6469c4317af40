package client

import "github.com/taskcal/taskcal/internal/entity"

// State is the application state behind the UI: the working task collection,
// the selected calendar date, and the theme flag. Mutations that originate
// from a confirmed server write (Add, Update, Remove) also rewrite the local
// mirror; SetTasks only replaces working memory, so a server refresh and the
// mirror stay independent sources (last write wins, never reconciled).
type State struct {
	cache    *Cache
	tasks    []entity.Task
	selected *entity.Date
	dark     bool
	days     map[entity.Date]DaySummary
}

func NewState(cache *Cache) *State {
	return &State{
		cache: cache,
		tasks: []entity.Task{},
		dark:  true,
		days:  map[entity.Date]DaySummary{},
	}
}

// Hydrate loads the mirror into working memory. Runs before any network
// round-trip so a previous session's tasks are visible immediately.
func (s *State) Hydrate() error {
	tasks, err := s.cache.Load()
	if err != nil {
		return err
	}
	if tasks != nil {
		s.tasks = tasks
		s.recompute()
	}
	return nil
}

func (s *State) SetTasks(tasks []entity.Task) {
	if tasks == nil {
		tasks = []entity.Task{}
	}
	s.tasks = tasks
	s.recompute()
}

func (s *State) Add(task entity.Task) error {
	s.tasks = append(s.tasks, task)
	s.recompute()
	return s.cache.Save(s.tasks)
}

func (s *State) Update(task entity.Task) error {
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			s.recompute()
			return s.cache.Save(s.tasks)
		}
	}
	return nil
}

func (s *State) Remove(id int) error {
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
	s.recompute()
	return s.cache.Save(s.tasks)
}

// SelectDate sets the calendar filter; nil means "all tasks".
func (s *State) SelectDate(d *entity.Date) {
	s.selected = d
}

func (s *State) SelectedDate() *entity.Date {
	return s.selected
}

func (s *State) Tasks() []entity.Task {
	return s.tasks
}

// Visible applies the selected-date filter to the collection.
func (s *State) Visible() []entity.Task {
	return FilterByDate(s.tasks, s.selected)
}

func (s *State) Day(d entity.Date) DaySummary {
	return s.days[d]
}

func (s *State) Days() map[entity.Date]DaySummary {
	return s.days
}

func (s *State) DarkMode() bool {
	return s.dark
}

func (s *State) ToggleDarkMode() {
	s.dark = !s.dark
}

func (s *State) recompute() {
	s.days = SummarizeByDay(s.tasks)
}
