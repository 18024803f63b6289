// Package ops implements the task list operations on top of a Persistence.
package ops

import (
	"log/slog"
	"strings"
	"time"

	"github.com/jacksmith/todo/internal/model"
)

// ChangeFunc is called with the unfiltered view after every successful
// mutation.
type ChangeFunc func(v model.View)

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(s *TaskStore) {
		if l != nil {
			s.logger = l
		}
	}
}

type subscriber struct {
	id int
	fn ChangeFunc
}

// TaskStore is the authoritative in-memory task list.
//
// Every mutation is applied to a copy of the state, saved, and only then
// committed, so a failed save leaves the store as it was. TaskStore is not
// safe for concurrent use.
type TaskStore struct {
	p      Persistence
	state  *model.State
	now    func() time.Time
	logger *slog.Logger

	subs      []subscriber
	nextSubID int
}

// Load creates a TaskStore from the state held by p.
func Load(p Persistence, opts ...Option) (*TaskStore, error) {
	s := &TaskStore{
		p:      p,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	state, err := p.LoadState()
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	if state.Tasks == nil {
		state.Tasks = []model.Task{}
	}
	s.state = state
	return s, nil
}

// Add appends a new open task with the trimmed text.
func (s *TaskStore) Add(text string) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, &ValidationError{Field: "text", Message: "task text must not be empty"}
	}

	next := s.state.Clone()
	task := model.Task{
		ID:        next.NextID,
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	next.Tasks = append(next.Tasks, task)
	next.NextID++

	if err := s.commit(next); err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("Added task", "id", task.ID)
	return task, nil
}

// Toggle flips the completed flag of the task with the given id and returns
// the updated task.
func (s *TaskStore) Toggle(id int) (model.Task, error) {
	i := s.state.IndexOf(id)
	if i < 0 {
		return model.Task{}, &NotFoundError{ID: id}
	}

	next := s.state.Clone()
	next.Tasks[i].Completed = !next.Tasks[i].Completed
	task := next.Tasks[i]

	if err := s.commit(next); err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("Toggled task", "id", id, "completed", task.Completed)
	return task, nil
}

// Remove deletes the task with the given id and returns it.
func (s *TaskStore) Remove(id int) (model.Task, error) {
	i := s.state.IndexOf(id)
	if i < 0 {
		return model.Task{}, &NotFoundError{ID: id}
	}

	next := s.state.Clone()
	task := next.Tasks[i]
	next.Tasks = append(next.Tasks[:i], next.Tasks[i+1:]...)

	if err := s.commit(next); err != nil {
		return model.Task{}, err
	}
	s.logger.Debug("Removed task", "id", id)
	return task, nil
}

// ClearCompleted removes every completed task and returns how many were
// removed. Nothing is saved when there is nothing to remove.
func (s *TaskStore) ClearCompleted() (int, error) {
	removed := s.state.CompletedCount()
	if removed == 0 {
		return 0, nil
	}

	next := s.state.Clone()
	kept := next.Tasks[:0]
	for _, t := range next.Tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	next.Tasks = kept

	if err := s.commit(next); err != nil {
		return 0, err
	}
	s.logger.Debug("Cleared completed tasks", "count", removed)
	return removed, nil
}

// Reload replaces the in-memory state with the persisted one and notifies
// subscribers. It picks up changes written by other processes.
func (s *TaskStore) Reload() error {
	state, err := s.p.LoadState()
	if err != nil {
		return &PersistenceError{Op: "load", Err: err}
	}
	if state.Tasks == nil {
		state.Tasks = []model.Task{}
	}
	s.state = state
	s.notify()
	return nil
}

// View returns the display projection of the store.
func (s *TaskStore) View(filter model.Filter) model.View {
	return model.BuildView(s.state.Tasks, filter)
}

// Get returns the task with the given id.
func (s *TaskStore) Get(id int) (model.Task, bool) {
	i := s.state.IndexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.state.Tasks[i], true
}

// State returns a copy of the current state.
func (s *TaskStore) State() *model.State {
	return s.state.Clone()
}

// Subscribe registers fn to be called after every successful mutation.
// The returned function removes the subscription.
func (s *TaskStore) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	id := s.nextSubID
	s.nextSubID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// commit saves next and, on success, makes it the current state and
// notifies subscribers.
func (s *TaskStore) commit(next *model.State) error {
	if err := s.p.SaveState(next); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}
	s.state = next
	s.notify()
	return nil
}

func (s *TaskStore) notify() {
	if len(s.subs) == 0 {
		return
	}
	v := s.View(model.FilterAll)
	for _, sub := range append([]subscriber(nil), s.subs...) {
		sub.fn(v)
	}
}
