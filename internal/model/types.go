// Package model defines the core data structures for todo.
package model

import "time"

// Task is a single to-do entry.
type Task struct {
	ID        int       `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// State is the persisted content of a task store: the tasks in insertion
// order and the next identifier to hand out.
type State struct {
	Tasks  []Task
	NextID int
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := &State{NextID: s.NextID}
	if s.Tasks != nil {
		c.Tasks = make([]Task, len(s.Tasks))
		copy(c.Tasks, s.Tasks)
	}
	return c
}

// IndexOf returns the position of the task with the given id, or -1.
func (s *State) IndexOf(id int) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// MaxID returns the highest task id in the state, or -1 when empty.
func (s *State) MaxID() int {
	max := -1
	for _, t := range s.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// CompletedCount returns the number of completed tasks.
func (s *State) CompletedCount() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
