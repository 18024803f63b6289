package model

import (
	"fmt"
	"sort"
	"strings"
)

// Filter selects which tasks a View shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters in the order the UI cycles through them.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter parses a filter name. The empty string means FilterAll.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("unknown filter %q (expected all, active or completed)", s)
	}
}

// Next returns the filter that follows f in Filters, wrapping around.
func (f Filter) Next() Filter {
	for i, candidate := range Filters {
		if candidate == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Matches reports whether the task passes the filter.
func (f Filter) Matches(t *Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// View is the derived, read-only projection of a store for display.
// Total and CompletedCount always describe the whole store.
type View struct {
	Tasks          []Task
	Filter         Filter
	Total          int
	CompletedCount int
}

// ActiveCount returns the number of tasks not yet completed.
func (v View) ActiveCount() int {
	return v.Total - v.CompletedCount
}

// BuildView returns the display sequence for tasks given in insertion order.
//
// Incomplete tasks come before completed ones. Within each group newer tasks
// come first, and tasks created at the same instant keep their insertion
// order. The input slice is not modified.
func BuildView(tasks []Task, filter Filter) View {
	if filter == "" {
		filter = FilterAll
	}

	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	v := View{Filter: filter, Total: len(tasks)}
	for i := range sorted {
		if sorted[i].Completed {
			v.CompletedCount++
		}
		if filter.Matches(&sorted[i]) {
			v.Tasks = append(v.Tasks, sorted[i])
		}
	}
	return v
}
