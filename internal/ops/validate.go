package ops

import (
	"fmt"
	"strings"

	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/storage"
)

// IssueType represents the kind of data integrity issue.
type IssueType string

const (
	IssueUnreadableSlot IssueType = "unreadable_slot"
	IssueDuplicateID    IssueType = "duplicate_id"
	IssueInvalidID      IssueType = "invalid_id"
	IssueCounterBehind  IssueType = "counter_behind"
	IssueMissingText    IssueType = "missing_text"
	IssueUntrimmedText  IssueType = "untrimmed_text"
)

// Issue represents a data integrity issue in the persisted slots.
type Issue struct {
	Type    IssueType
	Item    string // task id ("#3") or slot name
	Message string
	Fixable bool
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s - %s", i.Item, i.Type, i.Message)
}

// Fix represents an auto-repair action taken.
type Fix struct {
	Type        IssueType
	Item        string
	Description string
}

// Validate checks persisted slots for integrity issues.
func Validate(raw *storage.RawState) []Issue {
	var issues []Issue

	if raw.TodosErr != nil {
		issues = append(issues, Issue{
			Type:    IssueUnreadableSlot,
			Item:    model.SlotTodos,
			Message: raw.TodosErr.Error(),
		})
	}
	if raw.CounterErr != nil {
		issues = append(issues, Issue{
			Type:    IssueUnreadableSlot,
			Item:    model.SlotIDCounter,
			Message: raw.CounterErr.Error(),
			Fixable: true,
		})
	}

	state := raw.State
	seen := make(map[int]bool)
	for _, t := range state.Tasks {
		item := model.FormatTaskID(t.ID)
		switch {
		case t.ID < 0:
			issues = append(issues, Issue{
				Type:    IssueInvalidID,
				Item:    item,
				Message: "negative task id",
				Fixable: true,
			})
		case seen[t.ID]:
			issues = append(issues, Issue{
				Type:    IssueDuplicateID,
				Item:    item,
				Message: "duplicate task id",
				Fixable: true,
			})
		}
		seen[t.ID] = true

		trimmed := strings.TrimSpace(t.Text)
		if trimmed == "" {
			issues = append(issues, Issue{
				Type:    IssueMissingText,
				Item:    item,
				Message: "task has no text",
				Fixable: true,
			})
		} else if trimmed != t.Text {
			issues = append(issues, Issue{
				Type:    IssueUntrimmedText,
				Item:    item,
				Message: "task text has surrounding whitespace",
				Fixable: true,
			})
		}
	}

	if raw.CounterErr == nil {
		if maxID := state.MaxID(); state.NextID <= maxID {
			issues = append(issues, Issue{
				Type:    IssueCounterBehind,
				Item:    model.SlotIDCounter,
				Message: fmt.Sprintf("counter %d would reuse id %s", state.NextID, model.FormatTaskID(maxID)),
				Fixable: true,
			})
		}
	}

	return issues
}

// Repair returns a copy of the raw state with every fixable issue resolved,
// and the fixes applied. Tasks with duplicate or negative ids get fresh ids
// from the counter. An unreadable todos slot is left to the user.
func Repair(raw *storage.RawState) (*model.State, []Fix) {
	state := raw.State.Clone()
	var fixes []Fix

	next := state.NextID
	if maxID := state.MaxID(); next <= maxID {
		next = maxID + 1
	}
	if next != state.NextID || raw.CounterErr != nil {
		fixes = append(fixes, Fix{
			Type:        IssueCounterBehind,
			Item:        model.SlotIDCounter,
			Description: fmt.Sprintf("set counter to %d", next),
		})
	}

	seen := make(map[int]bool)
	kept := state.Tasks[:0]
	for _, t := range state.Tasks {
		item := model.FormatTaskID(t.ID)

		text := strings.TrimSpace(t.Text)
		if text == "" {
			fixes = append(fixes, Fix{
				Type:        IssueMissingText,
				Item:        item,
				Description: "removed task with no text",
			})
			continue
		}
		if text != t.Text {
			t.Text = text
			fixes = append(fixes, Fix{
				Type:        IssueUntrimmedText,
				Item:        item,
				Description: "trimmed task text",
			})
		}

		if t.ID < 0 || seen[t.ID] {
			issueType := IssueDuplicateID
			if t.ID < 0 {
				issueType = IssueInvalidID
			}
			t.ID = next
			next++
			fixes = append(fixes, Fix{
				Type:        issueType,
				Item:        item,
				Description: fmt.Sprintf("renumbered to %s", model.FormatTaskID(t.ID)),
			})
		}
		seen[t.ID] = true
		kept = append(kept, t)
	}
	state.Tasks = kept
	state.NextID = next

	return state, fixes
}
