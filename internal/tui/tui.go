// Package tui is an interactive terminal front end for a TaskStore.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jacksmith/todo/internal/cli"
	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/ops"
	"github.com/jacksmith/todo/internal/render"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeConfirmDelete
	modeConfirmClear
)

const helpLine = "a add • space toggle • d delete • c clear completed • tab filter • q quit"

// Options configures the UI.
type Options struct {
	// Filter is the initial filter.
	Filter model.Filter
	// Confirm asks before deleting or clearing.
	Confirm bool
	// Status is shown on the status line at startup.
	Status string
}

// liveView holds the latest view pushed by the store. It is shared between
// copies of Model.
type liveView struct {
	view model.View
}

// Model is the bubbletea model.
type Model struct {
	store   *ops.TaskStore
	live    *liveView
	unsub   func()
	filter  model.Filter
	confirm bool

	cursor  int
	mode    mode
	input   textinput.Model
	status  string
	pending *model.Task
}

// New returns a Model subscribed to store changes. Call Close when done.
func New(store *ops.TaskStore, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 50

	filter := opts.Filter
	if filter == "" {
		filter = model.FilterAll
	}

	live := &liveView{view: store.View(model.FilterAll)}
	unsub := store.Subscribe(func(v model.View) {
		live.view = v
	})

	status := opts.Status
	if status == "" {
		status = "Press 'a' to add a task."
	}

	return Model{
		store:   store,
		live:    live,
		unsub:   unsub,
		filter:  filter,
		confirm: opts.Confirm,
		input:   ti,
		status:  status,
	}
}

// Run starts the UI and blocks until the user quits.
func Run(store *ops.TaskStore, opts Options) error {
	m := New(store, opts)
	defer m.Close()

	_, err := tea.NewProgram(m).Run()
	return err
}

// Close removes the store subscription.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Visible returns the tasks currently shown, in display order.
func (m Model) Visible() []model.Task {
	return model.BuildView(m.live.view.Tasks, m.filter).Tasks
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// Filter returns the active filter.
func (m Model) Filter() model.Filter {
	return m.filter
}

// Input returns the current content of the input line.
func (m Model) Input() string {
	return m.input.Value()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateAddMode(msg)
		case modeConfirmDelete, modeConfirmClear:
			return m.updateConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		if msg.Width > 10 {
			m.input.Width = msg.Width - 10
		}
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input.SetValue("")
		m.input.Blur()
		m.mode = modeList
		m.status = ""
		return m, nil
	case "enter":
		task, err := m.store.Add(m.input.Value())
		if err != nil {
			var verr *ops.ValidationError
			if errors.As(err, &verr) {
				m.status = "Please enter a task!"
			} else {
				m.status = cli.FormatError(err)
			}
			return m, nil
		}
		m.input.SetValue("")
		m.status = fmt.Sprintf("Added %s", model.FormatTaskID(task.ID))
		m.selectTask(task.ID)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	visible := m.Visible()

	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(visible))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(visible))
	case "a", "i", "enter":
		m.mode = modeAdd
		m.status = "Type a task and press Enter. Esc to stop adding."
		return m, m.input.Focus()
	case "tab":
		m.filter = m.filter.Next()
		m.cursor = clampCursor(m.cursor, len(m.Visible()))
		m.status = fmt.Sprintf("Showing %s tasks", m.filter)
	case " ", "x":
		if len(visible) == 0 {
			return m, nil
		}
		task, err := m.store.Toggle(visible[m.cursor].ID)
		if err != nil {
			m.status = cli.FormatError(err)
			return m, nil
		}
		if task.Completed {
			m.status = fmt.Sprintf("Completed %s", model.FormatTaskID(task.ID))
		} else {
			m.status = fmt.Sprintf("Reopened %s", model.FormatTaskID(task.ID))
		}
		m.cursor = clampCursor(m.cursor, len(m.Visible()))
	case "d":
		if len(visible) == 0 {
			return m, nil
		}
		task := visible[m.cursor]
		if !m.confirm {
			return m.remove(task.ID), nil
		}
		m.pending = &task
		m.mode = modeConfirmDelete
		m.status = "Are you sure you want to delete this task? (y/n)"
	case "c":
		n := m.live.view.CompletedCount
		if n == 0 {
			m.status = "No completed tasks to clear!"
			return m, nil
		}
		if !m.confirm {
			return m.clearCompleted(), nil
		}
		m.mode = modeConfirmClear
		m.status = fmt.Sprintf("Are you sure you want to clear %d completed task(s)? (y/n)", n)
	}
	return m, nil
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	confirmed := key == "y" || key == "Y"
	current := m.mode
	m.mode = modeList
	if !confirmed {
		m.pending = nil
		m.status = "Cancelled"
		return m, nil
	}

	if current == modeConfirmDelete && m.pending != nil {
		id := m.pending.ID
		m.pending = nil
		return m.remove(id), nil
	}
	return m.clearCompleted(), nil
}

func (m Model) remove(id int) Model {
	if _, err := m.store.Remove(id); err != nil {
		m.status = cli.FormatError(err)
		return m
	}
	m.status = fmt.Sprintf("Deleted %s", model.FormatTaskID(id))
	m.cursor = clampCursor(m.cursor, len(m.Visible()))
	return m
}

func (m Model) clearCompleted() Model {
	n, err := m.store.ClearCompleted()
	if err != nil {
		m.status = cli.FormatError(err)
		return m
	}
	m.status = fmt.Sprintf("Cleared %d completed task(s)", n)
	m.cursor = clampCursor(m.cursor, len(m.Visible()))
	return m
}

// selectTask moves the cursor to the task with the given id if it is visible.
func (m *Model) selectTask(id int) {
	for i, t := range m.Visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.Visible()))
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(cli.Bold("Todo List"))
	b.WriteString("  " + cli.Gray("["+string(m.filter)+"]"))
	b.WriteString("\n\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}

	visible := m.Visible()
	switch {
	case m.live.view.Total == 0:
		b.WriteString(cli.Gray(render.EmptyMessage) + "\n")
	case len(visible) == 0:
		b.WriteString(cli.Gray(fmt.Sprintf("No %s tasks.", m.filter)) + "\n")
	}
	for i, t := range visible {
		cursor := "  "
		if i == m.cursor && m.mode != modeAdd {
			cursor = "> "
		}
		text := t.Text
		if t.Completed {
			text = cli.Strike(cli.Gray(text))
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, cli.Checkbox(t.Completed),
			cli.Gray(model.FormatTaskID(t.ID)), cli.Truncate(text, cli.DefaultMaxTextWidth))
	}

	b.WriteString("\n")
	b.WriteString(render.Stats(m.live.view))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(cli.Yellow(m.status))
		b.WriteString("\n")
	}
	b.WriteString(cli.Gray(helpLine))
	b.WriteString("\n")
	return b.String()
}

func clampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
