package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jacksmith/todo/internal/model"
	"github.com/jacksmith/todo/internal/ops"
	"github.com/jacksmith/todo/internal/storage"
)

const welcomeMessage = `Welcome to your to-do list!

Tips:
  • todo add "..." adds a task
  • Tasks are saved automatically
  • todo toggle <id> marks a task complete or open again
  • todo clear removes completed tasks when you are done`

// workspace bundles everything a command needs to operate on the task list.
type workspace struct {
	storage *storage.Storage
	store   *ops.TaskStore
	config  *storage.Config
}

// openWorkspace opens the .todo/ workspace in the current directory and loads
// the task list.
func openWorkspace() (*workspace, error) {
	s, err := storage.Open(".")
	if err != nil {
		return nil, err
	}
	s.SetLogger(slog.Default())

	cfg, err := s.LoadConfig()
	if err != nil {
		s.Close()
		return nil, err
	}

	store, err := ops.Load(s, ops.WithLogger(slog.Default()))
	if err != nil {
		s.Close()
		return nil, err
	}

	return &workspace{storage: s, store: store, config: cfg}, nil
}

func (w *workspace) Close() error {
	return w.storage.Close()
}

// welcome returns the welcome tips the first time an empty list is shown, and
// remembers that they were shown.
func (w *workspace) welcome() string {
	if !w.config.Welcome || w.store.View(model.FilterAll).Total > 0 {
		return ""
	}
	visited, err := w.storage.Visited()
	if err != nil {
		slog.Warn("Failed to read visited flag", "error", err)
		return ""
	}
	if visited {
		return ""
	}
	if err := w.storage.MarkVisited(); err != nil {
		slog.Warn("Failed to record visit", "error", err)
	}
	return welcomeMessage
}

// printWelcome writes the welcome tips to stdout if they are due.
func (w *workspace) printWelcome() {
	if msg := w.welcome(); msg != "" {
		fmt.Fprintln(os.Stdout, msg)
		fmt.Fprintln(os.Stdout)
	}
}
