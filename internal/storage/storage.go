// Package storage provides the .todo/ workspace and the slot backends that
// persist a task store.
package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jacksmith/todo/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// todoDir is the name of the workspace directory.
	todoDir = ".todo"
	// slotsDir is the subdirectory used by the file backend.
	slotsDir = "slots"
	// databaseFile is the SQLite database used by the sqlite backend.
	databaseFile = "todo.db"
	// configFile is the name of the workspace config file within .todo/.
	configFile = "config.yaml"

	// storageVersion is written to .todo/config.yaml by Init.
	storageVersion = 1
)

// StorageConfig contains settings stored in .todo/config.yaml.
type StorageConfig struct {
	Version int         `yaml:"version"`
	Backend BackendKind `yaml:"backend"`
}

// multiSetter is implemented by backends that can write several slots
// atomically.
type multiSetter interface {
	SetMulti(values map[string]string) error
}

// Storage provides access to a .todo/ workspace.
type Storage struct {
	root    string // path to directory containing .todo/, empty for detached storage
	kind    BackendKind
	backend Backend
	logger  *slog.Logger
}

// Open returns a Storage for the given directory.
// Returns error if .todo/ does not exist.
func Open(dir string) (*Storage, error) {
	todoPath := filepath.Join(dir, todoDir)
	info, err := os.Stat(todoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".todo/ directory not found in %s (run 'todo init' first)", dir)
		}
		return nil, fmt.Errorf("failed to access .todo/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".todo is not a directory")
	}

	cfg, err := loadStorageConfig(filepath.Join(todoPath, configFile))
	if err != nil {
		return nil, err
	}

	backend, err := openBackend(todoPath, cfg.Backend)
	if err != nil {
		return nil, err
	}

	return &Storage{root: dir, kind: cfg.Backend, backend: backend, logger: slog.Default()}, nil
}

// Init creates the .todo/ directory using the given backend.
// Returns error if .todo/ already exists.
func Init(dir string, kind BackendKind) (*Storage, error) {
	todoPath := filepath.Join(dir, todoDir)

	if _, err := os.Stat(todoPath); err == nil {
		return nil, fmt.Errorf(".todo/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .todo/: %w", err)
	}

	if kind == "" {
		kind = BackendFile
	}

	if err := os.MkdirAll(todoPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .todo/: %w", err)
	}

	cfg := StorageConfig{Version: storageVersion, Backend: kind}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		os.RemoveAll(todoPath)
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(todoPath, configFile), cfgData, 0644); err != nil {
		os.RemoveAll(todoPath)
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	backend, err := openBackend(todoPath, kind)
	if err != nil {
		os.RemoveAll(todoPath)
		return nil, err
	}

	return &Storage{root: dir, kind: kind, backend: backend, logger: slog.Default()}, nil
}

// NewDetached returns a Storage over an existing backend with no workspace
// directory behind it.
func NewDetached(b Backend) *Storage {
	return &Storage{backend: b, logger: slog.Default()}
}

func loadStorageConfig(path string) (*StorageConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &StorageConfig{Version: storageVersion, Backend: BackendFile}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
	}

	var cfg StorageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
	}
	kind, err := ParseBackendKind(string(cfg.Backend))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configFile, err)
	}
	cfg.Backend = kind
	return &cfg, nil
}

func openBackend(todoPath string, kind BackendKind) (Backend, error) {
	switch kind {
	case BackendFile:
		return NewFileBackend(filepath.Join(todoPath, slotsDir))
	case BackendSQLite:
		return OpenSQLiteBackend(filepath.Join(todoPath, databaseFile))
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}

// SetLogger replaces the logger used to report recovered slot errors.
func (s *Storage) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Root returns the root directory containing .todo/.
func (s *Storage) Root() string {
	return s.root
}

// TodoPath returns the path to the .todo/ directory.
func (s *Storage) TodoPath() string {
	if s.root == "" {
		return ""
	}
	return filepath.Join(s.root, todoDir)
}

// DataDirs returns the directories whose contents change when the task list
// is saved. Empty for detached storage.
func (s *Storage) DataDirs() []string {
	if s.root == "" {
		return nil
	}
	dirs := []string{s.TodoPath()}
	if fb, ok := s.backend.(*FileBackend); ok {
		dirs = append(dirs, fb.Dir())
	}
	return dirs
}

// Kind returns the backend kind in use.
func (s *Storage) Kind() BackendKind {
	return s.kind
}

// Backend returns the underlying slot backend.
func (s *Storage) Backend() Backend {
	return s.backend
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.backend.Close()
}

// RawState is the persisted state exactly as stored, before any repair.
type RawState struct {
	State *model.State

	// TodosErr and CounterErr hold decode failures of the two slots. An
	// absent slot is not an error.
	TodosErr   error
	CounterErr error
}

// ReadRawState reads the todos and todoIdCounter slots without repairing
// them. Only backend read failures are returned as errors.
func (s *Storage) ReadRawState() (*RawState, error) {
	raw := &RawState{State: &model.State{Tasks: []model.Task{}}}

	value, ok, err := s.backend.Get(model.SlotTodos)
	if err != nil {
		return nil, err
	}
	if ok {
		if tasks, err := model.DecodeTasks(value); err != nil {
			raw.TodosErr = err
		} else {
			raw.State.Tasks = tasks
		}
	}

	value, ok, err = s.backend.Get(model.SlotIDCounter)
	if err != nil {
		return nil, err
	}
	if ok {
		if n, err := model.DecodeCounter(value); err != nil {
			raw.CounterErr = err
		} else {
			raw.State.NextID = n
		}
	}

	return raw, nil
}

// LoadState reads the todos and todoIdCounter slots.
//
// An absent or unparsable todos slot yields no tasks, and an absent or
// unparsable counter yields 0. A counter that would hand out an id already
// in use is raised past the highest stored id. Only backend read failures
// are returned as errors.
func (s *Storage) LoadState() (*model.State, error) {
	raw, err := s.ReadRawState()
	if err != nil {
		return nil, err
	}
	if raw.TodosErr != nil {
		s.logger.Warn("Ignoring unreadable slot", "slot", model.SlotTodos, "error", raw.TodosErr)
	}
	if raw.CounterErr != nil {
		s.logger.Warn("Ignoring unreadable slot", "slot", model.SlotIDCounter, "error", raw.CounterErr)
	}

	state := raw.State
	if maxID := state.MaxID(); state.NextID <= maxID {
		s.logger.Warn("Raising id counter above stored ids",
			"counter", state.NextID, "max_id", maxID)
		state.NextID = maxID + 1
	}

	s.logger.Debug("Loaded state", "tasks", len(state.Tasks), "next_id", state.NextID)
	return state, nil
}

// SaveState writes both the todos and todoIdCounter slots.
func (s *Storage) SaveState(state *model.State) error {
	raw, err := model.EncodeTasks(state.Tasks)
	if err != nil {
		return err
	}
	counter := model.EncodeCounter(state.NextID)

	if ms, ok := s.backend.(multiSetter); ok {
		if err := ms.SetMulti(map[string]string{
			model.SlotTodos:     raw,
			model.SlotIDCounter: counter,
		}); err != nil {
			return err
		}
	} else {
		if err := s.backend.Set(model.SlotTodos, raw); err != nil {
			return err
		}
		if err := s.backend.Set(model.SlotIDCounter, counter); err != nil {
			return err
		}
	}

	s.logger.Debug("Saved state", "tasks", len(state.Tasks), "next_id", state.NextID)
	return nil
}

// Visited reports whether the welcome message has already been shown.
func (s *Storage) Visited() (bool, error) {
	v, ok, err := s.backend.Get(model.SlotVisited)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// MarkVisited records that the welcome message has been shown.
func (s *Storage) MarkVisited() error {
	return s.backend.Set(model.SlotVisited, "true")
}
