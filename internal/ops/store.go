package ops

import "github.com/jacksmith/todo/internal/model"

// Persistence defines the storage interface required by TaskStore.
// The concrete implementation is storage.Storage, but this interface allows
// alternative backends for testing and embedding.
type Persistence interface {
	LoadState() (*model.State, error)
	SaveState(s *model.State) error
}
