package storage

import (
	"fmt"
	"strings"
)

// Backend is a string-keyed slot store, the local equivalent of a browser's
// localStorage.
type Backend interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases resources held by the backend.
	Close() error
}

// BackendKind names a Backend implementation in configuration.
type BackendKind string

const (
	BackendFile   BackendKind = "file"
	BackendSQLite BackendKind = "sqlite"
)

// ParseBackendKind parses a backend name. The empty string means BackendFile.
func ParseBackendKind(s string) (BackendKind, error) {
	switch BackendKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unknown backend %q (expected file or sqlite)", s)
	}
}
