package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested key does not exist.
var ErrNotFound = errors.New("not found")

// Setting is one persisted key/value pair. Value is opaque to the store;
// callers encode it (JSON in practice).
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// SettingsStore defines the persistence interface for flat key/value
// settings. Every key is stored and replaced independently.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
	AllSettings(ctx context.Context) ([]Setting, error)
}
