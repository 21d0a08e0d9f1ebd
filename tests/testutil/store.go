package testutil

import (
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/nhle/workboard/internal/settings"
	"github.com/nhle/workboard/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err, "creating test store")

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestLogger returns a silent logger whose entries are captured by the
// returned hook.
func NewTestLogger() (*log.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.DebugLevel)
	return logger, hook
}

// NewTestSettings wires a settings.Service to a fresh in-memory store.
func NewTestSettings(t *testing.T) (*settings.Service, *store.SQLiteStore, *test.Hook) {
	t.Helper()

	s := NewTestStore(t)
	logger, hook := NewTestLogger()
	return settings.NewService(s, logger), s, hook
}
