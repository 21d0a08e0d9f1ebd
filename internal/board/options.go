package board

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the time source used for CreatedAt/UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger mutations are reported to.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator replaces the task ID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// newUUID returns a time-ordered UUIDv7: a millisecond timestamp
// followed by random bits.
func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating id: %w", err)
	}
	return id.String(), nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
