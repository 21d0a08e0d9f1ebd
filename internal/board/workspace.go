package board

import (
	"fmt"
	"strings"
	"sync"

	"github.com/nhle/workboard/internal/model"
)

// Workspace holds one Store per board, in the order boards were added.
// Each Store serializes its own writes, so boards never contend.
type Workspace struct {
	mu     sync.RWMutex
	order  []string
	stores map[string]*Store
	opts   []Option
	newID  func() (string, error)
}

// NewWorkspace creates a Store for each board. opts apply to every Store.
func NewWorkspace(boards []model.Board, opts ...Option) (*Workspace, error) {
	cfg := Store{newID: newUUID}
	for _, opt := range opts {
		opt(&cfg)
	}
	w := &Workspace{
		stores: make(map[string]*Store, len(boards)),
		opts:   opts,
		newID:  cfg.newID,
	}
	for _, b := range boards {
		if _, err := w.Add(b); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Add registers a new board.
func (w *Workspace) Add(b model.Board) (*Store, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if b.ID == "" {
		return nil, fmt.Errorf("%w: board id must not be empty", ErrValidation)
	}
	if _, ok := w.stores[b.ID]; ok {
		return nil, fmt.Errorf("board %s: %w", b.ID, ErrDuplicateBoard)
	}
	s := New(b, w.opts...)
	w.stores[b.ID] = s
	w.order = append(w.order, b.ID)
	return s, nil
}

// Create adds an empty board with a generated ID, using the ID generator
// configured by the workspace options.
func (w *Workspace) Create(name, description, color string, members []model.User) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: board name must not be empty", ErrValidation)
	}

	id, err := w.newID()
	if err != nil {
		return nil, err
	}

	return w.Add(model.Board{
		ID:          id,
		Name:        name,
		Description: description,
		Color:       color,
		Members:     append([]model.User(nil), members...),
		Tasks:       []model.Task{},
	})
}

// Store returns the Store for a board ID.
func (w *Workspace) Store(id string) (*Store, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.stores[id]
	return s, ok
}

// Stores returns every Store in insertion order.
func (w *Workspace) Stores() []*Store {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]*Store, len(w.order))
	for i, id := range w.order {
		out[i] = w.stores[id]
	}
	return out
}

// Len returns the number of boards.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.order)
}

// Boards returns a snapshot of every board in insertion order.
func (w *Workspace) Boards() []model.Board {
	stores := w.Stores()
	out := make([]model.Board, len(stores))
	for i, s := range stores {
		out[i] = s.Board()
	}
	return out
}
