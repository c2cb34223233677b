package gadget

import (
	"context"
	"sort"
	"sync"
	"time"

	"gadgetry.org/internal/ids"
)

// Repository persists gadgets. Single-record writes are atomic; concurrent
// updates to the same gadget are last-write-wins.
type Repository interface {
	// Find returns gadgets matching f in creation order.
	Find(ctx context.Context, f Filter) ([]Gadget, error)
	// Insert stores g, assigning ID and timestamps when empty.
	Insert(ctx context.Context, g *Gadget) error
	// UpdateByID applies p to the gadget with id and returns the stored result.
	// It returns ErrNotFound when id has no record.
	UpdateByID(ctx context.Context, id string, p Patch) (Gadget, error)
}

var _ Repository = (*InMemory)(nil)

// InMemory implements Repository with in-process concurrency safety.
type InMemory struct {
	mu      sync.RWMutex
	gadgets map[string]*Gadget
	now     func() time.Time
}

// NewInMemory creates an empty repository.
func NewInMemory() *InMemory {
	return &InMemory{
		gadgets: make(map[string]*Gadget),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *InMemory) Find(ctx context.Context, f Filter) ([]Gadget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Gadget, 0, len(s.gadgets))
	for _, g := range s.gadgets {
		if f.Match(*g) {
			res = append(res, *g)
		}
	}
	// ULIDs sort by creation time.
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *InMemory) Insert(ctx context.Context, g *Gadget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == "" {
		g.ID = ids.New()
	}
	now := s.now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	stored := *g
	s.gadgets[g.ID] = &stored
	return nil
}

func (s *InMemory) UpdateByID(ctx context.Context, id string, p Patch) (Gadget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.gadgets[id]
	if !ok {
		return Gadget{}, ErrNotFound
	}
	p.Apply(g)
	g.UpdatedAt = s.now()
	return *g, nil
}
