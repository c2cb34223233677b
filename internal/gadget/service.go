package gadget

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Service is the gadget lifecycle manager. It holds no state of its own;
// access control is applied by the caller before any method runs.
type Service struct {
	repo  Repository
	names *CodenameGenerator
	codes *CodeGenerator
	rand  io.Reader
}

// Option configures Service.
type Option func(*Service)

// WithRandom replaces the random source used for names, probabilities and codes.
func WithRandom(r io.Reader) Option {
	return func(s *Service) {
		if r != nil {
			s.rand = r
		}
	}
}

// NewService constructs a Service over repo.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, rand: rand.Reader}
	for _, opt := range opts {
		opt(s)
	}
	s.names = NewCodenameGenerator(s.rand)
	s.codes = NewCodeGenerator(s.rand)
	return s
}

// SelfDestructResult carries the display-only confirmation code with the destroyed gadget.
type SelfDestructResult struct {
	ConfirmationCode string
	Gadget           Gadget
}

// List returns gadgets matching f.
func (s *Service) List(ctx context.Context, f Filter) ([]Gadget, error) {
	res, err := s.repo.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find gadgets: %w", err)
	}
	return res, nil
}

// Create adds a gadget with a generated codename, a uniform probability in [0,100]
// and status AVAILABLE.
func (s *Service) Create(ctx context.Context) (Gadget, error) {
	name, err := s.names.Generate()
	if err != nil {
		return Gadget{}, err
	}
	prob, err := randIntn(s.rand, MaxProbability-MinProbability+1)
	if err != nil {
		return Gadget{}, err
	}
	g := Gadget{
		Name:               name,
		SuccessProbability: MinProbability + prob,
		Status:             StatusAvailable,
	}
	if err := s.repo.Insert(ctx, &g); err != nil {
		return Gadget{}, fmt.Errorf("insert gadget: %w", err)
	}
	return g, nil
}

// Update applies a raw field patch. Any status value is accepted regardless of
// the current state; only Decommission and SelfDestruct carry transition meaning.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Gadget, error) {
	if p.Empty() {
		return Gadget{}, ErrNoValidFields
	}
	return s.update(ctx, id, p)
}

// Decommission marks the gadget DECOMMISSIONED. The record is never removed.
func (s *Service) Decommission(ctx context.Context, id string) (Gadget, error) {
	st := StatusDecommissioned
	return s.update(ctx, id, Patch{Status: &st})
}

// SelfDestruct marks the gadget DESTROYED and returns a fresh confirmation code.
// Repeating it on a destroyed gadget succeeds with a new code.
func (s *Service) SelfDestruct(ctx context.Context, id string) (SelfDestructResult, error) {
	code, err := s.codes.Generate()
	if err != nil {
		return SelfDestructResult{}, err
	}
	st := StatusDestroyed
	g, err := s.update(ctx, id, Patch{Status: &st})
	if err != nil {
		return SelfDestructResult{}, err
	}
	return SelfDestructResult{ConfirmationCode: code, Gadget: g}, nil
}

func (s *Service) update(ctx context.Context, id string, p Patch) (Gadget, error) {
	g, err := s.repo.UpdateByID(ctx, id, p)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Gadget{}, ErrNotFound
		}
		return Gadget{}, fmt.Errorf("update gadget %s: %w", id, err)
	}
	return g, nil
}
