package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/komalmemorial/volunteer/internal/core/domain"
)

// =============================================================================
// CachedStore
// =============================================================================

// CachedStore keeps recently listed volunteer pages and the total count in
// memory. Any successful write through the store drops everything cached.
type CachedStore struct {
	Store

	pages *lru.Cache[ListOptions, []domain.Volunteer]

	mu         sync.Mutex
	generation uint64
	count      *int
}

// NewCachedStore wraps inner with a page cache holding up to size entries.
func NewCachedStore(inner Store, size int) (*CachedStore, error) {
	pages, err := lru.New[ListOptions, []domain.Volunteer](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}
	return &CachedStore{Store: inner, pages: pages}, nil
}

func (s *CachedStore) CreateVolunteer(ctx context.Context, volunteer *domain.Volunteer) error {
	if err := s.Store.CreateVolunteer(ctx, volunteer); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CachedStore) ListVolunteers(ctx context.Context, opts ListOptions) ([]domain.Volunteer, error) {
	opts = opts.Normalize()
	if page, ok := s.pages.Get(opts); ok {
		return slices.Clone(page), nil
	}

	gen := s.currentGeneration()
	page, err := s.Store.ListVolunteers(ctx, opts)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if gen == s.generation {
		s.pages.Add(opts, slices.Clone(page))
	}
	s.mu.Unlock()

	return page, nil
}

func (s *CachedStore) CountVolunteers(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.count != nil {
		n := *s.count
		s.mu.Unlock()
		return n, nil
	}
	gen := s.generation
	s.mu.Unlock()

	n, err := s.Store.CountVolunteers(ctx)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	if gen == s.generation {
		s.count = &n
	}
	s.mu.Unlock()

	return n, nil
}

// WithTx runs fn on the wrapped store's transaction and drops the cache once
// the transaction commits.
func (s *CachedStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if err := s.Store.WithTx(ctx, fn); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Len returns the number of cached pages.
func (s *CachedStore) Len() int {
	return s.pages.Len()
}

func (s *CachedStore) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *CachedStore) invalidate() {
	s.mu.Lock()
	s.generation++
	s.count = nil
	s.pages.Purge()
	s.mu.Unlock()
}
