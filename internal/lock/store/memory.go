package store

import (
	"context"
	"sync"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

var _ ports.Store = (*InMemoryStore)(nil)

type InMemoryStore struct {
	mu    sync.Mutex
	locks map[id.DocumentID]models.Lock
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{locks: make(map[id.DocumentID]models.Lock)}
}

func (s *InMemoryStore) Find(_ context.Context, documentID id.DocumentID) (models.Lock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[documentID]
	if !ok {
		return models.Lock{}, sentinel.ErrNotFound
	}
	return lock, nil
}

func (s *InMemoryStore) Create(_ context.Context, lock models.Lock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.locks[lock.DocumentID]; exists {
		return sentinel.ErrConflict
	}
	s.locks[lock.DocumentID] = lock
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, documentID id.DocumentID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[documentID]
	if !ok || lock.Token != token {
		return sentinel.ErrNotFound
	}
	delete(s.locks, documentID)
	return nil
}
