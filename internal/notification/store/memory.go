package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

var _ ports.SignalStore = (*InMemorySignalStore)(nil)

// InMemorySignalStore keeps signals in a map. Used by tests and when no
// database is configured.
type InMemorySignalStore struct {
	mu      sync.RWMutex
	signals map[models.SignalKey]models.Signal
}

func NewInMemory() *InMemorySignalStore {
	return &InMemorySignalStore{signals: make(map[models.SignalKey]models.Signal)}
}

func (s *InMemorySignalStore) Create(_ context.Context, signal models.Signal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.signals[signal.SignalKey]; exists {
		return false, nil
	}
	s.signals[signal.SignalKey] = signal
	return true, nil
}

func (s *InMemorySignalStore) Delete(_ context.Context, key models.SignalKey) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.signals[key]; !exists {
		return false, nil
	}
	delete(s.signals, key)
	return true, nil
}

func (s *InMemorySignalStore) DeleteBySubject(_ context.Context, subjectID string, types []models.SignalType) ([]models.SignalKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []models.SignalKey
	for key := range s.signals {
		if key.SubjectID == subjectID && slices.Contains(types, key.Type) {
			delete(s.signals, key)
			removed = append(removed, key)
		}
	}
	return removed, nil
}

func (s *InMemorySignalStore) ListByRecipient(_ context.Context, recipient id.UserID) ([]models.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Signal
	for key, signal := range s.signals {
		if key.Recipient == recipient {
			out = append(out, signal)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].SubjectID < out[j].SubjectID
	})
	return out, nil
}

func (s *InMemorySignalStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, signal := range s.signals {
		if signal.CreatedAt.Before(cutoff) {
			delete(s.signals, key)
			removed++
		}
	}
	return removed, nil
}
