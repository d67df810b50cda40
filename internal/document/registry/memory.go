// Package registry holds document registry adapters. The in-memory registry
// backs local runs and tests; it issues lock tokens the way the external
// registry does.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/ports"
	lockports "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
)

var (
	_ ports.Registry   = (*InMemoryRegistry)(nil)
	_ lockports.Locker = (*InMemoryRegistry)(nil)
)

type entry struct {
	doc   models.Document
	token string
}

type InMemoryRegistry struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]*entry
	now  func() time.Time
}

func NewInMemory(docs ...models.Document) *InMemoryRegistry {
	r := &InMemoryRegistry{docs: make(map[id.DocumentID]*entry), now: time.Now}
	for _, d := range docs {
		r.Put(d)
	}
	return r
}

// Put stores or replaces a document, dropping any registry lock on it.
func (r *InMemoryRegistry) Put(doc models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = &entry{doc: doc}
}

func (r *InMemoryRegistry) Read(_ context.Context, documentID id.DocumentID) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.docs[documentID]
	if !ok {
		return models.Document{}, sentinel.ErrNotFound
	}
	return e.doc, nil
}

func (r *InMemoryRegistry) Update(_ context.Context, documentID id.DocumentID, token string, patch models.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.docs[documentID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if e.token == "" || e.token != token {
		return sentinel.ErrConflict
	}
	e.doc = e.doc.Apply(patch)
	e.doc.Version++
	e.doc.UpdatedAt = r.now()
	return nil
}

func (r *InMemoryRegistry) Lock(_ context.Context, documentID id.DocumentID, _ id.UserID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.docs[documentID]
	if !ok {
		return "", sentinel.ErrNotFound
	}
	if e.token != "" {
		return "", sentinel.ErrConflict
	}
	e.token = uuid.NewString()
	return e.token, nil
}

func (r *InMemoryRegistry) Unlock(_ context.Context, documentID id.DocumentID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.docs[documentID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if e.token != token {
		return sentinel.ErrConflict
	}
	e.token = ""
	return nil
}

func (r *InMemoryRegistry) ForceUnlock(_ context.Context, documentID id.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.docs[documentID]
	if !ok {
		return sentinel.ErrNotFound
	}
	e.token = ""
	return nil
}

// Locked reports whether the registry currently holds a lock on the document.
func (r *InMemoryRegistry) Locked(documentID id.DocumentID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.docs[documentID]
	return ok && e.token != ""
}
