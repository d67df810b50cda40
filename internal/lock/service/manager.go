// Package service guards document mutations with an exclusive edit lock.
//
// A mutation either runs under a lock its caller already holds, or under a
// temporary lock created for it and released when it returns. Locks held by
// somebody else are never taken over and never released from here.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/metrics"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

const (
	modeTemporary = "temporary"
	modeExplicit  = "explicit"
)

// MutateFunc performs the guarded change. The lock carries the registry token.
type MutateFunc func(ctx context.Context, lock models.Lock) error

type Manager struct {
	store   ports.Store
	locker  ports.Locker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) {
		m.metrics = mt
	}
}

func New(store ports.Store, locker ports.Locker, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("lock store is required")
	}
	if locker == nil {
		return nil, errors.New("document locker is required")
	}
	m := &Manager{
		store:  store,
		locker: locker,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// WithLock runs mutate while holder has an exclusive lock on the document.
// A temporary lock created here is released after mutate returns, whether it
// succeeded, failed or panicked.
func (m *Manager) WithLock(ctx context.Context, documentID id.DocumentID, holder id.UserID, mutate MutateFunc) error {
	existing, found, err := m.find(ctx, documentID)
	if err != nil {
		return err
	}
	if found {
		if !existing.HeldBy(holder) {
			m.metrics.IncrementAcquisition(modeTemporary, "forbidden")
			return dErrors.New(dErrors.CodeForbidden, "document is locked by another user")
		}
		return mutate(ctx, existing)
	}

	lock, err := m.acquire(ctx, documentID, holder, true)
	if err != nil {
		return err
	}
	defer m.release(context.WithoutCancel(ctx), lock)

	return mutate(ctx, lock)
}

// Lock creates an explicit lock that lasts until Unlock. Locking a document
// the holder already has locked returns the existing lock.
func (m *Manager) Lock(ctx context.Context, documentID id.DocumentID, holder id.UserID) (models.Lock, error) {
	existing, found, err := m.find(ctx, documentID)
	if err != nil {
		return models.Lock{}, err
	}
	if found {
		if !existing.HeldBy(holder) {
			m.metrics.IncrementAcquisition(modeExplicit, "forbidden")
			return models.Lock{}, dErrors.New(dErrors.CodeForbidden, "document is locked by another user")
		}
		return existing, nil
	}
	return m.acquire(ctx, documentID, holder, false)
}

// Unlock releases the holder's lock on the document.
func (m *Manager) Unlock(ctx context.Context, documentID id.DocumentID, holder id.UserID) error {
	existing, found, err := m.find(ctx, documentID)
	if err != nil {
		return err
	}
	if !found {
		return dErrors.New(dErrors.CodeNotFound, "document is not locked")
	}
	if !existing.HeldBy(holder) {
		return dErrors.New(dErrors.CodeForbidden, "document is locked by another user")
	}
	if err := m.unlock(ctx, existing); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release document lock")
	}
	return nil
}

// Get returns the current lock on the document.
func (m *Manager) Get(ctx context.Context, documentID id.DocumentID) (models.Lock, error) {
	existing, found, err := m.find(ctx, documentID)
	if err != nil {
		return models.Lock{}, err
	}
	if !found {
		return models.Lock{}, dErrors.New(dErrors.CodeNotFound, "document is not locked")
	}
	return existing, nil
}

func (m *Manager) find(ctx context.Context, documentID id.DocumentID) (models.Lock, bool, error) {
	lock, err := m.store.Find(ctx, documentID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Lock{}, false, nil
	}
	if err != nil {
		return models.Lock{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up document lock")
	}
	return lock, true, nil
}

func (m *Manager) acquire(ctx context.Context, documentID id.DocumentID, holder id.UserID, temporary bool) (models.Lock, error) {
	mode := modeOf(temporary)
	token, err := m.locker.Lock(ctx, documentID, holder)
	if errors.Is(err, sentinel.ErrConflict) {
		token, err = m.reclaimStale(ctx, documentID, holder, err)
	}
	if err != nil {
		m.metrics.IncrementAcquisition(mode, "registry_error")
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return models.Lock{}, dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
		case errors.Is(err, sentinel.ErrConflict):
			return models.Lock{}, dErrors.Wrap(err, dErrors.CodeConflict, "document is locked in the registry")
		}
		return models.Lock{}, dErrors.Wrap(err, dErrors.CodeInternal, "document registry refused lock")
	}

	lock := models.Lock{
		DocumentID: documentID,
		HolderID:   holder,
		Token:      token,
		Temporary:  temporary,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := m.store.Create(ctx, lock); err != nil {
		if unlockErr := m.locker.Unlock(context.WithoutCancel(ctx), documentID, token); unlockErr != nil {
			m.logger.WarnContext(ctx, "failed to return registry lock", "document_id", documentID, "error", unlockErr)
		}
		if errors.Is(err, sentinel.ErrConflict) {
			m.metrics.IncrementAcquisition(mode, "conflict")
			return models.Lock{}, dErrors.Wrap(err, dErrors.CodeConflict, "document was locked concurrently")
		}
		m.metrics.IncrementAcquisition(mode, "error")
		return models.Lock{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store document lock")
	}

	m.metrics.IncrementAcquisition(mode, "ok")
	m.logger.DebugContext(ctx, "document locked",
		"document_id", documentID,
		"holder", holder,
		"temporary", temporary,
	)
	return lock, nil
}

// reclaimStale handles a registry lock with no lock record behind it, left
// when a temporary lock expired from the store before it was released. The
// registry lock is dropped and taken again once. With a record present the
// original conflict stands.
func (m *Manager) reclaimStale(ctx context.Context, documentID id.DocumentID, holder id.UserID, lockErr error) (string, error) {
	_, found, err := m.find(ctx, documentID)
	if err != nil {
		return "", err
	}
	if found {
		return "", lockErr
	}

	m.logger.WarnContext(ctx, "releasing registry lock without lock record",
		"document_id", documentID,
	)
	if err := m.locker.ForceUnlock(ctx, documentID); err != nil {
		return "", fmt.Errorf("force unlock: %w", err)
	}
	return m.locker.Lock(ctx, documentID, holder)
}

func (m *Manager) release(ctx context.Context, lock models.Lock) {
	if err := m.unlock(ctx, lock); err != nil {
		m.logger.ErrorContext(ctx, "failed to release temporary document lock",
			"document_id", lock.DocumentID,
			"error", err,
		)
	}
}

func (m *Manager) unlock(ctx context.Context, lock models.Lock) error {
	mode := modeOf(lock.Temporary)
	var errs []error
	if err := m.locker.Unlock(ctx, lock.DocumentID, lock.Token); err != nil {
		errs = append(errs, fmt.Errorf("registry unlock: %w", err))
	}
	if err := m.store.Delete(ctx, lock.DocumentID, lock.Token); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		errs = append(errs, fmt.Errorf("delete lock: %w", err))
	}
	if len(errs) > 0 {
		m.metrics.IncrementRelease(mode, "error")
		return errors.Join(errs...)
	}
	m.metrics.IncrementRelease(mode, "ok")
	return nil
}

func modeOf(temporary bool) string {
	if temporary {
		return modeTemporary
	}
	return modeExplicit
}
