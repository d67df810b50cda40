// Package service updates documents in the external registry under an edit
// lock and announces the new version once the registry shows it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/document/ports"
	lockmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/models"
	lockservice "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/lock/service"
	nmodels "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/poller"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
	dErrors "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain-errors"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/platform/sentinel"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/requestcontext"
)

const (
	defaultPollAttempts = 10
	defaultPollDelay    = 500 * time.Millisecond
)

// Locks runs a mutation under the caller's edit lock.
type Locks interface {
	WithLock(ctx context.Context, documentID id.DocumentID, holder id.UserID, mutate lockservice.MutateFunc) error
}

// Waiter polls for a change in the background.
type Waiter interface {
	Start(ctx context.Context, predicate poller.Predicate, event nmodels.Event, maxAttempts int, delay time.Duration) <-chan bool
}

type Service struct {
	registry     ports.Registry
	locks        Locks
	waiter       Waiter
	logger       *slog.Logger
	pollAttempts int
	pollDelay    time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPolling sets how often and how far apart the registry is checked for
// the new version after an update.
func WithPolling(attempts int, delay time.Duration) Option {
	return func(s *Service) {
		if attempts > 0 {
			s.pollAttempts = attempts
		}
		if delay > 0 {
			s.pollDelay = delay
		}
	}
}

func New(registry ports.Registry, locks Locks, waiter Waiter, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, errors.New("document registry is required")
	}
	if locks == nil {
		return nil, errors.New("lock manager is required")
	}
	if waiter == nil {
		return nil, errors.New("change waiter is required")
	}
	s := &Service{
		registry:     registry,
		locks:        locks,
		waiter:       waiter,
		logger:       slog.Default(),
		pollAttempts: defaultPollAttempts,
		pollDelay:    defaultPollDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get reads a document from the registry.
func (s *Service) Get(ctx context.Context, documentID id.DocumentID) (models.Document, error) {
	doc, err := s.registry.Read(ctx, documentID)
	if err != nil {
		return models.Document{}, translateRegistryError(err, "failed to read document")
	}
	return doc, nil
}

// Update applies patch in the registry on behalf of the authenticated user.
// The registry does not notify about the new version, so a background poll
// announces it once the version number has moved past the one read here.
func (s *Service) Update(ctx context.Context, documentID id.DocumentID, patch models.Patch) error {
	actor := requestcontext.UserID(ctx)
	if actor.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "user is required")
	}
	if patch.IsEmpty() {
		return dErrors.New(dErrors.CodeBadRequest, "nothing to update")
	}

	var before models.Document
	err := s.locks.WithLock(ctx, documentID, actor, func(ctx context.Context, lock lockmodels.Lock) error {
		var err error
		before, err = s.registry.Read(ctx, documentID)
		if err != nil {
			return translateRegistryError(err, "failed to read document")
		}
		if err := s.registry.Update(ctx, documentID, lock.Token, patch); err != nil {
			return translateRegistryError(err, "failed to update document")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "document updated",
		"document_id", documentID,
		"case_id", before.CaseID,
		"previous_version", before.Version,
	)

	s.waiter.Start(ctx, s.versionAfter(documentID, before.Version),
		nmodels.ItemUpdated(id.KindDocument, documentID.String()),
		s.pollAttempts, s.pollDelay)
	return nil
}

func (s *Service) versionAfter(documentID id.DocumentID, version int) poller.Predicate {
	return func(ctx context.Context) bool {
		doc, err := s.registry.Read(ctx, documentID)
		if err != nil {
			s.logger.WarnContext(ctx, "document read failed while waiting for new version",
				"document_id", documentID,
				"error", err,
			)
			return false
		}
		return doc.Version > version
	}
}

func translateRegistryError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "document lock is no longer valid")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "document registry unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
