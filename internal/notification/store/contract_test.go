package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/models"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	id "github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/domain"
)

// contractSuite holds the behaviour every signal store shares.
type contractSuite struct {
	suite.Suite
	ctx      context.Context
	store    ports.SignalStore
	newStore func() ports.SignalStore
	now      time.Time
}

func (s *contractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
	s.now = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
}

func (s *contractSuite) create(key models.SignalKey, age time.Duration) {
	created, err := s.store.Create(s.ctx, models.Signal{SignalKey: key, CreatedAt: s.now.Add(-age)})
	s.Require().NoError(err)
	s.Require().True(created)
}

func (s *contractSuite) TestCreateIsIdempotentPerKey() {
	key := models.AssignedKey("alice", id.KindTask, "T1")
	s.create(key, 0)

	created, err := s.store.Create(s.ctx, models.Signal{SignalKey: key, Detail: "again", CreatedAt: s.now})
	s.Require().NoError(err)
	s.False(created)

	signals, err := s.store.ListByRecipient(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(signals, 1)
	s.Empty(signals[0].Detail)
}

func (s *contractSuite) TestDelete() {
	key := models.AssignedKey("alice", id.KindCase, "Z1")
	s.create(key, 0)

	deleted, err := s.store.Delete(s.ctx, key)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.store.Delete(s.ctx, key)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *contractSuite) TestListNewestFirst() {
	s.create(models.AssignedKey("alice", id.KindTask, "T-old"), 2*time.Hour)
	s.create(models.AssignedKey("alice", id.KindTask, "T-new"), time.Minute)
	s.create(models.AssignedKey("bob", id.KindTask, "T-bob"), 0)

	signals, err := s.store.ListByRecipient(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(signals, 2)
	s.Equal("T-new", signals[0].SubjectID)
	s.Equal("T-old", signals[1].SubjectID)
}

func (s *contractSuite) TestDeleteBySubjectOnlyMatchingTypes() {
	s.create(models.AssignedKey("alice", id.KindCase, "Z1"), 0)
	s.create(models.DocumentAddedKey("bob", "Z1"), 0)
	s.create(models.AssignedKey("carol", id.KindTask, "Z1"), 0)
	s.create(models.AssignedKey("alice", id.KindCase, "Z2"), 0)

	removed, err := s.store.DeleteBySubject(s.ctx, "Z1",
		[]models.SignalType{models.SignalCaseAssigned, models.SignalCaseDocumentAdded})
	s.Require().NoError(err)
	s.ElementsMatch([]models.SignalKey{
		models.AssignedKey("alice", id.KindCase, "Z1"),
		models.DocumentAddedKey("bob", "Z1"),
	}, removed)

	carol, err := s.store.ListByRecipient(s.ctx, "carol")
	s.Require().NoError(err)
	s.Len(carol, 1, "task signal with the same subject id is kept")

	alice, err := s.store.ListByRecipient(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(alice, 1)
}

func (s *contractSuite) TestDeleteOlderThan() {
	s.create(models.AssignedKey("alice", id.KindTask, "T1"), 48*time.Hour)
	s.create(models.AssignedKey("alice", id.KindTask, "T2"), time.Hour)

	n, err := s.store.DeleteOlderThan(s.ctx, s.now.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, n)

	signals, err := s.store.ListByRecipient(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(signals, 1)
	s.Equal("T2", signals[0].SubjectID)
}

type MemorySignalStoreSuite struct {
	contractSuite
}

func TestMemorySignalStoreSuite(t *testing.T) {
	s := new(MemorySignalStoreSuite)
	s.newStore = func() ports.SignalStore { return NewInMemory() }
	suite.Run(t, s)
}
