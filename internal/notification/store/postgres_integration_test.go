//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/internal/notification/ports"
	"github.com/infonl/dimpact-zaakafhandelcomponent-sub005/pkg/testutil/containers"
)

type PostgresSignalStoreSuite struct {
	contractSuite
	postgres *containers.PostgresContainer
}

func TestPostgresSignalStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSignalStoreSuite))
}

func (s *PostgresSignalStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.newStore = func() ports.SignalStore {
		s.Require().NoError(s.postgres.TruncateTables(context.Background(), "signal"))
		return NewPostgres(s.postgres.DB)
	}
}
