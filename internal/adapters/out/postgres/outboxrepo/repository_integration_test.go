package outboxrepo_test

import (
	"context"
	"encoding/json"
	"testing"

	"marketplace/internal/adapters/out/postgres/outboxrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
)

type OutboxRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *outboxrepo.GormOutboxRepository
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), &outboxrepo.MessageDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
	suite.repository = outboxrepo.NewGormOutboxRepository(pg.DB)
}

func (suite *OutboxRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("outbox"))
}

func (suite *OutboxRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestAdd_WritesOneRowPerEvent() {
	ctx := context.Background()
	o := suite.createOrderWithTransition()

	suite.Require().NoError(suite.repository.Add(ctx, o.DomainEvents()))

	pending, err := suite.repository.FetchPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)

	suite.Equal(order.CreatedEventName, pending[0].Name)
	suite.Equal(o.ID().String(), pending[0].Key)
	var created outboxrepo.EventPayload
	suite.Require().NoError(json.Unmarshal(pending[0].Payload, &created))
	suite.Equal("9.47", created.Total)
	suite.Equal(2, created.LineCount)
	suite.Equal("PENDING", created.Status)
	suite.Equal(o.StoreID().String(), created.StoreID)

	suite.Equal(order.StatusChangedEventName, pending[1].Name)
	var changed outboxrepo.EventPayload
	suite.Require().NoError(json.Unmarshal(pending[1].Payload, &changed))
	suite.Equal("PENDING", changed.From)
	suite.Equal("PREPARING", changed.Status)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestMarkSent_RemovesFromPending() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createOrderWithTransition().DomainEvents()))

	pending, err := suite.repository.FetchPending(ctx, 1)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 1)

	suite.Require().NoError(suite.repository.MarkSent(ctx, []int64{pending[0].ID}))

	rest, err := suite.repository.FetchPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(rest, 1)
	suite.Equal(order.StatusChangedEventName, rest[0].Name)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestFetchPending_SkipsRowsLockedByAnotherRelay() {
	ctx := context.Background()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createOrderWithTransition().DomainEvents()))

	tx := suite.pg.DB.Begin()
	defer tx.Rollback()
	locked, err := outboxrepo.NewGormOutboxRepository(tx).FetchPending(ctx, 1)
	suite.Require().NoError(err)
	suite.Require().Len(locked, 1)

	other, err := suite.repository.FetchPending(ctx, 10)
	suite.Require().NoError(err)
	suite.Require().Len(other, 1)
	suite.NotEqual(locked[0].ID, other[0].ID)
}

func (suite *OutboxRepositoryIntegrationTestSuite) TestFetchPending_InvalidLimit() {
	_, err := suite.repository.FetchPending(context.Background(), 0)

	suite.Require().Error(err)
}

func (suite *OutboxRepositoryIntegrationTestSuite) createOrderWithTransition() *order.Order {
	apples, err := order.NewLine(kernel.NewUUID(), 2, kernel.MustMoney("2.99"))
	suite.Require().NoError(err)
	bread, err := order.NewLine(kernel.NewUUID(), 1, kernel.MustMoney("3.49"))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "user-1", []order.Line{apples, bread})
	suite.Require().NoError(err)
	suite.Require().NoError(o.ChangeStatus(order.Preparing))
	return o
}

func TestOutboxRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OutboxRepositoryIntegrationTestSuite))
}
