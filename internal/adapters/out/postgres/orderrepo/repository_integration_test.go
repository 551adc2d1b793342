package orderrepo_test

import (
	"context"
	"sync"
	"testing"

	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background(), &orderrepo.OrderDTO{}, &orderrepo.LineDTO{})
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate("order_lines", "orders"))

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.pg.DB, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsHeaderAndLines() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertCount("orders", 1)
	suite.assertCount("order_lines", 2)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ZeroValueOrder_Fails() {
	err := suite.repository.Add(context.Background(), &order.Order{})

	suite.Require().ErrorIs(err, order.ErrOrderIsNotConstructed)
	suite.assertCount("orders", 0)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateID_IsPersistenceError() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	err := suite.repository.Add(ctx, testOrder)

	suite.Require().ErrorIs(err, errs.ErrPersistence)
	suite.True(errs.IsRetryable(err))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RoundTripsExactAmounts() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())

	suite.Require().NoError(err)
	suite.True(retrieved.ID().IsEqual(testOrder.ID()))
	suite.True(retrieved.StoreID().IsEqual(testOrder.StoreID()))
	suite.Equal(testOrder.UserID(), retrieved.UserID())
	suite.Equal("9.47", retrieved.Total().String())
	suite.Equal(order.Pending, retrieved.Status())
	suite.WithinDuration(testOrder.CreatedAt(), retrieved.CreatedAt(), 0)
	suite.Empty(retrieved.DomainEvents())

	lines := retrieved.Lines()
	suite.Require().Len(lines, 2)
	suite.Equal(2, lines[0].Quantity())
	suite.Equal("2.99", lines[0].UnitPrice().String())
	suite.Equal(1, lines[1].Quantity())
	suite.Equal("3.49", lines[1].UnitPrice().String())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
	suite.False(errs.IsRetryable(err))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_CancelledContext_IsPersistenceError() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrPersistence)
	suite.ErrorIs(err, context.Canceled)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateStatus_ConditionalOnCurrentStatus() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.ChangeStatus(order.Preparing))
	suite.Require().NoError(suite.repository.UpdateStatus(ctx, testOrder, order.Pending))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, retrieved.Status())

	stale, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(stale.ChangeStatus(order.Cancelled))

	err = suite.repository.UpdateStatus(ctx, stale, order.Pending)
	suite.Require().ErrorIs(err, errs.ErrIllegalTransition)

	retrieved, err = suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Preparing, retrieved.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetForUpdate_SerializesConcurrentTransitions() {
	ctx := context.Background()
	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	targets := []order.Status{order.Preparing, order.Cancelled}
	results := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = suite.transitionInTx(ctx, testOrder.ID(), target)
		}()
	}
	wg.Wait()

	// Both targets are legal from PENDING, and either order of the two
	// transitions is legal as well.
	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	if results[0] == nil && results[1] == nil {
		suite.Equal(order.Cancelled, retrieved.Status())
		return
	}
	for _, err := range results {
		if err != nil {
			suite.ErrorIs(err, errs.ErrIllegalTransition)
		}
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) transitionInTx(ctx context.Context, id kernel.UUID, target order.Status) error {
	tx := suite.pg.DB.Begin()
	defer tx.Rollback()

	repo := orderrepo.NewGormOrderRepository(tx, suite.tracker)
	o, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return err
	}
	from := o.Status()
	if err = o.ChangeStatus(target); err != nil {
		return err
	}
	if err = repo.UpdateStatus(ctx, o, from); err != nil {
		return err
	}
	return tx.Commit().Error
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	apples, err := order.NewLine(kernel.NewUUID(), 2, kernel.MustMoney("2.99"))
	suite.Require().NoError(err)
	bread, err := order.NewLine(kernel.NewUUID(), 1, kernel.MustMoney("3.49"))
	suite.Require().NoError(err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), "user-1", []order.Line{apples, bread})
	suite.Require().NoError(err)
	return o
}

func (suite *OrderRepositoryIntegrationTestSuite) assertCount(table string, expected int64) {
	var count int64
	suite.Require().NoError(suite.pg.DB.Table(table).Count(&count).Error)
	suite.Equal(expected, count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
