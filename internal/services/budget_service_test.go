package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/repositories/repository_mocks"
	"fintrack/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type BudgetServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	ctx             context.Context
	userID          uuid.UUID
	budgetRepo      *repository_mocks.MockBudgetRepositoryInterface
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	activity        *service_mocks.MockActivityLoggerInterface
	metrics         *service_mocks.MockMetricsRecorderInterface
	service         BudgetServiceInterface
}

func TestBudgetServiceSuite(t *testing.T) {
	suite.Run(t, new(BudgetServiceTestSuite))
}

func (s *BudgetServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.userID = uuid.New()
	s.budgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.activity = service_mocks.NewMockActivityLoggerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.service = NewBudgetService(s.budgetRepo, s.transactionRepo, s.activity, s.metrics, fixedClock())
}

func (s *BudgetServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BudgetServiceTestSuite) expectWrite(operation string) {
	s.metrics.EXPECT().IncrementCounter(MetricLedgerWrite, map[string]string{
		"resource":  "budget",
		"operation": operation,
	}).Times(1)
}

func (s *BudgetServiceTestSuite) TestCreate() {
	input := models.BudgetInput{Category: " food ", LimitAmount: dec("200.00")}

	s.budgetRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, b *models.Budget) error {
		s.Equal(s.userID, b.UserID)
		s.Equal(models.CategoryFood, b.Category)
		return nil
	}).Times(1)
	s.expectWrite("create")
	s.activity.EXPECT().LogBudgetCreated(s.ctx, s.userID, gomock.Any()).Times(1)

	created, err := s.service.Create(s.ctx, s.userID, input)

	s.Require().NoError(err)
	s.Equal("200.00", created.LimitAmount.StringFixed(2))
}

func (s *BudgetServiceTestSuite) TestCreate_DuplicateCategoryIsConflict() {
	s.budgetRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(repositories.ErrBudgetCategoryExists).Times(1)

	_, err := s.service.Create(s.ctx, s.userID, models.BudgetInput{Category: models.CategoryFood, LimitAmount: dec("10.00")})

	s.ErrorIs(err, ErrBudgetCategoryExists)
}

func (s *BudgetServiceTestSuite) TestCreate_IncomeCategoryRejected() {
	s.activity.EXPECT().LogValidationFailure(s.ctx, "budget.create", gomock.Any()).Times(1)

	_, err := s.service.Create(s.ctx, s.userID, models.BudgetInput{Category: models.CategorySalary, LimitAmount: dec("10.00")})

	s.ErrorIs(err, ErrInvalidBudget)
	s.ErrorIs(err, models.ErrInvalidBudgetCategory)
}

func (s *BudgetServiceTestSuite) TestCreate_NegativeLimitRejected() {
	s.activity.EXPECT().LogValidationFailure(s.ctx, "budget.create", gomock.Any()).Times(1)

	_, err := s.service.Create(s.ctx, s.userID, models.BudgetInput{Category: models.CategoryFood, LimitAmount: dec("-10.00")})

	s.ErrorIs(err, models.ErrNegativeAmount)
}

func (s *BudgetServiceTestSuite) TestList() {
	budgets := []models.Budget{{ID: uuid.New(), UserID: s.userID, Category: models.CategoryFood}}
	s.budgetRepo.EXPECT().List(s.ctx, s.userID).Return(budgets, nil).Times(1)

	found, err := s.service.List(s.ctx, s.userID)

	s.NoError(err)
	s.Equal(budgets, found)
}

func (s *BudgetServiceTestSuite) TestGet_NotFound() {
	id := uuid.New()
	s.budgetRepo.EXPECT().GetByID(s.ctx, s.userID, id).Return(nil, repositories.ErrBudgetNotFound).Times(1)

	_, err := s.service.Get(s.ctx, s.userID, id)

	s.ErrorIs(err, ErrBudgetNotFound)
}

func (s *BudgetServiceTestSuite) TestUpdate() {
	existing := &models.Budget{ID: uuid.New(), UserID: s.userID, Category: models.CategoryFood, LimitAmount: dec("100.00")}

	s.budgetRepo.EXPECT().GetByID(s.ctx, s.userID, existing.ID).Return(existing, nil).Times(1)
	s.budgetRepo.EXPECT().Update(s.ctx, existing).Return(nil).Times(1)
	s.expectWrite("update")
	s.activity.EXPECT().LogBudgetUpdated(s.ctx, s.userID, existing).Times(1)

	updated, err := s.service.Update(s.ctx, s.userID, existing.ID, models.BudgetInput{Category: models.CategoryTransport, LimitAmount: dec("75.00")})

	s.Require().NoError(err)
	s.Equal(models.CategoryTransport, updated.Category)
	s.Equal("75.00", updated.LimitAmount.StringFixed(2))
}

func (s *BudgetServiceTestSuite) TestUpdate_CategoryCollisionIsConflict() {
	existing := &models.Budget{ID: uuid.New(), UserID: s.userID, Category: models.CategoryFood, LimitAmount: dec("100.00")}

	s.budgetRepo.EXPECT().GetByID(s.ctx, s.userID, existing.ID).Return(existing, nil).Times(1)
	s.budgetRepo.EXPECT().Update(s.ctx, existing).Return(repositories.ErrBudgetCategoryExists).Times(1)

	_, err := s.service.Update(s.ctx, s.userID, existing.ID, models.BudgetInput{Category: models.CategoryHealth, LimitAmount: dec("100.00")})

	s.ErrorIs(err, ErrBudgetCategoryExists)
}

func (s *BudgetServiceTestSuite) TestDelete() {
	id := uuid.New()
	s.budgetRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(nil).Times(1)
	s.expectWrite("delete")
	s.activity.EXPECT().LogBudgetDeleted(s.ctx, s.userID, id).Times(1)

	s.NoError(s.service.Delete(s.ctx, s.userID, id))
}

func (s *BudgetServiceTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.budgetRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(repositories.ErrBudgetNotFound).Times(1)

	s.ErrorIs(s.service.Delete(s.ctx, s.userID, id), ErrBudgetNotFound)
}

func (s *BudgetServiceTestSuite) TestSpendingVsBudget_UsesCurrentMonth() {
	budgets := []models.Budget{
		{ID: uuid.New(), UserID: s.userID, Category: models.CategoryEntertainment, LimitAmount: dec("100.00")},
		{ID: uuid.New(), UserID: s.userID, Category: models.CategoryHealth, LimitAmount: dec("40.00")},
	}
	month := models.DateRange{Start: day("2024-03-01"), End: day("2024-03-15")}

	s.budgetRepo.EXPECT().List(s.ctx, s.userID).Return(budgets, nil).Times(1)
	s.transactionRepo.EXPECT().SumExpensesByCategory(s.ctx, s.userID, month).Return([]models.CategorySummary{
		{Category: models.CategoryEntertainment, TransactionCount: 3, TotalAmount: dec("150.00")},
		{Category: models.CategoryFood, TransactionCount: 1, TotalAmount: dec("9.99")},
	}, nil).Times(1)
	s.metrics.EXPECT().RecordProcessingTime(MetricDashboardQuery+"spending_vs_budget", gomock.Any()).Times(1)
	s.activity.EXPECT().LogDashboardComputed(s.ctx, s.userID, "spending_vs_budget", gomock.Any()).Times(1)

	comparisons, err := s.service.SpendingVsBudget(s.ctx, s.userID)

	s.Require().NoError(err)
	s.Require().Len(comparisons, 2)
	s.Equal("-50.00", comparisons[0].Remaining.StringFixed(2))
	s.Equal(150.0, comparisons[0].Percentage)
	s.True(comparisons[0].OverBudget)
	s.Equal("0.00", comparisons[1].Spent.StringFixed(2))
	s.False(comparisons[1].OverBudget)
}

func (s *BudgetServiceTestSuite) TestSpendingVsBudget_StoreFailurePropagates() {
	storeErr := errors.New("connection refused")
	s.budgetRepo.EXPECT().List(s.ctx, s.userID).Return(nil, storeErr).Times(1)

	_, err := s.service.SpendingVsBudget(s.ctx, s.userID)

	s.ErrorIs(err, storeErr)
}
