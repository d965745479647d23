package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/repositories/repository_mocks"
	"fintrack/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

var testLedgerConfig = config.LedgerConfig{
	Location:        time.UTC,
	TrendWindowDays: 30,
	MaxTrendDays:    366,
	RecentLimit:     10,
	MaxRecentLimit:  100,
	DefaultPageSize: 50,
	MaxPageSize:     200,
}

// fixedClock pins "today" to 2024-03-15 UTC
func fixedClock() Clock {
	return NewClock(time.UTC, func() time.Time {
		return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	})
}

func day(value string) time.Time {
	d, err := models.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

type TransactionServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	ctx             context.Context
	userID          uuid.UUID
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	activity        *service_mocks.MockActivityLoggerInterface
	metrics         *service_mocks.MockMetricsRecorderInterface
	service         TransactionServiceInterface
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.ctx = context.Background()
	s.userID = uuid.New()
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.activity = service_mocks.NewMockActivityLoggerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.service = NewTransactionService(s.transactionRepo, s.activity, s.metrics, testLedgerConfig, fixedClock())
}

func (s *TransactionServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TransactionServiceTestSuite) validInput() models.TransactionInput {
	return models.TransactionInput{
		Type:        models.TransactionTypeExpense,
		Category:    models.CategoryFood,
		Amount:      dec("12.50"),
		Description: gofakeit.Sentence(4),
		Date:        day("2024-03-10"),
	}
}

func (s *TransactionServiceTestSuite) expectWrite(operation string) {
	s.metrics.EXPECT().IncrementCounter(MetricLedgerWrite, map[string]string{
		"resource":  "transaction",
		"operation": operation,
	}).Times(1)
}

func (s *TransactionServiceTestSuite) TestCreate_BindsOwner() {
	input := s.validInput()

	s.transactionRepo.EXPECT().Create(s.ctx, gomock.Any()).DoAndReturn(func(_ context.Context, t *models.Transaction) error {
		s.Equal(s.userID, t.UserID)
		s.Equal(input.Category, t.Category)
		s.True(input.Amount.Equal(t.Amount))
		t.ID = uuid.New()
		return nil
	}).Times(1)
	s.expectWrite("create")
	s.activity.EXPECT().LogTransactionCreated(s.ctx, s.userID, gomock.Any()).Times(1)

	created, err := s.service.Create(s.ctx, s.userID, input)

	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, created.ID)
	s.Equal(input.Description, created.Description)
	s.Equal(day("2024-03-10"), created.Date)
}

func (s *TransactionServiceTestSuite) TestCreate_ValidationErrors() {
	tests := []struct {
		name   string
		mutate func(*models.TransactionInput)
		want   error
	}{
		{"income category on expense", func(in *models.TransactionInput) { in.Category = models.CategorySalary }, models.ErrInvalidCategory},
		{"missing category", func(in *models.TransactionInput) { in.Category = "  " }, models.ErrCategoryRequired},
		{"negative amount", func(in *models.TransactionInput) { in.Amount = dec("-1.00") }, models.ErrNegativeAmount},
		{"three decimals", func(in *models.TransactionInput) { in.Amount = dec("1.005") }, models.ErrAmountPrecision},
		{"unknown type", func(in *models.TransactionInput) { in.Type = "transfer" }, models.ErrInvalidTransactionType},
		{"missing date", func(in *models.TransactionInput) { in.Date = time.Time{} }, models.ErrDateRequired},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			input := s.validInput()
			tt.mutate(&input)
			s.activity.EXPECT().LogValidationFailure(s.ctx, "transaction.create", gomock.Any()).Times(1)

			_, err := s.service.Create(s.ctx, s.userID, input)

			s.ErrorIs(err, ErrInvalidTransaction)
			s.ErrorIs(err, tt.want)
		})
	}
}

func (s *TransactionServiceTestSuite) TestCreate_StoreFailure() {
	s.transactionRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(errors.New("connection reset")).Times(1)

	_, err := s.service.Create(s.ctx, s.userID, s.validInput())

	s.Error(err)
	s.NotErrorIs(err, ErrInvalidTransaction)
}

func (s *TransactionServiceTestSuite) TestList_AppliesDefaultPageSize() {
	s.transactionRepo.EXPECT().List(s.ctx, s.userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Equal(50, f.Limit)
			s.Equal(0, f.Offset)
			s.Nil(f.StartDate)
			return []models.Transaction{}, 0, nil
		}).Times(1)

	_, total, err := s.service.List(s.ctx, s.userID, models.TransactionFilters{})

	s.NoError(err)
	s.Zero(total)
}

func (s *TransactionServiceTestSuite) TestList_ClampsPageSize() {
	s.transactionRepo.EXPECT().List(s.ctx, s.userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Equal(200, f.Limit)
			s.Equal(0, f.Offset)
			return nil, 0, nil
		}).Times(1)

	_, _, err := s.service.List(s.ctx, s.userID, models.TransactionFilters{Limit: 5000, Offset: -3})

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestList_CurrentMonth() {
	s.transactionRepo.EXPECT().List(s.ctx, s.userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Require().True(f.HasDateRange())
			s.Equal(day("2024-03-01"), *f.StartDate)
			s.Equal(day("2024-03-15"), *f.EndDate)
			s.False(f.CurrentMonth)
			return nil, 0, nil
		}).Times(1)

	_, _, err := s.service.List(s.ctx, s.userID, models.TransactionFilters{CurrentMonth: true})

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestList_CurrentMonthNarrowsExplicitRange() {
	start, end := day("2024-02-20"), day("2024-03-05")
	s.transactionRepo.EXPECT().List(s.ctx, s.userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Equal(day("2024-03-01"), *f.StartDate)
			s.Equal(day("2024-03-05"), *f.EndDate)
			return nil, 0, nil
		}).Times(1)

	_, _, err := s.service.List(s.ctx, s.userID, models.TransactionFilters{CurrentMonth: true, StartDate: &start, EndDate: &end})

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestList_DateRangeValidation() {
	start, end := day("2024-03-10"), day("2024-03-01")

	_, _, err := s.service.List(s.ctx, s.userID, models.TransactionFilters{StartDate: &start})
	s.ErrorIs(err, ErrDateRangeIncomplete)

	_, _, err = s.service.List(s.ctx, s.userID, models.TransactionFilters{EndDate: &end})
	s.ErrorIs(err, ErrDateRangeIncomplete)

	_, _, err = s.service.List(s.ctx, s.userID, models.TransactionFilters{StartDate: &start, EndDate: &end})
	s.ErrorIs(err, ErrInvalidDateRange)
}

func (s *TransactionServiceTestSuite) TestGet_NotFound() {
	id := uuid.New()
	s.transactionRepo.EXPECT().GetByID(s.ctx, s.userID, id).Return(nil, repositories.ErrTransactionNotFound).Times(1)

	_, err := s.service.Get(s.ctx, s.userID, id)

	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestUpdate_ReplacesFields() {
	existing := &models.Transaction{
		ID:       uuid.New(),
		UserID:   s.userID,
		Type:     models.TransactionTypeExpense,
		Category: models.CategoryFood,
		Amount:   dec("5.00"),
		Date:     day("2024-03-01"),
	}
	input := models.TransactionInput{
		Type:     models.TransactionTypeIncome,
		Category: models.CategoryBonus,
		Amount:   dec("250.00"),
		Date:     day("2024-03-02"),
	}

	s.transactionRepo.EXPECT().GetByID(s.ctx, s.userID, existing.ID).Return(existing, nil).Times(1)
	s.transactionRepo.EXPECT().Update(s.ctx, existing).Return(nil).Times(1)
	s.expectWrite("update")
	s.activity.EXPECT().LogTransactionUpdated(s.ctx, s.userID, existing).Times(1)

	updated, err := s.service.Update(s.ctx, s.userID, existing.ID, input)

	s.Require().NoError(err)
	s.Equal(models.TransactionTypeIncome, updated.Type)
	s.Equal(models.CategoryBonus, updated.Category)
	s.Equal("250.00", updated.Amount.StringFixed(2))
	s.Empty(updated.Description)
	s.Equal(s.userID, updated.UserID)
}

func (s *TransactionServiceTestSuite) TestUpdate_OtherUsersTransactionIsNotFound() {
	id := uuid.New()
	s.transactionRepo.EXPECT().GetByID(s.ctx, s.userID, id).Return(nil, repositories.ErrTransactionNotFound).Times(1)

	_, err := s.service.Update(s.ctx, s.userID, id, s.validInput())

	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestDelete() {
	id := uuid.New()
	s.transactionRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(nil).Times(1)
	s.expectWrite("delete")
	s.activity.EXPECT().LogTransactionDeleted(s.ctx, s.userID, id).Times(1)

	s.NoError(s.service.Delete(s.ctx, s.userID, id))
}

func (s *TransactionServiceTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.transactionRepo.EXPECT().Delete(s.ctx, s.userID, id).Return(repositories.ErrTransactionNotFound).Times(1)

	s.ErrorIs(s.service.Delete(s.ctx, s.userID, id), ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestByCategory() {
	s.transactionRepo.EXPECT().List(s.ctx, s.userID, models.TransactionFilters{Category: models.CategoryPartTimeJob}).
		Return([]models.Transaction{{ID: uuid.New()}}, int64(1), nil).Times(1)

	found, err := s.service.ByCategory(s.ctx, s.userID, "part-time job")

	s.NoError(err)
	s.Len(found, 1)
}

func (s *TransactionServiceTestSuite) TestByCategory_Unknown() {
	_, err := s.service.ByCategory(s.ctx, s.userID, "crypto")

	s.ErrorIs(err, ErrUnknownCategory)
}

func (s *TransactionServiceTestSuite) TestByDateRange() {
	window := models.DateRange{Start: day("2024-01-01"), End: day("2024-01-31")}
	s.transactionRepo.EXPECT().List(s.ctx, s.userID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, int64, error) {
			s.Equal(window.Start, *f.StartDate)
			s.Equal(window.End, *f.EndDate)
			s.Zero(f.Limit)
			return nil, 0, nil
		}).Times(1)

	_, err := s.service.ByDateRange(s.ctx, s.userID, window)

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestByDateRange_Invalid() {
	_, err := s.service.ByDateRange(s.ctx, s.userID, models.DateRange{Start: day("2024-02-01"), End: day("2024-01-01")})
	s.ErrorIs(err, ErrInvalidDateRange)

	_, err = s.service.ByDateRange(s.ctx, s.userID, models.DateRange{Start: day("2024-02-01")})
	s.ErrorIs(err, ErrDateRangeIncomplete)
}
