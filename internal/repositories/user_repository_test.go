package repositories

import (
	"context"
	"strings"
	"testing"
	"time"

	"fintrack/internal/database"
	"fintrack/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) newUser() *models.User {
	return &models.User{
		Email:        gofakeit.Email(),
		PasswordHash: "hashed_password",
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
	}
}

func (s *UserRepositorySuite) TestCreate() {
	user := s.newUser()

	err := s.repo.Create(s.ctx, user)
	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.NotZero(user.CreatedAt)
	s.NotZero(user.UpdatedAt)
}

func (s *UserRepositorySuite) TestCreate_NilUser() {
	s.Error(s.repo.Create(s.ctx, nil))
}

func (s *UserRepositorySuite) TestCreate_DuplicateEmail() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	duplicate := s.newUser()
	duplicate.Email = strings.ToUpper(user.Email)

	s.ErrorIs(s.repo.Create(s.ctx, duplicate), ErrUserAlreadyExists)
}

func (s *UserRepositorySuite) TestGetByEmail() {
	user := s.newUser()
	user.Email = "Jane.Doe@Example.com"
	s.Require().NoError(s.repo.Create(s.ctx, user))

	found, err := s.repo.GetByEmail(s.ctx, "  jane.doe@EXAMPLE.com ")
	s.NoError(err)
	s.Equal(user.ID, found.ID)
	s.Equal("jane.doe@example.com", found.Email)

	_, err = s.repo.GetByEmail(s.ctx, "nonexistent@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestGetByID() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	found, err := s.repo.GetByID(s.ctx, user.ID)
	s.NoError(err)
	s.Equal(user.Email, found.Email)

	_, err = s.repo.GetByID(s.ctx, uuid.New())
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestUpdate() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	user.FirstName = "Updated"
	s.NoError(s.repo.Update(s.ctx, user))

	updated, err := s.repo.GetByID(s.ctx, user.ID)
	s.NoError(err)
	s.Equal("Updated", updated.FirstName)
}

func (s *UserRepositorySuite) TestUpdateLastLogin() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(s.ctx, user))

	at := time.Now().UTC().Truncate(time.Second)
	s.NoError(s.repo.UpdateLastLogin(s.ctx, user.ID, at))

	updated, err := s.repo.GetByID(s.ctx, user.ID)
	s.NoError(err)
	s.Require().NotNil(updated.LastLoginAt)
	s.WithinDuration(at, *updated.LastLoginAt, time.Second)

	s.ErrorIs(s.repo.UpdateLastLogin(s.ctx, uuid.New(), at), ErrUserNotFound)
}

func (s *UserRepositorySuite) TestDelete_RemovesOwnedRecords() {
	owner := database.CreateTestUser(s.T(), s.db, "owner@example.com")
	other := database.CreateTestUser(s.T(), s.db, "other@example.com")

	database.CreateTestTransaction(s.T(), s.db, owner, models.TransactionTypeExpense, models.CategoryFood, "10.00", "2024-03-01")
	database.CreateTestBudget(s.T(), s.db, owner, models.CategoryFood, "100")
	database.CreateTestTransaction(s.T(), s.db, other, models.TransactionTypeIncome, models.CategorySalary, "500.00", "2024-03-01")
	s.Require().NoError(s.db.Create(&models.RefreshToken{
		UserID: owner.ID, TokenHash: "owner-token", ExpiresAt: time.Now().Add(time.Hour),
	}).Error)
	s.Require().NoError(s.db.Create(&models.AuditLog{
		UserID: &owner.ID, Action: models.AuditActionLogin, Resource: models.AuditResourceAuth,
	}).Error)

	s.NoError(s.repo.Delete(s.ctx, owner.ID))

	_, err := s.repo.GetByID(s.ctx, owner.ID)
	s.ErrorIs(err, ErrUserNotFound)

	var transactions, budgets, tokens int64
	s.db.Model(&models.Transaction{}).Where("user_id = ?", owner.ID).Count(&transactions)
	s.db.Model(&models.Budget{}).Where("user_id = ?", owner.ID).Count(&budgets)
	s.db.Model(&models.RefreshToken{}).Where("user_id = ?", owner.ID).Count(&tokens)
	s.Zero(transactions)
	s.Zero(budgets)
	s.Zero(tokens)

	var logs []models.AuditLog
	s.Require().NoError(s.db.Find(&logs).Error)
	s.Require().Len(logs, 1)
	s.Nil(logs[0].UserID)

	var otherTransactions int64
	s.db.Model(&models.Transaction{}).Where("user_id = ?", other.ID).Count(&otherTransactions)
	s.Equal(int64(1), otherTransactions)
}

func (s *UserRepositorySuite) TestDelete_NotFound() {
	s.ErrorIs(s.repo.Delete(s.ctx, uuid.New()), ErrUserNotFound)
}
