package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/core/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountService
	userID          string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
	suite.userID = uuid.NewString()
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1001",
		Name:        "Cash in Hand",
		AccountType: domain.Asset,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1001").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal("1001", account.Code)
	suite.True(account.IsActive)
	suite.Equal(suite.userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:        "1001",
		Name:        "Cash in Hand",
		AccountType: domain.Asset,
	}
	existing := &domain.Account{AccountID: uuid.NewString(), Code: "1001"}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1001").Return(existing, nil).Once()

	account, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_UnknownParent() {
	ctx := context.Background()
	parentID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Code:            "1001.1",
		Name:            "Till",
		AccountType:     domain.Asset,
		ParentAccountID: parentID,
	}

	suite.mockAccountRepo.On("FindAccountByCode", ctx, "1001.1").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateAccount(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SelfParentRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1001", AccountType: domain.Asset, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{ParentAccountID: &accountID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_CyclicParentRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	childID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1001", AccountType: domain.Asset, IsActive: true}
	child := &domain.Account{AccountID: childID, Code: "1001.1", AccountType: domain.Asset, IsActive: true, ParentAccountID: accountID}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, childID).Return(child, nil).Once()
	// The account appears in the would-be parent's ancestor chain.
	suite.mockAccountRepo.On("FindAncestorIDs", ctx, childID).Return([]string{accountID}, nil).Once()

	_, err := suite.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{ParentAccountID: &childID}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvariantViolation)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_WithChildrenRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1000", AccountType: domain.Asset}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasChildren", ctx, accountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeleteAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount_ReferencedByEntriesRejected() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.Account{AccountID: accountID, Code: "1000", AccountType: domain.Asset}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockAccountRepo.On("HasChildren", ctx, accountID).Return(false, nil).Once()
	suite.mockAccountRepo.On("HasEntryLines", ctx, accountID).Return(true, nil).Once()

	err := suite.service.DeleteAccount(ctx, accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AccountServiceTestSuite) TestGetAccountStructure_RollsUpBalances() {
	ctx := context.Background()
	rootID := uuid.NewString()
	childID := uuid.NewString()
	grandchildID := uuid.NewString()

	accounts := []domain.Account{
		{AccountID: rootID, Code: "1000", Name: "Assets", AccountType: domain.Asset},
		{AccountID: childID, Code: "1100", Name: "Cash", AccountType: domain.Asset, ParentAccountID: rootID},
		{AccountID: grandchildID, Code: "1110", Name: "Till", AccountType: domain.Asset, ParentAccountID: childID},
	}
	balances := map[string]decimal.Decimal{
		rootID:       decimal.NewFromInt(10),
		childID:      decimal.NewFromInt(20),
		grandchildID: decimal.NewFromInt(30),
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, (*domain.AccountType)(nil), (*bool)(nil)).Return(accounts, nil).Once()
	suite.mockAccountRepo.On("CalculateOwnBalances", ctx, mock.AnythingOfType("time.Time")).Return(balances, nil).Once()

	roots, err := suite.service.GetAccountStructure(ctx, nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(roots, 1)
	suite.Equal(rootID, roots[0].AccountID)
	// 10 own + 20 child + 30 grandchild
	suite.True(roots[0].Balance.Equal(decimal.NewFromInt(60)), "root balance %s", roots[0].Balance)
	suite.Require().Len(roots[0].Children, 1)
	suite.True(roots[0].Children[0].Balance.Equal(decimal.NewFromInt(50)))
}

func (suite *AccountServiceTestSuite) TestGetAccountStructure_OrphanPromotedToRoot() {
	ctx := context.Background()
	orphanID := uuid.NewString()
	accounts := []domain.Account{
		{AccountID: orphanID, Code: "2100", Name: "Savings Payable", AccountType: domain.Liability, ParentAccountID: uuid.NewString()},
	}

	suite.mockAccountRepo.On("ListAccounts", ctx, mock.Anything, mock.Anything).Return(accounts, nil).Once()
	suite.mockAccountRepo.On("CalculateOwnBalances", ctx, mock.AnythingOfType("time.Time")).Return(map[string]decimal.Decimal{}, nil).Once()

	roots, err := suite.service.GetAccountStructure(ctx, nil, nil)

	suite.Require().NoError(err)
	suite.Require().Len(roots, 1)
	suite.Equal(orphanID, roots[0].AccountID)
	suite.True(roots[0].Balance.IsZero())
}

func (suite *AccountServiceTestSuite) TestBalance_UnknownAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Balance(ctx, accountID, time.Now().UTC())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
