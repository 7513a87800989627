package services

import (
	"context"
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountService defines the chart-of-accounts operations.
type AccountService interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error)
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// GetAccountStructure returns the account hierarchy as a forest of root
	// nodes with rolled-up balances as of now.
	GetAccountStructure(ctx context.Context, typeFilter *domain.AccountType, activeFilter *bool) ([]*domain.AccountNode, error)
	// DeleteAccount rejects deletion when the account has children or is
	// referenced by any journal entry line.
	DeleteAccount(ctx context.Context, accountID string) error
	// Balance computes the rolled-up balance of the account and its
	// descendants from POSTED entries dated on or before asOf.
	Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)
}
