package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sahulatfin/microfin_backoffice/internal/apperrors"
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
	"github.com/sahulatfin/microfin_backoffice/internal/dto"
	"github.com/sahulatfin/microfin_backoffice/internal/middleware"
	"github.com/shopspring/decimal"
)

// accountService provides chart-of-accounts operations.
type accountService struct {
	accountRepo portsrepo.AccountRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepository) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountService = (*accountService)(nil)

// CreateAccount registers a new account in the chart of accounts.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if req.Code == "" || req.Name == "" {
		return nil, fmt.Errorf("%w: code and name are required", apperrors.ErrValidation)
	}

	// Duplicate code check. The unique index is the backstop under
	// concurrent creation; this check gives a precise error for the common path.
	existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrConflict, req.Code)
	}

	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to fetch parent account: %w", err)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent account %s is inactive", apperrors.ErrValidation, req.ParentAccountID)
		}
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		ParentAccountID: req.ParentAccountID,
		Description:     req.Description,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// UpdateAccount applies the mutable account fields. Changing the parent is
// guarded against cycles: the new parent may not be the account itself or any
// of its descendants.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, updaterUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
		updated = true
	}
	if req.ParentAccountID != nil && *req.ParentAccountID != account.ParentAccountID {
		if *req.ParentAccountID != "" {
			if err := s.validateParentChange(ctx, account, *req.ParentAccountID); err != nil {
				return nil, err
			}
		}
		account.ParentAccountID = *req.ParentAccountID
		updated = true
	}

	if !updated {
		logger.Debug("No fields provided for account update", slog.String("account_id", accountID))
		return account, nil
	}

	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = updaterUserID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated", slog.String("account_id", accountID))
	return account, nil
}

// validateParentChange rejects a new parent that does not exist, is inactive,
// or would make the parent graph cyclic.
func (s *accountService) validateParentChange(ctx context.Context, account *domain.Account, newParentID string) error {
	if newParentID == account.AccountID {
		return fmt.Errorf("%w: account cannot be its own parent", apperrors.ErrInvariantViolation)
	}

	parent, err := s.accountRepo.FindAccountByID(ctx, newParentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: parent account %s does not exist", apperrors.ErrValidation, newParentID)
		}
		return fmt.Errorf("failed to fetch parent account: %w", err)
	}
	if !parent.IsActive {
		return fmt.Errorf("%w: parent account %s is inactive", apperrors.ErrValidation, newParentID)
	}

	// The new parent is a descendant of this account exactly when this
	// account appears in the new parent's ancestor chain.
	ancestors, err := s.accountRepo.FindAncestorIDs(ctx, newParentID)
	if err != nil {
		return fmt.Errorf("failed to walk parent chain for %s: %w", newParentID, err)
	}
	for _, id := range ancestors {
		if id == account.AccountID {
			return fmt.Errorf("%w: account %s cannot be reparented under its own descendant %s", apperrors.ErrInvariantViolation, account.AccountID, newParentID)
		}
	}
	return nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountStructure returns the account hierarchy as a forest with
// rolled-up balances. Accounts whose parent falls outside the filtered set
// are promoted to roots so the filtered view stays complete.
func (s *accountService) GetAccountStructure(ctx context.Context, typeFilter *domain.AccountType, activeFilter *bool) ([]*domain.AccountNode, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx, typeFilter, activeFilter)
	if err != nil {
		logger.Error("Failed to list accounts for structure", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	ownBalances, err := s.accountRepo.CalculateOwnBalances(ctx, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to calculate account balances", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to calculate balances: %w", err)
	}

	nodes := make(map[string]*domain.AccountNode, len(accounts))
	for _, acc := range accounts {
		balance, ok := ownBalances[acc.AccountID]
		if !ok {
			balance = decimal.Zero
		}
		nodes[acc.AccountID] = &domain.AccountNode{Account: acc, Balance: balance}
	}

	var roots []*domain.AccountNode
	for _, node := range nodes {
		if node.ParentAccountID != "" {
			if parent, ok := nodes[node.ParentAccountID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	for _, root := range roots {
		rollUp(root)
	}
	sortNodes(roots)

	logger.Debug("Account structure assembled", slog.Int("accounts", len(accounts)), slog.Int("roots", len(roots)))
	return roots, nil
}

// rollUp adds each descendant's balance into its ancestors, depth first.
func rollUp(node *domain.AccountNode) decimal.Decimal {
	total := node.Balance
	for _, child := range node.Children {
		total = total.Add(rollUp(child))
	}
	node.Balance = total
	return total
}

// sortNodes orders sibling groups by account code, recursively.
func sortNodes(nodes []*domain.AccountNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Code < nodes[j].Code })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// DeleteAccount removes an account. Deletion is rejected, not cascaded, when
// the account has children or is referenced by any journal entry line.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return err
	}

	hasChildren, err := s.accountRepo.HasChildren(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check child accounts: %w", err)
	}
	if hasChildren {
		return fmt.Errorf("%w: account %s has child accounts", apperrors.ErrConflict, accountID)
	}

	inUse, err := s.accountRepo.HasEntryLines(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to check entry references: %w", err)
	}
	if inUse {
		return fmt.Errorf("%w: account %s is referenced by journal entries", apperrors.ErrConflict, accountID)
	}

	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to delete account: %w", err)
	}

	logger.Info("Account deleted", slog.String("account_id", accountID))
	return nil
}

// Balance computes the rolled-up balance of the account and its descendants
// from POSTED entries dated on or before asOf.
func (s *accountService) Balance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	return s.accountRepo.CalculateBalance(ctx, accountID, asOf)
}
