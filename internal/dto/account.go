package dto

import (
	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID string             `json:"parentAccountID"`
	Description     string             `json:"description"`
}

// UpdateAccountRequest carries the mutable account fields. Code and type are
// immutable after creation and deliberately absent here.
type UpdateAccountRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	ParentAccountID *string `json:"parentAccountID"`
	IsActive        *bool   `json:"isActive"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountID       string `json:"accountID"`
	Code            string `json:"code"`
	Name            string `json:"name"`
	AccountType     string `json:"accountType"`
	ParentAccountID string `json:"parentAccountID,omitempty"`
	Description     string `json:"description,omitempty"`
	IsActive        bool   `json:"isActive"`
}

// AccountNodeResponse is an account with rolled-up balance and children, for
// the account-structure endpoint.
type AccountNodeResponse struct {
	AccountResponse
	Balance  decimal.Decimal       `json:"balance"`
	Children []AccountNodeResponse `json:"children"`
}

// ToAccountResponse converts a domain account to its API representation.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		ParentAccountID: a.ParentAccountID,
		Description:     a.Description,
		IsActive:        a.IsActive,
	}
}

// ToAccountNodeResponses converts an account tree to its API representation.
func ToAccountNodeResponses(nodes []*domain.AccountNode) []AccountNodeResponse {
	out := make([]AccountNodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = AccountNodeResponse{
			AccountResponse: ToAccountResponse(&n.Account),
			Balance:         n.Balance,
			Children:        ToAccountNodeResponses(n.Children),
		}
	}
	return out
}
