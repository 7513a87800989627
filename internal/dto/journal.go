package dto

import (
	"time"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest is one debit or credit line in an entry request.
// Exactly one of Debit/Credit must be strictly positive.
type CreateEntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest is the payload for creating a DRAFT journal entry.
type CreateEntryRequest struct {
	EntryDate time.Time                `json:"entryDate" binding:"required" time_format:"2006-01-02"`
	Narration string                   `json:"narration" binding:"required"`
	Reference string                   `json:"reference"`
	Lines     []CreateEntryLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest carries the reversal reason.
type ReverseEntryRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListEntriesParams holds filters for listing journal entries.
type ListEntriesParams struct {
	Status *domain.EntryStatus
	Limit  int
	Offset int
}

// EntryLineResponse is the API representation of an entry line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

// EntryResponse is the API representation of a journal entry.
type EntryResponse struct {
	EntryID           string              `json:"entryID"`
	EntryNumber       int64               `json:"entryNumber"`
	EntryDate         string              `json:"entryDate"`
	Narration         string              `json:"narration"`
	Reference         string              `json:"reference,omitempty"`
	Status            string              `json:"status"`
	ApprovedBy        string              `json:"approvedBy,omitempty"`
	ReversalOfEntryID *string             `json:"reversalOfEntryID,omitempty"`
	ReversedByEntryID *string             `json:"reversedByEntryID,omitempty"`
	Lines             []EntryLineResponse `json:"lines,omitempty"`
}

// ToEntryResponse converts a domain entry to its API representation.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:           e.EntryID,
		EntryNumber:       e.EntryNumber,
		EntryDate:         e.EntryDate.Format("2006-01-02"),
		Narration:         e.Narration,
		Reference:         e.Reference,
		Status:            string(e.Status),
		ApprovedBy:        e.ApprovedBy,
		ReversalOfEntryID: e.ReversalOfEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = EntryLineResponse{
				LineID:      l.LineID,
				AccountID:   l.AccountID,
				Debit:       l.Debit,
				Credit:      l.Credit,
				Description: l.Description,
			}
		}
	}
	return resp
}

// ToEntryResponses converts a slice of domain entries.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return out
}
