package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tally/internal/http/reconcile"
	"github.com/MrJamesThe3rd/tally/internal/obligation"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

type transactionResponse struct {
	ID             uuid.UUID          `json:"id"`
	Company        string             `json:"company"`
	Amount         int64              `json:"amount"`
	Type           transaction.Type   `json:"type"`
	Status         transaction.Status `json:"status"`
	Description    string             `json:"description"`
	RawDescription string             `json:"raw_description,omitempty"`
	Category       string             `json:"category,omitempty"`
	Subcategory    string             `json:"subcategory,omitempty"`
	Date           time.Time          `json:"date"`
	ObligationRef  *string            `json:"obligation_ref,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      *time.Time         `json:"updated_at,omitempty"`
}

type settlementResponse struct {
	Outstanding int64             `json:"outstanding"`
	Status      obligation.Status `json:"status"`
}

type createResponse struct {
	Transaction transactionResponse        `json:"transaction"`
	Proposal    reconcile.ProposalResponse `json:"proposal"`
	Settlement  *settlementResponse        `json:"settlement,omitempty"`
}

type linkResponse struct {
	Transaction transactionResponse `json:"transaction"`
	Settlement  settlementResponse  `json:"settlement"`
}

type duplicateResponse struct {
	Error       string    `json:"error"`
	DuplicateOf uuid.UUID `json:"duplicate_of"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:             tx.ID,
		Company:        tx.Company,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Status:         tx.Status,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Category:       tx.Category,
		Subcategory:    tx.Subcategory,
		Date:           tx.Date,
		ObligationRef:  tx.ObligationRef,
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toSettlement(s obligation.Settlement) settlementResponse {
	return settlementResponse{Outstanding: s.Outstanding, Status: s.Status}
}
