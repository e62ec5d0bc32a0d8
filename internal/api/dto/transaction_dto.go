package dto

import (
	"encoding/json"
	"time"
)

// CreateTransactionRequest payload for recording an expense. Amount accepts
// either a JSON number or a numeric string.
type CreateTransactionRequest struct {
	Username *string          `json:"username"`
	Type     *string          `json:"type"`
	Amount   *json.RawMessage `json:"amount"`
}

// DeleteTransactionRequest names one transaction by id.
type DeleteTransactionRequest struct {
	ID *string `json:"_id"`
}

// DeleteTransactionsRequest names several transactions by id.
type DeleteTransactionsRequest struct {
	IDs *[]string `json:"_ids"`
}

// TransactionResponse is the public shape of a transaction, with the
// category color joined in on listings.
type TransactionResponse struct {
	Username string    `json:"username"`
	Type     string    `json:"type"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Color    string    `json:"color,omitempty"`
}
