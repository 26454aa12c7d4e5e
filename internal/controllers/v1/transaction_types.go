package v1

import (
	"fmt"
	"time"

	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/schedule"
	"github.com/billplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionEditable struct {
	SourceAccountID      uuid.UUID       `json:"sourceAccountId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"`                                                  // ID of the source account
	DestinationAccountID uuid.UUID       `json:"destinationAccountId" example:"8e16b456-a719-48ce-9dd0-0a3a17ffbdb2"`                                             // ID of the destination account
	Date                 time.Time       `json:"date" example:"1815-12-10T18:43:00.271152Z"`                                                                      // Date of the transaction. Time is currently only used for sorting
	Amount               decimal.Decimal `json:"amount" example:"14.03" default:"0" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"` // The amount for the transaction
	Note                 string          `json:"note" example:"Bought a baguette" default:""`                                                                     // A note
	ObligationID         *uuid.UUID      `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"`                                                     // The obligation instance this transaction realizes, if any
	OriginalDate         *types.Date     `json:"originalDate" example:"2026-03-01"`                                                                               // The scheduled date of the realized instance
	Reconciled           bool            `json:"reconciled" example:"true" default:"false"`                                                                       // Has the transaction been verified against a bank statement?
}

// model returns the database resource for the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		SourceAccountID:      editable.SourceAccountID,
		DestinationAccountID: editable.DestinationAccountID,
		Date:                 editable.Date,
		Amount:               editable.Amount,
		Note:                 editable.Note,
		ObligationID:         editable.ObligationID,
		OriginalDate:         editable.OriginalDate,
		Reconciled:           editable.Reconciled,
	}
}

type TransactionLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/transactions/d430d7c3-d14c-4712-9336-ee56965a6673"` // The transaction itself
}

// Transaction is the API v1 representation of a Transaction.
type Transaction struct {
	models.DefaultModel
	TransactionEditable
	Links TransactionLinks `json:"links"`
}

func newTransaction(c *gin.Context, model models.Transaction) Transaction {
	url := c.GetString(string(models.DBContextURL))

	return Transaction{
		DefaultModel: model.DefaultModel,
		TransactionEditable: TransactionEditable{
			SourceAccountID:      model.SourceAccountID,
			DestinationAccountID: model.DestinationAccountID,
			Date:                 model.Date,
			Amount:               model.Amount,
			Note:                 model.Note,
			ObligationID:         model.ObligationID,
			OriginalDate:         model.OriginalDate,
			Reconciled:           model.Reconciled,
		},
		Links: TransactionLinks{
			Self: fmt.Sprintf("%s/v1/transactions/%s", url, model.ID),
		},
	}
}

type TransactionListResponse struct {
	Data       []Transaction `json:"data"`                                                          // List of transactions
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type TransactionCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransactionResponse `json:"data"`                                                          // List of created Transactions
}

func (t *TransactionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransactionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransactionResponse struct {
	Data  *Transaction `json:"data"`                                                          // Data for the transaction
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this transaction
}

type TransactionQueryFilter struct {
	Note         string `form:"note" filterField:"false"`       // Fuzzy filter for the note
	AccountID    string `form:"account" filterField:"false"`    // By source or destination account ID
	ObligationID string `form:"obligation" filterField:"false"` // By obligation ID
	Reconciled   bool   `form:"reconciled"`                     // Has the transaction been verified against a bank statement?
	Unlinked     bool   `form:"unlinked" filterField:"false"`   // Only transactions without an obligation link
	Offset       uint   `form:"offset" filterField:"false"`     // The offset of the first Transaction returned. Defaults to 0.
	Limit        int    `form:"limit" filterField:"false"`      // Maximum number of Transactions to return. Defaults to 50.
}

func (f TransactionQueryFilter) model() (models.Transaction, error) {
	return models.Transaction{
		Reconciled: f.Reconciled,
	}, nil
}

// LinkSuggestionListResponse is the response for the link rule
// evaluation endpoint.
type LinkSuggestionListResponse struct {
	Data  []schedule.LinkSuggestion `json:"data"`                                                          // Suggested obligation links for unlinked transactions
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}
