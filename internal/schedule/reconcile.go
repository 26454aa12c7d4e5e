package schedule

import (
	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/types"
	"github.com/google/uuid"
)

// swagger:enum MatchState
type MatchState string

const (
	// A realized transaction references this instance
	StateMatched MatchState = "MATCHED"
	// No transaction yet, the instance is not due before today
	StatePending MatchState = "PENDING"
	// No transaction and the instance's effective date has passed
	StateMissing MatchState = "MISSING"
)

// ReconciledInstance is a projected instance together with its
// classification against the realized transactions.
type ReconciledInstance struct {
	Instance
	State         MatchState `json:"state" example:"PENDING"`                                       // Classification of the instance
	TransactionID *uuid.UUID `json:"transactionId" example:"d4b40ef4-4b90-4a36-9f46-8021ffc6eb9f"`  // The transaction that realized the instance, if any
}

// Reconcile classifies projected instances against realized
// transactions.
//
// An instance counts as matched when a transaction links the same
// obligation and the same original scheduled date. Unmatched instances
// are pending until their effective date has passed and missing
// afterwards.
//
// The classification is advisory output for reporting, nothing is
// mutated. Creating a transaction for a due instance is the job of the
// caller.
func Reconcile(instances []Instance, transactions []models.Transaction, today types.Date) []ReconciledInstance {
	// Look up realized transactions by their obligation link
	realized := make(map[string]models.Transaction)
	for _, transaction := range transactions {
		if transaction.ObligationID == nil || transaction.OriginalDate == nil {
			continue
		}

		realized[linkKey(*transaction.ObligationID, *transaction.OriginalDate)] = transaction
	}

	reconciled := make([]ReconciledInstance, 0, len(instances))
	for _, instance := range instances {
		result := ReconciledInstance{
			Instance: instance,
			State:    StatePending,
		}

		if transaction, ok := realized[linkKey(instance.ObligationID, instance.OriginalDate)]; ok {
			result.State = StateMatched
			id := transaction.ID
			result.TransactionID = &id
		} else if instance.EffectiveDate.Before(today) {
			result.State = StateMissing
		}

		reconciled = append(reconciled, result)
	}

	return reconciled
}

func linkKey(obligationID uuid.UUID, originalDate types.Date) string {
	return obligationID.String() + "/" + originalDate.String()
}
