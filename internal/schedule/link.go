package schedule

import (
	"github.com/billplan/backend/internal/models"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// LinkSuggestion proposes an obligation for a transaction that carries
// no obligation link yet.
type LinkSuggestion struct {
	TransactionID uuid.UUID `json:"transactionId" example:"d4b40ef4-4b90-4a36-9f46-8021ffc6eb9f"` // The unlinked transaction
	ObligationID  uuid.UUID `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"`  // The obligation the rule points to
	RuleID        uuid.UUID `json:"ruleId" example:"1c3b9b1e-4b90-4a36-9f46-8021ffc6eb9f"`        // The rule that matched
}

// SuggestLinks matches unlinked transactions against the link rules.
//
// Rules are evaluated in ascending priority order, the first rule whose
// glob pattern matches the transaction note wins. Transactions that
// already carry an obligation link are left alone. The suggestions are
// advisory, confirming them is up to the caller.
func SuggestLinks(rules []models.LinkRule, transactions []models.Transaction) []LinkSuggestion {
	ordered := make([]models.LinkRule, len(rules))
	copy(ordered, rules)

	slices.SortStableFunc(ordered, func(a, b models.LinkRule) int {
		return int(a.Priority) - int(b.Priority)
	})

	suggestions := []LinkSuggestion{}
	for _, transaction := range transactions {
		if transaction.ObligationID != nil {
			continue
		}

		for _, rule := range ordered {
			if !glob.Glob(rule.Match, transaction.Note) {
				continue
			}

			suggestions = append(suggestions, LinkSuggestion{
				TransactionID: transaction.ID,
				ObligationID:  rule.ObligationID,
				RuleID:        rule.ID,
			})
			break
		}
	}

	return suggestions
}
