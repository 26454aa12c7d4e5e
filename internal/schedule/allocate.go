package schedule

import (
	"errors"

	"github.com/billplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// PayEvent is a single income occurrence used as a funding source.
type PayEvent struct {
	Date      types.Date      `json:"date" example:"2026-01-15"`    // The day the money arrives
	NetAmount decimal.Decimal `json:"netAmount" example:"3500"`     // Net amount of the paycheck
}

// Bill is a single occurrence of a bill that needs to be funded by a
// paycheck arriving before its due date. Amounts are positive
// magnitudes regardless of the obligation's sign convention.
type Bill struct {
	Description  string          `json:"description" example:"Rent"`                                  // What the bill is for
	Amount       decimal.Decimal `json:"amount" example:"1800"`                                       // Positive magnitude of the bill
	DueDate      types.Date      `json:"dueDate" example:"2026-02-01"`                                // The day the bill is due
	ObligationID uuid.UUID       `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"` // The obligation the bill was derived from, if any
}

// BillAllocation is one funded bill occurrence.
type BillAllocation struct {
	Bill   Bill            `json:"bill"`                   // The funded bill
	Amount decimal.Decimal `json:"amount" example:"1800"`  // The amount taken from the pay event
}

// FundedPayEvent is a pay event together with the bills it funds.
type FundedPayEvent struct {
	PayEvent
	Remaining   decimal.Decimal  `json:"remaining" example:"1700"` // Capacity left after all allocations
	Allocations []BillAllocation `json:"allocations"`              // Bills funded from this pay event
}

// Shortfall reports a bill that no paycheck can cover in time.
type Shortfall struct {
	Bill Bill            `json:"bill"`                // The bill that cannot be funded
	Gap  decimal.Decimal `json:"gap" example:"1500"`  // How much money is missing
}

// AllocationResult is the outcome of an allocation run.
type AllocationResult struct {
	PayEvents  []FundedPayEvent `json:"payEvents"`  // Pay events with their allocations and remaining capacity
	Shortfalls []Shortfall      `json:"shortfalls"` // Bills that cannot be funded before their due date
}

var (
	ErrPayAmountNegative     = errors.New("pay event amounts must not be negative")
	ErrPayEventsNotSorted    = errors.New("pay events must be sorted by date in ascending order")
	ErrBillAmountNotPositive = errors.New("bill amounts must be larger than zero")
)

// Allocate distributes pay events across bill occurrences.
//
// Bills are funded in due date order. Each bill takes its full amount
// from the latest pay event that arrives no later than the due date and
// still has enough capacity: funding from the most recent eligible
// paycheck keeps older paychecks available for bills that are due even
// earlier but show up later in the iteration.
//
// A bill that no eligible pay event can cover is reported as a
// shortfall, with the gap measured against the best eligible remaining
// capacity. Shortfalls are outcomes, not errors, and deduct nothing.
//
// Amounts are rounded to two decimal places on entry, never during the
// run. Pay events sharing a date keep the caller's order.
func Allocate(payEvents []PayEvent, bills []Bill) (AllocationResult, error) {
	result := AllocationResult{
		PayEvents:  make([]FundedPayEvent, 0, len(payEvents)),
		Shortfalls: []Shortfall{},
	}

	for i, event := range payEvents {
		if event.NetAmount.IsNegative() {
			return AllocationResult{}, ErrPayAmountNegative
		}

		if i > 0 && event.Date.Before(payEvents[i-1].Date) {
			return AllocationResult{}, ErrPayEventsNotSorted
		}

		rounded := event.NetAmount.Round(2)
		result.PayEvents = append(result.PayEvents, FundedPayEvent{
			PayEvent:    PayEvent{Date: event.Date, NetAmount: rounded},
			Remaining:   rounded,
			Allocations: []BillAllocation{},
		})
	}

	// Work on a copy, the caller's slice stays untouched
	due := make([]Bill, len(bills))
	for i, bill := range bills {
		if !bill.Amount.IsPositive() {
			return AllocationResult{}, ErrBillAmountNotPositive
		}

		due[i] = bill
		due[i].Amount = bill.Amount.Round(2)
	}

	// Earliest deadline first
	slices.SortStableFunc(due, func(a, b Bill) int {
		switch {
		case a.DueDate.Before(b.DueDate):
			return -1
		case a.DueDate.After(b.DueDate):
			return 1
		default:
			return 0
		}
	})

	for _, bill := range due {
		funded := false
		bestCapacity := decimal.Zero

		// Scan from the latest eligible pay event backwards and take
		// the first one with sufficient capacity
		for i := len(result.PayEvents) - 1; i >= 0; i-- {
			event := &result.PayEvents[i]
			if event.Date.After(bill.DueDate) {
				continue
			}

			if event.Remaining.GreaterThan(bestCapacity) {
				bestCapacity = event.Remaining
			}

			if event.Remaining.GreaterThanOrEqual(bill.Amount) {
				event.Remaining = event.Remaining.Sub(bill.Amount)
				event.Allocations = append(event.Allocations, BillAllocation{
					Bill:   bill,
					Amount: bill.Amount,
				})
				funded = true
				break
			}
		}

		if !funded {
			result.Shortfalls = append(result.Shortfalls, Shortfall{
				Bill: bill,
				Gap:  bill.Amount.Sub(bestCapacity),
			})
		}
	}

	return result, nil
}
