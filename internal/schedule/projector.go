// Package schedule computes concrete schedules from recurring
// obligations: projected instances, their reconciliation against
// realized transactions, and the allocation of paychecks to bills.
//
// Everything in this package is a pure function over the data passed
// in. Nothing is persisted and results are recomputed on every call, so
// concurrent invocations need no coordination.
package schedule

import (
	"context"
	"errors"

	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Instance is a single projected occurrence of an obligation after the
// exception overlay has been applied. It only ever exists as a
// computation result.
type Instance struct {
	ObligationID  uuid.UUID       `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"` // ID of the obligation this instance belongs to
	EffectiveDate types.Date      `json:"effectiveDate" example:"2026-03-01"`                          // The date the instance is expected on. Differs from the original date when an exception moved it
	OriginalDate  types.Date      `json:"originalDate" example:"2026-03-01"`                           // The date the recurrence pattern generated
	Amount        decimal.Decimal `json:"amount" example:"-1800"`                                      // Amount of the instance, negative amounts are outflows
	Description   string          `json:"description" example:"Rent"`                                  // Description of the instance
	Modified      bool            `json:"modified" example:"false"`                                    // True when an exception changed this instance
}

var ErrRangeInvalid = errors.New("the end of the requested range must not be before its start")

// Project returns the ordered instances of a single obligation inside
// the requested range.
//
// An instance belongs to the range when its original scheduled date
// falls into it. An exception that moves the effective date out of the
// range does not remove the instance: a moved instance must never
// silently vanish from every window. Callers that want strict windowing
// can filter on the effective date.
//
// Archived obligations project nothing.
func Project(ctx context.Context, obligation models.Obligation, from, until types.Date) ([]Instance, error) {
	if until.Before(from) {
		return nil, ErrRangeInvalid
	}

	if err := obligation.Pattern.Validate(); err != nil {
		return nil, err
	}

	instances := []Instance{}

	if obligation.Archived {
		return instances, nil
	}

	// Restrict the walk to the obligation's validity window
	windowStart := from
	if obligation.StartDate.After(windowStart) {
		windowStart = obligation.StartDate
	}

	windowEnd := until
	if obligation.EndDate != nil && obligation.EndDate.Before(windowEnd) {
		windowEnd = *obligation.EndDate
	}

	if windowEnd.Before(windowStart) {
		return instances, nil
	}

	// Overlay lookup by the date the pattern generated
	overlay := make(map[string]models.Exception, len(obligation.Exceptions))
	for _, exception := range obligation.Exceptions {
		overlay[exception.OriginalDate.String()] = exception
	}

	occurrence := obligation.Pattern.NextOnOrAfter(obligation.StartDate, windowStart)
	for !occurrence.After(windowEnd) {
		// Multi-year walks with short frequencies can get long, allow
		// callers to bound them
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if instance, ok := materialize(obligation, occurrence, overlay); ok {
			instances = append(instances, instance)
		}

		occurrence = obligation.Pattern.NextOnOrAfter(obligation.StartDate, occurrence.AddDate(0, 0, 1))
	}

	// Exceptions can move an instance, re-establish effective date order
	sortInstances(instances)

	return instances, nil
}

// materialize applies the exception overlay to a single occurrence.
// The second return value is false when the occurrence is skipped.
func materialize(obligation models.Obligation, occurrence types.Date, overlay map[string]models.Exception) (Instance, bool) {
	instance := Instance{
		ObligationID:  obligation.ID,
		EffectiveDate: occurrence,
		OriginalDate:  occurrence,
		Amount:        obligation.Amount,
		Description:   obligation.Description,
	}

	exception, ok := overlay[occurrence.String()]
	if !ok {
		return instance, true
	}

	if exception.Kind == models.ExceptionSkip {
		return Instance{}, false
	}

	instance.Modified = true

	if exception.ModifiedAmount != nil {
		instance.Amount = *exception.ModifiedAmount
	}

	if exception.ModifiedDescription != nil {
		instance.Description = *exception.ModifiedDescription
	}

	if exception.ModifiedDate != nil {
		instance.EffectiveDate = *exception.ModifiedDate
	}

	return instance, true
}

// ProjectionFailure reports that projecting one obligation of a batch
// failed. The other obligations of the batch are unaffected.
type ProjectionFailure struct {
	ObligationID uuid.UUID `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"` // ID of the obligation that could not be projected
	Error        string    `json:"error" example:"the interval must be at least 1"`             // Why the projection failed
}

// ProjectAll projects a set of obligations over the same range and
// merges the results into one ordered sequence.
//
// A validation failure of a single obligation does not fail the batch,
// it is reported in the failure list instead. Context cancellation
// aborts the whole batch.
func ProjectAll(ctx context.Context, obligations []models.Obligation, from, until types.Date) ([]Instance, []ProjectionFailure, error) {
	if until.Before(from) {
		return nil, nil, ErrRangeInvalid
	}

	instances := []Instance{}
	failures := []ProjectionFailure{}

	for _, obligation := range obligations {
		projected, err := Project(ctx, obligation, from, until)
		if err != nil {
			// Cancellation aborts everything, a bad obligation only
			// aborts itself
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, nil, err
			}

			failures = append(failures, ProjectionFailure{
				ObligationID: obligation.ID,
				Error:        err.Error(),
			})
			continue
		}

		instances = append(instances, projected...)
	}

	sortInstances(instances)

	return instances, failures, nil
}

// sortInstances orders instances by effective date, keeping the
// original order for instances on the same day.
func sortInstances(instances []Instance) {
	slices.SortStableFunc(instances, func(a, b Instance) int {
		switch {
		case a.EffectiveDate.Before(b.EffectiveDate):
			return -1
		case a.EffectiveDate.After(b.EffectiveDate):
			return 1
		default:
			return 0
		}
	})
}
