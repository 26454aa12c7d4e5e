package v1

import (
	"fmt"
	"time"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/recurrence"
	"github.com/billplan/backend/internal/schedule"
	"github.com/billplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ObligationEditable struct {
	SourceAccountID      uuid.UUID            `json:"sourceAccountId" example:"f9e873c2-fb96-4367-bfb6-7ecd9bf4a6b5"`      // The account the series is booked against
	DestinationAccountID *uuid.UUID           `json:"destinationAccountId" example:"8e16b456-a719-48ce-9dd0-0a3a17ffbdb2"` // Set for transfer series only
	Description          string               `json:"description" example:"Rent" default:""`                               // What the obligation is for
	Note                 string               `json:"note" example:"Landlord raised it in March" default:""`               // A longer description for the obligation
	Amount               decimal.Decimal      `json:"amount" example:"-1800" multipleOf:"0.00000001"`                      // Amount per occurrence, negative amounts are outflows
	Currency             string               `json:"currency" example:"USD" default:"USD"`                                // ISO 4217 currency code
	Frequency            recurrence.Frequency `json:"frequency" example:"MONTHLY"`                                         // Base frequency of the recurrence
	Interval             uint                 `json:"interval" example:"1" minimum:"1" default:"1"`                        // Multiplies the base frequency
	DayOfMonth           *int                 `json:"dayOfMonth" example:"31"`                                             // Day of the month for MONTHLY, QUARTERLY and YEARLY patterns
	DayOfWeek            *time.Weekday        `json:"dayOfWeek" example:"4"`                                               // Weekday for WEEKLY and BIWEEKLY patterns, 0 is Sunday
	MonthOfYear          *time.Month          `json:"monthOfYear" example:"2"`                                             // Month anchor for YEARLY patterns
	StartDate            types.Date           `json:"startDate" example:"2026-01-01"`                                      // First day of the validity window. Defaults to today
	EndDate              *types.Date          `json:"endDate" example:"2026-12-31"`                                        // Last day of the validity window, unset means open ended
	Archived             bool                 `json:"archived" example:"true" default:"false"`                             // Is the obligation archived?
}

// model returns the database resource for the editable fields
func (editable ObligationEditable) model() models.Obligation {
	return models.Obligation{
		SourceAccountID:      editable.SourceAccountID,
		DestinationAccountID: editable.DestinationAccountID,
		Description:          editable.Description,
		Note:                 editable.Note,
		Amount:               editable.Amount,
		Currency:             editable.Currency,
		Pattern: recurrence.Pattern{
			Frequency:   editable.Frequency,
			Interval:    editable.Interval,
			DayOfMonth:  editable.DayOfMonth,
			DayOfWeek:   editable.DayOfWeek,
			MonthOfYear: editable.MonthOfYear,
		},
		StartDate: editable.StartDate,
		EndDate:   editable.EndDate,
		Archived:  editable.Archived,
	}
}

type ObligationLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/obligations/8e16b456-a719-48ce-9dd0-0a3a17ffbdb2"`                 // The obligation itself
	Instances  string `json:"instances" example:"https://example.com/api/v1/obligations/8e16b456-a719-48ce-9dd0-0a3a17ffbdb2/instances"`  // Projected instances of the obligation
	Exceptions string `json:"exceptions" example:"https://example.com/api/v1/exceptions?obligation=8e16b456-a719-48ce-9dd0-0a3a17ffbdb2"` // Exceptions of the obligation
}

// Obligation is the API v1 representation of an Obligation.
type Obligation struct {
	models.DefaultModel
	ObligationEditable
	NextDate *types.Date     `json:"nextDate" example:"2026-02-01"` // The next occurrence, omitted for archived or ended series
	Links    ObligationLinks `json:"links"`
}

func newObligation(c *gin.Context, model models.Obligation) Obligation {
	url := c.GetString(string(models.DBContextURL))

	return Obligation{
		DefaultModel: model.DefaultModel,
		ObligationEditable: ObligationEditable{
			SourceAccountID:      model.SourceAccountID,
			DestinationAccountID: model.DestinationAccountID,
			Description:          model.Description,
			Note:                 model.Note,
			Amount:               model.Amount,
			Currency:             model.Currency,
			Frequency:            model.Frequency,
			Interval:             model.Interval,
			DayOfMonth:           model.DayOfMonth,
			DayOfWeek:            model.DayOfWeek,
			MonthOfYear:          model.MonthOfYear,
			StartDate:            model.StartDate,
			EndDate:              model.EndDate,
			Archived:             model.Archived,
		},
		NextDate: model.NextDate,
		Links: ObligationLinks{
			Self:       fmt.Sprintf("%s/v1/obligations/%s", url, model.ID),
			Instances:  fmt.Sprintf("%s/v1/obligations/%s/instances", url, model.ID),
			Exceptions: fmt.Sprintf("%s/v1/exceptions?obligation=%s", url, model.ID),
		},
	}
}

type ObligationListResponse struct {
	Data       []Obligation `json:"data"`                                                          // List of obligations
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type ObligationCreateResponse struct {
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ObligationResponse `json:"data"`                                                          // List of created Obligations
}

func (o *ObligationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	o.Data = append(o.Data, ObligationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ObligationResponse struct {
	Data  *Obligation `json:"data"`                                                          // Data for the obligation
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this obligation
}

type ObligationQueryFilter struct {
	Description     string `form:"description" filterField:"false"` // Fuzzy filter for the description
	Note            string `form:"note" filterField:"false"`        // Fuzzy filter for the note
	SourceAccountID string `form:"account"`                         // By source account ID
	Currency        string `form:"currency"`                        // By currency
	Frequency       string `form:"frequency"`                       // By frequency
	Archived        bool   `form:"archived"`                        // Is the obligation archived?
	Search          string `form:"search" filterField:"false"`      // By string in description or note
	Offset          uint   `form:"offset" filterField:"false"`      // The offset of the first Obligation returned. Defaults to 0.
	Limit           int    `form:"limit" filterField:"false"`       // Maximum number of Obligations to return. Defaults to 50.
}

func (f ObligationQueryFilter) model() (models.Obligation, error) {
	sourceAccountID, err := httputil.UUIDFromString(f.SourceAccountID)
	if err != nil {
		return models.Obligation{}, err
	}

	return models.Obligation{
		SourceAccountID: sourceAccountID,
		Currency:        f.Currency,
		Pattern: recurrence.Pattern{
			Frequency: recurrence.Frequency(f.Frequency),
		},
		Archived: f.Archived,
	}, nil
}

// InstanceListResponse is the response for the projection of a single
// obligation.
type InstanceListResponse struct {
	Data  []schedule.Instance `json:"data"`                                                                        // Projected instances, ordered by effective date
	Error *string             `json:"error" example:"the end of the requested range must not be before its start"` // The error, if any occurred
}
