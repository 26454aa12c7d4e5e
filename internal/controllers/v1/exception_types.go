package v1

import (
	"fmt"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExceptionEditable struct {
	ObligationID        uuid.UUID            `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"` // The obligation the exception belongs to
	OriginalDate        types.Date           `json:"originalDate" example:"2026-03-01"`                           // The scheduled date of the instance the exception overrides
	Kind                models.ExceptionKind `json:"kind" example:"MODIFY"`                                       // SKIP removes the instance, MODIFY overrides parts of it
	ModifiedAmount      *decimal.Decimal     `json:"modifiedAmount" example:"-1900"`                              // Override for the amount
	ModifiedDescription *string              `json:"modifiedDescription" example:"Rent with raise"`               // Override for the description
	ModifiedDate        *types.Date          `json:"modifiedDate" example:"2026-03-03"`                           // Override for the effective date
}

// model returns the database resource for the editable fields
func (editable ExceptionEditable) model() models.Exception {
	return models.Exception{
		ObligationID:        editable.ObligationID,
		OriginalDate:        editable.OriginalDate,
		Kind:                editable.Kind,
		ModifiedAmount:      editable.ModifiedAmount,
		ModifiedDescription: editable.ModifiedDescription,
		ModifiedDate:        editable.ModifiedDate,
	}
}

type ExceptionLinks struct {
	Self       string `json:"self" example:"https://example.com/api/v1/exceptions/95685c82-53c6-455d-b235-f49960b73b21"`        // The exception itself
	Obligation string `json:"obligation" example:"https://example.com/api/v1/obligations/6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"` // The obligation the exception belongs to
}

// Exception is the API v1 representation of an Exception.
type Exception struct {
	models.DefaultModel
	ExceptionEditable
	Links ExceptionLinks `json:"links"`
}

func newException(c *gin.Context, model models.Exception) Exception {
	url := c.GetString(string(models.DBContextURL))

	return Exception{
		DefaultModel: model.DefaultModel,
		ExceptionEditable: ExceptionEditable{
			ObligationID:        model.ObligationID,
			OriginalDate:        model.OriginalDate,
			Kind:                model.Kind,
			ModifiedAmount:      model.ModifiedAmount,
			ModifiedDescription: model.ModifiedDescription,
			ModifiedDate:        model.ModifiedDate,
		},
		Links: ExceptionLinks{
			Self:       fmt.Sprintf("%s/v1/exceptions/%s", url, model.ID),
			Obligation: fmt.Sprintf("%s/v1/obligations/%s", url, model.ObligationID),
		},
	}
}

type ExceptionListResponse struct {
	Data       []Exception `json:"data"`                                                          // List of exceptions
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ExceptionCreateResponse struct {
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ExceptionResponse `json:"data"`                                                          // List of created Exceptions
}

func (e *ExceptionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExceptionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExceptionResponse struct {
	Data  *Exception `json:"data"`                                                          // Data for the exception
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this exception
}

type ExceptionQueryFilter struct {
	ObligationID string `form:"obligation"`                 // By obligation ID
	Kind         string `form:"kind"`                       // By kind
	Offset       uint   `form:"offset" filterField:"false"` // The offset of the first Exception returned. Defaults to 0.
	Limit        int    `form:"limit" filterField:"false"`  // Maximum number of Exceptions to return. Defaults to 50.
}

func (f ExceptionQueryFilter) model() (models.Exception, error) {
	obligationID, err := httputil.UUIDFromString(f.ObligationID)
	if err != nil {
		return models.Exception{}, err
	}

	return models.Exception{
		ObligationID: obligationID,
		Kind:         models.ExceptionKind(f.Kind),
	}, nil
}
