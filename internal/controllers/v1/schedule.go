package v1

import (
	"net/http"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/schedule"
	"github.com/billplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegisterScheduleRoutes registers the routes for the schedule with
// the RouterGroup that is passed.
func RegisterScheduleRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsSchedule)
	r.GET("", GetSchedule)
}

type ScheduleQuery struct {
	From      types.Date `form:"from"`      // Start of the range, formatted as YYYY-MM-DD
	Until     types.Date `form:"until"`     // End of the range, formatted as YYYY-MM-DD
	AccountID string     `form:"account"`   // Only obligations booked against this account
	Today     types.Date `form:"today"`     // Overrides the notion of today, mainly useful for clients in other time zones
}

type ScheduleResponse struct {
	Data  *ScheduleData `json:"data"`                                                                        // The reconciled schedule
	Error *string       `json:"error" example:"the end of the requested range must not be before its start"` // The error, if any occurred
}

type ScheduleData struct {
	Instances []schedule.ReconciledInstance `json:"instances"` // Projected instances with their reconciliation state, ordered by effective date
	Failures  []schedule.ProjectionFailure  `json:"failures"`  // Obligations that could not be projected
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Schedule
// @Success		204
// @Router			/v1/schedule [options]
func OptionsSchedule(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get schedule
// @Description	Projects all active obligations inside the requested range and classifies every instance against the realized transactions
// @Tags			Schedule
// @Produce		json
// @Success		200	{object}	ScheduleResponse
// @Failure		400	{object}	ScheduleResponse
// @Failure		500	{object}	ScheduleResponse
// @Param			from	query	string	true	"Start of the range, formatted as YYYY-MM-DD"
// @Param			until	query	string	true	"End of the range, formatted as YYYY-MM-DD"
// @Param			account	query	string	false	"Only project obligations booked against this account"
// @Param			today	query	string	false	"Overrides the notion of today, formatted as YYYY-MM-DD"
// @Router			/v1/schedule [get]
func GetSchedule(c *gin.Context) {
	var query ScheduleQuery
	if err := c.Bind(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ScheduleResponse{
			Error: &s,
		})
		return
	}

	if query.From.IsZero() {
		s := errFromNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, ScheduleResponse{
			Error: &s,
		})
		return
	}

	if query.Until.IsZero() {
		s := errUntilNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, ScheduleResponse{
			Error: &s,
		})
		return
	}

	today := query.Today
	if today.IsZero() {
		today = types.Today()
	}

	accountID, err := httputil.UUIDFromString(query.AccountID)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.Preload("Exceptions").Where(&models.Obligation{Archived: false})
	if accountID != uuid.Nil {
		q = q.Where(&models.Obligation{SourceAccountID: accountID})
	}

	var obligations []models.Obligation
	err = q.Find(&obligations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	instances, failures, err := schedule.ProjectAll(c.Request.Context(), obligations, query.From, query.Until)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ScheduleResponse{
			Error: &s,
		})
		return
	}

	var transactions []models.Transaction
	err = models.DB.Where("obligation_id IS NOT NULL").Find(&transactions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ScheduleResponse{
			Error: &s,
		})
		return
	}

	reconciled := schedule.Reconcile(instances, transactions, today)
	if reconciled == nil {
		reconciled = make([]schedule.ReconciledInstance, 0)
	}
	if failures == nil {
		failures = make([]schedule.ProjectionFailure, 0)
	}

	c.JSON(http.StatusOK, ScheduleResponse{
		Data: &ScheduleData{
			Instances: reconciled,
			Failures:  failures,
		},
	})
}
