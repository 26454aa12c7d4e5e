package v1

import (
	"net/http"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/billplan/backend/internal/schedule"
	"github.com/billplan/backend/internal/types"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterAllocationRoutes registers the routes for the paycheck
// allocation with the RouterGroup that is passed.
func RegisterAllocationRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsAllocation)
	r.GET("", GetAllocation)
}

type AllocationQuery struct {
	From  types.Date `form:"from"`  // Start of the range, formatted as YYYY-MM-DD. Defaults to today
	Until types.Date `form:"until"` // End of the range, formatted as YYYY-MM-DD
}

type AllocationResponse struct {
	Data  *AllocationData `json:"data"`                                                                        // The allocation plan
	Error *string         `json:"error" example:"the end of the requested range must not be before its start"` // The error, if any occurred
}

type AllocationData struct {
	PayEvents  []schedule.FundedPayEvent    `json:"payEvents"`  // Pay events with their allocations and remaining capacity
	Shortfalls []schedule.Shortfall         `json:"shortfalls"` // Bills that cannot be funded before their due date
	Failures   []schedule.ProjectionFailure `json:"failures"`   // Obligations that could not be projected
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Allocation
// @Success		204
// @Router			/v1/allocation [options]
func OptionsAllocation(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get allocation
// @Description	Projects all active obligations inside the requested range and distributes the projected paychecks across the projected bills. Positive instances fund, negative instances need funding
// @Tags			Allocation
// @Produce		json
// @Success		200	{object}	AllocationResponse
// @Failure		400	{object}	AllocationResponse
// @Failure		500	{object}	AllocationResponse
// @Param			from	query	string	false	"Start of the range, formatted as YYYY-MM-DD. Defaults to today"
// @Param			until	query	string	true	"End of the range, formatted as YYYY-MM-DD"
// @Router			/v1/allocation [get]
func GetAllocation(c *gin.Context) {
	var query AllocationQuery
	if err := c.Bind(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	if query.Until.IsZero() {
		s := errUntilNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	from := query.From
	if from.IsZero() {
		from = types.Today()
	}

	var obligations []models.Obligation
	err := models.DB.Preload("Exceptions").Where(&models.Obligation{Archived: false}).Find(&obligations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AllocationResponse{
			Error: &s,
		})
		return
	}

	// Transfer series move money between own accounts, they neither
	// fund bills nor need funding
	plannable := make([]models.Obligation, 0, len(obligations))
	for _, obligation := range obligations {
		if !obligation.IsTransfer() {
			plannable = append(plannable, obligation)
		}
	}

	instances, failures, err := schedule.ProjectAll(c.Request.Context(), plannable, from, query.Until)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	// Positive instances are income, negative ones are bills with
	// their magnitude flipped to positive
	payEvents := make([]schedule.PayEvent, 0)
	bills := make([]schedule.Bill, 0)
	for _, instance := range instances {
		if instance.Amount.IsPositive() {
			payEvents = append(payEvents, schedule.PayEvent{
				Date:      instance.EffectiveDate,
				NetAmount: instance.Amount,
			})
			continue
		}

		bills = append(bills, schedule.Bill{
			Description:  instance.Description,
			Amount:       instance.Amount.Neg(),
			DueDate:      instance.EffectiveDate,
			ObligationID: instance.ObligationID,
		})
	}

	// Instances are ordered by effective date, but a moved pay event
	// can break that order
	slices.SortStableFunc(payEvents, func(a, b schedule.PayEvent) int {
		return types.DaysBetween(b.Date, a.Date)
	})

	result, err := schedule.Allocate(payEvents, bills)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AllocationResponse{
			Error: &s,
		})
		return
	}

	if failures == nil {
		failures = make([]schedule.ProjectionFailure, 0)
	}

	c.JSON(http.StatusOK, AllocationResponse{
		Data: &AllocationData{
			PayEvents:  result.PayEvents,
			Shortfalls: result.Shortfalls,
			Failures:   failures,
		},
	})
}
