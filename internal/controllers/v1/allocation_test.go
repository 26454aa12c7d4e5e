package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/billplan/backend/internal/controllers/v1"
	"github.com/billplan/backend/internal/recurrence"
	"github.com/billplan/backend/internal/types"
	"github.com/billplan/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAllocation verifies that projected paychecks are distributed across
// the projected bills.
func (suite *TestSuiteStandard) TestAllocation() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Salary",
		Amount:          decimal.NewFromInt(3500),
		Frequency:       recurrence.FrequencyMonthly,
		StartDate:       types.NewDate(2026, 1, 1),
	})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Rent",
		Amount:          decimal.NewFromInt(-1800),
		Frequency:       recurrence.FrequencyMonthly,
		StartDate:       types.NewDate(2026, 1, 15),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/allocation?from=2026-01-01&until=2026-02-28", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	require.Len(suite.T(), response.Data.PayEvents, 2)
	assert.Len(suite.T(), response.Data.Shortfalls, 0)
	assert.Len(suite.T(), response.Data.Failures, 0)

	january := response.Data.PayEvents[0]
	assert.Equal(suite.T(), types.NewDate(2026, 1, 1), january.Date)
	require.Len(suite.T(), january.Allocations, 1)
	assert.Equal(suite.T(), "Rent", january.Allocations[0].Bill.Description)
	assert.True(suite.T(), january.Remaining.Equal(decimal.NewFromInt(1700)), "Remaining is %s, expected 1700", january.Remaining)

	february := response.Data.PayEvents[1]
	require.Len(suite.T(), february.Allocations, 1)
	assert.True(suite.T(), february.Remaining.Equal(decimal.NewFromInt(1700)))
}

// TestAllocationShortfall verifies that bills without an eligible paycheck
// are reported as shortfalls.
func (suite *TestSuiteStandard) TestAllocationShortfall() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Salary",
		Amount:          decimal.NewFromInt(1000),
		Frequency:       recurrence.FrequencyMonthly,
		StartDate:       types.NewDate(2026, 1, 1),
	})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Rent",
		Amount:          decimal.NewFromInt(-1800),
		Frequency:       recurrence.FrequencyMonthly,
		StartDate:       types.NewDate(2026, 1, 15),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/allocation?from=2026-01-01&until=2026-01-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	require.Len(suite.T(), response.Data.Shortfalls, 1)

	shortfall := response.Data.Shortfalls[0]
	assert.Equal(suite.T(), "Rent", shortfall.Bill.Description)
	assert.True(suite.T(), shortfall.Gap.Equal(decimal.NewFromInt(800)), "Gap is %s, expected 800", shortfall.Gap)
}

// TestAllocationExcludesTransfers verifies that transfer series are not
// part of the allocation plan.
func (suite *TestSuiteStandard) TestAllocationExcludesTransfers() {
	checking := createTestAccount(suite.T(), v1.AccountEditable{})
	savings := createTestAccount(suite.T(), v1.AccountEditable{})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID:      checking.Data.ID,
		DestinationAccountID: &savings.Data.ID,
		Description:          "Savings transfer",
		Amount:               decimal.NewFromInt(500),
		Frequency:            recurrence.FrequencyMonthly,
		StartDate:            types.NewDate(2026, 1, 1),
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/allocation?from=2026-01-01&until=2026-03-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.AllocationResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Len(suite.T(), response.Data.PayEvents, 0)
	assert.Len(suite.T(), response.Data.Shortfalls, 0)
}

func (suite *TestSuiteStandard) TestAllocationFails() {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"Missing until", "from=2026-01-01", http.StatusBadRequest},
		{"Until before from", "from=2026-03-31&until=2026-01-01", http.StatusBadRequest},
		{"Invalid date", "from=yesterday&until=2026-03-31", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocation?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.AllocationResponse
			test.DecodeResponse(t, &r, &response)
			assert.NotNil(t, response.Error)
		})
	}
}
