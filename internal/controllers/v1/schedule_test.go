package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/billplan/backend/internal/controllers/v1"
	"github.com/billplan/backend/internal/recurrence"
	"github.com/billplan/backend/internal/schedule"
	"github.com/billplan/backend/internal/types"
	"github.com/billplan/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduleReconciled verifies that projected instances are classified
// against the realized transactions.
func (suite *TestSuiteStandard) TestScheduleReconciled() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	rent := createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Rent",
		Amount:          decimal.NewFromInt(-1800),
		Frequency:       recurrence.FrequencyMonthly,
		StartDate:       types.NewDate(2026, 1, 15),
	})

	// Realize the January instance
	originalDate := types.NewDate(2026, 1, 15)
	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		SourceAccountID: account.Data.ID,
		Amount:          decimal.NewFromInt(1800),
		ObligationID:    &rent.Data.ID,
		OriginalDate:    &originalDate,
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/schedule?from=2026-01-01&until=2026-03-31&today=2026-02-20", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	require.Len(suite.T(), response.Data.Instances, 3)
	assert.Len(suite.T(), response.Data.Failures, 0)

	january := response.Data.Instances[0]
	assert.Equal(suite.T(), schedule.StateMatched, january.State)
	require.NotNil(suite.T(), january.TransactionID)
	assert.Equal(suite.T(), transaction.Data.ID, *january.TransactionID)

	february := response.Data.Instances[1]
	assert.Equal(suite.T(), schedule.StateMissing, february.State)
	assert.Nil(suite.T(), february.TransactionID)

	march := response.Data.Instances[2]
	assert.Equal(suite.T(), schedule.StatePending, march.State)
}

// TestScheduleAccountFilter verifies that the schedule can be restricted
// to obligations of a single account.
func (suite *TestSuiteStandard) TestScheduleAccountFilter() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Rent",
		Frequency:       recurrence.FrequencyMonthly,
		StartDate:       types.NewDate(2026, 1, 15),
	})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		Description: "Power",
		Frequency:   recurrence.FrequencyMonthly,
		StartDate:   types.NewDate(2026, 1, 1),
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"All accounts", "", 6},
		{"Single account", fmt.Sprintf("&account=%s", account.Data.ID), 3},
		{"Unknown account", fmt.Sprintf("&account=%s", uuid.New()), 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/schedule?from=2026-01-01&until=2026-03-31%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var response v1.ScheduleResponse
			test.DecodeResponse(t, &r, &response)

			require.NotNil(t, response.Data)
			assert.Len(t, response.Data.Instances, tt.len)
		})
	}
}

// TestScheduleArchived verifies that archived obligations are not part of
// the schedule.
func (suite *TestSuiteStandard) TestScheduleArchived() {
	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		Description: "Old gym membership",
		Frequency:   recurrence.FrequencyMonthly,
		StartDate:   types.NewDate(2026, 1, 1),
		Archived:    true,
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/schedule?from=2026-01-01&until=2026-03-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ScheduleResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.NotNil(suite.T(), response.Data)
	assert.Len(suite.T(), response.Data.Instances, 0)
}

func (suite *TestSuiteStandard) TestScheduleFails() {
	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"Missing from", "until=2026-03-31", http.StatusBadRequest},
		{"Missing until", "from=2026-01-01", http.StatusBadRequest},
		{"Until before from", "from=2026-03-31&until=2026-01-01", http.StatusBadRequest},
		{"Invalid date", "from=yesterday&until=2026-03-31", http.StatusBadRequest},
		{"Invalid account", "from=2026-01-01&until=2026-03-31&account=notaUUID", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/schedule?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.ScheduleResponse
			test.DecodeResponse(t, &r, &response)
			assert.NotNil(t, response.Error)
		})
	}
}

func (suite *TestSuiteStandard) TestScheduleDBClosed() {
	suite.CloseDB()

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/schedule?from=2026-01-01&until=2026-03-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
}
