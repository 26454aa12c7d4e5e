package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/billplan/backend/internal/controllers/v1"
	"github.com/billplan/backend/internal/recurrence"
	"github.com/billplan/backend/internal/types"
	"github.com/billplan/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestObligation(t *testing.T, o v1.ObligationEditable, expectedStatus ...int) v1.ObligationResponse {
	if o.SourceAccountID == uuid.Nil {
		o.SourceAccountID = createTestAccount(t, v1.AccountEditable{}).Data.ID
	}

	if o.Description == "" {
		o.Description = uuid.NewString()
	}

	if o.Amount.IsZero() {
		o.Amount = decimal.NewFromInt(-100)
	}

	if o.Frequency == "" {
		o.Frequency = recurrence.FrequencyMonthly
	}

	if o.Interval == 0 {
		o.Interval = 1
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ObligationEditable{o}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/obligations", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ObligationCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.ObligationResponse{}
}

// TestObligationsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestObligationsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Obligation with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Obligation exists", createTestObligation(suite.T(), v1.ObligationEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/obligations", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestObligationsGetSingle verifies that requests for the resource endpoints
// are handled correctly.
func (suite *TestSuiteStandard) TestObligationsGetSingle() {
	o := createTestObligation(suite.T(), v1.ObligationEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Obligation", o.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Obligation with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/obligations/%s", tt.id), "")

			var obligation v1.ObligationResponse
			test.DecodeResponse(t, &r, &obligation)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsGetFilter() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		SourceAccountID: account.Data.ID,
		Description:     "Rent",
		Note:            "Monthly rent for the apartment",
		Frequency:       recurrence.FrequencyMonthly,
	})

	dayOfWeek := types.NewDate(2026, 1, 1).Weekday()
	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		Description: "Groceries",
		Note:        "Weekly groceries run",
		Frequency:   recurrence.FrequencyWeekly,
		DayOfWeek:   &dayOfWeek,
		Currency:    "EUR",
	})

	_ = createTestObligation(suite.T(), v1.ObligationEditable{
		Description: "Old gym membership",
		Archived:    true,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), 1},
		{"Account not existing", fmt.Sprintf("account=%s", uuid.New()), 0},
		{"Frequency", "frequency=WEEKLY", 1},
		{"Currency", "currency=EUR", 1},
		{"Description fuzzy", "description=re", 1},
		{"Empty description", "description=", 0},
		{"Note fuzzy", "note=ly", 2},
		{"Search", "search=GROCERIES", 1},
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 2},
		{"Limit 1", "limit=1", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.ObligationListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/obligations?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsCreateFails() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	tests := []struct {
		name     string
		body     any
		status   int                                               // expected HTTP status
		testFunc func(t *testing.T, o v1.ObligationCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "description": 2 }]`, http.StatusBadRequest, nil,
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, o v1.ObligationCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *o.Error)
			},
		},
		{
			"No source account",
			[]v1.ObligationEditable{
				{
					Description: "No account",
					Amount:      decimal.NewFromInt(-10),
					Frequency:   recurrence.FrequencyMonthly,
					Interval:    1,
				},
			},
			http.StatusNotFound,
			func(t *testing.T, o v1.ObligationCreateResponse) {
				assert.Equal(t, "there is no account matching your query", *o.Data[0].Error)
			},
		},
		{
			"Zero amount",
			[]v1.ObligationEditable{
				{
					SourceAccountID: account.Data.ID,
					Description:     "Zero amount",
					Frequency:       recurrence.FrequencyMonthly,
					Interval:        1,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, o v1.ObligationCreateResponse) {
				assert.Equal(t, "the obligation amount must not be zero", *o.Data[0].Error)
			},
		},
		{
			"Invalid frequency",
			[]v1.ObligationEditable{
				{
					SourceAccountID: account.Data.ID,
					Description:     "Fortnightly-ish",
					Amount:          decimal.NewFromInt(-10),
					Frequency:       "SOMETIMES",
					Interval:        1,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, o v1.ObligationCreateResponse) {
				assert.Equal(t, recurrence.ErrFrequencyInvalid.Error(), *o.Data[0].Error)
			},
		},
		{
			"Weekly without weekday",
			[]v1.ObligationEditable{
				{
					SourceAccountID: account.Data.ID,
					Description:     "Missing anchor",
					Amount:          decimal.NewFromInt(-10),
					Frequency:       recurrence.FrequencyWeekly,
					Interval:        1,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, o v1.ObligationCreateResponse) {
				assert.Equal(t, recurrence.ErrDayOfWeekRequired.Error(), *o.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/obligations", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.ObligationCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

// Verify that updating obligations works as desired
func (suite *TestSuiteStandard) TestObligationsUpdate() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{Description: "Power"})

	tests := []struct {
		name       string                                      // name of the test
		obligation map[string]any                              // the updates to perform. This is not a struct because that would set all fields on the request
		testFunc   func(t *testing.T, o v1.ObligationResponse) // tests to perform against the updated obligation resource
	}{
		{
			"Description, Note",
			map[string]any{
				"description": "Electricity",
				"note":        "Provider switched",
			},
			func(t *testing.T, o v1.ObligationResponse) {
				assert.Equal(t, "Electricity", o.Data.Description)
				assert.Equal(t, "Provider switched", o.Data.Note)
			},
		},
		{
			"Amount",
			map[string]any{
				"amount": "-120",
			},
			func(t *testing.T, o v1.ObligationResponse) {
				assert.True(t, o.Data.Amount.Equal(decimal.NewFromInt(-120)))
			},
		},
		{
			"Archived",
			map[string]any{
				"archived": true,
			},
			func(t *testing.T, o v1.ObligationResponse) {
				assert.True(t, o.Data.Archived)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, obligation.Data.Links.Self, tt.obligation)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var o v1.ObligationResponse
			test.DecodeResponse(t, &r, &o)

			if tt.testFunc != nil {
				tt.testFunc(t, o)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestObligationsUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"description": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "description": 2" }`, http.StatusBadRequest},
		{"Non-existing Obligation", uuid.New().String(), `{"description": "Does not matter"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				obligation := createTestObligation(suite.T(), v1.ObligationEditable{})
				tt.id = obligation.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/obligations/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestObligationsDelete verifies all cases for Obligation deletions.
func (suite *TestSuiteStandard) TestObligationsDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Obligation", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				o := createTestObligation(t, v1.ObligationEditable{})
				tt.id = o.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/obligations/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestObligationsInstances verifies the projection endpoint of a single
// obligation.
func (suite *TestSuiteStandard) TestObligationsInstances() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{
		Description: "Rent",
		Amount:      decimal.NewFromInt(-1800),
		Frequency:   recurrence.FrequencyMonthly,
		StartDate:   types.NewDate(2026, 1, 15),
	})

	r := test.Request(suite.T(), http.MethodGet, obligation.Data.Links.Instances+"?from=2026-01-01&until=2026-03-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InstanceListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 3)
	assert.Equal(suite.T(), types.NewDate(2026, 1, 15), response.Data[0].EffectiveDate)
	assert.Equal(suite.T(), types.NewDate(2026, 2, 15), response.Data[1].EffectiveDate)
	assert.Equal(suite.T(), types.NewDate(2026, 3, 15), response.Data[2].EffectiveDate)
	assert.Equal(suite.T(), "Rent", response.Data[0].Description)
}

// TestObligationsInstancesExceptions verifies that exceptions are applied
// to the projection.
func (suite *TestSuiteStandard) TestObligationsInstancesExceptions() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{
		Description: "Rent",
		Amount:      decimal.NewFromInt(-1800),
		Frequency:   recurrence.FrequencyMonthly,
		StartDate:   types.NewDate(2026, 1, 15),
	})

	_ = createTestException(suite.T(), v1.ExceptionEditable{
		ObligationID: obligation.Data.ID,
		OriginalDate: types.NewDate(2026, 2, 15),
		Kind:         "SKIP",
	})

	modifiedAmount := decimal.NewFromInt(-1900)
	modifiedDate := types.NewDate(2026, 3, 17)
	_ = createTestException(suite.T(), v1.ExceptionEditable{
		ObligationID:   obligation.Data.ID,
		OriginalDate:   types.NewDate(2026, 3, 15),
		Kind:           "MODIFY",
		ModifiedAmount: &modifiedAmount,
		ModifiedDate:   &modifiedDate,
	})

	r := test.Request(suite.T(), http.MethodGet, obligation.Data.Links.Instances+"?from=2026-01-01&until=2026-03-31", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.InstanceListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 2)

	assert.Equal(suite.T(), types.NewDate(2026, 1, 15), response.Data[0].EffectiveDate)
	assert.False(suite.T(), response.Data[0].Modified)

	assert.Equal(suite.T(), types.NewDate(2026, 3, 17), response.Data[1].EffectiveDate)
	assert.Equal(suite.T(), types.NewDate(2026, 3, 15), response.Data[1].OriginalDate)
	assert.True(suite.T(), response.Data[1].Modified)
	assert.True(suite.T(), response.Data[1].Amount.Equal(modifiedAmount))
}

func (suite *TestSuiteStandard) TestObligationsInstancesFails() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{})

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Missing from", fmt.Sprintf("%s?until=2026-03-31", obligation.Data.Links.Instances), http.StatusBadRequest},
		{"Missing until", fmt.Sprintf("%s?from=2026-01-01", obligation.Data.Links.Instances), http.StatusBadRequest},
		{"Until before from", fmt.Sprintf("%s?from=2026-03-31&until=2026-01-01", obligation.Data.Links.Instances), http.StatusBadRequest},
		{"Invalid date", fmt.Sprintf("%s?from=yesterday&until=2026-03-31", obligation.Data.Links.Instances), http.StatusBadRequest},
		{"Non-existing Obligation", fmt.Sprintf("http://example.com/v1/obligations/%s/instances?from=2026-01-01&until=2026-03-31", uuid.New()), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, tt.path, "")
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestObligationsNextDate verifies that the next occurrence is returned
// for active obligations.
func (suite *TestSuiteStandard) TestObligationsNextDate() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{
		Frequency: recurrence.FrequencyDaily,
		StartDate: types.NewDate(2020, 1, 1),
	})

	require.NotNil(suite.T(), obligation.Data.NextDate)
	assert.Equal(suite.T(), types.Today(), *obligation.Data.NextDate)

	archived := createTestObligation(suite.T(), v1.ObligationEditable{
		Frequency: recurrence.FrequencyDaily,
		StartDate: types.NewDate(2020, 1, 1),
		Archived:  true,
	})

	assert.Nil(suite.T(), archived.Data.NextDate)
}
