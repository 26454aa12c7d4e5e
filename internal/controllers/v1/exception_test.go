package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "github.com/billplan/backend/internal/controllers/v1"
	"github.com/billplan/backend/internal/types"
	"github.com/billplan/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestException(t *testing.T, e v1.ExceptionEditable, expectedStatus ...int) v1.ExceptionResponse {
	if e.ObligationID == uuid.Nil {
		e.ObligationID = createTestObligation(t, v1.ObligationEditable{}).Data.ID
	}

	if e.OriginalDate.IsZero() {
		e.OriginalDate = types.Today()
	}

	if e.Kind == "" {
		e.Kind = "SKIP"
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.ExceptionEditable{e}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/exceptions", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ExceptionCreateResponse
	test.DecodeResponse(t, &r, &response)

	if r.Code == http.StatusCreated {
		return response.Data[0]
	}

	return v1.ExceptionResponse{}
}

// TestExceptionsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestExceptionsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Exception with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Exception exists", createTestException(suite.T(), v1.ExceptionEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/exceptions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestExceptionsGetSingle verifies that requests for the resource endpoints
// are handled correctly.
func (suite *TestSuiteStandard) TestExceptionsGetSingle() {
	e := createTestException(suite.T(), v1.ExceptionEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Exception", e.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET No Exception with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/exceptions/%s", tt.id), "")

			var exception v1.ExceptionResponse
			test.DecodeResponse(t, &r, &exception)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestExceptionsGetFilter() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{})

	_ = createTestException(suite.T(), v1.ExceptionEditable{
		ObligationID: obligation.Data.ID,
		OriginalDate: types.NewDate(2026, 2, 15),
		Kind:         "SKIP",
	})

	description := "Moved by the provider"
	_ = createTestException(suite.T(), v1.ExceptionEditable{
		ObligationID:        obligation.Data.ID,
		OriginalDate:        types.NewDate(2026, 3, 15),
		Kind:                "MODIFY",
		ModifiedDescription: &description,
	})

	_ = createTestException(suite.T(), v1.ExceptionEditable{
		OriginalDate: types.NewDate(2026, 2, 15),
		Kind:         "SKIP",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Obligation", fmt.Sprintf("obligation=%s", obligation.Data.ID), 2},
		{"Obligation not existing", fmt.Sprintf("obligation=%s", uuid.New()), 0},
		{"Kind SKIP", "kind=SKIP", 2},
		{"Kind MODIFY", "kind=MODIFY", 1},
		{"Obligation and kind", fmt.Sprintf("obligation=%s&kind=SKIP", obligation.Data.ID), 1},
		{"Limit 1", "limit=1", 1},
		{"Offset 2", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var response v1.ExceptionListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/exceptions?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &response)

			assert.Equal(t, tt.len, len(response.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestExceptionsCreateFails() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{})
	modifiedAmount := decimal.NewFromInt(-100)

	tests := []struct {
		name     string
		body     any
		status   int                                              // expected HTTP status
		testFunc func(t *testing.T, e v1.ExceptionCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "kind": 2 }]`, http.StatusBadRequest, nil,
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, e v1.ExceptionCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *e.Error)
			},
		},
		{
			"No obligation",
			[]v1.ExceptionEditable{
				{
					OriginalDate: types.NewDate(2026, 3, 1),
					Kind:         "SKIP",
				},
			},
			http.StatusNotFound,
			func(t *testing.T, e v1.ExceptionCreateResponse) {
				assert.Equal(t, "there is no obligation matching your query", *e.Data[0].Error)
			},
		},
		{
			"Invalid kind",
			[]v1.ExceptionEditable{
				{
					ObligationID: obligation.Data.ID,
					OriginalDate: types.NewDate(2026, 3, 1),
					Kind:         "POSTPONE",
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, e v1.ExceptionCreateResponse) {
				assert.Equal(t, "the exception kind must be SKIP or MODIFY", *e.Data[0].Error)
			},
		},
		{
			"Skip with overrides",
			[]v1.ExceptionEditable{
				{
					ObligationID:   obligation.Data.ID,
					OriginalDate:   types.NewDate(2026, 3, 1),
					Kind:           "SKIP",
					ModifiedAmount: &modifiedAmount,
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, e v1.ExceptionCreateResponse) {
				assert.Equal(t, "a skip exception must not set any overrides", *e.Data[0].Error)
			},
		},
		{
			"Modify without overrides",
			[]v1.ExceptionEditable{
				{
					ObligationID: obligation.Data.ID,
					OriginalDate: types.NewDate(2026, 3, 1),
					Kind:         "MODIFY",
				},
			},
			http.StatusBadRequest,
			func(t *testing.T, e v1.ExceptionCreateResponse) {
				assert.Equal(t, "a modify exception must set at least one override", *e.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/exceptions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.ExceptionCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

// TestExceptionsReplace verifies that a second exception for the same
// obligation and original date replaces the first one.
func (suite *TestSuiteStandard) TestExceptionsReplace() {
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{})
	date := types.NewDate(2026, 3, 15)

	skip := createTestException(suite.T(), v1.ExceptionEditable{
		ObligationID: obligation.Data.ID,
		OriginalDate: date,
		Kind:         "SKIP",
	})

	modifiedAmount := decimal.NewFromInt(-1900)
	modify := createTestException(suite.T(), v1.ExceptionEditable{
		ObligationID:   obligation.Data.ID,
		OriginalDate:   date,
		Kind:           "MODIFY",
		ModifiedAmount: &modifiedAmount,
	})

	// The replacement keeps the identity of the replaced exception
	assert.Equal(suite.T(), skip.Data.ID, modify.Data.ID)
	assert.Equal(suite.T(), "MODIFY", string(modify.Data.Kind))

	var response v1.ExceptionListResponse
	r := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/exceptions?obligation=%s", obligation.Data.ID), "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, 1)
	assert.Equal(suite.T(), "MODIFY", string(response.Data[0].Kind))
}

// Verify that updating exceptions works as desired
func (suite *TestSuiteStandard) TestExceptionsUpdate() {
	modifiedAmount := decimal.NewFromInt(-1900)
	exception := createTestException(suite.T(), v1.ExceptionEditable{
		Kind:           "MODIFY",
		ModifiedAmount: &modifiedAmount,
	})

	tests := []struct {
		name      string                                     // name of the test
		exception map[string]any                             // the updates to perform. This is not a struct because that would set all fields on the request
		testFunc  func(t *testing.T, e v1.ExceptionResponse) // tests to perform against the updated exception resource
	}{
		{
			"Modified amount",
			map[string]any{
				"modifiedAmount": "-2000",
			},
			func(t *testing.T, e v1.ExceptionResponse) {
				assert.True(t, e.Data.ModifiedAmount.Equal(decimal.NewFromInt(-2000)))
			},
		},
		{
			"Modified description",
			map[string]any{
				"modifiedDescription": "Rent with raise",
			},
			func(t *testing.T, e v1.ExceptionResponse) {
				assert.Equal(t, "Rent with raise", *e.Data.ModifiedDescription)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, exception.Data.Links.Self, tt.exception)
			test.AssertHTTPStatus(t, &r, http.StatusOK)

			var e v1.ExceptionResponse
			test.DecodeResponse(t, &r, &e)

			if tt.testFunc != nil {
				tt.testFunc(t, e)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestExceptionsUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"kind": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "kind": 2" }`, http.StatusBadRequest},
		{"Non-existing Exception", uuid.New().String(), `{"kind": "SKIP"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				exception := createTestException(suite.T(), v1.ExceptionEditable{})
				tt.id = exception.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/exceptions/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestExceptionsDelete verifies all cases for Exception deletions.
func (suite *TestSuiteStandard) TestExceptionsDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Exception", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				e := createTestException(t, v1.ExceptionEditable{})
				tt.id = e.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/exceptions/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}
