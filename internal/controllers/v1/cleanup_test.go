package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/billplan/backend/internal/controllers/v1"
	"github.com/billplan/backend/internal/types"
	"github.com/billplan/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCleanup() {
	account := createTestAccount(suite.T(), v1.AccountEditable{Name: "TestCleanup"})
	obligation := createTestObligation(suite.T(), v1.ObligationEditable{SourceAccountID: account.Data.ID})
	_ = createTestException(suite.T(), v1.ExceptionEditable{ObligationID: obligation.Data.ID, OriginalDate: types.NewDate(2026, 3, 1)})
	_ = createTestTransaction(suite.T(), v1.TransactionEditable{SourceAccountID: account.Data.ID})
	_ = createTestLinkRule(suite.T(), v1.LinkRuleEditable{ObligationID: obligation.Data.ID, Match: "Delete me"})

	tests := []string{
		"http://example.com/v1/accounts",
		"http://example.com/v1/exceptions",
		"http://example.com/v1/link-rules",
		"http://example.com/v1/obligations",
		"http://example.com/v1/transactions",
	}

	// Delete
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify
	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			recorder := test.Request(suite.T(), http.MethodGet, tt, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}

			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"No confirmation", ""},
		{"Confirmation wrong", "confirm=invalid-confirmation"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1?%s", tt.path), "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
