package v1

import (
	"net/http"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Accounts     string `json:"accounts" example:"https://example.com/api/v1/accounts"`         // URL of Account collection endpoint
	Allocation   string `json:"allocation" example:"https://example.com/api/v1/allocation"`     // URL of the paycheck allocation endpoint
	Exceptions   string `json:"exceptions" example:"https://example.com/api/v1/exceptions"`     // URL of Exception collection endpoint
	LinkRules    string `json:"linkRules" example:"https://example.com/api/v1/link-rules"`      // URL of Link Rule collection endpoint
	Obligations  string `json:"obligations" example:"https://example.com/api/v1/obligations"`   // URL of Obligation collection endpoint
	Schedule     string `json:"schedule" example:"https://example.com/api/v1/schedule"`         // URL of the reconciled schedule endpoint
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions"` // URL of Transaction collection endpoint
}

// GetRoot returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Accounts:     url + "/v1/accounts",
			Allocation:   url + "/v1/allocation",
			Exceptions:   url + "/v1/exceptions",
			LinkRules:    url + "/v1/link-rules",
			Obligations:  url + "/v1/obligations",
			Schedule:     url + "/v1/schedule",
			Transactions: url + "/v1/transactions",
		},
	})
}

// OptionsRoot returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGetDelete(c)
}
