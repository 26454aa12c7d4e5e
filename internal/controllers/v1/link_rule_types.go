package v1

import (
	"fmt"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LinkRuleEditable struct {
	ObligationID uuid.UUID `json:"obligationId" example:"6b40ef4f-4b90-4a36-9f46-8021ffc6eb9f"` // The obligation to suggest for matching transactions
	Priority     uint      `json:"priority" example:"3"`                                        // The priority of the link rule, a lower value wins
	Match        string    `json:"match" example:"ACME Corp*"`                                  // The matching applied to the transaction note. This is a glob pattern. Globbing is case sensitive
}

// model returns the database resource for the editable fields
func (editable LinkRuleEditable) model() models.LinkRule {
	return models.LinkRule{
		ObligationID: editable.ObligationID,
		Priority:     editable.Priority,
		Match:        editable.Match,
	}
}

type LinkRuleLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/link-rules/95685c82-53c6-455d-b235-f49960b73b21"` // The link rule itself
}

// LinkRule is the API v1 representation of a Link Rule.
type LinkRule struct {
	models.DefaultModel
	LinkRuleEditable
	Links LinkRuleLinks `json:"links"`
}

func newLinkRule(c *gin.Context, model models.LinkRule) LinkRule {
	url := c.GetString(string(models.DBContextURL))

	return LinkRule{
		DefaultModel: model.DefaultModel,
		LinkRuleEditable: LinkRuleEditable{
			ObligationID: model.ObligationID,
			Priority:     model.Priority,
			Match:        model.Match,
		},
		Links: LinkRuleLinks{
			Self: fmt.Sprintf("%s/v1/link-rules/%s", url, model.ID),
		},
	}
}

type LinkRuleListResponse struct {
	Data       []LinkRule  `json:"data"`                                                          // List of link rules
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type LinkRuleCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []LinkRuleResponse `json:"data"`                                                          // List of created Link Rules
}

func (l *LinkRuleCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	l.Data = append(l.Data, LinkRuleResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type LinkRuleResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this link rule
	Data  *LinkRule `json:"data"`                                                          // The link rule data, if creation was successful
}

// LinkRuleQueryFilter contains the fields that Link Rules can be
// filtered with.
type LinkRuleQueryFilter struct {
	Priority     uint   `form:"priority"`                   // By priority
	Match        string `form:"match" filterField:"false"`  // By match
	ObligationID string `form:"obligation"`                 // By ID of the Obligation they link to
	Offset       uint   `form:"offset" filterField:"false"` // The offset of the first Link Rule returned. Defaults to 0.
	Limit        int    `form:"limit" filterField:"false"`  // Maximum number of Link Rules to return. Defaults to 50.
}

func (f LinkRuleQueryFilter) model() (models.LinkRule, error) {
	obligationID, err := httputil.UUIDFromString(f.ObligationID)
	if err != nil {
		return models.LinkRule{}, err
	}

	return models.LinkRule{
		Priority:     f.Priority,
		ObligationID: obligationID,
	}, nil
}
