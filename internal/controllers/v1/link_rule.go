package v1

import (
	"fmt"
	"net/http"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterLinkRuleRoutes registers the routes for link rules with
// the RouterGroup that is passed.
func RegisterLinkRuleRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsLinkRuleList)
		r.GET("", GetLinkRules)
		r.POST("", CreateLinkRules)
	}

	// LinkRule with ID
	{
		r.OPTIONS("/:id", OptionsLinkRuleDetail)
		r.GET("/:id", GetLinkRule)
		r.PATCH("/:id", UpdateLinkRule)
		r.DELETE("/:id", DeleteLinkRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LinkRules
// @Success		204
// @Router			/v1/link-rules [options]
func OptionsLinkRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			LinkRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/link-rules/{id} [options]
func OptionsLinkRuleDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.LinkRule{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create link rules
// @Description	Creates link rules from the list of submitted link rule data. The response code is the highest response code number that a single link rule creation would have caused. If it is not equal to 201, at least one link rule has an error.
// @Tags			LinkRules
// @Produce		json
// @Success		201			{object}	LinkRuleCreateResponse
// @Failure		400			{object}	LinkRuleCreateResponse
// @Failure		404			{object}	LinkRuleCreateResponse
// @Failure		500			{object}	LinkRuleCreateResponse
// @Param			linkRules	body		[]LinkRuleEditable	true	"LinkRules"
// @Router			/v1/link-rules [post]
func CreateLinkRules(c *gin.Context) {
	var editables []LinkRuleEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LinkRuleCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := LinkRuleCreateResponse{}

	for _, editable := range editables {
		linkRule := editable.model()
		err = models.DB.Create(&linkRule).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newLinkRule(c, linkRule)
		r.Data = append(r.Data, LinkRuleResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get link rules
// @Description	Returns a list of link rules
// @Tags			LinkRules
// @Produce		json
// @Success		200			{object}	LinkRuleListResponse
// @Failure		400			{object}	LinkRuleListResponse
// @Failure		500			{object}	LinkRuleListResponse
// @Param			priority	query		uint	false	"Filter by priority"
// @Param			match		query		string	false	"Filter by match"
// @Param			obligation	query		string	false	"Filter by obligation ID"
// @Param			offset		query		uint	false	"The offset of the first Link Rule returned. Defaults to 0."
// @Param			limit		query		int		false	"Maximum number of Link Rules to return. Defaults to 50."
// @Router			/v1/link-rules [get]
func GetLinkRules(c *gin.Context) {
	var filter LinkRuleQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, LinkRuleListResponse{
			Error: &s,
		})
		return
	}

	// Get the parameters set in the query string
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	model, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("priority ASC, match ASC").
		Where(&model, queryFields...)

	// Filter for match containing the query string or explicitly empty one
	if filter.Match != "" {
		q = q.Where("match LIKE ?", fmt.Sprintf("%%%s%%", filter.Match))
	} else if slices.Contains(setFields, "Match") {
		q = q.Where("match = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Link Rules and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var linkRules []models.LinkRule
	err = q.Find(&linkRules).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), LinkRuleListResponse{
			Error: &e,
		})
		return
	}

	data := make([]LinkRule, 0)
	for _, linkRule := range linkRules {
		data = append(data, newLinkRule(c, linkRule))
	}

	c.JSON(http.StatusOK, LinkRuleListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get link rule
// @Description	Returns a specific link rule
// @Tags			LinkRules
// @Produce		json
// @Success		200	{object}	LinkRuleResponse
// @Failure		400	{object}	LinkRuleResponse
// @Failure		404	{object}	LinkRuleResponse
// @Failure		500	{object}	LinkRuleResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/link-rules/{id} [get]
func GetLinkRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	var linkRule models.LinkRule
	err = models.DB.First(&linkRule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	data := newLinkRule(c, linkRule)
	c.JSON(http.StatusOK, LinkRuleResponse{Data: &data})
}

// @Summary		Update link rule
// @Description	Update a link rule. Only values to be updated need to be specified.
// @Tags			LinkRules
// @Accept			json
// @Produce		json
// @Success		200			{object}	LinkRuleResponse
// @Failure		400			{object}	LinkRuleResponse
// @Failure		404			{object}	LinkRuleResponse
// @Failure		500			{object}	LinkRuleResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			linkRule	body		LinkRuleEditable	true	"LinkRule"
// @Router			/v1/link-rules/{id} [patch]
func UpdateLinkRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	var linkRule models.LinkRule
	err = models.DB.First(&linkRule, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, LinkRuleEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	var data LinkRuleEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	// Check that the referenced obligation exists
	if slices.Contains(updateFields, "ObligationID") {
		err = models.DB.First(&models.Obligation{}, data.ObligationID).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), LinkRuleResponse{
				Error: &s,
			})
			return
		}
	}

	err = models.DB.Model(&linkRule).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), LinkRuleResponse{
			Error: &s,
		})
		return
	}

	apiResource := newLinkRule(c, linkRule)
	c.JSON(http.StatusOK, LinkRuleResponse{Data: &apiResource})
}

// @Summary		Delete link rule
// @Description	Deletes a link rule
// @Tags			LinkRules
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/link-rules/{id} [delete]
func DeleteLinkRule(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var linkRule models.LinkRule
	err = models.DB.First(&linkRule, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&linkRule).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
