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

// RegisterObligationRoutes registers the routes for obligations with
// the RouterGroup that is passed.
func RegisterObligationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsObligationList)
		r.GET("", GetObligations)
		r.POST("", CreateObligations)
	}

	// Obligation with ID
	{
		r.OPTIONS("/:id", OptionsObligationDetail)
		r.GET("/:id", GetObligation)
		r.GET("/:id/instances", GetObligationInstances)
		r.PATCH("/:id", UpdateObligation)
		r.DELETE("/:id", DeleteObligation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Obligations
// @Success		204
// @Router			/v1/obligations [options]
func OptionsObligationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Obligations
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/obligations/{id} [options]
func OptionsObligationDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Obligation{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create obligations
// @Description	Creates new obligations
// @Tags			Obligations
// @Produce		json
// @Success		201			{object}	ObligationCreateResponse
// @Failure		400			{object}	ObligationCreateResponse
// @Failure		404			{object}	ObligationCreateResponse
// @Failure		500			{object}	ObligationCreateResponse
// @Param			obligations	body		[]ObligationEditable	true	"Obligations"
// @Router			/v1/obligations [post]
func CreateObligations(c *gin.Context) {
	var editables []ObligationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ObligationCreateResponse{}

	for _, editable := range editables {
		obligation := editable.model()
		err = models.DB.Create(&obligation).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newObligation(c, obligation)
		r.Data = append(r.Data, ObligationResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List obligations
// @Description	Returns a list of obligations
// @Tags			Obligations
// @Produce		json
// @Success		200	{object}	ObligationListResponse
// @Failure		400	{object}	ObligationListResponse
// @Failure		500	{object}	ObligationListResponse
// @Router			/v1/obligations [get]
// @Param			description	query	string	false	"Filter by description"
// @Param			note		query	string	false	"Filter by note"
// @Param			account		query	string	false	"Filter by source account ID"
// @Param			currency	query	string	false	"Filter by currency"
// @Param			frequency	query	string	false	"Filter by frequency"
// @Param			archived	query	bool	false	"Is the obligation archived?"
// @Param			search		query	string	false	"Search for this text in description and note"
// @Param			offset		query	uint	false	"The offset of the first Obligation returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Obligations to return. Defaults to 50."
func GetObligations(c *gin.Context) {
	var filter ObligationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ObligationListResponse{
			Error: &s,
		})
		return
	}

	// Get the set parameters in the query string
	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	model, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("start_date ASC, description ASC").
		Where(&model, queryFields...)

	q = descriptionFilters(models.DB, q, setFields, filter.Description, filter.Note, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Obligations and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var obligations []models.Obligation
	err = q.Find(&obligations).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ObligationListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Obligation, 0)
	for _, obligation := range obligations {
		data = append(data, newObligation(c, obligation))
	}

	c.JSON(http.StatusOK, ObligationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get obligation
// @Description	Returns a specific obligation
// @Tags			Obligations
// @Produce		json
// @Success		200	{object}	ObligationResponse
// @Failure		400	{object}	ObligationResponse
// @Failure		404	{object}	ObligationResponse
// @Failure		500	{object}	ObligationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/obligations/{id} [get]
func GetObligation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.First(&obligation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	data := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &data})
}

// @Summary		Get instances
// @Description	Projects the instances of the obligation inside the requested range, with all exceptions applied
// @Tags			Obligations
// @Produce		json
// @Success		200	{object}	InstanceListResponse
// @Failure		400	{object}	InstanceListResponse
// @Failure		404	{object}	InstanceListResponse
// @Failure		500	{object}	InstanceListResponse
// @Param			id		path	URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			from	query	string	true	"Start of the range, formatted as YYYY-MM-DD"
// @Param			until	query	string	true	"End of the range, formatted as YYYY-MM-DD"
// @Router			/v1/obligations/{id}/instances [get]
func GetObligationInstances(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InstanceListResponse{
			Error: &s,
		})
		return
	}

	var query struct {
		From  types.Date `form:"from"`
		Until types.Date `form:"until"`
	}

	if err := c.Bind(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, InstanceListResponse{
			Error: &s,
		})
		return
	}

	if query.From.IsZero() {
		s := errFromNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, InstanceListResponse{
			Error: &s,
		})
		return
	}

	if query.Until.IsZero() {
		s := errUntilNotSetInQuery.Error()
		c.JSON(http.StatusBadRequest, InstanceListResponse{
			Error: &s,
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.Preload("Exceptions").First(&obligation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InstanceListResponse{
			Error: &s,
		})
		return
	}

	instances, err := schedule.Project(c.Request.Context(), obligation, query.From, query.Until)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, InstanceListResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, InstanceListResponse{Data: instances})
}

// @Summary		Update obligation
// @Description	Updates an obligation. Only values to be updated need to be specified.
// @Tags			Obligations
// @Produce		json
// @Success		200			{object}	ObligationResponse
// @Failure		400			{object}	ObligationResponse
// @Failure		404			{object}	ObligationResponse
// @Failure		500			{object}	ObligationResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			obligation	body		ObligationEditable	true	"Obligation"
// @Router			/v1/obligations/{id} [patch]
func UpdateObligation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.First(&obligation, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ObligationEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	var data ObligationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&obligation).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ObligationResponse{
			Error: &s,
		})
		return
	}

	apiResource := newObligation(c, obligation)
	c.JSON(http.StatusOK, ObligationResponse{Data: &apiResource})
}

// @Summary		Delete obligation
// @Description	Deletes an obligation and all its exceptions
// @Tags			Obligations
// @Produce		json
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/obligations/{id} [delete]
func DeleteObligation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var obligation models.Obligation
	err = models.DB.First(&obligation, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&obligation).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
