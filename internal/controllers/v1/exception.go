package v1

import (
	"net/http"

	"github.com/billplan/backend/internal/httputil"
	"github.com/billplan/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
	"gorm.io/gorm/clause"
)

// RegisterExceptionRoutes registers the routes for exceptions with
// the RouterGroup that is passed.
func RegisterExceptionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsExceptionList)
		r.GET("", GetExceptions)
		r.POST("", CreateExceptions)
	}

	// Exception with ID
	{
		r.OPTIONS("/:id", OptionsExceptionDetail)
		r.GET("/:id", GetException)
		r.PATCH("/:id", UpdateException)
		r.DELETE("/:id", DeleteException)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Exceptions
// @Success		204
// @Router			/v1/exceptions [options]
func OptionsExceptionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Exceptions
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/exceptions/{id} [options]
func OptionsExceptionDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Exception{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create exceptions
// @Description	Creates new exceptions. An exception for an obligation and original date that already has one replaces it
// @Tags			Exceptions
// @Produce		json
// @Success		201			{object}	ExceptionCreateResponse
// @Failure		400			{object}	ExceptionCreateResponse
// @Failure		404			{object}	ExceptionCreateResponse
// @Failure		500			{object}	ExceptionCreateResponse
// @Param			exceptions	body		[]ExceptionEditable	true	"Exceptions"
// @Router			/v1/exceptions [post]
func CreateExceptions(c *gin.Context) {
	var editables []ExceptionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExceptionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ExceptionCreateResponse{}

	for _, editable := range editables {
		exception := editable.model()

		// An exception is the authoritative override for one instance,
		// a later one for the same instance replaces the earlier one
		err = models.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "obligation_id"}, {Name: "original_date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"kind", "modified_amount", "modified_description", "modified_date", "updated_at",
			}),
		}).Create(&exception).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		// Re-read the row since an upsert keeps the ID of the
		// exception it replaced
		var created models.Exception
		err = models.DB.First(&created, "obligation_id = ? AND original_date = ?",
			exception.ObligationID, exception.OriginalDate).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newException(c, created)
		r.Data = append(r.Data, ExceptionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		List exceptions
// @Description	Returns a list of exceptions
// @Tags			Exceptions
// @Produce		json
// @Success		200	{object}	ExceptionListResponse
// @Failure		400	{object}	ExceptionListResponse
// @Failure		500	{object}	ExceptionListResponse
// @Router			/v1/exceptions [get]
// @Param			obligation	query	string	false	"Filter by obligation ID"
// @Param			kind		query	string	false	"Filter by kind"
// @Param			offset		query	uint	false	"The offset of the first Exception returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Exceptions to return. Defaults to 50."
func GetExceptions(c *gin.Context) {
	var filter ExceptionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExceptionListResponse{
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
		c.JSON(status(err), ExceptionListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("original_date ASC").
		Where(&model, queryFields...)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Exceptions and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var exceptions []models.Exception
	err = q.Find(&exceptions).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ExceptionListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Exception, 0)
	for _, exception := range exceptions {
		data = append(data, newException(c, exception))
	}

	c.JSON(http.StatusOK, ExceptionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get exception
// @Description	Returns a specific exception
// @Tags			Exceptions
// @Produce		json
// @Success		200	{object}	ExceptionResponse
// @Failure		400	{object}	ExceptionResponse
// @Failure		404	{object}	ExceptionResponse
// @Failure		500	{object}	ExceptionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/exceptions/{id} [get]
func GetException(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	var exception models.Exception
	err = models.DB.First(&exception, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	data := newException(c, exception)
	c.JSON(http.StatusOK, ExceptionResponse{Data: &data})
}

// @Summary		Update exception
// @Description	Updates an exception. Only values to be updated need to be specified.
// @Tags			Exceptions
// @Produce		json
// @Success		200			{object}	ExceptionResponse
// @Failure		400			{object}	ExceptionResponse
// @Failure		404			{object}	ExceptionResponse
// @Failure		500			{object}	ExceptionResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			exception	body		ExceptionEditable	true	"Exception"
// @Router			/v1/exceptions/{id} [patch]
func UpdateException(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	var exception models.Exception
	err = models.DB.First(&exception, uri.ID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ExceptionEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	var data ExceptionEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&exception).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ExceptionResponse{
			Error: &s,
		})
		return
	}

	apiResource := newException(c, exception)
	c.JSON(http.StatusOK, ExceptionResponse{Data: &apiResource})
}

// @Summary		Delete exception
// @Description	Deletes an exception
// @Tags			Exceptions
// @Produce		json
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/exceptions/{id} [delete]
func DeleteException(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var exception models.Exception
	err = models.DB.First(&exception, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&exception).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
