package controller

import (
	"net/http"
	"reflect"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"

	"github.com/gin-gonic/gin"
)

// staleViewHint is appended to NotFound responses; the client's view is
// most likely out of date.
const staleViewHint = "refresh and retry"

func respondSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, models.SuccessResponse(code, message, data))
}

// respondError writes err as an APIResponse using the status of its kind.
// data is attached when the operation took effect despite the error.
func respondError(c *gin.Context, log logger.Logger, message string, err error, data interface{}) {
	de := models.ToDomainError(err)
	code := de.HTTPStatus()

	details := de.Error()
	if de.Kind == models.KindNotFound {
		details += "; " + staleViewHint
	}
	if de.Kind == models.KindInternal {
		details = "internal server error"
	}

	if code >= http.StatusInternalServerError {
		log.Errorf("%s: %v", message, err)
	} else {
		log.Warnf("%s: %v", message, err)
	}

	if v := reflect.ValueOf(data); data != nil && v.Kind() == reflect.Ptr && v.IsNil() {
		data = nil
	}

	resp := models.ErrorResponse(code, message, string(de.Kind), details)
	resp.Data = data
	resp.Error.Field = de.Field
	c.JSON(code, resp)
}

// bindError answers a malformed request body.
func bindError(c *gin.Context, log logger.Logger, err error) {
	log.Warnf("Failed to bind JSON: %v", err)
	c.JSON(http.StatusBadRequest, models.ErrorResponse(http.StatusBadRequest, "Invalid request", string(models.KindValidation), err.Error()))
}
