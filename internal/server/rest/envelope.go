package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type successEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

type errorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// statusByKind maps error kinds to HTTP statuses. Kinds not listed are 500.
var statusByKind = map[common.ErrorKind]int{
	common.KindNotFound:       http.StatusNotFound,
	common.KindUnauthorized:   http.StatusUnauthorized,
	common.KindTokenExpired:   http.StatusUnauthorized,
	common.KindTokenInvalid:   http.StatusUnauthorized,
	common.KindConflict:       http.StatusConflict,
	common.KindValidation:     http.StatusBadRequest,
	common.KindKeyUnavailable: http.StatusInternalServerError,
	common.KindInternal:       http.StatusInternalServerError,
}

func statusOf(err error) int {
	if s, ok := statusByKind[common.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

func respond(c *gin.Context, status int, message string, data, meta any) {
	c.JSON(status, successEnvelope{Status: statusSuccess, Message: message, Data: data, Meta: meta})
}

// fail writes err as an error envelope. Internal details never reach the
// client; only the message of tagged errors does.
func fail(c *gin.Context, err error) {
	status := statusOf(err)
	message := http.StatusText(status)

	var e *common.Error
	if status < http.StatusInternalServerError && errors.As(err, &e) && e.Msg != "" {
		message = e.Msg
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, errorEnvelope{Status: statusError, Message: message})
}

// failBinding reports a request body that did not decode or validate.
func failBinding(c *gin.Context, err error) {
	_ = c.Error(common.Validation(err.Error()))

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		details := make(map[string]string, len(ve))
		for _, fe := range ve {
			details[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorEnvelope{Status: statusError, Message: "validation failed", Details: details})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, errorEnvelope{Status: statusError, Message: "invalid request body"})
}
