package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"glamvoice/internal/apperr"
)

const (
	CodeOK             = 0
	CodeBadRequest     = 40000
	CodeNotFound       = 40400
	CodeInternalServer = 50000
	CodeUpstream       = 50200
	CodeConsistency    = 50900
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}

// FromError maps the error's kind onto status and code. The message shown to
// the client is the user-safe one; full detail stays in server logs.
func FromError(c *gin.Context, err error, fallback string) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		Error(c, http.StatusBadRequest, CodeBadRequest, apperr.UserMessage(err, fallback))
	case apperr.KindNotFound:
		Error(c, http.StatusNotFound, CodeNotFound, apperr.UserMessage(err, fallback))
	case apperr.KindUpstream:
		Error(c, http.StatusBadGateway, CodeUpstream, apperr.UserMessage(err, fallback))
	case apperr.KindConsistency:
		Error(c, http.StatusInternalServerError, CodeConsistency, apperr.UserMessage(err, fallback))
	default:
		Error(c, http.StatusInternalServerError, CodeInternalServer, fallback)
	}
}
