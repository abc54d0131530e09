package response

import (
	"errors"
	"net/http"

	"github.com/collabspace/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// The wire format is inherited from the original client contract: auth and
// profile routes report failures under a "msg" key, project routes under an
// "error" key. That split is confined to this package.

const (
	KeyMsg   = "msg"
	KeyError = "error"
)

// AppError is a structured application error carrying the HTTP status, the
// JSON key its message is reported under, and optional extra body fields.
type AppError struct {
	HTTPStatus int
	Key        string
	Message    string
	Extra      map[string]interface{}
}

func (e *AppError) Error() string {
	return e.Message
}

// With adds an extra field to the error response body.
func (e *AppError) With(field string, value interface{}) *AppError {
	if e.Extra == nil {
		e.Extra = make(map[string]interface{})
	}
	e.Extra[field] = value
	return e
}

// NewMsg builds an AppError reported as {"msg": ...}.
func NewMsg(status int, msg string) *AppError {
	return &AppError{HTTPStatus: status, Key: KeyMsg, Message: msg}
}

// NewErr builds an AppError reported as {"error": ...}.
func NewErr(status int, msg string) *AppError {
	return &AppError{HTTPStatus: status, Key: KeyError, Message: msg}
}

func BadRequestMsg(msg string) *AppError { return NewMsg(http.StatusBadRequest, msg) }
func BadRequestErr(msg string) *AppError { return NewErr(http.StatusBadRequest, msg) }
func UnauthorizedMsg(msg string) *AppError {
	return NewMsg(http.StatusUnauthorized, msg)
}
func Forbidden(msg string) *AppError { return NewErr(http.StatusForbidden, msg) }
func NotFoundMsg(msg string) *AppError {
	return NewMsg(http.StatusNotFound, msg)
}
func NotFoundErr(msg string) *AppError {
	return NewErr(http.StatusNotFound, msg)
}

// JSON sends a success response with the given status and payload.
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// HandleError maps an error to its HTTP response. AppErrors use their own
// status and key; anything else is a 500 with minimal detail, the full error
// logged server-side only.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := gin.H{appErr.Key: appErr.Message}
		for k, v := range appErr.Extra {
			body[k] = v
		}
		c.JSON(appErr.HTTPStatus, body)
		return
	}

	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{KeyError: "Server error"})
}
