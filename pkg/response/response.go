package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the unified API response format. Error carries internal detail
// and is only populated when debug detail is enabled.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// includeDetail controls whether internal error detail is echoed to clients.
// Set once at startup from config; off by default.
var includeDetail bool

// SetIncludeErrorDetail enables or disables the error detail field in
// failure responses.
func SetIncludeErrorDetail(enabled bool) {
	includeDetail = enabled
}

// AppError is a structured application error with an HTTP status.
type AppError struct {
	HTTPStatus int
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying error for debug output.
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{HTTPStatus: e.HTTPStatus, Message: e.Message, Cause: err}
}

func NewValidation(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusBadRequest, Message: msg}
}

func NewAuth(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusUnauthorized, Message: msg}
}

func NewForbidden(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusForbidden, Message: msg}
}

func NewNotFound(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusNotFound, Message: msg}
}

func NewConflict(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusConflict, Message: msg}
}

func NewServerError(msg string) *AppError {
	return &AppError{HTTPStatus: http.StatusInternalServerError, Message: msg}
}

// --- Gin response helpers ---

// OK sends a 200 response with data.
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 response with data.
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// Fail sends an error response. *AppError values keep their status and
// message; anything else becomes a generic 500.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		env := Envelope{Success: false, Message: appErr.Message}
		if includeDetail && appErr.Cause != nil {
			env.Error = appErr.Cause.Error()
		}
		c.JSON(appErr.HTTPStatus, env)
		return
	}

	env := Envelope{Success: false, Message: "internal server error"}
	if includeDetail {
		env.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, env)
}

// BadRequest sends a 400 failure with a message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Message: msg})
}

// Unauthorized sends a 401 failure with a message.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: msg})
}

// Forbidden sends a 403 failure with a message.
func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Envelope{Success: false, Message: msg})
}

// NotFound sends a 404 failure with a message.
func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Envelope{Success: false, Message: msg})
}
