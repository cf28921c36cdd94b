package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/pkg/apperr"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Limit       int   `json:"limit"`
	HasNextPage bool  `json:"has_next_page"`
}

// envelope matches the original API contract: {data, error}.
type envelope struct {
	Data  interface{} `json:"data"`
	Error interface{} `json:"error"`
}

type errorBody struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

// pagedData is the data payload for list responses.
type pagedData struct {
	Rows       interface{} `json:"rows"`
	Total      int64       `json:"total"`
	Pagination Pagination  `json:"pagination"`
}

// OK sends a 200 response wrapped in the data envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Data: data})
}

// Paged sends a paginated list response.
func Paged(c *gin.Context, rows interface{}, pag Pagination) {
	c.JSON(http.StatusOK, envelope{Data: pagedData{Rows: rows, Total: pag.Total, Pagination: pag}})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Data: data})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	abortError(c, http.StatusBadRequest, "validation_failure", message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	abortError(c, http.StatusUnauthorized, "unauthorized", "authentication required")
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context, message string) {
	abortError(c, http.StatusForbidden, "forbidden", message)
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context, message string) {
	abortError(c, http.StatusNotFound, "not_found", message)
}

// Conflict sends a 409 error response.
func Conflict(c *gin.Context, message string) {
	abortError(c, http.StatusConflict, "conflict", message)
}

// UnprocessableEntity sends a 422 error response.
func UnprocessableEntity(c *gin.Context, message string) {
	abortError(c, http.StatusUnprocessableEntity, "validation_failure", message)
}

// Error translates a repository error into the matching HTTP failure. The
// payload carries a stable machine-readable kind; store-specific detail stays
// in the server log only.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		abortError(c, http.StatusUnprocessableEntity, apperr.Kind(err), err.Error())
	case errors.Is(err, apperr.ErrBlobStore):
		abortError(c, http.StatusBadGateway, apperr.Kind(err), "file storage is unavailable")
	case errors.Is(err, apperr.ErrStore):
		abortError(c, http.StatusInternalServerError, apperr.Kind(err), "storage operation failed")
	default:
		abortError(c, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func abortError(c *gin.Context, status int, kind, message string) {
	c.AbortWithStatusJSON(status, envelope{Error: errorBody{Kind: kind, Message: message}})
}
