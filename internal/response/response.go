package response

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/notes-backend/internal/apperror"
)

// MessageValidation is the message of every binding failure response.
const MessageValidation = "Validation error"

// OK sends data as a 200 JSON body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Created sends an empty 201 pointing at the new resource.
func Created(c *gin.Context, location string) {
	c.Header("Location", location)
	c.Status(http.StatusCreated)
}

// Done sends an empty 200.
func Done(c *gin.Context) {
	c.Status(http.StatusOK)
}

// Fail serializes a domain failure verbatim at its own status code.
func Fail(c *gin.Context, err *apperror.Error) {
	status := err.StatusCode
	if status < 400 || status > 599 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, err)
}

// Error writes err when it is a domain failure. Anything else is recorded on
// the context for the error middleware to turn into a generic 500.
func Error(c *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		Fail(c, appErr)
		return
	}
	_ = c.Error(err)
}

// Validation sends a 422 listing the offending fields in name order.
func Validation(c *gin.Context, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make([]string, len(names))
	for i, name := range names {
		details[i] = fmt.Sprintf("%s: %s", name, fields[name])
	}
	Fail(c, apperror.New(MessageValidation, http.StatusUnprocessableEntity, strings.Join(details, "; ")))
}

// BadRequest sends a 400 domain failure.
func BadRequest(c *gin.Context, message, details string) {
	Fail(c, apperror.BadRequest(message, details))
}
