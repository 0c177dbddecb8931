package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// apiError is the one error shape handlers are allowed to fail with. Every
// failure path funnels into respondError, which maps it to a status + JSON
// body; handlers never format their own failure responses.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

var (
	errWrongCredentials = &apiError{http.StatusUnauthorized, "email or password is wrong"}
	errUnauthorized     = &apiError{http.StatusUnauthorized, "unauthorized"}
	errForbidden        = &apiError{http.StatusForbidden, "forbidden"}
	errInternal         = &apiError{http.StatusInternalServerError, "internal server error"}
)

func validationError(msg string) *apiError {
	return &apiError{http.StatusBadRequest, msg}
}

func alreadyExists(msg string) *apiError {
	return &apiError{http.StatusConflict, msg}
}

func notFound(msg string) *apiError {
	return &apiError{http.StatusNotFound, msg}
}

// respondError writes the JSON error body for err and aborts the request.
// Unknown error values are reported as a generic 500 so internal detail
// never reaches the client.
func respondError(c *gin.Context, err error) {
	var ae *apiError
	if !errors.As(err, &ae) {
		ae = errInternal
	}
	c.AbortWithStatusJSON(ae.Status, gin.H{"error": ae.Message})
}
