package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{validationError("name is required"), http.StatusBadRequest, `{"error":"name is required"}`},
		{errWrongCredentials, http.StatusUnauthorized, `{"error":"email or password is wrong"}`},
		{errUnauthorized, http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{errForbidden, http.StatusForbidden, `{"error":"forbidden"}`},
		{notFound("product not found"), http.StatusNotFound, `{"error":"product not found"}`},
		{alreadyExists("this email is already taken"), http.StatusConflict, `{"error":"this email is already taken"}`},
		{errInternal, http.StatusInternalServerError, `{"error":"internal server error"}`},
		// unknown errors must not leak their message
		{errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
		{fmt.Errorf("wrapped: %w", errForbidden), http.StatusForbidden, `{"error":"forbidden"}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		respondError(c, tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, rec.Body.String(), tc.err.Error())
	}
}
