package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: content too long", ErrValidation), http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{fmt.Errorf("%w: not the owner", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: letter", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: pair exists", ErrConflict), http.StatusConflict},
		{ErrStorageUnavailable, http.StatusServiceUnavailable},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

func TestHandleError_HidesUnclassifiedCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/letters", nil)

	HandleError(c, errors.New("pq: password authentication failed"), "Failed to fetch letters")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch letters", body.Error)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
}

func TestHandleError_DomainMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/penpals", nil)

	HandleError(c, fmt.Errorf("%w: penpal connection already exists", ErrConflict), "Failed")

	assert.Equal(t, http.StatusConflict, w.Code)
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "conflict: penpal connection already exists", body.Error)
	assert.Equal(t, "CONFLICT", body.Code)
}
