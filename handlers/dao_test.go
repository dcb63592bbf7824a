package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDAOHandlerRejectsWrongMethod(t *testing.T) {
	handler := NewDAOHandler(nil, errors.New("unavailable"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dao", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDAOHandlerReportsClientError(t *testing.T) {
	handler := NewDAOHandler(nil, errors.New("invalid contract address: something"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dao?id=1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, decodeError(t, rec), "invalid contract address")
}
