package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-service/internal/store"
)

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForKind(store.KindNotFound))
	assert.Equal(t, http.StatusConflict, statusForKind(store.KindConflict))
	assert.Equal(t, http.StatusBadRequest, statusForKind(store.KindInvalidReference))
	assert.Equal(t, http.StatusBadRequest, statusForKind(store.KindInvalidState))
	assert.Equal(t, http.StatusBadRequest, statusForKind(store.KindInsufficientStock))
	assert.Equal(t, http.StatusBadRequest, statusForKind(store.KindValidation))
	assert.Equal(t, http.StatusInternalServerError, statusForKind(store.KindUnknown))
}

func TestRespondErrorStoreError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	storeErr := &store.Error{Kind: store.KindNotFound, Message: "category 7 not found"}
	require.NoError(t, respondError(c, zap.NewNop(), storeErr))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "category 7 not found", body["error"])
}

func TestRespondErrorUnknownIsInternal(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, respondError(c, zap.NewNop(), errors.New("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	// Driver failures must not leak their message to the client.
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body["error"])
}

func TestRequestValidator(t *testing.T) {
	v := NewRequestValidator()

	valid := CategoryRequest{Name: "Books"}
	assert.NoError(t, v.Validate(&valid))

	invalid := CategoryRequest{}
	err := v.Validate(&invalid)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
