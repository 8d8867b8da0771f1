package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentflow/agentflow-api/internal/apperror"
	"github.com/agentflow/agentflow-api/internal/logger"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var envelope ErrorEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestErrorKeepsAppErrorStatusAndCode(t *testing.T) {
	resp := NewResponder(logger.New("test", "warn", false), false)

	rec := httptest.NewRecorder()
	resp.Error(rec, apperror.NotFound("post not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "error", envelope.Status)
	assert.Equal(t, apperror.CodeNotFound, envelope.Code)
	assert.Equal(t, "post not found", envelope.Message)
	assert.Empty(t, envelope.Stack)
}

func TestUnknownErrorExposesStackOutsideProduction(t *testing.T) {
	resp := NewResponder(logger.New("test", "warn", false), false)

	rec := httptest.NewRecorder()
	resp.Error(rec, errors.New("nil pointer somewhere"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, apperror.CodeInternal, envelope.Code)
	assert.Equal(t, "nil pointer somewhere", envelope.Message)
	assert.NotEmpty(t, envelope.Stack)
}

func TestUnknownErrorIsMaskedInProduction(t *testing.T) {
	resp := NewResponder(logger.New("test", "warn", true), true)

	rec := httptest.NewRecorder()
	resp.Error(rec, errors.New("nil pointer somewhere"))

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "internal server error", envelope.Message)
	assert.Empty(t, envelope.Stack)
}
