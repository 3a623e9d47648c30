package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_Body(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		code    string
		message string
	}{
		{"BadRequest", http.StatusBadRequest, "BAD_REQUEST", "некорректный запрос"},
		{"Unauthorized", http.StatusUnauthorized, "UNAUTHORIZED", "отсутствует ID пользователя"},
		{"Forbidden", http.StatusForbidden, "FORBIDDEN", "доступ запрещен"},
		{"NotFound", http.StatusNotFound, "NOT_FOUND", "бронирование не найдено"},
		{"Conflict", http.StatusConflict, "CONFLICT", "слот уже занят"},
		{"Internal", http.StatusInternalServerError, "INTERNAL_ERROR", msgInternalError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			RespondError(rec, tc.status, tc.message)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.ErrorCode)
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestRespondError_UnmappedStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	RespondError(rec, http.StatusTeapot, "заварка")

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ERROR", body.ErrorCode)
}
