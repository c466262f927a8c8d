package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/task-service/internal/apperrors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantLogged bool
	}{
		{"invalid input", apperrors.InvalidInput("title is required"), http.StatusBadRequest, "title is required", false},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "task not found or unauthorized", false},
		{"internal hides cause", apperrors.Internal(errors.New("pq: password authentication failed")), http.StatusInternalServerError, "internal server error", true},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal server error", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, hook := test.NewNullLogger()
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			req.Header.Set(RequestIDHeader, "rid-1")
			rec := httptest.NewRecorder()

			WriteError(rec, req, log, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)

			if tt.wantLogged {
				entry := hook.LastEntry()
				require.NotNil(t, entry)
				assert.Equal(t, logrus.ErrorLevel, entry.Level)
				assert.Equal(t, "rid-1", entry.Data["request_id"])
				assert.Equal(t, "/tasks", entry.Data["path"])
			} else {
				assert.Empty(t, hook.AllEntries())
			}
		})
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := NewStatusRecorder(rec)
	assert.Equal(t, http.StatusOK, sr.Status)

	sr.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusTeapot, sr.Status)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
