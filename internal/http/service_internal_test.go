package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteJSON(t *testing.T) {
	t.Run("Should log encode failures without writing twice", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		s := &Service{logger: logger}

		h := s.handle(func(w http.ResponseWriter, r *http.Request) error {
			writeJSON(w, r, logger, http.StatusOK, map[string]any{"unsupported": make(chan int)})
			return nil
		})

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Contains(t, logs.String(), "error encoding response")
		assert.NotContains(t, logs.String(), "http response error")
	})
}
