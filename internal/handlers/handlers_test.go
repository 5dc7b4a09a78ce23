package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant_manager/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", &services.Error{Kind: services.KindValidation, Message: "bad"}, http.StatusBadRequest, `{"error":"bad"}`},
		{"conflict", &services.Error{Kind: services.KindConflict, Message: "taken"}, http.StatusConflict, `{"error":"taken"}`},
		{"internal keeps details outside release", &services.Error{Kind: services.KindInternal, Message: "failed", Err: errors.New("boom")},
			http.StatusInternalServerError, `{"error":"failed","details":"boom"}`},
		{"foreign error", errors.New("raw"), http.StatusInternalServerError, `{"error":"internal server error","details":"raw"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestParseBound(t *testing.T) {
	parse := func(query string, endOfDay bool) (time.Time, bool, int) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+query, nil)
		got, ok := parseBound(c, "to", endOfDay)
		return got, ok, w.Code
	}

	got, ok, _ := parse("", true)
	assert.True(t, ok)
	assert.True(t, got.IsZero())

	got, ok, _ = parse("to=2024-05-01", true)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), got)

	got, ok, _ = parse("to=2024-05-01T10:30:00Z", true)
	assert.True(t, ok)
	assert.Equal(t, 10, got.Hour())

	_, ok, code := parse("to=yesterday", true)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestParamID(t *testing.T) {
	for raw, want := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := paramID(c, "id")
		assert.Equal(t, want, ok, raw)
	}
}
