package validation

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Code string `json:"code" validate:"required"`
	Qty  int    `json:"qty" validate:"omitempty,gte=1"`
}

func TestBindAndValidate(t *testing.T) {
	v := New()

	t.Run("valid payload", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"SAVE10","qty":2}`))
		var out samplePayload
		require.NoError(t, BindAndValidate(w, r, &out, v))
		assert.Equal(t, "SAVE10", out.Code)
	})

	t.Run("malformed json returns 400", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{not json`))
		var out samplePayload
		assert.Error(t, BindAndValidate(w, r, &out, v))
		assert.Equal(t, 400, w.Code)
	})

	t.Run("failed validation returns 400 with field detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"qty":0}`))
		var out samplePayload
		assert.Error(t, BindAndValidate(w, r, &out, v))
		assert.Equal(t, 400, w.Code)
		assert.Contains(t, w.Body.String(), "validation_failed")
	})
}
