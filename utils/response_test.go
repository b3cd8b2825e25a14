package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performJSON(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handler(ctx)

	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccessEnvelope(t *testing.T) {
	w, body := performJSON(t, func(ctx *gin.Context) {
		Success(ctx, gin.H{"value": 7})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Nil(t, body.Error)
	assert.Equal(t, http.StatusOK, body.StatusCode)
	assert.NotEmpty(t, body.Timestamp)
}

func TestErrorEnvelope(t *testing.T) {
	w, body := performJSON(t, func(ctx *gin.Context) {
		Error(ctx, http.StatusPaymentRequired, "insufficient coin balance")
	})

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "insufficient coin balance", body.Error)
	assert.Nil(t, body.Data)
	assert.Equal(t, http.StatusPaymentRequired, body.StatusCode)
}

func TestSanitizeStripsMarkup(t *testing.T) {
	assert.Equal(t, "will I find love",
		Sanitize("<script>alert(1)</script>will I find love"))
	assert.Equal(t, "plain question", Sanitize("plain question"))
}
