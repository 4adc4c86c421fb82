package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRateLimitLocalFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(nil, zap.NewNop(), 3, time.Minute))
	router.GET("/limited", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	doRequest := func() int {
		req, _ := http.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		return recorder.Code
	}

	t.Run("requests within the limit pass", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doRequest())
		}
	})

	t.Run("request over the limit gets 429", func(t *testing.T) {
		assert.Equal(t, http.StatusTooManyRequests, doRequest())
	})

	t.Run("other clients are unaffected", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/limited", nil)
		req.RemoteAddr = "198.51.100.9:1234"
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
