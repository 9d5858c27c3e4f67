package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func limitedRouter(store *rateLimiterStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rateLimitHandler(store, zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func ping(r http.Handler, remoteAddr string, headers map[string]string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitIgnoresDeviceHeader(t *testing.T) {
	r := limitedRouter(newRateLimiterStore(1))

	passed := 0
	for i := 0; i < 100; i++ {
		if ping(r, "203.0.113.7:5000", map[string]string{"X-Device-ID": fmt.Sprintf("device-%d", i)}) == http.StatusOK {
			passed++
		}
	}
	assert.Equal(t, 1, passed)
}

func TestRateLimitIsPerIP(t *testing.T) {
	r := limitedRouter(newRateLimiterStore(1))

	assert.Equal(t, http.StatusOK, ping(r, "203.0.113.7:5000", nil))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "203.0.113.7:5001", nil))
	assert.Equal(t, http.StatusOK, ping(r, "203.0.113.8:5000", nil))
	assert.Equal(t, http.StatusOK, ping(r, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}))
	assert.Equal(t, http.StatusTooManyRequests, ping(r, "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.1"}))
}

func TestRateLimiterDropsIdleEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := newRateLimiterStore(10)
	store.now = func() time.Time { return now }

	for i := 0; i < 50; i++ {
		store.getLimiter(fmt.Sprintf("198.51.100.%d", i))
	}
	assert.Len(t, store.limiters, 50)

	now = now.Add(limiterIdleTTL + time.Second)
	store.getLimiter("203.0.113.7")
	assert.Len(t, store.limiters, 1)
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "192.0.2.10", getClientIP(c))

	c.Request.Header.Set("X-Real-IP", "192.0.2.20")
	assert.Equal(t, "192.0.2.20", getClientIP(c))

	c.Request.Header.Set("X-Forwarded-For", " 192.0.2.30 , 10.0.0.1")
	assert.Equal(t, "192.0.2.30", getClientIP(c))
}
