package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/donation-gateway/internal/http/middlewarectx"
)

func TestRateLimitMiddleware(t *testing.T) {
	logger := newNoopLogger()

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Burst of 2, no refill during the test.
	limiter := rate.NewLimiter(rate.Limit(0), 2)
	handler := middlewarectx.RateLimitMiddleware(limiter, logger)(nextHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/geminiProxy", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
