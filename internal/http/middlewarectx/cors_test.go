package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/donation-gateway/internal/http/middlewarectx"
)

func TestCORSMiddleware(t *testing.T) {
	handlerCalled := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	})

	handler := middlewarectx.CORSMiddleware(nextHandler)

	tests := []struct {
		name           string
		method         string
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "preflight request returns 204 without calling next",
			method:         http.MethodOptions,
			wantStatusCode: http.StatusNoContent,
			wantCalled:     false,
		},
		{
			name:           "regular request passes through with headers",
			method:         http.MethodPost,
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled = false

			req := httptest.NewRequest(tt.method, "/geminiProxy", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
		})
	}
}
