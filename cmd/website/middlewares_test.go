package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAllowMethodsMiddlewareRejectsOtherMethods(t *testing.T) {
	handler := newAllowMethodsMiddleware(http.MethodPost)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/contact", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "POST", w.Header().Get("Allow"))

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Method not allowed. Use POST.", body["error"])
	assert.Equal(t, false, body["ok"])
}

func TestAllowMethodsMiddlewarePassesAllowedMethod(t *testing.T) {
	handler := newAllowMethodsMiddleware(http.MethodPost)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/contact", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCacheControlMiddleware(t *testing.T) {
	handler := newCacheControlMiddleware("s-maxage=300, stale-while-revalidate=600")(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/gallery/counts", nil))

	assert.Equal(t, "s-maxage=300, stale-while-revalidate=600", w.Header().Get("Cache-Control"))
}
