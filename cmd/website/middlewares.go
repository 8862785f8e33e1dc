package main

import (
	"net/http"
	"slices"
	"strings"

	"github.com/adampresley/adamgokit/httphelpers"
)

type methodNotAllowedResponse struct {
	Error string `json:"error"`
	Ok    bool   `json:"ok"`
}

/*
newCacheControlMiddleware lets the CDN in front of the site cache a
response on top of the in-process caches.
*/
func newCacheControlMiddleware(value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", value)
			next.ServeHTTP(w, r)
		})
	}
}

/*
newAllowMethodsMiddleware answers requests using any other method with a
JSON 405 instead of the router's plain text one.
*/
func newAllowMethodsMiddleware(methods ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(methods, r.Method) {
				w.Header().Set("Allow", strings.Join(methods, ", "))
				httphelpers.WriteJson(w, http.StatusMethodNotAllowed, methodNotAllowedResponse{
					Error: "Method not allowed. Use " + strings.Join(methods, " or ") + ".",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
