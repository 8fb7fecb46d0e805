package handler

import "net/http"

const (
	apiTitle   = "Product Showcase API"
	apiVersion = "1.0"
)

// Root describes the API.
func Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": apiTitle,
		"version": apiVersion,
	})
}
