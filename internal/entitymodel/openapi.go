// Package entitymodel exposes runtime metadata about the farmcore entity
// model: the schema fingerprint and the OpenAPI document of the HTTP API.
package entitymodel

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	apispec "farmcore/docs/schema/openapi"
)

// OpenAPISpec returns a copy of the embedded OpenAPI document.
func OpenAPISpec() []byte {
	return apispec.Spec()
}

// NewOpenAPIHandler serves the OpenAPI YAML with a content ETag and answers
// conditional requests with 304.
func NewOpenAPIHandler() http.Handler {
	doc := OpenAPISpec()
	sum := sha256.Sum256(doc)
	etag := `"` + hex.EncodeToString(sum[:8]) + `"`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(doc)
	})
}
