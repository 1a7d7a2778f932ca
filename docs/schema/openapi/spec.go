// Package openapi embeds the OpenAPI document of the farmcore HTTP API.
package openapi

import _ "embed"

// APISpec contains the OpenAPI document served at /openapi.yaml.
//
//go:embed farmcore-api.yaml
var APISpec []byte

// Spec returns a copy of the embedded OpenAPI YAML.
func Spec() []byte {
	return append([]byte(nil), APISpec...)
}
