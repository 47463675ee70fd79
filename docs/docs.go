// Package docs embeds the OpenAPI 3.0 specification for the board HTTP
// API and the Swagger UI page that renders it. Both are embedded at build
// time and served by the API server at runtime.
package docs

import (
	_ "embed"
	"net/http"
)

// SpecJSON contains the OpenAPI 3.0 specification in JSON format.
// Served at: GET /openapi.json
//
//go:embed openapi.json
var SpecJSON []byte

// SwaggerHTML is the interactive documentation page.
// Served at: GET /docs
//
//go:embed swagger.html
var SwaggerHTML []byte

// HandleOpenAPISpec serves the machine-readable API schema.
func HandleOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(SpecJSON)
}

// HandleSwaggerUI serves the interactive API documentation.
func HandleSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(SwaggerHTML)
}
