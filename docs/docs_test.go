package docs

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSpecIsValidJSON(t *testing.T) {
	var spec struct {
		OpenAPI string                 `json:"openapi"`
		Paths   map[string]interface{} `json:"paths"`
	}
	if err := json.Unmarshal(SpecJSON, &spec); err != nil {
		t.Fatalf("embedded spec is not valid JSON: %v", err)
	}
	if !strings.HasPrefix(spec.OpenAPI, "3.") {
		t.Fatalf("unexpected openapi version: %q", spec.OpenAPI)
	}

	for _, path := range []string{
		"/api/health",
		"/api/posts",
		"/api/posts/{post_id}",
		"/api/posts/export",
	} {
		if _, ok := spec.Paths[path]; !ok {
			t.Errorf("spec missing path %s", path)
		}
	}
}

func TestHandlers(t *testing.T) {
	rr := httptest.NewRecorder()
	HandleOpenAPISpec(rr, httptest.NewRequest("GET", "/openapi.json", nil))
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type: %q", ct)
	}

	rr = httptest.NewRecorder()
	HandleSwaggerUI(rr, httptest.NewRequest("GET", "/docs", nil))
	if !strings.Contains(rr.Body.String(), "swagger-ui") {
		t.Fatalf("docs page does not load swagger-ui")
	}
	if !strings.Contains(rr.Body.String(), "/openapi.json") {
		t.Fatalf("docs page does not reference the schema endpoint")
	}
}
