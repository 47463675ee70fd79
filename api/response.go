package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body for every non-2xx response. The shape
// matches what the HTML frontend and the published OpenAPI document expect.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PostListResponse is the envelope for GET /api/posts.
type PostListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"size"`
}

// respondJSON is a helper function to send JSON responses
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "Error encoding response", http.StatusInternalServerError)
		}
	}
}

// respondError sends a {"detail": ...} error body
func respondError(w http.ResponseWriter, statusCode int, detail string) {
	respondJSON(w, statusCode, ErrorResponse{Detail: detail})
}

// respondNotFound sends the canonical 404 body for a missing post.
func respondNotFound(w http.ResponseWriter) {
	respondError(w, http.StatusNotFound, "Post not found")
}

// respondInternalError hides the underlying error from the client.
func respondInternalError(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
