package api

import (
	"goboard/docs"
)

// setupRoutes initializes all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.CORSMiddleware)
	s.router.Use(s.RequestIDMiddleware)
	s.router.Use(s.RequestLogMiddleware)

	// Documentation endpoints
	s.router.HandleFunc("/openapi.json", docs.HandleOpenAPISpec).Methods("GET", "OPTIONS")
	s.router.HandleFunc("/docs", docs.HandleSwaggerUI).Methods("GET", "OPTIONS")

	apiRouter := s.router.PathPrefix("/api").Subrouter()

	// Health check endpoint
	apiRouter.HandleFunc("/health", s.handleHealthCheck).Methods("GET", "OPTIONS")

	// Post routes
	postRouter := apiRouter.PathPrefix("/posts").Subrouter()
	postRouter.HandleFunc("", s.handleListPosts).Methods("GET", "OPTIONS")
	postRouter.HandleFunc("", s.handleCreatePost).Methods("POST", "OPTIONS")
	postRouter.HandleFunc("/export", s.handleExportPosts).Methods("GET", "OPTIONS")
	postRouter.HandleFunc("/{post_id:[0-9]+}", s.handleGetPost).Methods("GET", "OPTIONS")
	postRouter.HandleFunc("/{post_id:[0-9]+}", s.handleUpdatePost).Methods("PUT", "OPTIONS")
	postRouter.HandleFunc("/{post_id:[0-9]+}", s.handleDeletePost).Methods("DELETE", "OPTIONS")
}
