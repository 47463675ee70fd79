package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"goboard/db"

	"github.com/gorilla/mux"
)

// DeleteResponse is the body of DELETE /api/posts/{id}.
type DeleteResponse struct {
	OK        bool  `json:"ok"`
	DeletedID int64 `json:"deleted_id"`
}

// handleListPosts supports search (q), sorting (sort) and paging (page, size).
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if v := query.Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "page must be an integer >= 1")
			return
		}
		page = parsed
	}

	size := 10
	if v := query.Get("size"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "size must be an integer between 1 and 100")
			return
		}
		size = parsed
	}

	// A malformed sort value falls back to created_at:desc.
	field, desc := db.ParseSort(query.Get("sort"))

	posts, total, err := s.store.List(r.Context(), db.ListQuery{
		Query:    query.Get("q"),
		SortBy:   field,
		SortDesc: desc,
		Page:     page,
		Size:     size,
	})
	if err != nil {
		s.log.Error("Failed to list posts", map[string]interface{}{
			"error": err.Error(),
		})
		respondInternalError(w)
		return
	}

	respondJSON(w, http.StatusOK, PostListResponse{
		Items: posts,
		Total: total,
		Page:  page,
		Size:  size,
	})
}

// handleGetPost returns one post, incrementing its view counter unless
// inc_view=false.
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	incView := true
	if v := r.URL.Query().Get("inc_view"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "inc_view must be a boolean")
			return
		}
		incView = parsed
	}

	// With Redis batching the increment is queued instead of written,
	// and the pending count is added so the caller still sees the new
	// total immediately.
	if incView && s.views != nil {
		p, err := s.store.Get(r.Context(), id, false)
		if err != nil {
			s.respondStoreError(w, err)
			return
		}
		pending, err := s.views.Incr(r.Context(), id)
		if err != nil {
			s.log.Error("Failed to queue view increment", map[string]interface{}{
				"error":   err.Error(),
				"post_id": id,
			})
			respondInternalError(w)
			return
		}
		respondJSON(w, http.StatusOK, withPendingViews(p, pending))
		return
	}

	p, err := s.store.Get(r.Context(), id, incView)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var in db.PostCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := db.ValidateCreate(in); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := s.store.Create(r.Context(), in)
	if err != nil {
		s.log.Error("Failed to create post", map[string]interface{}{
			"error": err.Error(),
		})
		respondInternalError(w)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// handleUpdatePost applies only the fields present in the body.
func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	var upd db.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := db.ValidateUpdate(upd); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := s.store.Update(r.Context(), id, upd)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		s.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, DeleteResponse{OK: true, DeletedID: id})
}

// withPendingViews shapes the response for a view that is queued in
// Redis but not yet folded into the store: views includes the pending
// count and updated_at reflects this view, matching what the
// direct-write path returns.
func withPendingViews(p db.Post, pending int64) db.Post {
	p.Views += pending
	p.UpdatedAt = time.Now().UTC()
	return p
}

// postID extracts the {post_id} path variable. The route pattern already
// restricts it to digits.
func postID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["post_id"], 10, 64)
	if err != nil || id < 1 {
		respondNotFound(w)
		return 0, false
	}
	return id, true
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrPostNotFound) {
		respondNotFound(w)
		return
	}
	s.log.Error("Store operation failed", map[string]interface{}{
		"error": err.Error(),
	})
	respondInternalError(w)
}
