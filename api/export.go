package api

import (
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
)

// handleExportPosts streams every post as a CSV attachment, for pulling
// the board content into a spreadsheet or another system.
func (s *Server) handleExportPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.All(r.Context())
	if err != nil {
		s.log.Error("Failed to read posts for export", map[string]interface{}{
			"error": err.Error(),
		})
		respondInternalError(w)
		return
	}

	filename := "posts-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := gocsv.Marshal(&posts, w); err != nil {
		s.log.Error("Failed to write CSV export", map[string]interface{}{
			"error": err.Error(),
			"rows":  len(posts),
		})
	}
}
