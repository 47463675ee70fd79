package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrPostNotFound is returned when a post id does not exist.
var ErrPostNotFound = errors.New("post not found")

// Field length limits, enforced on create and update.
const (
	MaxTitleLen   = 120
	MaxAuthorLen  = 40
	MaxContentLen = 5000
)

// Post is a single board post.
type Post struct {
	ID        int64     `json:"id" csv:"id"`
	Title     string    `json:"title" csv:"title"`
	Author    string    `json:"author" csv:"author"`
	Content   string    `json:"content" csv:"content"`
	CreatedAt time.Time `json:"created_at" csv:"created_at"`
	UpdatedAt time.Time `json:"updated_at" csv:"updated_at"`
	Views     int64     `json:"views" csv:"views"`
}

// PostCreate holds the fields required to create a post.
type PostCreate struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// PostUpdate holds optional fields for a partial update. Nil means
// "leave unchanged".
type PostUpdate struct {
	Title   *string `json:"title"`
	Author  *string `json:"author"`
	Content *string `json:"content"`
}

// ListQuery describes a list request after parameter validation.
type ListQuery struct {
	Query    string // substring match on title/author/content, case-insensitive
	SortBy   SortField
	SortDesc bool
	Page     int // 1-based
	Size     int // 1..100
}

// Normalized returns page and size clamped to valid bounds. Handlers
// reject out-of-range values before they get here; this keeps direct
// store callers safe.
func (q ListQuery) Normalized() (page, size int) {
	page, size = q.Page, q.Size
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return page, size
}

// SortField is a post attribute posts can be ordered by.
type SortField string

const (
	SortByID        SortField = "id"
	SortByTitle     SortField = "title"
	SortByAuthor    SortField = "author"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
	SortByViews     SortField = "views"
)

// ParseSort parses a "field:asc|desc" value. Malformed input falls back
// to created_at:desc rather than failing, so a bad query string never
// breaks the list page.
func ParseSort(sort string) (SortField, bool) {
	parts := strings.SplitN(sort, ":", 2)
	if len(parts) != 2 {
		return SortByCreatedAt, true
	}
	field := SortField(strings.TrimSpace(parts[0]))
	dir := strings.ToLower(strings.TrimSpace(parts[1]))

	switch field {
	case SortByID, SortByTitle, SortByAuthor, SortByCreatedAt, SortByUpdatedAt, SortByViews:
	default:
		return SortByCreatedAt, true
	}
	switch dir {
	case "asc":
		return field, false
	case "desc":
		return field, true
	}
	return SortByCreatedAt, true
}

// PostStore abstracts post persistence. Implementations must be safe for
// concurrent use by HTTP handlers.
type PostStore interface {
	// Create inserts a post and returns it with id and timestamps set.
	Create(ctx context.Context, in PostCreate) (Post, error)

	// Get returns a post by id. When incView is true the view counter is
	// incremented and updated_at bumped before returning.
	Get(ctx context.Context, id int64, incView bool) (Post, error)

	// Update applies the non-nil fields of upd and bumps updated_at.
	Update(ctx context.Context, id int64, upd PostUpdate) (Post, error)

	// Delete removes a post by id.
	Delete(ctx context.Context, id int64) error

	// List returns one page of posts matching q plus the filter-aware
	// total count.
	List(ctx context.Context, q ListQuery) ([]Post, int, error)

	// All returns every post ordered by id, for export.
	All(ctx context.Context) ([]Post, error)

	// Count returns the number of stored posts.
	Count(ctx context.Context) (int, error)

	// AddViews folds pre-aggregated view counts into posts. Used by the
	// Redis counter flusher; ids that no longer exist are skipped.
	AddViews(ctx context.Context, counts map[int64]int64) error

	Close() error
}

// ValidateCreate checks all required fields of a create request.
func ValidateCreate(in PostCreate) error {
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if err := validateAuthor(in.Author); err != nil {
		return err
	}
	return validateContent(in.Content)
}

// ValidateUpdate checks only the fields present in a partial update.
func ValidateUpdate(upd PostUpdate) error {
	if upd.Title != nil {
		if err := validateTitle(*upd.Title); err != nil {
			return err
		}
	}
	if upd.Author != nil {
		if err := validateAuthor(*upd.Author); err != nil {
			return err
		}
	}
	if upd.Content != nil {
		return validateContent(*upd.Content)
	}
	return nil
}

func validateTitle(s string) error {
	if n := utf8.RuneCountInString(s); n < 1 || n > MaxTitleLen {
		return fmt.Errorf("title must be 1 to %d characters", MaxTitleLen)
	}
	return nil
}

func validateAuthor(s string) error {
	if n := utf8.RuneCountInString(s); n < 1 || n > MaxAuthorLen {
		return fmt.Errorf("author must be 1 to %d characters", MaxAuthorLen)
	}
	return nil
}

func validateContent(s string) error {
	if n := utf8.RuneCountInString(s); n < 1 || n > MaxContentLen {
		return fmt.Errorf("content must be 1 to %d characters", MaxContentLen)
	}
	return nil
}

// EscapeLike escapes LIKE/ILIKE metacharacters so a search term matches
// literally, the same way the in-memory store's substring match does.
// The SQL queries using it must carry an ESCAPE '\' clause.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// MatchesQuery reports whether a post matches the search term. The term
// must already be trimmed and lower-cased.
func MatchesQuery(p Post, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Author), term) ||
		strings.Contains(strings.ToLower(p.Content), term)
}
