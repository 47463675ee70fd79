package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"goboard/logger"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is a PostStore backed by a local SQLite file, for
// single-node deployments that need posts to survive restarts.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	log *logger.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dbDir := filepath.Dir(path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = sqlDB.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			views INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:  sqlDB,
		log: logger.L(),
	}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, in PostCreate) (Post, error) {
	if err := ValidateCreate(in); err != nil {
		return Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (title, author, content, created_at, updated_at, views)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		in.Title, in.Author, in.Content, now, now,
	)
	if err != nil {
		return Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Post{}, fmt.Errorf("failed to get insert id: %w", err)
	}

	return Post{
		ID:        id,
		Title:     in.Title,
		Author:    in.Author,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64, incView bool) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if incView {
		res, err := s.db.ExecContext(ctx,
			`UPDATE posts SET views = views + 1, updated_at = ? WHERE id = ?`,
			time.Now().UTC(), id,
		)
		if err != nil {
			return Post{}, fmt.Errorf("failed to increment views: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return Post{}, ErrPostNotFound
		}
	}

	return s.scanOne(ctx, id)
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, upd PostUpdate) (Post, error) {
	if err := ValidateUpdate(upd); err != nil {
		return Post{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Author != nil {
		sets = append(sets, "author = ?")
		args = append(args, *upd.Author)
	}
	if upd.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *upd.Content)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE posts SET %s WHERE id = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Post{}, ErrPostNotFound
	}

	return s.scanOne(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, q ListQuery) ([]Post, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	where := ""
	args := []interface{}{}
	term := strings.TrimSpace(q.Query)
	if term != "" {
		like := "%" + EscapeLike(strings.ToLower(term)) + "%"
		where = `WHERE lower(title) LIKE ? ESCAPE '\' OR lower(author) LIKE ? ESCAPE '\' OR lower(content) LIKE ? ESCAPE '\'`
		args = append(args, like, like, like)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM posts "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	// q.SortBy is a whitelisted column name, never raw user input.
	query := fmt.Sprintf(
		`SELECT id, title, author, content, created_at, updated_at, views
		 FROM posts %s ORDER BY %s %s, id ASC LIMIT ? OFFSET ?`,
		where, string(q.SortBy), dir,
	)
	page, size := q.Normalized()
	args = append(args, size, (page-1)*size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *SQLiteStore) All(ctx context.Context) ([]Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, author, content, created_at, updated_at, views
		 FROM posts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) AddViews(ctx context.Context, counts map[int64]int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for id, n := range counts {
		if n <= 0 {
			continue
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE posts SET views = views + ?, updated_at = ? WHERE id = ?`,
			n, now, id,
		); err != nil {
			return fmt.Errorf("failed to fold view counts: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// insertSeed writes a fully formed post, preserving its id. Seeder only.
func (s *SQLiteStore) insertSeed(ctx context.Context, p Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, title, author, content, created_at, updated_at, views)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Author, p.Content, p.CreatedAt, p.UpdatedAt, p.Views,
	)
	if err != nil {
		return fmt.Errorf("failed to seed post: %w", err)
	}
	return nil
}

func (s *SQLiteStore) scanOne(ctx context.Context, id int64) (Post, error) {
	var p Post
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, author, content, created_at, updated_at, views
		 FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Author, &p.Content, &p.CreatedAt, &p.UpdatedAt, &p.Views)
	if err == sql.ErrNoRows {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func scanPosts(rows *sql.Rows) ([]Post, error) {
	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &p.Content,
			&p.CreatedAt, &p.UpdatedAt, &p.Views); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return posts, nil
}
