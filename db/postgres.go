package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goboard/config"
	"goboard/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostStore backed by a Postgres connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

const postsSchema = `
CREATE TABLE IF NOT EXISTS posts (
	id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	views BIGINT NOT NULL DEFAULT 0
)`

// NewPostgresStore connects the pool and ensures the schema exists.
func NewPostgresStore(ctx context.Context, cfg *config.PostgresConfig) (*PostgresStore, error) {
	log := logger.L()

	connString := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Error("Failed to parse database config", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.GetMaxConnLifetime()
	poolConfig.MaxConnIdleTime = cfg.GetMaxConnIdleTime()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("Failed to create database pool", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("Failed to ping database", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postsSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create posts table: %w", err)
	}

	log.Info("Successfully connected to database", map[string]interface{}{
		"host":      cfg.Host,
		"port":      cfg.Port,
		"db":        cfg.DBName,
		"max_conns": cfg.MaxConnections,
		"min_conns": cfg.MinConnections,
	})

	return &PostgresStore{
		pool: pool,
		log:  log,
	}, nil
}

const postColumns = "id, title, author, content, created_at, updated_at, views"

func (s *PostgresStore) Create(ctx context.Context, in PostCreate) (Post, error) {
	if err := ValidateCreate(in); err != nil {
		return Post{}, err
	}

	now := time.Now().UTC()
	args := pgx.NamedArgs{
		"title":      in.Title,
		"author":     in.Author,
		"content":    in.Content,
		"created_at": now,
		"updated_at": now,
	}

	row := s.pool.QueryRow(ctx, `
		INSERT INTO posts (title, author, content, created_at, updated_at, views)
		VALUES (@title, @author, @content, @created_at, @updated_at, 0)
		RETURNING `+postColumns, args)

	p, err := scanPostRow(row)
	if err != nil {
		s.log.Error("Failed to insert post", map[string]interface{}{
			"error": err.Error(),
		})
		return Post{}, fmt.Errorf("failed to insert post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64, incView bool) (Post, error) {
	var row pgx.Row
	if incView {
		row = s.pool.QueryRow(ctx, `
			UPDATE posts SET views = views + 1, updated_at = @now
			WHERE id = @id
			RETURNING `+postColumns,
			pgx.NamedArgs{"id": id, "now": time.Now().UTC()})
	} else {
		row = s.pool.QueryRow(ctx,
			"SELECT "+postColumns+" FROM posts WHERE id = @id",
			pgx.NamedArgs{"id": id})
	}

	p, err := scanPostRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, id int64, upd PostUpdate) (Post, error) {
	if err := ValidateUpdate(upd); err != nil {
		return Post{}, err
	}

	sets := []string{"updated_at = @updated_at"}
	args := pgx.NamedArgs{
		"id":         id,
		"updated_at": time.Now().UTC(),
	}
	if upd.Title != nil {
		sets = append(sets, "title = @title")
		args["title"] = *upd.Title
	}
	if upd.Author != nil {
		sets = append(sets, "author = @author")
		args["author"] = *upd.Author
	}
	if upd.Content != nil {
		sets = append(sets, "content = @content")
		args["content"] = *upd.Content
	}

	row := s.pool.QueryRow(ctx, fmt.Sprintf(
		"UPDATE posts SET %s WHERE id = @id RETURNING %s",
		strings.Join(sets, ", "), postColumns,
	), args)

	p, err := scanPostRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrPostNotFound
	}
	if err != nil {
		return Post{}, fmt.Errorf("failed to update post: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM posts WHERE id = @id", pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, q ListQuery) ([]Post, int, error) {
	page, size := q.Normalized()
	where := ""
	args := pgx.NamedArgs{
		"limit":  size,
		"offset": (page - 1) * size,
	}
	term := strings.TrimSpace(q.Query)
	if term != "" {
		where = `WHERE title ILIKE @term ESCAPE '\' OR author ILIKE @term ESCAPE '\' OR content ILIKE @term ESCAPE '\'`
		args["term"] = "%" + EscapeLike(term) + "%"
	}

	var total int
	countArgs := pgx.NamedArgs{}
	if term != "" {
		countArgs["term"] = args["term"]
	}
	if err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM posts "+where, countArgs,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}
	// q.SortBy is a whitelisted column name, never raw user input.
	rows, err := s.pool.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM posts %s ORDER BY %s %s, id ASC LIMIT @limit OFFSET @offset`,
		postColumns, where, string(q.SortBy), dir,
	), args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts, err := collectPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostgresStore) All(ctx context.Context) ([]Post, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+postColumns+" FROM posts ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM posts").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) AddViews(ctx context.Context, counts map[int64]int64) error {
	now := time.Now().UTC()
	for id, n := range counts {
		if n <= 0 {
			continue
		}
		if _, err := s.pool.Exec(ctx, `
			UPDATE posts SET views = views + @n, updated_at = @now WHERE id = @id`,
			pgx.NamedArgs{"id": id, "n": n, "now": now},
		); err != nil {
			return fmt.Errorf("failed to fold view counts: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// insertSeed writes a fully formed post, preserving its id. Seeder only.
func (s *PostgresStore) insertSeed(ctx context.Context, p Post) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO posts (id, title, author, content, created_at, updated_at, views)
		VALUES (@id, @title, @author, @content, @created_at, @updated_at, @views)`,
		pgx.NamedArgs{
			"id":         p.ID,
			"title":      p.Title,
			"author":     p.Author,
			"content":    p.Content,
			"created_at": p.CreatedAt,
			"updated_at": p.UpdatedAt,
			"views":      p.Views,
		})
	if err != nil {
		return fmt.Errorf("failed to seed post: %w", err)
	}
	return nil
}

// syncIDSequence realigns the identity sequence after seeding explicit ids.
func (s *PostgresStore) syncIDSequence(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`SELECT setval(pg_get_serial_sequence('posts', 'id'), (SELECT COALESCE(MAX(id), 1) FROM posts))`)
	if err != nil {
		return fmt.Errorf("failed to sync id sequence: %w", err)
	}
	return nil
}

func scanPostRow(row pgx.Row) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Content,
		&p.CreatedAt, &p.UpdatedAt, &p.Views)
	if err != nil {
		return Post{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	posts := []Post{}
	for rows.Next() {
		p, err := scanPostRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return posts, nil
}
