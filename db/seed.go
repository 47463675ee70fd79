package db

import (
	"context"
	"fmt"
	"time"
)

// seedCount matches the sample dataset the HTML frontend expects.
const seedCount = 35

type seedInserter interface {
	insertSeed(ctx context.Context, p Post) error
}

// Seed fills an empty store with the sample posts. A store that already
// holds posts is left untouched.
func Seed(ctx context.Context, store PostStore) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check store before seeding: %w", err)
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := 1; i <= seedCount; i++ {
		author := "홍길동"
		if i%3 == 0 {
			author = "관리자"
		}
		p := Post{
			ID:        int64(i),
			Title:     fmt.Sprintf("샘플 게시글 %d", i),
			Author:    author,
			Content:   fmt.Sprintf("샘플 본문입니다. (글 번호: %d)\n\nGo + AG Grid + Tailwind 예시.", i),
			CreatedAt: now,
			UpdatedAt: now,
			Views:     int64((i * 7) % 123),
		}
		if err := insertSeedPost(ctx, store, p); err != nil {
			return err
		}
	}

	if pg, ok := store.(*PostgresStore); ok {
		if err := pg.syncIDSequence(ctx); err != nil {
			return err
		}
	}
	return nil
}

func insertSeedPost(ctx context.Context, store PostStore, p Post) error {
	switch s := store.(type) {
	case *MemoryStore:
		s.insert(p)
		return nil
	case seedInserter:
		return s.insertSeed(ctx, p)
	default:
		_, err := store.Create(ctx, PostCreate{
			Title:   p.Title,
			Author:  p.Author,
			Content: p.Content,
		})
		return err
	}
}
