package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory PostStore. It is the default backend and
// mirrors the sample mode of the board: data lives for the process
// lifetime only.
type MemoryStore struct {
	mu     sync.RWMutex
	posts  map[int64]*Post
	nextID int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:  make(map[int64]*Post),
		nextID: 1,
	}
}

func (m *MemoryStore) Create(ctx context.Context, in PostCreate) (Post, error) {
	if err := ValidateCreate(in); err != nil {
		return Post{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	p := &Post{
		ID:        m.nextID,
		Title:     in.Title,
		Author:    in.Author,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts[p.ID] = p
	m.nextID++
	return *p, nil
}

func (m *MemoryStore) Get(ctx context.Context, id int64, incView bool) (Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	if incView {
		p.Views++
		p.UpdatedAt = time.Now().UTC()
	}
	return *p, nil
}

func (m *MemoryStore) Update(ctx context.Context, id int64, upd PostUpdate) (Post, error) {
	if err := ValidateUpdate(upd); err != nil {
		return Post{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[id]
	if !ok {
		return Post{}, ErrPostNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Author != nil {
		p.Author = *upd.Author
	}
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	p.UpdatedAt = time.Now().UTC()
	return *p, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, q ListQuery) ([]Post, int, error) {
	m.mu.RLock()
	term := strings.ToLower(strings.TrimSpace(q.Query))
	matched := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		if MatchesQuery(*p, term) {
			matched = append(matched, *p)
		}
	}
	m.mu.RUnlock()

	sortPosts(matched, q.SortBy, q.SortDesc)

	page, size := q.Normalized()
	total := len(matched)
	start := (page - 1) * size
	if start >= total {
		return []Post{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *MemoryStore) All(ctx context.Context) ([]Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Post, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, *p)
	}
	sortPosts(out, SortByID, false)
	return out, nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.posts), nil
}

func (m *MemoryStore) AddViews(ctx context.Context, counts map[int64]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for id, n := range counts {
		if p, ok := m.posts[id]; ok && n > 0 {
			p.Views += n
			p.UpdatedAt = now
		}
	}
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// insert places a fully formed post, used by the seeder.
func (m *MemoryStore) insert(p Post) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := p
	m.posts[cp.ID] = &cp
	if cp.ID >= m.nextID {
		m.nextID = cp.ID + 1
	}
}

func sortPosts(posts []Post, field SortField, desc bool) {
	less := func(a, b Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch field {
	case SortByID:
		less = func(a, b Post) bool { return a.ID < b.ID }
	case SortByTitle:
		less = func(a, b Post) bool { return a.Title < b.Title }
	case SortByAuthor:
		less = func(a, b Post) bool { return a.Author < b.Author }
	case SortByCreatedAt:
		less = func(a, b Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortByUpdatedAt:
		less = func(a, b Post) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case SortByViews:
		less = func(a, b Post) bool { return a.Views < b.Views }
	}
	// Ties fall back to ascending id, matching the SQL backends.
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if desc {
			a, b = b, a
		}
		if less(a, b) {
			return true
		}
		if less(b, a) {
			return false
		}
		return posts[i].ID < posts[j].ID
	})
}
