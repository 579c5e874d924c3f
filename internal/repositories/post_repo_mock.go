package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"blog/internal/models"

	"github.com/google/uuid"
)

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts map[string]models.Post
	seq   map[string]int
	next  int
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
		seq:   make(map[string]int),
	}
}

// Create adds a new post.
func (r *MockPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Created.IsZero() {
		post.Created = time.Now()
	}
	if post.Likes == nil {
		post.Likes = models.LikeSet{}
	}
	post.Version = 1
	r.posts[post.ID] = clonePost(*post)
	r.next++
	r.seq[post.ID] = r.next
	return nil
}

// GetByID returns a post by its ID.
func (r *MockPostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, models.ErrNotFound)
	}
	post = clonePost(post)
	return &post, nil
}

// Update stores the post if its version matches the stored one.
func (r *MockPostRepository) Update(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.posts[post.ID]
	if !ok {
		return fmt.Errorf("post %s: %w", post.ID, models.ErrNotFound)
	}
	if existing.Version != post.Version {
		return fmt.Errorf("post %s version %d: %w", post.ID, post.Version, models.ErrStaleWrite)
	}

	updated := clonePost(*post)
	updated.AuthorID = existing.AuthorID
	updated.Created = existing.Created
	updated.Version = existing.Version + 1
	r.posts[post.ID] = updated
	post.Version = updated.Version
	return nil
}

// Delete removes a post by its ID.
func (r *MockPostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	delete(r.seq, id)
	return nil
}

// ListRecent returns the newest posts.
func (r *MockPostRepository) ListRecent(_ context.Context, limit int) ([]models.Post, error) {
	return r.list(func(models.Post) bool { return true }, limit), nil
}

// ListByAuthor returns the author's posts, newest first.
func (r *MockPostRepository) ListByAuthor(_ context.Context, authorID string, limit int) ([]models.Post, error) {
	return r.list(func(p models.Post) bool { return p.AuthorID == authorID }, limit), nil
}

func (r *MockPostRepository) list(keep func(models.Post) bool, limit int) []models.Post {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if keep(p) {
			posts = append(posts, clonePost(p))
		}
	}
	// Newest first, insertion order breaks ties.
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Created.Equal(posts[j].Created) {
			return posts[i].Created.After(posts[j].Created)
		}
		return r.seq[posts[i].ID] > r.seq[posts[j].ID]
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

func clonePost(p models.Post) models.Post {
	p.Likes = p.Likes.Clone()
	if p.Author != nil {
		author := cloneUser(*p.Author)
		p.Author = &author
	}
	return p
}
