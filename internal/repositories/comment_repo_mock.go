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

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	comments map[string]models.Comment
	seq      map[string]int
	next     int
	mu       sync.RWMutex
}

// NewMockCommentRepository creates a new instance of MockCommentRepository.
func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{
		comments: make(map[string]models.Comment),
		seq:      make(map[string]int),
	}
}

// Create adds a new comment.
func (r *MockCommentRepository) Create(_ context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	if comment.Created.IsZero() {
		comment.Created = time.Now()
	}
	c := *comment
	c.Author = nil
	r.comments[c.ID] = c
	r.next++
	r.seq[c.ID] = r.next
	return nil
}

// GetByID returns a comment by its ID.
func (r *MockCommentRepository) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, models.ErrNotFound)
	}
	return &comment, nil
}

// Delete removes a comment by its ID.
func (r *MockCommentRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[id]; !ok {
		return false, nil
	}
	delete(r.comments, id)
	delete(r.seq, id)
	return true, nil
}

// ListByPost returns a post's comments in creation order.
func (r *MockCommentRepository) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var comments []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		return r.seq[comments[i].ID] < r.seq[comments[j].ID]
	})
	return comments, nil
}

// DeleteByPost removes all comments of a post.
func (r *MockCommentRepository) DeleteByPost(_ context.Context, postID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, c := range r.comments {
		if c.PostID == postID {
			delete(r.comments, id)
			delete(r.seq, id)
			n++
		}
	}
	return n, nil
}
