package repositories

import (
	"context"
	"fmt"
	"sync"

	"blog/internal/models"

	"github.com/google/uuid"
)

// MockPhotoRepository is an in-memory implementation of PhotoRepository.
type MockPhotoRepository struct {
	photos map[string]models.PostPhoto
	mu     sync.RWMutex
}

// NewMockPhotoRepository creates a new instance of MockPhotoRepository.
func NewMockPhotoRepository() *MockPhotoRepository {
	return &MockPhotoRepository{
		photos: make(map[string]models.PostPhoto),
	}
}

// CreateSet adds the photos.
func (r *MockPhotoRepository) CreateSet(_ context.Context, photos []*models.PostPhoto) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range photos {
		if !p.Size.Valid() {
			return fmt.Errorf("photo of post %s has unknown size %q", p.PostID, p.Size)
		}
	}
	for _, p := range photos {
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		r.photos[p.ID] = *p
	}
	return nil
}

// GetByID returns a photo by its ID.
func (r *MockPhotoRepository) GetByID(_ context.Context, id string) (*models.PostPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	photo, ok := r.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %s: %w", id, models.ErrNotFound)
	}
	return &photo, nil
}

// Delete removes photos by ID.
func (r *MockPhotoRepository) Delete(_ context.Context, ids ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.photos, id)
	}
	return nil
}

// DeleteByPost removes all photos of a post.
func (r *MockPhotoRepository) DeleteByPost(_ context.Context, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.photos {
		if p.PostID == postID {
			delete(r.photos, id)
		}
	}
	return nil
}

// ListByPost returns the photos of a post.
func (r *MockPhotoRepository) ListByPost(_ context.Context, postID string) ([]models.PostPhoto, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var photos []models.PostPhoto
	for _, p := range r.photos {
		if p.PostID == postID {
			photos = append(photos, p)
		}
	}
	return photos, nil
}
