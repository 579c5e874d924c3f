package repositories

import (
	"context"

	"blog/internal/models"
)

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID returns the post with its author loaded.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// Update writes every mutable field if the stored version still equals
	// post.Version, then bumps the version. A lost race yields
	// models.ErrStaleWrite, a missing row models.ErrNotFound.
	Update(ctx context.Context, post *models.Post) error
	// Delete removes the post row. A missing row is not an error.
	Delete(ctx context.Context, id string) error
	// ListRecent returns posts newest first. A non-positive limit returns all.
	ListRecent(ctx context.Context, limit int) ([]models.Post, error)
	// ListByAuthor returns the author's posts newest first.
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error)
}
