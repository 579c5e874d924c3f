package repositories

import (
	"context"

	"blog/internal/models"
)

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// GetByID returns the comment with its author loaded.
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	// Delete removes a comment and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
	// ListByPost returns the comments of a post, oldest first.
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	// DeleteByPost removes every comment of a post and returns how many went.
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}
