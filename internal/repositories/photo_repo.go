package repositories

import (
	"context"

	"blog/internal/models"
)

// PhotoRepository defines the interface for header image rendition access.
type PhotoRepository interface {
	// CreateSet stores every photo of one rendition set. A photo with an
	// unknown size rejects the whole set.
	CreateSet(ctx context.Context, photos []*models.PostPhoto) error
	GetByID(ctx context.Context, id string) (*models.PostPhoto, error)
	// Delete removes photos by id. Missing ids are ignored.
	Delete(ctx context.Context, ids ...string) error
	// DeleteByPost removes every photo owned by a post.
	DeleteByPost(ctx context.Context, postID string) error
	ListByPost(ctx context.Context, postID string) ([]models.PostPhoto, error)
}
