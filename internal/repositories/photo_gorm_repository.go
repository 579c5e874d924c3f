package repositories

import (
	"context"
	"fmt"

	"blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPhotoRepository is a GORM implementation of PhotoRepository.
type GORMPhotoRepository struct {
	db *gorm.DB
}

// NewGORMPhotoRepository creates a new instance of GORMPhotoRepository.
func NewGORMPhotoRepository(db *gorm.DB) *GORMPhotoRepository {
	return &GORMPhotoRepository{
		db: db,
	}
}

// CreateSet inserts the photos in one transaction.
func (r *GORMPhotoRepository) CreateSet(ctx context.Context, photos []*models.PostPhoto) error {
	if len(photos) == 0 {
		return nil
	}
	for _, p := range photos {
		if !p.Size.Valid() {
			return fmt.Errorf("photo of post %s has unknown size %q", p.PostID, p.Size)
		}
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(photos).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create photos: %w", err)
	}
	return nil
}

// GetByID retrieves a photo by its ID.
func (r *GORMPhotoRepository) GetByID(ctx context.Context, id string) (*models.PostPhoto, error) {
	var photo models.PostPhoto
	if err := r.db.WithContext(ctx).First(&photo, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "photo", id)
	}
	return &photo, nil
}

// Delete deletes photos by ID.
func (r *GORMPhotoRepository) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Delete(&models.PostPhoto{}, "id IN ?", ids).Error; err != nil {
		return fmt.Errorf("failed to delete photos: %w", err)
	}
	return nil
}

// DeleteByPost deletes every photo of a post.
func (r *GORMPhotoRepository) DeleteByPost(ctx context.Context, postID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.PostPhoto{}, "post_id = ?", postID).Error; err != nil {
		return fmt.Errorf("failed to delete photos of post %s: %w", postID, err)
	}
	return nil
}

// ListByPost returns the photos owned by a post.
func (r *GORMPhotoRepository) ListByPost(ctx context.Context, postID string) ([]models.PostPhoto, error) {
	var photos []models.PostPhoto
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list photos of post %s: %w", postID, err)
	}
	return photos, nil
}
