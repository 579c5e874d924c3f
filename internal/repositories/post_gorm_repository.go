package repositories

import (
	"context"
	"fmt"

	"blog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database.
func (r *GORMPostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Likes == nil {
		post.Likes = models.LikeSet{}
	}
	post.Version = 1
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a single post by its ID from the database.
func (r *GORMPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "post", id)
	}
	return &post, nil
}

// Update performs a version checked update of the post.
func (r *GORMPostRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND version = ?", post.ID, post.Version).
		Updates(map[string]interface{}{
			"title":           post.Title,
			"content":         post.Content,
			"snippet":         post.Snippet,
			"views":           post.Views,
			"likes":           post.Likes,
			"comment_num":     post.CommentNum,
			"header_thumb_id": post.HeaderThumbID,
			"header_small_id": post.HeaderSmallID,
			"header_med_id":   post.HeaderMedID,
			"header_large_id": post.HeaderLargeID,
			"version":         post.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check post %s: %w", post.ID, err)
		}
		if count == 0 {
			return fmt.Errorf("post %s: %w", post.ID, models.ErrNotFound)
		}
		return fmt.Errorf("post %s version %d: %w", post.ID, post.Version, models.ErrStaleWrite)
	}
	post.Version++
	return nil
}

// Delete deletes a post by its ID from the database.
func (r *GORMPostRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

// ListRecent returns the newest posts.
func (r *GORMPostRepository) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).Preload("Author").Order("created DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// ListByAuthor returns the author's posts, newest first.
func (r *GORMPostRepository) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.WithContext(ctx).Preload("Author").Where("author_id = ?", authorID).Order("created DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts of %s: %w", authorID, err)
	}
	return posts, nil
}
