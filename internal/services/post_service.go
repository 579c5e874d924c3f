package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blog/internal/imaging"
	"blog/internal/models"
	"blog/internal/repositories"
)

// maxUpdateAttempts bounds the retries of a lost optimistic update.
const maxUpdateAttempts = 5

// PurgeQueue schedules a cascade delete that could not finish inline.
type PurgeQueue interface {
	PublishPostPurge(postID string) error
}

// PostService handles posts together with their likes, comments and header
// image renditions.
type PostService struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	photos   repositories.PhotoRepository
	users    repositories.UserRepository
	resizer  imaging.Resizer
	purges   PurgeQueue
}

// NewPostService creates a new PostService. purges may be nil, in which case
// a failed cascade is reported to the caller.
func NewPostService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	photos repositories.PhotoRepository,
	users repositories.UserRepository,
	resizer imaging.Resizer,
	purges PurgeQueue,
) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		photos:   photos,
		users:    users,
		resizer:  resizer,
		purges:   purges,
	}
}

// EditInput carries the optional parts of a post edit. Empty strings and a
// nil header leave the field alone.
type EditInput struct {
	Title   string
	Content string
	Header  []byte
}

// CreatePost stores a new post. A header upload is derived before anything
// is written so an undecodable image stores nothing.
func (s *PostService) CreatePost(ctx context.Context, author *models.User, title, content string, header []byte) (*models.Post, error) {
	var renditions map[models.PhotoSize][]byte
	if len(header) > 0 {
		var err error
		renditions, err = imaging.DeriveSet(s.resizer, header)
		if err != nil {
			return nil, err
		}
	}

	post := models.NewPost(title, content, author.ID)
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.Author = author

	if renditions != nil {
		if err := s.swapHeader(ctx, post.ID, renditions, nil); err != nil {
			if purgeErr := s.PurgePost(ctx, post.ID); purgeErr != nil {
				log.Printf("Failed to remove partially created post %s: %v", post.ID, purgeErr)
			}
			return nil, err
		}
		return s.GetPost(ctx, post.ID)
	}
	log.Printf("Created post %s by %s", post.ID, author.ID)
	return post, nil
}

// GetPost retrieves a post with its author.
func (s *PostService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthor(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ViewPost counts one page view and returns the updated post.
func (s *PostService) ViewPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.mutate(ctx, id, func(p *models.Post) bool {
		p.IncrementViews()
		return true
	})
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthor(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// EditPost applies every present field of in. A new header replaces all four
// renditions in the same write as the text, and is derived before anything
// is stored so an undecodable image leaves the post untouched. Nothing is
// written when nothing changes.
func (s *PostService) EditPost(ctx context.Context, id string, in EditInput) (*models.Post, error) {
	edit := func(p *models.Post) bool {
		return p.Edit(in.Title, in.Content)
	}

	if len(in.Header) > 0 {
		renditions, err := imaging.DeriveSet(s.resizer, in.Header)
		if err != nil {
			return nil, err
		}
		if err := s.swapHeader(ctx, id, renditions, edit); err != nil {
			return nil, err
		}
		return s.GetPost(ctx, id)
	}

	post, err := s.mutate(ctx, id, edit)
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthor(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ReplacePostImages derives a new rendition set from src and swaps it in.
// The previous set is deleted only after the post points at the new one.
func (s *PostService) ReplacePostImages(ctx context.Context, id string, src []byte) (*models.Post, error) {
	renditions, err := imaging.DeriveSet(s.resizer, src)
	if err != nil {
		return nil, err
	}
	if err := s.swapHeader(ctx, id, renditions, nil); err != nil {
		return nil, err
	}
	return s.GetPost(ctx, id)
}

// swapHeader stores renditions as a new set and points the post at it in one
// optimistic update, applying edit in that same update when given. The old
// set is deleted afterwards; on a failed update the new set is deleted.
func (s *PostService) swapHeader(ctx context.Context, postID string, renditions map[models.PhotoSize][]byte, edit func(*models.Post) bool) error {
	set := make([]*models.PostPhoto, 0, len(models.PhotoSizes))
	ids := make(map[models.PhotoSize]string, len(models.PhotoSizes))
	for _, size := range models.PhotoSizes {
		set = append(set, &models.PostPhoto{PostID: postID, Size: size, Image: renditions[size]})
	}
	if err := s.photos.CreateSet(ctx, set); err != nil {
		return fmt.Errorf("failed to store header images: %w", err)
	}
	newIDs := make([]string, 0, len(set))
	for _, photo := range set {
		ids[photo.Size] = photo.ID
		newIDs = append(newIDs, photo.ID)
	}

	var old []string
	_, err := s.mutate(ctx, postID, func(p *models.Post) bool {
		if edit != nil {
			edit(p)
		}
		old = p.HeaderImageIDs()
		p.SetHeaderImages(ids)
		return true
	})
	if err != nil {
		if delErr := s.photos.Delete(ctx, newIDs...); delErr != nil {
			log.Printf("Failed to remove unused header images of post %s: %v", postID, delErr)
		}
		return err
	}

	if len(old) > 0 {
		if err := s.photos.Delete(ctx, old...); err != nil {
			log.Printf("Failed to remove old header images of post %s: %v", postID, err)
		}
	}
	return nil
}

// Like adds userID to the post's likes. Repeated likes and likes by the
// author change nothing.
func (s *PostService) Like(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.mutate(ctx, postID, func(p *models.Post) bool {
		return p.Like(userID)
	})
}

// Unlike removes userID from the post's likes.
func (s *PostService) Unlike(ctx context.Context, postID, userID string) (*models.Post, error) {
	return s.mutate(ctx, postID, func(p *models.Post) bool {
		return p.Unlike(userID)
	})
}

// AddComment stores a comment and bumps the post's comment counter.
func (s *PostService) AddComment(ctx context.Context, postID string, author *models.User, content string) (*models.Comment, error) {
	comment := &models.Comment{PostID: postID, AuthorID: author.ID, Content: content}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	_, err := s.mutate(ctx, postID, func(p *models.Post) bool {
		p.CommentNum++
		return true
	})
	if err != nil {
		// The post vanished or stayed contended, drop the orphan.
		if _, delErr := s.comments.Delete(ctx, comment.ID); delErr != nil {
			log.Printf("Failed to remove comment %s: %v", comment.ID, delErr)
		}
		return nil, err
	}
	comment.Author = author
	return comment, nil
}

// DeleteComment removes a comment of the given post and decrements its
// counter. A comment that is already gone is not an error.
func (s *PostService) DeleteComment(ctx context.Context, postID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return fmt.Errorf("comment %s on post %s: %w", commentID, postID, models.ErrNotFound)
	}

	deleted, err := s.comments.Delete(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if !deleted {
		return nil
	}

	_, err = s.mutate(ctx, postID, func(p *models.Post) bool {
		if p.CommentNum == 0 {
			return false
		}
		p.CommentNum--
		return true
	})
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	return err
}

// GetComment retrieves a comment with its author.
func (s *PostService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Author == nil {
		author, err := s.users.GetByID(ctx, comment.AuthorID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		comment.Author = author
	}
	return comment, nil
}

// ListComments returns the comments of a post, oldest first.
func (s *PostService) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].Author != nil {
			continue
		}
		author, err := s.users.GetByID(ctx, comments[i].AuthorID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		comments[i].Author = author
	}
	return comments, nil
}

// DeletePost removes a post with all its comments and header images. When
// the cascade fails part way it is handed to the purge queue, if one is
// configured, and the call succeeds.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	err := s.PurgePost(ctx, id)
	if err == nil {
		log.Printf("Deleted post %s", id)
		return nil
	}
	if s.purges == nil {
		return err
	}
	if pubErr := s.purges.PublishPostPurge(id); pubErr != nil {
		log.Printf("Failed to queue purge of post %s: %v", id, pubErr)
		return err
	}
	log.Printf("Queued purge of post %s after: %v", id, err)
	return nil
}

// PurgePost runs the cascade: header images, then comments, then the post
// itself. Every step tolerates rows that are already gone, so a purge can be
// repeated until it completes.
func (s *PostService) PurgePost(ctx context.Context, id string) error {
	if err := s.photos.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete images of post %s: %w", id, err)
	}
	if _, err := s.comments.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comments of post %s: %w", id, err)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	return nil
}

// GetPhoto retrieves one header rendition.
func (s *PostService) GetPhoto(ctx context.Context, id string) (*models.PostPhoto, error) {
	return s.photos.GetByID(ctx, id)
}

// ListRecent returns the newest posts across all authors.
func (s *PostService) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	posts, err := s.posts.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.attachAuthors(ctx, posts)
}

// ListByAuthor returns an author's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID string, limit int) ([]models.Post, error) {
	posts, err := s.posts.ListByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}
	return s.attachAuthors(ctx, posts)
}

// mutate reloads the post, applies fn and writes it back, retrying when a
// concurrent writer got there first. fn reports whether it changed anything;
// unchanged posts are not written.
func (s *PostService) mutate(ctx context.Context, id string, fn func(*models.Post) bool) (*models.Post, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		post, err := s.posts.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !fn(post) {
			return post, nil
		}
		err = s.posts.Update(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, models.ErrStaleWrite) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("post %s still contended after %d attempts: %w", id, maxUpdateAttempts, lastErr)
}

func (s *PostService) attachAuthor(ctx context.Context, post *models.Post) error {
	if post.Author != nil {
		return nil
	}
	author, err := s.users.GetByID(ctx, post.AuthorID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	post.Author = author
	return nil
}

func (s *PostService) attachAuthors(ctx context.Context, posts []models.Post) ([]models.Post, error) {
	for i := range posts {
		if err := s.attachAuthor(ctx, &posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}
