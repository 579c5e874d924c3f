// Package gate resolves the acting user of a request and enforces the
// existence and ownership preconditions declared for each operation.
package gate

import (
	"context"
	"errors"
	"fmt"

	"blog/internal/models"
)

// TokenVerifier returns the value a session token was signed over.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder looks users up by id.
type UserFinder interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// ContentFinder looks posts and comments up by id.
type ContentFinder interface {
	GetPost(ctx context.Context, id string) (*models.Post, error)
	GetComment(ctx context.Context, id string) (*models.Comment, error)
}

// Request holds the raw inputs a guard chain may consult.
type Request struct {
	Token     string
	PostID    string
	CommentID string
	UserID    string
}

// Context is what a passing chain hands to the operation. User is nil for
// anonymous requests. Each entity is set only by the guard that resolves it.
type Context struct {
	User    *models.User
	Post    *models.Post
	Comment *models.Comment
	Author  *models.User
}

// LoggedIn reports whether an identity was resolved.
func (c *Context) LoggedIn() bool {
	return c.User != nil
}

// Guard checks one precondition. It either enriches gc and returns nil or
// returns the error that ends the request.
type Guard func(ctx context.Context, req Request, gc *Context) error

// Gate builds guard chains over shared lookups.
type Gate struct {
	tokens   TokenVerifier
	users    UserFinder
	contents ContentFinder
}

// New creates a Gate.
func New(tokens TokenVerifier, users UserFinder, contents ContentFinder) *Gate {
	return &Gate{
		tokens:   tokens,
		users:    users,
		contents: contents,
	}
}

// Chain is an ordered list of guards run after identity resolution.
type Chain struct {
	gate   *Gate
	guards []Guard
}

// Chain composes guards in the given order.
func (g *Gate) Chain(guards ...Guard) *Chain {
	return &Chain{gate: g, guards: guards}
}

// Run resolves the identity and then runs each guard, stopping at the first
// failure.
func (c *Chain) Run(ctx context.Context, req Request) (*Context, error) {
	gc := &Context{}
	user, err := c.gate.Identify(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	gc.User = user

	for _, guard := range c.guards {
		if err := guard(ctx, req, gc); err != nil {
			return nil, err
		}
	}
	return gc, nil
}

// Identify returns the user a token was issued to. Missing, invalid and
// expired tokens, and tokens of users that no longer exist, are anonymous.
func (g *Gate) Identify(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := g.tokens.Verify(token)
	if err != nil {
		return nil, nil
	}
	user, err := g.users.GetUser(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	return user, nil
}

// UserLoggedIn requires a resolved identity.
func (g *Gate) UserLoggedIn(_ context.Context, _ Request, gc *Context) error {
	if !gc.LoggedIn() {
		return models.ErrUnauthenticated
	}
	return nil
}

// UserLoggedOut requires an anonymous request.
func (g *Gate) UserLoggedOut(_ context.Context, _ Request, gc *Context) error {
	if gc.LoggedIn() {
		return models.ErrAlreadyAuthenticated
	}
	return nil
}

// PostExists resolves req.PostID into gc.Post.
func (g *Gate) PostExists(ctx context.Context, req Request, gc *Context) error {
	if req.PostID == "" {
		return fmt.Errorf("post: %w", models.ErrNotFound)
	}
	post, err := g.contents.GetPost(ctx, req.PostID)
	if err != nil {
		return err
	}
	gc.Post = post
	return nil
}

// CommentExists resolves req.CommentID into gc.Comment. When a post was
// resolved earlier the comment must belong to it.
func (g *Gate) CommentExists(ctx context.Context, req Request, gc *Context) error {
	if req.CommentID == "" {
		return fmt.Errorf("comment: %w", models.ErrNotFound)
	}
	comment, err := g.contents.GetComment(ctx, req.CommentID)
	if err != nil {
		return err
	}
	if gc.Post != nil && comment.PostID != gc.Post.ID {
		return fmt.Errorf("comment %s on post %s: %w", comment.ID, gc.Post.ID, models.ErrNotFound)
	}
	gc.Comment = comment
	return nil
}

// UserExists resolves req.UserID into gc.Author.
func (g *Gate) UserExists(ctx context.Context, req Request, gc *Context) error {
	if req.UserID == "" {
		return fmt.Errorf("user: %w", models.ErrNotFound)
	}
	user, err := g.users.GetUser(ctx, req.UserID)
	if err != nil {
		return err
	}
	gc.Author = user
	return nil
}

// UserOwnsPost requires the resolved identity to be the post's author.
func (g *Gate) UserOwnsPost(_ context.Context, _ Request, gc *Context) error {
	if !gc.LoggedIn() {
		return models.ErrUnauthenticated
	}
	if gc.Post == nil {
		return fmt.Errorf("post: %w", models.ErrNotFound)
	}
	if !gc.Post.IsAuthoredBy(gc.User.ID) {
		return fmt.Errorf("post %s: %w", gc.Post.ID, models.ErrForbidden)
	}
	return nil
}

// UserOwnsComment requires the resolved identity to be the comment's author.
func (g *Gate) UserOwnsComment(_ context.Context, _ Request, gc *Context) error {
	if !gc.LoggedIn() {
		return models.ErrUnauthenticated
	}
	if gc.Comment == nil {
		return fmt.Errorf("comment: %w", models.ErrNotFound)
	}
	if !gc.Comment.IsAuthoredBy(gc.User.ID) {
		return fmt.Errorf("comment %s: %w", gc.Comment.ID, models.ErrForbidden)
	}
	return nil
}
