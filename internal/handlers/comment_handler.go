package handlers

import (
	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests for comments on posts.
type CommentHandler struct {
	posts    *services.PostService
	session  *middleware.Session
	validate *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(posts *services.PostService, session *middleware.Session) *CommentHandler {
	return &CommentHandler{
		posts:    posts,
		session:  session,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router) {
	g := h.session.Gate()
	comments := router.Group("/post/:post_id")
	comments.Post("/comment", h.session.Guard(g.PostExists, g.UserLoggedIn), h.HandleAddComment)
	comments.Get("/comments", h.session.Guard(g.PostExists), h.HandleListComments)
	comments.Post("/comment/:comment_id/delete",
		h.session.Guard(g.PostExists, g.CommentExists, g.UserLoggedIn, g.UserOwnsComment),
		h.HandleDeleteComment)
}

// CommentRequest represents the comment form.
type CommentRequest struct {
	Content string `json:"content" form:"content" validate:"required"`
}

// HandleAddComment adds a comment by the logged in user.
func (h *CommentHandler) HandleAddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validateForm(h.validate, req); err != nil {
		return err
	}

	gc := middleware.GateContext(c)
	comment, err := h.posts.AddComment(c.UserContext(), gc.Post.ID, gc.User, req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment":           comment,
		"author_name":       comment.AuthorName(),
		"formatted_content": comment.FormattedContent(),
	})
}

// HandleListComments lists a post's comments, oldest first.
func (h *CommentHandler) HandleListComments(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	comments, err := h.posts.ListComments(c.UserContext(), gc.Post.ID)
	if err != nil {
		return err
	}
	return c.JSON(comments)
}

// HandleDeleteComment deletes a comment owned by the logged in user.
func (h *CommentHandler) HandleDeleteComment(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	if err := h.posts.DeleteComment(c.UserContext(), gc.Post.ID, gc.Comment.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Comment deleted",
	})
}
