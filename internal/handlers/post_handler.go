package handlers

import (
	"log"

	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts, likes and header images.
type PostHandler struct {
	posts       *services.PostService
	session     *middleware.Session
	validate    *validator.Validate
	recentLimit int
}

// NewPostHandler creates a new PostHandler. recentLimit bounds the front
// page listing.
func NewPostHandler(posts *services.PostService, session *middleware.Session, recentLimit int) *PostHandler {
	return &PostHandler{
		posts:       posts,
		session:     session,
		validate:    newValidator(),
		recentLimit: recentLimit,
	}
}

// RegisterRoutes registers the post routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	g := h.session.Gate()
	router.Get("/posts", h.HandleListRecent)
	router.Get("/postlist", h.session.Guard(g.UserLoggedIn), h.HandleListOwn)
	router.Post("/newpost", h.session.Guard(g.UserLoggedIn), h.HandleCreatePost)
	router.Get("/post/:post_id", h.session.Guard(g.PostExists), h.HandleViewPost)
	router.Post("/post/:post_id/like", h.session.Guard(g.PostExists, g.UserLoggedIn), h.HandleLike)
	router.Post("/post/:post_id/unlike", h.session.Guard(g.PostExists, g.UserLoggedIn), h.HandleUnlike)
	router.Post("/edit/:post_id", h.session.Guard(g.PostExists, g.UserLoggedIn, g.UserOwnsPost), h.HandleEditPost)
	router.Post("/delete/:post_id", h.session.Guard(g.PostExists, g.UserLoggedIn, g.UserOwnsPost), h.HandleDeletePost)
	router.Get("/postimg/:photo_id", h.HandleGetPhoto)
}

// HandleListRecent lists the newest posts.
func (h *PostHandler) HandleListRecent(c *fiber.Ctx) error {
	posts, err := h.posts.ListRecent(c.UserContext(), h.recentLimit)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleListOwn lists the logged in user's posts.
func (h *PostHandler) HandleListOwn(c *fiber.Ctx) error {
	user := middleware.GateContext(c).User
	posts, err := h.posts.ListByAuthor(c.UserContext(), user.ID, 0)
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// NewPostRequest represents the new post form.
type NewPostRequest struct {
	Title   string `json:"title" form:"title" validate:"required,max=300"`
	Content string `json:"content" form:"content" validate:"required"`
}

// HandleCreatePost creates a post with an optional header image.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req NewPostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing new post request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validateForm(h.validate, req); err != nil {
		return err
	}

	header, err := readUpload(c, "img")
	if err != nil {
		return err
	}

	user := middleware.GateContext(c).User
	post, err := h.posts.CreatePost(c.UserContext(), user, req.Title, req.Content, header)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// HandleViewPost counts a view and returns the post.
func (h *PostHandler) HandleViewPost(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	post, err := h.posts.ViewPost(c.UserContext(), gc.Post.ID)
	if err != nil {
		return err
	}
	return c.JSON(h.postView(gc.User, post))
}

// HandleLike adds the logged in user to the post's likes.
func (h *PostHandler) HandleLike(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	post, err := h.posts.Like(c.UserContext(), gc.Post.ID, gc.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(h.postView(gc.User, post))
}

// HandleUnlike removes the logged in user from the post's likes.
func (h *PostHandler) HandleUnlike(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	post, err := h.posts.Unlike(c.UserContext(), gc.Post.ID, gc.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(h.postView(gc.User, post))
}

// EditPostRequest represents the edit form. Empty fields are kept.
type EditPostRequest struct {
	Title   string `json:"title" form:"title" validate:"max=300"`
	Content string `json:"content" form:"content"`
}

// HandleEditPost edits the post owned by the logged in user.
func (h *PostHandler) HandleEditPost(c *fiber.Ctx) error {
	var req EditPostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validateForm(h.validate, req); err != nil {
		return err
	}

	header, err := readUpload(c, "img")
	if err != nil {
		return err
	}

	gc := middleware.GateContext(c)
	post, err := h.posts.EditPost(c.UserContext(), gc.Post.ID, services.EditInput{
		Title:   req.Title,
		Content: req.Content,
		Header:  header,
	})
	if err != nil {
		return err
	}
	return c.JSON(h.postView(gc.User, post))
}

// HandleDeletePost deletes the post with its comments and images.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	if err := h.posts.DeletePost(c.UserContext(), gc.Post.ID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Post deleted",
	})
}

// HandleGetPhoto serves one header image rendition.
func (h *PostHandler) HandleGetPhoto(c *fiber.Ctx) error {
	photo, err := h.posts.GetPhoto(c.UserContext(), c.Params("photo_id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(photo.Image)
}

func (h *PostHandler) postView(viewer *models.User, post *models.Post) fiber.Map {
	liked := false
	if viewer != nil {
		liked = post.UserLiked(viewer.ID)
	}
	return fiber.Map{
		"post":              post,
		"author_name":       post.AuthorName(),
		"formatted_content": post.FormattedContent(),
		"like_count":        post.LikeCount(),
		"liked":             liked,
	}
}
