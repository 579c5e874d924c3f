package handlers

import (
	"blog/internal/middleware"
	"blog/internal/models"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for profiles and authors.
type UserHandler struct {
	users    *services.UserService
	posts    *services.PostService
	session  *middleware.Session
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService, posts *services.PostService, session *middleware.Session) *UserHandler {
	return &UserHandler{
		users:    users,
		posts:    posts,
		session:  session,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	g := h.session.Gate()
	router.Get("/user", h.session.Guard(g.UserLoggedIn), h.HandleGetCurrentUser)
	router.Post("/user", h.session.Guard(g.UserLoggedIn), h.HandleChangeSettings)
	router.Get("/authors", h.HandleListAuthors)
	router.Get("/author/:user_id", h.session.Guard(g.UserExists), h.HandleGetAuthor)
	router.Get("/userimg/:user_id", h.session.Guard(g.UserExists), h.HandleGetAvatar)
}

// HandleGetCurrentUser returns the logged in user.
func (h *UserHandler) HandleGetCurrentUser(c *fiber.Ctx) error {
	gc := middleware.GateContext(c)
	return c.JSON(fiber.Map{
		"user":          gc.User,
		"formatted_bio": gc.User.FormattedBio(),
		"has_avatar":    gc.User.HasAvatar(),
	})
}

// SettingsRequest represents the profile settings form. Empty fields are
// left unchanged.
type SettingsRequest struct {
	FirstName string `json:"first_name" form:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" form:"last_name" validate:"max=100"`
	Password  string `json:"password" form:"password" validate:"omitempty,password"`
	Verify    string `json:"verify" form:"verify" validate:"eqfield=Password"`
	Email     string `json:"email" form:"email" validate:"omitempty,blogemail"`
	Bio       string `json:"bio" form:"bio"`
}

func (r SettingsRequest) settings() models.UserSettings {
	var s models.UserSettings
	set := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	s.FirstName = set(r.FirstName)
	s.LastName = set(r.LastName)
	s.Password = set(r.Password)
	s.Email = set(r.Email)
	s.Bio = set(r.Bio)
	return s
}

// HandleChangeSettings applies a partial profile update.
func (h *UserHandler) HandleChangeSettings(c *fiber.Ctx) error {
	var req SettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validateForm(h.validate, req); err != nil {
		return err
	}

	settings := req.settings()
	avatar, err := readUpload(c, "img")
	if err != nil {
		return err
	}
	settings.Avatar = avatar

	gc := middleware.GateContext(c)
	user, err := h.users.ChangeSettings(c.UserContext(), gc.User.ID, settings)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Settings saved",
		"user":    user,
	})
}

// HandleListAuthors lists every user ordered by name.
func (h *UserHandler) HandleListAuthors(c *fiber.Ctx) error {
	authors, err := h.users.ListAuthors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(authors)
}

// HandleGetAuthor returns an author with their posts.
func (h *UserHandler) HandleGetAuthor(c *fiber.Ctx) error {
	author := middleware.GateContext(c).Author
	posts, err := h.posts.ListByAuthor(c.UserContext(), author.ID, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"author":        author,
		"formatted_bio": author.FormattedBio(),
		"posts":         posts,
	})
}

// HandleGetAvatar serves the author's avatar image.
func (h *UserHandler) HandleGetAvatar(c *fiber.Ctx) error {
	author := middleware.GateContext(c).Author
	if !author.HasAvatar() {
		return models.ErrNotFound
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(author.AvatarImage)
}
