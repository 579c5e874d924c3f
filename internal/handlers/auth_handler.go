package handlers

import (
	"log"

	"blog/internal/middleware"
	"blog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for signup, login and logout.
type AuthHandler struct {
	users    *services.UserService
	session  *middleware.Session
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *services.UserService, session *middleware.Session) *AuthHandler {
	return &AuthHandler{
		users:    users,
		session:  session,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	g := h.session.Gate()
	router.Post("/signup", h.session.Guard(g.UserLoggedOut), h.HandleSignup)
	router.Post("/login", h.session.Guard(g.UserLoggedOut), h.HandleLogin)
	router.Post("/logout", h.session.Guard(g.UserLoggedIn), h.HandleLogout)
}

// SignupRequest represents the signup form.
type SignupRequest struct {
	Username  string `json:"username" form:"username" validate:"required,username"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Password  string `json:"password" form:"password" validate:"required,password"`
	Verify    string `json:"verify" form:"verify" validate:"eqfield=Password"`
	Email     string `json:"email" form:"email" validate:"omitempty,blogemail"`
}

// HandleSignup registers a new user and logs them in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing signup request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validateForm(h.validate, req); err != nil {
		return err
	}

	avatar, err := readUpload(c, "img")
	if err != nil {
		return err
	}

	user, err := h.users.Register(c.UserContext(), services.RegisterInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Email:     req.Email,
		Avatar:    avatar,
	})
	if err != nil {
		return err
	}
	if err := h.session.Login(c, user.ID); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the login form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// HandleLogin checks credentials and sets the session cookie. Failures never
// say which part was wrong.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validateForm(h.validate, req); err != nil {
		return err
	}

	user, err := h.users.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	if err := h.session.Login(c, user.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user,
	})
}

// HandleLogout clears the session cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.session.Logout(c)
	return c.JSON(fiber.Map{
		"message": "Logged out",
	})
}
