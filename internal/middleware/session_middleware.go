package middleware

import (
	"fmt"
	"time"

	"blog/internal/gate"
	"blog/internal/session"

	"github.com/gofiber/fiber/v2"
)

// LocalsGate is the fiber locals key holding the *gate.Context of a request.
const LocalsGate = "gate"

// Session runs gate chains against the session cookie and route params.
type Session struct {
	gate   *gate.Gate
	signer *session.Signer
	cookie string
	ttl    time.Duration
}

// NewSession creates a Session reading and writing the named cookie.
func NewSession(g *gate.Gate, signer *session.Signer, cookieName string, ttl time.Duration) *Session {
	return &Session{
		gate:   g,
		signer: signer,
		cookie: cookieName,
		ttl:    ttl,
	}
}

// Gate returns the underlying gate for building guard lists.
func (s *Session) Gate() *gate.Gate {
	return s.gate
}

// Guard returns a handler that resolves the session identity, runs guards in
// order and stores the resulting context before continuing. A failing guard
// ends the request with its error.
func (s *Session) Guard(guards ...gate.Guard) fiber.Handler {
	chain := s.gate.Chain(guards...)
	return func(c *fiber.Ctx) error {
		req := gate.Request{
			Token:     c.Cookies(s.cookie),
			PostID:    c.Params("post_id"),
			CommentID: c.Params("comment_id"),
			UserID:    c.Params("user_id"),
		}
		gc, err := chain.Run(c.UserContext(), req)
		if err != nil {
			return err
		}
		c.Locals(LocalsGate, gc)
		return c.Next()
	}
}

// Login issues a session cookie for userID.
func (s *Session) Login(c *fiber.Ctx, userID string) error {
	token, err := s.signer.Sign(userID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	cookie := &fiber.Cookie{
		Name:     s.cookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if s.ttl > 0 {
		cookie.Expires = time.Now().Add(s.ttl)
	}
	c.Cookie(cookie)
	return nil
}

// Logout expires the session cookie.
func (s *Session) Logout(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.cookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Expires:  time.Unix(0, 0),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GateContext returns the context stored by Guard. Routes without a guard
// see an anonymous context.
func GateContext(c *fiber.Ctx) *gate.Context {
	if gc, ok := c.Locals(LocalsGate).(*gate.Context); ok {
		return gc
	}
	return &gate.Context{}
}
