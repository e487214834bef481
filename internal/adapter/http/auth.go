package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"cv-builder/internal/domain"
	"cv-builder/internal/usecase"
)

const (
	localUser    = "user"
	localSession = "session"
)

// IssueToken signs a bearer token for a session. The token only carries
// the session id; the session record stays authoritative.
func (h *Handler) IssueToken(s domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": s.ID,
		"sub": s.Email,
		"iat": s.CreatedAt.Unix(),
		"exp": s.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.opts.JWTSecret)
}

func (h *Handler) sessionID(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return h.opts.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", fmt.Errorf("token has no session: %w", domain.ErrUnauthorized)
	}
	return sid, nil
}

// RequireAuth resolves the bearer token to a signed-in, non-banned user.
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return fmt.Errorf("missing bearer token: %w", domain.ErrUnauthorized)
	}
	sid, err := h.sessionID(strings.TrimSpace(parts[1]))
	if err != nil {
		return err
	}
	user, err := h.app.Authenticate(sid)
	if err != nil {
		return err
	}
	c.Locals(localUser, user)
	c.Locals(localSession, sid)
	return c.Next()
}

func (h *Handler) RequireAdmin(c *fiber.Ctx) error {
	if !currentUser(c).IsAdmin() {
		return domain.ErrForbidden
	}
	return c.Next()
}

func currentUser(c *fiber.Ctx) domain.User {
	u, _ := c.Locals(localUser).(domain.User)
	return u
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

// Login signs in, registering the account on first use.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	user, session, err := h.app.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	token, err := h.IssueToken(session)
	if err != nil {
		return err
	}
	return c.JSON(loginResp{Token: token, ExpiresAt: session.ExpiresAt, User: user})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	sid, _ := c.Locals(localSession).(string)
	if err := h.app.Logout(c.UserContext(), sid); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

func (h *Handler) UpdateProfile(c *fiber.Ctx) error {
	var req usecase.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	old := currentUser(c).Email
	user, err := h.app.UpdateProfile(c.UserContext(), old, req)
	if err != nil {
		return err
	}
	if user.Email != old {
		h.editors.CloseOwnedBy(old)
	}
	return c.JSON(user)
}

type passwordReq struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (h *Handler) ChangePassword(c *fiber.Ctx) error {
	var req passwordReq
	if err := c.BodyParser(&req); err != nil {
		return badPayload(c)
	}
	if err := h.app.ChangePassword(c.UserContext(), currentUser(c).Email, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAccount removes the signed-in user with all their CVs.
func (h *Handler) DeleteAccount(c *fiber.Ctx) error {
	email := currentUser(c).Email
	if err := h.app.DeleteUser(c.UserContext(), email); err != nil {
		return err
	}
	h.editors.CloseOwnedBy(email)
	return c.SendStatus(fiber.StatusNoContent)
}
