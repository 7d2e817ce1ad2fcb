package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ruleforge/internal/engine"
	"ruleforge/internal/store"
)

type Handler struct {
	db     *store.Store
	secret string
}

func NewHandler(db *store.Store, secret string) *Handler {
	return &Handler{db: db, secret: secret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Login verifies credentials and returns a signed access token.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return engine.BadRequestError("Invalid login body")
	}
	if req.Email == "" || req.Password == "" {
		return engine.BadRequestError("Email and password are required")
	}

	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return engine.UnauthorizedError("Invalid credentials")
		}
		return err
	}
	if !CheckPassword(req.Password, user.PasswordHash) {
		return engine.UnauthorizedError("Invalid credentials")
	}

	token, err := GenerateAccessToken(user.ID, user.Roles, h.secret)
	if err != nil {
		return err
	}
	return c.JSON(loginResponse{AccessToken: token})
}

// RegisterRoutes mounts the auth endpoints; they sit outside the auth
// middleware.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Post("/api/auth/login", h.Login)
}
