package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/api/dto"
	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/config"
	"github.com/spec-kit/wallet-service/internal/service"
	"github.com/spec-kit/wallet-service/pkg/util"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	auth *service.AuthService
	cfg  config.AuthConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: authService, cfg: cfg}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	return h.register(c, h.auth.Register, "User added successfully")
}

// RegisterAdmin handles POST /api/admin.
func (h *AuthHandler) RegisterAdmin(c *fiber.Ctx) error {
	return h.register(c, h.auth.RegisterAdmin, "Admin added successfully")
}

func (h *AuthHandler) register(c *fiber.Ctx, create func(ctx context.Context, username, email, password string) error, message string) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Username == nil || req.Email == nil || req.Password == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	username := strings.TrimSpace(*req.Username)
	email := strings.TrimSpace(*req.Email)
	password := strings.TrimSpace(*req.Password)
	if username == "" || email == "" || password == "" {
		return badRequest(c, "req.body.username or req.body.email or req.body.password is an empty string")
	}
	if !util.ValidateEmail(email) {
		return badRequest(c, "invalid email")
	}

	if err := create(c.Context(), username, email, password); err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": message}})
}

// Login handles POST /api/login: verify credentials, mint the token pair
// and set both session cookies.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Email == nil || req.Password == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	email := strings.TrimSpace(*req.Email)
	password := strings.TrimSpace(*req.Password)
	if email == "" || password == "" {
		return badRequest(c, "req.body.email or req.body.password is an empty string")
	}
	if !util.ValidateEmail(email) {
		return badRequest(c, "invalid email")
	}

	_, pair, err := h.auth.Login(c.Context(), email, password)
	if err != nil {
		return badRequest(c, err.Error())
	}

	sink := auth.NewCookieSink(c)
	auth.SetSession(sink, pair.AccessToken, pair.RefreshToken, h.cfg.AccessTokenTTL(), h.cfg.RefreshTokenTTL())

	return c.JSON(fiber.Map{"data": dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}})
}

// Logout handles GET /api/logout: revoke the stored refresh token and
// clear both cookies.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies(auth.RefreshCookie)
	if refreshToken == "" {
		return badRequest(c, "the request does not have a refresh token in the cookies")
	}

	if err := h.auth.Logout(c.Context(), refreshToken); err != nil {
		return badRequest(c, err.Error())
	}

	auth.ClearSession(auth.NewCookieSink(c))
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "User logged out"}})
}
