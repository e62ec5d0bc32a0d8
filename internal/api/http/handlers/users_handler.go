package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/api/dto"
	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/service"
	"github.com/spec-kit/wallet-service/pkg/util"
)

// UsersHandler exposes account listing and deletion.
type UsersHandler struct {
	users  *service.UserService
	policy *auth.Policy
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService, policy *auth.Policy) *UsersHandler {
	return &UsersHandler{users: users, policy: policy}
}

// GetUsers handles GET /api/users. Admin only.
func (h *UsersHandler) GetUsers(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	return dataJSON(c, decision, toUserResponses(users))
}

// GetUser handles GET /api/users/:username. Admins can read anyone;
// a regular session only itself.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	username := c.Params("username")

	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		decision = authorize(c, h.policy, auth.AsUser(username))
		if !decision.Granted {
			return unauthorized(c, decision.Reason)
		}
	}

	user, err := h.users.GetByUsername(c.Context(), username)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.UserResponse{
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
}

// DeleteUser handles DELETE /api/users. Admin only; cascades onto the
// user's transactions and group membership.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.DeleteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Email == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	email := strings.TrimSpace(*req.Email)
	if email == "" {
		return badRequest(c, "req.body.email is an empty string")
	}
	if !util.ValidateEmail(email) {
		return badRequest(c, "format email incorrect")
	}

	result, err := h.users.Delete(c.Context(), email)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.DeleteUserResponse{
		DeletedTransactions: result.DeletedTransactions,
		DeletedFromGroup:    result.DeletedFromGroup,
	})
}

func toUserResponses(users []*domain.User) []dto.UserResponse {
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.UserResponse{
			Username: u.Username,
			Email:    u.Email,
			Role:     string(u.Role),
		})
	}
	return out
}
