package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/api/dto"
	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/service"
)

// CategoriesHandler exposes spending-category management.
type CategoriesHandler struct {
	categories *service.CategoryService
	policy     *auth.Policy
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categories *service.CategoryService, policy *auth.Policy) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, policy: policy}
}

// CreateCategory handles POST /api/categories. Admin only.
func (h *CategoriesHandler) CreateCategory(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	categoryType, color, err := parseCategoryBody(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	category, err := h.categories.Create(c.Context(), categoryType, color)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.CategoryResponse{Type: category.Type, Color: category.Color})
}

// UpdateCategory handles PATCH /api/categories/:type. Admin only; a type
// rename cascades onto transactions.
func (h *CategoriesHandler) UpdateCategory(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	categoryType, color, err := parseCategoryBody(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	count, err := h.categories.Update(c.Context(), c.Params("type"), categoryType, color)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.CategoryChangeResponse{Message: "Category edited successfully", Count: count})
}

// DeleteCategories handles DELETE /api/categories. Admin only.
func (h *CategoriesHandler) DeleteCategories(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.DeleteCategoriesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Types == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}
	if len(*req.Types) == 0 {
		return badRequest(c, "req.body.types is an empty array")
	}

	types := make([]string, 0, len(*req.Types))
	seen := make(map[string]struct{})
	for _, t := range *req.Types {
		t = strings.TrimSpace(t)
		if t == "" {
			return badRequest(c, "one of the types in the array is an empty string")
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}

	count, err := h.categories.Delete(c.Context(), types)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, dto.CategoryChangeResponse{Message: "Categories deleted", Count: count})
}

// GetCategories handles GET /api/categories. Any authenticated session.
func (h *CategoriesHandler) GetCategories(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.Simple())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	categories, err := h.categories.List(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, dto.CategoryResponse{Type: category.Type, Color: category.Color})
	}
	return dataJSON(c, decision, out)
}

func parseCategoryBody(c *fiber.Ctx) (string, string, error) {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return "", "", errInvalidPayload
	}
	if req.Type == nil || req.Color == nil {
		return "", "", errMissingAttributes
	}

	categoryType := strings.TrimSpace(*req.Type)
	color := strings.TrimSpace(*req.Color)
	if categoryType == "" || color == "" {
		return "", "", errEmptyCategoryFields
	}
	return categoryType, color, nil
}
