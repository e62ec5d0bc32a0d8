package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/api/dto"
	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/service"
)

// TransactionsHandler exposes expense recording and querying.
type TransactionsHandler struct {
	transactions *service.TransactionService
	groups       *service.GroupService
	policy       *auth.Policy
}

// NewTransactionsHandler constructs handler.
func NewTransactionsHandler(transactions *service.TransactionService, groups *service.GroupService, policy *auth.Policy) *TransactionsHandler {
	return &TransactionsHandler{transactions: transactions, groups: groups, policy: policy}
}

// CreateTransaction handles POST /api/users/:username/transactions. The
// session must belong to the route's user, and the body username must
// match the route.
func (h *TransactionsHandler) CreateTransaction(c *fiber.Ctx) error {
	routeUser := c.Params("username")

	decision := authorize(c, h.policy, auth.AsUser(routeUser))
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Username == nil || req.Type == nil || req.Amount == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	username := strings.TrimSpace(*req.Username)
	categoryType := strings.TrimSpace(*req.Type)
	if username == "" || categoryType == "" {
		return badRequest(c, "req.body.username or req.body.amount or req.body.type is an empty string")
	}
	if username != routeUser {
		return badRequest(c, "route and body username mismatch")
	}

	amount, err := parseAmount(*req.Amount)
	if err != nil {
		return badRequest(c, "req.amount cannot be parsed as a floating value")
	}

	tx, err := h.transactions.Create(c.Context(), username, categoryType, amount)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, toTransactionResponse(tx, false))
}

// GetAllTransactions handles GET /api/transactions. Admin only.
func (h *TransactionsHandler) GetAllTransactions(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	transactions, err := h.transactions.ListAll(c.Context())
	if err != nil {
		return err
	}
	return dataJSON(c, decision, toTransactionResponses(transactions))
}

// GetUserTransactions handles GET /api/users/:username/transactions, the
// user-facing route with date/amount query filters.
func (h *TransactionsHandler) GetUserTransactions(c *fiber.Ctx) error {
	username := c.Params("username")

	decision := authorize(c, h.policy, auth.AsUser(username))
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	transactions, err := h.transactions.ListByUser(c.Context(), username, filter)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, toTransactionResponses(transactions))
}

// GetUserTransactionsAdmin handles GET /api/transactions/users/:username,
// the admin twin. No query filtering on this route.
func (h *TransactionsHandler) GetUserTransactionsAdmin(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	transactions, err := h.transactions.ListByUser(c.Context(), c.Params("username"), domain.TransactionFilter{})
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, toTransactionResponses(transactions))
}

// GetUserTransactionsByCategory handles
// GET /api/users/:username/transactions/category/:category.
func (h *TransactionsHandler) GetUserTransactionsByCategory(c *fiber.Ctx) error {
	username := c.Params("username")

	decision := authorize(c, h.policy, auth.AsUser(username))
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}
	return h.listUserByCategory(c, decision, username)
}

// GetUserTransactionsByCategoryAdmin handles
// GET /api/transactions/users/:username/category/:category.
func (h *TransactionsHandler) GetUserTransactionsByCategoryAdmin(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}
	return h.listUserByCategory(c, decision, c.Params("username"))
}

func (h *TransactionsHandler) listUserByCategory(c *fiber.Ctx, decision auth.Decision, username string) error {
	transactions, err := h.transactions.ListByUserAndCategory(c.Context(), username, c.Params("category"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, toTransactionResponses(transactions))
}

// GetGroupTransactions handles GET /api/groups/:name/transactions
// (membership required).
func (h *TransactionsHandler) GetGroupTransactions(c *fiber.Ctx) error {
	return h.listGroup(c, false, "")
}

// GetGroupTransactionsAdmin handles GET /api/transactions/groups/:name.
func (h *TransactionsHandler) GetGroupTransactionsAdmin(c *fiber.Ctx) error {
	return h.listGroup(c, true, "")
}

// GetGroupTransactionsByCategory handles
// GET /api/groups/:name/transactions/category/:category.
func (h *TransactionsHandler) GetGroupTransactionsByCategory(c *fiber.Ctx) error {
	return h.listGroup(c, false, c.Params("category"))
}

// GetGroupTransactionsByCategoryAdmin handles
// GET /api/transactions/groups/:name/category/:category.
func (h *TransactionsHandler) GetGroupTransactionsByCategoryAdmin(c *fiber.Ctx) error {
	return h.listGroup(c, true, c.Params("category"))
}

func (h *TransactionsHandler) listGroup(c *fiber.Ctx, adminRoute bool, categoryType string) error {
	name := c.Params("name")

	// Admin routes check credentials before touching the group; the group
	// must not be revealed as existing to unauthorized callers. Member
	// routes need the group's emails to evaluate membership, so they look
	// the group up first.
	var decision auth.Decision
	if adminRoute {
		decision = authorize(c, h.policy, auth.AsAdmin())
		if !decision.Granted {
			return unauthorized(c, decision.Reason)
		}
	}

	group, err := h.groups.GetByName(c.Context(), name)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if !adminRoute {
		decision = authorize(c, h.policy, auth.InGroup(group.MemberEmails()))
		if !decision.Granted {
			return unauthorized(c, decision.Reason)
		}
	}

	var transactions []*domain.Transaction
	if categoryType == "" {
		transactions, err = h.transactions.ListByGroup(c.Context(), group)
	} else {
		transactions, err = h.transactions.ListByGroupAndCategory(c.Context(), group, categoryType)
	}
	if err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, toTransactionResponses(transactions))
}

// DeleteTransaction handles DELETE /api/users/:username/transactions.
func (h *TransactionsHandler) DeleteTransaction(c *fiber.Ctx) error {
	username := c.Params("username")

	decision := authorize(c, h.policy, auth.AsUser(username))
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.DeleteTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.ID == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}

	id := strings.TrimSpace(*req.ID)
	if id == "" {
		return badRequest(c, "req.body._id is an empty string")
	}

	if err := h.transactions.Delete(c.Context(), username, id); err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, fiber.Map{"message": "Transaction deleted"})
}

// DeleteTransactions handles DELETE /api/transactions. Admin only; every
// id must exist or nothing is deleted.
func (h *TransactionsHandler) DeleteTransactions(c *fiber.Ctx) error {
	decision := authorize(c, h.policy, auth.AsAdmin())
	if !decision.Granted {
		return unauthorized(c, decision.Reason)
	}

	var req dto.DeleteTransactionsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.IDs == nil {
		return badRequest(c, "req.body does not contain all the necessary attributes")
	}
	if len(*req.IDs) == 0 {
		return badRequest(c, "req.body._ids is an empty array")
	}

	ids := make([]string, 0, len(*req.IDs))
	seen := make(map[string]struct{})
	for _, id := range *req.IDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return badRequest(c, "one of the ids in the array is an empty string")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	if err := h.transactions.DeleteMany(c.Context(), ids); err != nil {
		return badRequest(c, err.Error())
	}
	return dataJSON(c, decision, fiber.Map{"message": "Transactions deleted"})
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(raw json.RawMessage) (float64, error) {
	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(asString), 64)
}

func toTransactionResponse(tx *domain.Transaction, withColor bool) dto.TransactionResponse {
	out := dto.TransactionResponse{
		Username: tx.Username,
		Type:     tx.Type,
		Amount:   tx.Amount,
		Date:     tx.Date,
	}
	if withColor {
		out.Color = tx.Color
	}
	return out
}

func toTransactionResponses(transactions []*domain.Transaction) []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, toTransactionResponse(tx, true))
	}
	return out
}
