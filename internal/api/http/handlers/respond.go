package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/wallet-service/internal/auth"
)

// Shared request-shape errors.
var (
	errInvalidPayload      = errors.New("invalid payload")
	errMissingAttributes   = errors.New("req.body does not contain all the necessary attributes")
	errEmptyCategoryFields = errors.New("req.body.type or req.body.color is an empty string")
)

// authorize runs the policy against the request's session cookies, using
// the response itself as the sink for a refreshed access token.
func authorize(c *fiber.Ctx, policy *auth.Policy, mode auth.AccessMode) auth.Decision {
	return policy.Authorize(
		c.Cookies(auth.AccessCookie),
		c.Cookies(auth.RefreshCookie),
		mode,
		auth.NewCookieSink(c),
	)
}

// dataJSON writes a success body, attaching the informational refresh
// message when the policy re-minted the access token mid-request.
func dataJSON(c *fiber.Ctx, decision auth.Decision, data any) error {
	body := fiber.Map{"data": data}
	if decision.Refreshed {
		body["refreshedTokenMessage"] = auth.RefreshedTokenMessage
	}
	return c.JSON(body)
}

// unauthorized maps a denied decision to 401 with the policy's reason.
func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": reason})
}

// badRequest reports a business validation failure.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": message})
}
