package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Cookie names and attributes shared by login, logout and the in-flight
// refresh performed by the policy.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
	CookiePath    = "/api"
)

// RefreshedTokenMessage is attached to success bodies when the policy
// re-minted the access token during the request.
const RefreshedTokenMessage = "Access token has been refreshed. Remember to copy the new one in the headers of subsequent calls"

// SessionSink is the capability the policy uses to hand a refreshed access
// token back to the transport layer. Handlers pass a CookieSink; tests pass
// a recording fake.
type SessionSink interface {
	SetCookie(name, value string, maxAge time.Duration)
}

// CookieSink writes session cookies onto a fiber response.
type CookieSink struct {
	ctx *fiber.Ctx
}

// NewCookieSink wraps the request context.
func NewCookieSink(c *fiber.Ctx) *CookieSink {
	return &CookieSink{ctx: c}
}

// SetCookie writes an http-only session cookie scoped to the API path.
// A non-positive maxAge clears the cookie.
func (s *CookieSink) SetCookie(name, value string, maxAge time.Duration) {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     CookiePath,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
		cookie.Expires = time.Now().Add(maxAge)
	} else {
		cookie.MaxAge = 0
		cookie.Expires = time.Unix(0, 0)
	}
	s.ctx.Cookie(cookie)
}

// SetSession writes both tokens of a fresh pair.
func SetSession(sink SessionSink, accessToken, refreshToken string, accessTTL, refreshTTL time.Duration) {
	sink.SetCookie(AccessCookie, accessToken, accessTTL)
	sink.SetCookie(RefreshCookie, refreshToken, refreshTTL)
}

// ClearSession expires both cookies, ending the client side of the session.
func ClearSession(sink SessionSink) {
	sink.SetCookie(AccessCookie, "", 0)
	sink.SetCookie(RefreshCookie, "", 0)
}
