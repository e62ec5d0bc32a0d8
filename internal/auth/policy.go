package auth

import (
	"errors"
	"time"
)

// Denial and grant reasons surfaced to callers. Handlers map denied
// decisions to HTTP 401 with the reason as the error string.
const (
	reasonMissingTokens     = "Missing accessToken or refreshToken (or both)"
	reasonMissingInfo       = "Token is missing information"
	reasonMismatchedUsers   = "Mismatched users"
	reasonPerformLogin      = "Perform login again"
	reasonUnsupportedMode   = "unsupported authorization mode"
	reasonNotAdmin          = "One (or both) of tokens doesn't have Admin role"
	reasonNotRequestedUser  = "Mismatched accessTokenUser or refreshTokenUser and Username"
	reasonNotInGroup        = "You don't belong to the requested group"
	reasonRefreshNotAdmin   = "refreshToken role is not Admin"
	reasonRefreshWrongUser  = "Mismatched refreshTokenUser and Username"
	causeSimpleOK           = "Authorized (Simple authorization required)"
	causeUserOK             = "Authorized (Both tokens are Ok)"
	causeAdminOK            = "Authorized (Both tokens have Admin role)"
	causeGroupOK            = "Authorized (Both tokens have an email that belongs to the requested group)"
	causeRefreshedOK        = "Authorized (AccessToken is expired but RefreshToken is Ok)"
	causeRefreshedAdminOK   = "Authorized (AccessToken is expired but RefreshToken has Admin role)"
	causeRefreshedGroupOK   = "Authorized (AccessToken is expired but RefreshTokens has an email that belongs to the requested group)"
)

type modeKind int

const (
	modeUnset modeKind = iota
	modeSimple
	modeUser
	modeAdmin
	modeGroup
)

// AccessMode is the policy variant a protected operation requires.
// Construct values with Simple, AsUser, AsAdmin or InGroup; the zero value
// is rejected by Authorize.
type AccessMode struct {
	kind     modeKind
	username string
	emails   map[string]struct{}
}

// Simple authorizes any holder of a self-consistent, non-expired token pair.
func Simple() AccessMode {
	return AccessMode{kind: modeSimple}
}

// AsUser authorizes only the session whose username equals the requested one.
func AsUser(username string) AccessMode {
	return AccessMode{kind: modeUser, username: username}
}

// AsAdmin authorizes only sessions carrying the Admin role.
func AsAdmin() AccessMode {
	return AccessMode{kind: modeAdmin}
}

// InGroup authorizes sessions whose email is one of the given member emails.
func InGroup(emails []string) AccessMode {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}
	return AccessMode{kind: modeGroup, emails: set}
}

// Decision is the result of an authorization check.
type Decision struct {
	Granted bool
	Reason  string
	// Refreshed is set when a new access token was minted and written to
	// the sink; callers surface RefreshedTokenMessage on success bodies.
	Refreshed bool
}

func deny(reason string) Decision {
	return Decision{Granted: false, Reason: reason}
}

func grant(cause string) Decision {
	return Decision{Granted: true, Reason: cause}
}

// Policy decides grant/deny for a token pair against a required access mode,
// silently re-minting the access token when it has expired but the refresh
// token still satisfies the mode.
type Policy struct {
	tokens    *TokenManager
	accessTTL time.Duration
}

// NewPolicy builds the policy around a token manager. accessTTL is the
// validity of re-minted access tokens.
func NewPolicy(tokens *TokenManager, accessTTL time.Duration) *Policy {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	return &Policy{tokens: tokens, accessTTL: accessTTL}
}

// Authorize checks the token pair against the required mode.
//
// Both tokens must be present and decode cleanly for the happy path; their
// claims must agree on username, email and role. Expiry of the access token
// (and only expiry, never a bad signature) falls through to the refresh
// protocol: the mode is re-evaluated against the refresh token's claims
// alone and, on grant, a fresh access token is written to the sink. A
// refresh token that itself fails to decode ends the session for good.
//
// Authorize never returns an error; every failure resolves to a denied
// Decision with a reason string.
func (p *Policy) Authorize(accessToken, refreshToken string, mode AccessMode, sink SessionSink) Decision {
	if accessToken == "" || refreshToken == "" {
		return deny(reasonMissingTokens)
	}

	accessClaims, accessErr := p.tokens.Decode(accessToken)
	refreshClaims, refreshErr := p.tokens.Decode(refreshToken)

	switch {
	case accessErr == nil && refreshErr == nil:
		if !accessClaims.Complete() || !refreshClaims.Complete() {
			return deny(reasonMissingInfo)
		}
		if !accessClaims.Matches(refreshClaims) {
			return deny(reasonMismatchedUsers)
		}
		return evaluateLive(mode, accessClaims)

	case errors.Is(accessErr, ErrTokenExpired) || (accessErr == nil && errors.Is(refreshErr, ErrTokenExpired)):
		// Only expiry reaches here; an invalid access token is terminal
		// even when the refresh token is fine.
		return p.refresh(refreshClaims, refreshErr, mode, sink)

	case accessErr != nil:
		return deny(accessErr.Error())

	default:
		return deny(refreshErr.Error())
	}
}

// evaluateLive applies the mode to a consistent, non-expired pair. The
// mismatch gate already ran, so either token's claims are authoritative.
func evaluateLive(mode AccessMode, claims *Claims) Decision {
	switch mode.kind {
	case modeSimple:
		return grant(causeSimpleOK)
	case modeUser:
		if claims.Username != mode.username {
			return deny(reasonNotRequestedUser)
		}
		return grant(causeUserOK)
	case modeAdmin:
		if !claims.IsAdmin() {
			return deny(reasonNotAdmin)
		}
		return grant(causeAdminOK)
	case modeGroup:
		if _, ok := mode.emails[claims.Email]; !ok {
			return deny(reasonNotInGroup)
		}
		return grant(causeGroupOK)
	default:
		return deny(reasonUnsupportedMode)
	}
}

// refresh handles the expired-access-token branch: the refresh token's
// claims are the only authoritative identity, and a grant here is the one
// side-effecting path through the policy.
func (p *Policy) refresh(refreshClaims *Claims, refreshErr error, mode AccessMode, sink SessionSink) Decision {
	if refreshErr != nil {
		if errors.Is(refreshErr, ErrTokenExpired) {
			return deny(reasonPerformLogin)
		}
		return deny(refreshErr.Error())
	}
	if !refreshClaims.Complete() {
		return deny(reasonMissingInfo)
	}

	cause := causeRefreshedOK
	switch mode.kind {
	case modeSimple:
		// No further constraint.
	case modeUser:
		if refreshClaims.Username != mode.username {
			return deny(reasonRefreshWrongUser)
		}
	case modeAdmin:
		if !refreshClaims.IsAdmin() {
			return deny(reasonRefreshNotAdmin)
		}
		cause = causeRefreshedAdminOK
	case modeGroup:
		if _, ok := mode.emails[refreshClaims.Email]; !ok {
			return deny(reasonNotInGroup)
		}
		cause = causeRefreshedGroupOK
	default:
		return deny(reasonUnsupportedMode)
	}

	newAccessToken, err := p.tokens.Issue(refreshClaims.Username, refreshClaims.Email, refreshClaims.Role, p.accessTTL)
	if err != nil {
		return deny(err.Error())
	}
	sink.SetCookie(AccessCookie, newAccessToken, p.accessTTL)

	return Decision{Granted: true, Reason: cause, Refreshed: true}
}
