package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wallet-service/internal/auth"
	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/service"
)

type stubCategoryRepo struct{}

func (r *stubCategoryRepo) Create(ctx context.Context, category *domain.Category) error {
	return nil
}

func (r *stubCategoryRepo) GetByType(ctx context.Context, categoryType string) (*domain.Category, error) {
	return nil, nil
}

func (r *stubCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	return []*domain.Category{{Type: "food", Color: "red"}}, nil
}

func (r *stubCategoryRepo) Count(ctx context.Context) (int, error) { return 1, nil }

func (r *stubCategoryRepo) Oldest(ctx context.Context) (*domain.Category, error) {
	return nil, nil
}

func (r *stubCategoryRepo) Update(ctx context.Context, oldType, newType, color string) error {
	return nil
}

func (r *stubCategoryRepo) DeleteByTypes(ctx context.Context, types []string) error {
	return nil
}

func newCategoriesApp(policy *auth.Policy) *fiber.App {
	handler := NewCategoriesHandler(service.NewCategoryService(&stubCategoryRepo{}, nil), policy)
	app := fiber.New()
	app.Get("/api/categories", handler.GetCategories)
	return app
}

func sessionRequest(target, access, refresh string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if access != "" {
		req.AddCookie(&http.Cookie{Name: auth.AccessCookie, Value: access})
	}
	if refresh != "" {
		req.AddCookie(&http.Cookie{Name: auth.RefreshCookie, Value: refresh})
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestProtectedRouteRefreshesExpiredAccessToken(t *testing.T) {
	tm := auth.NewTokenManager("secret")
	app := newCategoriesApp(auth.NewPolicy(tm, time.Hour))

	expiredAccess, err := tm.Issue("mario", "mario@test.com", domain.RoleRegular, -time.Minute)
	require.NoError(t, err)
	refresh, err := tm.Issue("mario", "mario@test.com", domain.RoleRegular, time.Hour)
	require.NoError(t, err)

	resp, err := app.Test(sessionRequest("/api/categories", expiredAccess, refresh))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Contains(t, body, "data")
	require.Equal(t, auth.RefreshedTokenMessage, body["refreshedTokenMessage"])

	var minted string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.AccessCookie {
			minted = cookie.Value
		}
	}
	require.NotEmpty(t, minted, "response must carry the re-minted access token cookie")
	claims, err := tm.Decode(minted)
	require.NoError(t, err)
	require.Equal(t, "mario", claims.Username)
}

func TestProtectedRouteLivePairOmitsRefreshMessage(t *testing.T) {
	tm := auth.NewTokenManager("secret")
	app := newCategoriesApp(auth.NewPolicy(tm, time.Hour))

	access, err := tm.Issue("mario", "mario@test.com", domain.RoleRegular, time.Hour)
	require.NoError(t, err)
	refresh, err := tm.Issue("mario", "mario@test.com", domain.RoleRegular, time.Hour)
	require.NoError(t, err)

	resp, err := app.Test(sessionRequest("/api/categories", access, refresh))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Contains(t, body, "data")
	require.NotContains(t, body, "refreshedTokenMessage")
}

func TestProtectedRouteDeniesMissingSession(t *testing.T) {
	tm := auth.NewTokenManager("secret")
	app := newCategoriesApp(auth.NewPolicy(tm, time.Hour))

	resp, err := app.Test(sessionRequest("/api/categories", "", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, "Missing accessToken or refreshToken (or both)", body["error"])
}

func TestAdminGroupTransactionsChecksCredentialsBeforeLookup(t *testing.T) {
	tm := auth.NewTokenManager("secret")
	policy := auth.NewPolicy(tm, time.Hour)

	// No repositories behind the services: a request that fails the Admin
	// check must be turned away before any group lookup happens.
	groups := service.NewGroupService(nil, nil, nil, nil)
	transactions := service.NewTransactionService(nil, nil, nil, groups, nil)
	handler := NewTransactionsHandler(transactions, groups, policy)

	app := fiber.New()
	app.Get("/api/transactions/groups/:name", handler.GetGroupTransactionsAdmin)

	t.Run("unauthenticated", func(t *testing.T) {
		resp, err := app.Test(sessionRequest("/api/transactions/groups/nope", "", ""))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody(t, resp)
		require.Equal(t, "Missing accessToken or refreshToken (or both)", body["error"])
	})

	t.Run("regular user", func(t *testing.T) {
		access, err := tm.Issue("mario", "mario@test.com", domain.RoleRegular, time.Hour)
		require.NoError(t, err)
		refresh, err := tm.Issue("mario", "mario@test.com", domain.RoleRegular, time.Hour)
		require.NoError(t, err)

		resp, err := app.Test(sessionRequest("/api/transactions/groups/nope", access, refresh))
		require.NoError(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody(t, resp)
		require.Equal(t, "One (or both) of tokens doesn't have Admin role", body["error"])
	})
}
