package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wallet-service/internal/domain"
)

func seedCategories(repo *fakeCategoryRepo, types ...string) {
	base := time.Now()
	for i, t := range types {
		repo.categories = append(repo.categories, &domain.Category{
			ID:        t + "-id",
			Type:      t,
			Color:     "#fff",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
}

func seedTransactions(repo *fakeTransactionRepo, username string, types ...string) {
	for i, t := range types {
		repo.transactions = append(repo.transactions, &domain.Transaction{
			ID:       t + "-tx-" + string(rune('a'+i)),
			Username: username,
			Type:     t,
			Amount:   10,
			Date:     time.Now(),
		})
	}
}

func TestCreateCategory(t *testing.T) {
	categories := &fakeCategoryRepo{}
	svc := NewCategoryService(categories, &fakeTransactionRepo{})
	ctx := context.Background()

	created, err := svc.Create(ctx, "food", "#ff0000")
	require.NoError(t, err)
	require.Equal(t, "food", created.Type)

	_, err = svc.Create(ctx, "food", "#00ff00")
	require.ErrorContains(t, err, "already exists")
}

func TestUpdateCategoryRenameCascades(t *testing.T) {
	categories := &fakeCategoryRepo{}
	transactions := &fakeTransactionRepo{}
	seedCategories(categories, "food", "health")
	seedTransactions(transactions, "mario", "food", "food", "health")
	svc := NewCategoryService(categories, transactions)
	ctx := context.Background()

	moved, err := svc.Update(ctx, "food", "groceries", "#00ff00")
	require.NoError(t, err)
	require.Equal(t, int64(2), moved)

	renamed, err := categories.GetByType(ctx, "groceries")
	require.NoError(t, err)
	require.Equal(t, "#00ff00", renamed.Color)

	for _, tx := range transactions.transactions {
		require.NotEqual(t, "food", tx.Type)
	}
}

func TestUpdateCategoryColorOnly(t *testing.T) {
	categories := &fakeCategoryRepo{}
	transactions := &fakeTransactionRepo{}
	seedCategories(categories, "food")
	seedTransactions(transactions, "mario", "food")
	svc := NewCategoryService(categories, transactions)
	ctx := context.Background()

	moved, err := svc.Update(ctx, "food", "food", "#123456")
	require.NoError(t, err)
	require.Zero(t, moved)
}

func TestUpdateCategoryErrors(t *testing.T) {
	categories := &fakeCategoryRepo{}
	seedCategories(categories, "food", "health")
	svc := NewCategoryService(categories, &fakeTransactionRepo{})
	ctx := context.Background()

	_, err := svc.Update(ctx, "nope", "other", "#fff")
	require.ErrorContains(t, err, "does not exist")

	_, err = svc.Update(ctx, "food", "health", "#fff")
	require.ErrorContains(t, err, "already exists")
}

func TestDeleteCategoriesReassignsTransactions(t *testing.T) {
	categories := &fakeCategoryRepo{}
	transactions := &fakeTransactionRepo{}
	seedCategories(categories, "food", "health", "fun")
	seedTransactions(transactions, "mario", "health", "fun", "fun")
	svc := NewCategoryService(categories, transactions)
	ctx := context.Background()

	moved, err := svc.Delete(ctx, []string{"health", "fun"})
	require.NoError(t, err)
	require.Equal(t, int64(3), moved)

	for _, tx := range transactions.transactions {
		require.Equal(t, "food", tx.Type)
	}
}

func TestDeleteAllCategoriesKeepsOldest(t *testing.T) {
	categories := &fakeCategoryRepo{}
	transactions := &fakeTransactionRepo{}
	seedCategories(categories, "food", "health")
	seedTransactions(transactions, "mario", "health")
	svc := NewCategoryService(categories, transactions)
	ctx := context.Background()

	// Naming every category spares the oldest one.
	moved, err := svc.Delete(ctx, []string{"food", "health"})
	require.NoError(t, err)
	require.Equal(t, int64(1), moved)

	remaining, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, "food", remaining[0].Type)
}

func TestDeleteCategoriesErrors(t *testing.T) {
	ctx := context.Background()

	empty := NewCategoryService(&fakeCategoryRepo{}, &fakeTransactionRepo{})
	_, err := empty.Delete(ctx, []string{"food"})
	require.ErrorIs(t, err, ErrNoCategories)

	one := &fakeCategoryRepo{}
	seedCategories(one, "food")
	_, err = NewCategoryService(one, &fakeTransactionRepo{}).Delete(ctx, []string{"food"})
	require.ErrorIs(t, err, ErrLastCategory)

	two := &fakeCategoryRepo{}
	seedCategories(two, "food", "health")
	_, err = NewCategoryService(two, &fakeTransactionRepo{}).Delete(ctx, []string{"nope"})
	require.ErrorContains(t, err, "does not represent a category")
}
