package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/wallet-service/internal/domain"
)

func newTransactionFixture(t *testing.T) (*TransactionService, *fakeUserRepo, *fakeCategoryRepo, *fakeTransactionRepo, *GroupService) {
	t.Helper()
	users := &fakeUserRepo{}
	categories := &fakeCategoryRepo{}
	transactions := &fakeTransactionRepo{}
	groups := NewGroupService(&fakeGroupRepo{}, users, newFakeGroupCache(), nil)
	svc := NewTransactionService(transactions, categories, users, groups, nil)
	return svc, users, categories, transactions, groups
}

func TestCreateTransaction(t *testing.T) {
	svc, users, categories, _, _ := newTransactionFixture(t)
	seedUsers(users, "mario")
	seedCategories(categories, "food")
	ctx := context.Background()

	tx, err := svc.Create(ctx, "mario", "food", 12.5)
	require.NoError(t, err)
	require.NotEmpty(t, tx.ID)
	require.Equal(t, "mario", tx.Username)
	require.Equal(t, 12.5, tx.Amount)
	require.False(t, tx.Date.IsZero())

	_, err = svc.Create(ctx, "mario", "nope", 1)
	require.ErrorIs(t, err, ErrCategoryMissing)

	_, err = svc.Create(ctx, "ghost", "food", 1)
	require.ErrorContains(t, err, "does not exist")
}

func TestListByUserWithFilter(t *testing.T) {
	svc, users, _, transactions, _ := newTransactionFixture(t)
	seedUsers(users, "mario", "luigi")
	now := time.Now()
	transactions.transactions = []*domain.Transaction{
		{ID: "t1", Username: "mario", Type: "food", Amount: 5, Date: now.Add(-48 * time.Hour)},
		{ID: "t2", Username: "mario", Type: "food", Amount: 50, Date: now},
		{ID: "t3", Username: "luigi", Type: "food", Amount: 50, Date: now},
	}
	ctx := context.Background()

	all, err := svc.ListByUser(ctx, "mario", domain.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	from := now.Add(-time.Hour)
	recent, err := svc.ListByUser(ctx, "mario", domain.TransactionFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, "t2", recent[0].ID)

	min := 10.0
	big, err := svc.ListByUser(ctx, "mario", domain.TransactionFilter{MinAmt: &min})
	require.NoError(t, err)
	require.Len(t, big, 1)

	_, err = svc.ListByUser(ctx, "ghost", domain.TransactionFilter{})
	require.ErrorContains(t, err, "does not exist")
}

func TestListByGroup(t *testing.T) {
	users := &fakeUserRepo{}
	categories := &fakeCategoryRepo{}
	transactions := &fakeTransactionRepo{}
	groupRepo := &fakeGroupRepo{}
	groups := NewGroupService(groupRepo, users, newFakeGroupCache(), nil)
	svc := NewTransactionService(transactions, categories, users, groups, nil)

	seedUsers(users, "mario", "luigi", "peach")
	seedCategories(categories, "food")
	groupRepo.groups = append(groupRepo.groups, &domain.Group{
		ID:   "g1",
		Name: "family",
		Members: []domain.GroupMember{
			{Email: "mario@test.com", UserID: "mario-id"},
			{Email: "luigi@test.com", UserID: "luigi-id"},
		},
	})
	now := time.Now()
	transactions.transactions = []*domain.Transaction{
		{ID: "t1", Username: "mario", Type: "food", Amount: 5, Date: now},
		{ID: "t2", Username: "luigi", Type: "health", Amount: 7, Date: now},
		{ID: "t3", Username: "peach", Type: "food", Amount: 9, Date: now},
	}
	ctx := context.Background()

	group, err := groups.GetByName(ctx, "family")
	require.NoError(t, err)

	all, err := svc.ListByGroup(ctx, group)
	require.NoError(t, err)
	require.Len(t, all, 2)

	food, err := svc.ListByGroupAndCategory(ctx, group, "food")
	require.NoError(t, err)
	require.Len(t, food, 1)
	require.Equal(t, "t1", food[0].ID)
}

func TestDeleteTransactionOwnership(t *testing.T) {
	svc, users, _, transactions, _ := newTransactionFixture(t)
	seedUsers(users, "mario", "luigi")
	transactions.transactions = []*domain.Transaction{
		{ID: "t1", Username: "mario", Type: "food", Amount: 5, Date: time.Now()},
	}
	ctx := context.Background()

	require.ErrorIs(t, svc.Delete(ctx, "luigi", "t1"), ErrTransactionOwner)
	require.ErrorIs(t, svc.Delete(ctx, "mario", "ghost"), ErrTransactionNotFound)

	require.NoError(t, svc.Delete(ctx, "mario", "t1"))
	require.Empty(t, transactions.transactions)
}

func TestDeleteManyRequiresAllIDs(t *testing.T) {
	svc, users, _, transactions, _ := newTransactionFixture(t)
	seedUsers(users, "mario")
	transactions.transactions = []*domain.Transaction{
		{ID: "t1", Username: "mario", Type: "food", Amount: 5, Date: time.Now()},
		{ID: "t2", Username: "mario", Type: "food", Amount: 7, Date: time.Now()},
	}
	ctx := context.Background()

	// One unknown id fails the whole batch.
	err := svc.DeleteMany(ctx, []string{"t1", "ghost"})
	require.ErrorContains(t, err, "does not exist")
	require.Len(t, transactions.transactions, 2)

	require.NoError(t, svc.DeleteMany(ctx, []string{"t1", "t2"}))
	require.Empty(t, transactions.transactions)
}
