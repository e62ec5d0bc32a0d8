package service

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallet-service/internal/domain"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	copied := *user
	f.users = append(f.users, &copied)
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByRefreshToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range f.users {
		if u.RefreshToken != nil && *u.RefreshToken == token {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	return f.users, nil
}

func (f *fakeUserRepo) SetRefreshToken(_ context.Context, email string, token *string) error {
	for _, u := range f.users {
		if u.Email == email {
			u.RefreshToken = token
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeUserRepo) DeleteByEmail(_ context.Context, email string) error {
	for i, u := range f.users {
		if u.Email == email {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeGroupRepo struct {
	groups []*domain.Group
}

func (f *fakeGroupRepo) Create(_ context.Context, group *domain.Group) error {
	copied := *group
	copied.Members = append([]domain.GroupMember(nil), group.Members...)
	f.groups = append(f.groups, &copied)
	return nil
}

func (f *fakeGroupRepo) GetByName(_ context.Context, name string) (*domain.Group, error) {
	for _, g := range f.groups {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGroupRepo) GetByMemberEmail(_ context.Context, email string) (*domain.Group, error) {
	for _, g := range f.groups {
		if g.HasMember(email) {
			return g, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeGroupRepo) List(_ context.Context) ([]*domain.Group, error) {
	return f.groups, nil
}

func (f *fakeGroupRepo) AddMembers(_ context.Context, name string, members []domain.GroupMember) error {
	for _, g := range f.groups {
		if g.Name == name {
			g.Members = append(g.Members, members...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeGroupRepo) RemoveMembers(_ context.Context, name string, emails []string) error {
	removed := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		removed[e] = struct{}{}
	}
	for _, g := range f.groups {
		if g.Name != name {
			continue
		}
		kept := g.Members[:0]
		for _, m := range g.Members {
			if _, ok := removed[m.Email]; !ok {
				kept = append(kept, m)
			}
		}
		g.Members = kept
		return nil
	}
	return pgx.ErrNoRows
}

func (f *fakeGroupRepo) DeleteByName(_ context.Context, name string) error {
	for i, g := range f.groups {
		if g.Name == name {
			f.groups = append(f.groups[:i], f.groups[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeCategoryRepo struct {
	categories []*domain.Category
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	copied := *category
	if copied.CreatedAt.IsZero() {
		copied.CreatedAt = time.Now().Add(time.Duration(len(f.categories)) * time.Second)
	}
	f.categories = append(f.categories, &copied)
	return nil
}

func (f *fakeCategoryRepo) GetByType(_ context.Context, categoryType string) (*domain.Category, error) {
	for _, c := range f.categories {
		if c.Type == categoryType {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]*domain.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) Count(_ context.Context) (int, error) {
	return len(f.categories), nil
}

func (f *fakeCategoryRepo) Oldest(_ context.Context) (*domain.Category, error) {
	if len(f.categories) == 0 {
		return nil, pgx.ErrNoRows
	}
	sorted := append([]*domain.Category(nil), f.categories...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	return sorted[0], nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, oldType, newType, color string) error {
	for _, c := range f.categories {
		if c.Type == oldType {
			c.Type = newType
			c.Color = color
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeCategoryRepo) DeleteByTypes(_ context.Context, types []string) error {
	drop := make(map[string]struct{}, len(types))
	for _, t := range types {
		drop[t] = struct{}{}
	}
	kept := f.categories[:0]
	for _, c := range f.categories {
		if _, ok := drop[c.Type]; !ok {
			kept = append(kept, c)
		}
	}
	f.categories = kept
	return nil
}

type fakeTransactionRepo struct {
	transactions []*domain.Transaction
}

func (f *fakeTransactionRepo) Create(_ context.Context, tx *domain.Transaction) error {
	copied := *tx
	if copied.Date.IsZero() {
		copied.Date = time.Now()
	}
	f.transactions = append(f.transactions, &copied)
	tx.Date = copied.Date
	return nil
}

func (f *fakeTransactionRepo) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	for _, tx := range f.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeTransactionRepo) ListAll(_ context.Context) ([]*domain.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeTransactionRepo) ListByUser(_ context.Context, username string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, tx := range f.transactions {
		if tx.Username != username {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.UpTo != nil && tx.Date.After(*filter.UpTo) {
			continue
		}
		if filter.MinAmt != nil && tx.Amount < *filter.MinAmt {
			continue
		}
		if filter.MaxAmt != nil && tx.Amount > *filter.MaxAmt {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (f *fakeTransactionRepo) ListByUserAndType(_ context.Context, username, categoryType string) ([]*domain.Transaction, error) {
	var out []*domain.Transaction
	for _, tx := range f.transactions {
		if tx.Username == username && tx.Type == categoryType {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) ListByUsernames(_ context.Context, usernames []string) ([]*domain.Transaction, error) {
	names := make(map[string]struct{}, len(usernames))
	for _, n := range usernames {
		names[n] = struct{}{}
	}
	var out []*domain.Transaction
	for _, tx := range f.transactions {
		if _, ok := names[tx.Username]; ok {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) ListByUsernamesAndType(ctx context.Context, usernames []string, categoryType string) ([]*domain.Transaction, error) {
	all, _ := f.ListByUsernames(ctx, usernames)
	var out []*domain.Transaction
	for _, tx := range all {
		if tx.Type == categoryType {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) RetypeAll(_ context.Context, oldType, newType string) (int64, error) {
	var moved int64
	for _, tx := range f.transactions {
		if tx.Type == oldType {
			tx.Type = newType
			moved++
		}
	}
	return moved, nil
}

func (f *fakeTransactionRepo) DeleteByID(_ context.Context, id string) error {
	for i, tx := range f.transactions {
		if tx.ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeTransactionRepo) DeleteByIDs(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_ = f.DeleteByID(ctx, id)
	}
	return nil
}

func (f *fakeTransactionRepo) DeleteByUsername(_ context.Context, username string) (int64, error) {
	var deleted int64
	kept := f.transactions[:0]
	for _, tx := range f.transactions {
		if tx.Username == username {
			deleted++
			continue
		}
		kept = append(kept, tx)
	}
	f.transactions = kept
	return deleted, nil
}

// fakeGroupCache counts cache traffic.
type fakeGroupCache struct {
	store       map[string][]string
	hits        int
	invalidated []string
}

func newFakeGroupCache() *fakeGroupCache {
	return &fakeGroupCache{store: make(map[string][]string)}
}

func (f *fakeGroupCache) GetEmails(_ context.Context, name string) ([]string, bool) {
	emails, ok := f.store[name]
	if ok {
		f.hits++
	}
	return emails, ok
}

func (f *fakeGroupCache) SetEmails(_ context.Context, name string, emails []string) {
	f.store[name] = emails
}

func (f *fakeGroupCache) Invalidate(_ context.Context, name string) {
	delete(f.store, name)
	f.invalidated = append(f.invalidated, name)
}
