package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/events"
	"github.com/spec-kit/wallet-service/internal/repository"
)

// ErrUserNotFound is returned by user lookups for unknown accounts.
var ErrUserNotFound = errors.New("user not found")

// ErrDeleteAdmin guards admin accounts against deletion.
var ErrDeleteAdmin = errors.New("can not delete an Admin")

// UserService serves account listing and deletion.
type UserService struct {
	users        repository.UserRepository
	groups       repository.GroupRepository
	transactions repository.TransactionRepository
	groupCache   GroupEmailCache
	dispatcher   events.Dispatcher
}

// NewUserService builds the service. The dispatcher may be nil.
func NewUserService(users repository.UserRepository, groups repository.GroupRepository, transactions repository.TransactionRepository, cache GroupEmailCache, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, groups: groups, transactions: transactions, groupCache: cache, dispatcher: dispatcher}
}

// List returns every account.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// GetByUsername returns a single account.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteResult summarizes the cascade of an account deletion.
type DeleteResult struct {
	DeletedTransactions int64
	DeletedFromGroup    bool
}

// Delete removes an account along with its transactions and group
// membership. A group left with no members is dropped entirely. Admin
// accounts cannot be deleted.
func (s *UserService) Delete(ctx context.Context, email string) (*DeleteResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %s does not exist", email)
		}
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, ErrDeleteAdmin
	}

	deleted, err := s.transactions.DeleteByUsername(ctx, user.Username)
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{DeletedTransactions: deleted}

	group, err := s.groups.GetByMemberEmail(ctx, email)
	switch {
	case err == nil:
		result.DeletedFromGroup = true
		if len(group.Members) == 1 {
			if err := s.groups.DeleteByName(ctx, group.Name); err != nil {
				return nil, err
			}
		} else {
			if err := s.groups.RemoveMembers(ctx, group.Name, []string{email}); err != nil {
				return nil, err
			}
		}
		s.groupCache.Invalidate(ctx, group.Name)
	case errors.Is(err, pgx.ErrNoRows):
		// Not grouped.
	default:
		return nil, err
	}

	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.EventUserDeleted, user.Username, events.UserDeletedPayload{
		Email:               email,
		DeletedTransactions: result.DeletedTransactions,
		DeletedFromGroup:    result.DeletedFromGroup,
	})
	return result, nil
}
