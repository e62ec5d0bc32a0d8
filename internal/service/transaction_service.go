package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/events"
	"github.com/spec-kit/wallet-service/internal/repository"
)

// Transaction flow errors surfaced to handlers as 400s.
var (
	ErrTransactionNotFound = errors.New("this transaction does not exist")
	ErrTransactionOwner    = errors.New("the username in the route does not match the username of the transaction")
	ErrCategoryMissing     = errors.New("type of category does not exist")
)

// TransactionService records and queries expenses.
type TransactionService struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	users        repository.UserRepository
	groups       *GroupService
	dispatcher   events.Dispatcher
}

// NewTransactionService builds the service. The dispatcher may be nil.
func NewTransactionService(transactions repository.TransactionRepository, categories repository.CategoryRepository, users repository.UserRepository, groups *GroupService, dispatcher events.Dispatcher) *TransactionService {
	return &TransactionService{transactions: transactions, categories: categories, users: users, groups: groups, dispatcher: dispatcher}
}

// Create records an expense for the user under an existing category.
func (s *TransactionService) Create(ctx context.Context, username, categoryType string, amount float64) (*domain.Transaction, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByType(ctx, categoryType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryMissing
		}
		return nil, err
	}

	tx := &domain.Transaction{
		ID:       uuid.NewString(),
		Username: username,
		Type:     categoryType,
		Amount:   amount,
	}
	if err := s.transactions.Create(ctx, tx); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.EventTransactionRecorded, username, events.TransactionRecordedPayload{
		Type:   categoryType,
		Amount: amount,
	})
	return tx, nil
}

// ListAll returns every transaction with its category color.
func (s *TransactionService) ListAll(ctx context.Context) ([]*domain.Transaction, error) {
	return s.transactions.ListAll(ctx)
}

// ListByUser returns a user's transactions, optionally filtered by date
// and amount bounds.
func (s *TransactionService) ListByUser(ctx context.Context, username string, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	return s.transactions.ListByUser(ctx, username, filter)
}

// ListByUserAndCategory returns a user's transactions under one category.
func (s *TransactionService) ListByUserAndCategory(ctx context.Context, username, categoryType string) ([]*domain.Transaction, error) {
	if err := s.requireUser(ctx, username); err != nil {
		return nil, err
	}
	if _, err := s.categories.GetByType(ctx, categoryType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("the category with type %s does not exist", categoryType)
		}
		return nil, err
	}
	return s.transactions.ListByUserAndType(ctx, username, categoryType)
}

// ListByGroup returns the transactions of every member of the group.
func (s *TransactionService) ListByGroup(ctx context.Context, group *domain.Group) ([]*domain.Transaction, error) {
	usernames, err := s.groups.MemberUsernames(ctx, group)
	if err != nil {
		return nil, err
	}
	return s.transactions.ListByUsernames(ctx, usernames)
}

// ListByGroupAndCategory narrows a group listing to one category.
func (s *TransactionService) ListByGroupAndCategory(ctx context.Context, group *domain.Group, categoryType string) ([]*domain.Transaction, error) {
	if _, err := s.categories.GetByType(ctx, categoryType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("the category %s does not exist", categoryType)
		}
		return nil, err
	}
	usernames, err := s.groups.MemberUsernames(ctx, group)
	if err != nil {
		return nil, err
	}
	return s.transactions.ListByUsernamesAndType(ctx, usernames, categoryType)
}

// Delete removes one of the user's own transactions.
func (s *TransactionService) Delete(ctx context.Context, username, id string) error {
	if err := s.requireUser(ctx, username); err != nil {
		return err
	}

	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrTransactionNotFound
		}
		return err
	}
	if tx.Username != username {
		return ErrTransactionOwner
	}
	if err := s.transactions.DeleteByID(ctx, id); err != nil {
		return err
	}

	publish(ctx, s.dispatcher, events.EventTransactionsDeleted, username, events.TransactionsDeletedPayload{
		IDs: []string{id},
	})
	return nil
}

// DeleteMany removes transactions by id. Every id must exist; otherwise
// nothing is deleted.
func (s *TransactionService) DeleteMany(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if _, err := s.transactions.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("the transaction %s does not exist", id)
			}
			return err
		}
	}
	if err := s.transactions.DeleteByIDs(ctx, ids); err != nil {
		return err
	}

	publish(ctx, s.dispatcher, events.EventTransactionsDeleted, "", events.TransactionsDeletedPayload{IDs: ids})
	return nil
}

func (s *TransactionService) requireUser(ctx context.Context, username string) error {
	if _, err := s.users.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("the user %s does not exist", username)
		}
		return err
	}
	return nil
}
