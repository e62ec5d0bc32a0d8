package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallet-service/internal/domain"
	"github.com/spec-kit/wallet-service/internal/repository"
)

// Category flow errors surfaced to handlers as 400s.
var (
	ErrNoCategories = errors.New("there are no categories in the database")
	ErrLastCategory = errors.New("there is only 1 category in the database")
)

// CategoryService manages spending categories and the transaction type
// cascades triggered by renames and deletions.
type CategoryService struct {
	categories   repository.CategoryRepository
	transactions repository.TransactionRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository, transactions repository.TransactionRepository) *CategoryService {
	return &CategoryService{categories: categories, transactions: transactions}
}

// Create adds a new category with a unique type.
func (s *CategoryService) Create(ctx context.Context, categoryType, color string) (*domain.Category, error) {
	if _, err := s.categories.GetByType(ctx, categoryType); err == nil {
		return nil, fmt.Errorf("%s already exists in the database", categoryType)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	category := &domain.Category{
		ID:    uuid.NewString(),
		Type:  categoryType,
		Color: color,
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update edits a category's type and color. A type rename cascades onto
// transactions; the affected count is reported back.
func (s *CategoryService) Update(ctx context.Context, oldType, newType, color string) (int64, error) {
	if _, err := s.categories.GetByType(ctx, oldType); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%s does not exist", oldType)
		}
		return 0, err
	}
	if newType != oldType {
		if _, err := s.categories.GetByType(ctx, newType); err == nil {
			return 0, fmt.Errorf("%s already exists in the database", newType)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return 0, err
		}
	}

	if err := s.categories.Update(ctx, oldType, newType, color); err != nil {
		return 0, err
	}

	if newType == oldType {
		return 0, nil
	}
	return s.transactions.RetypeAll(ctx, oldType, newType)
}

// Delete removes the named categories. At least one category must survive;
// when every category was named, the oldest one is kept. Transactions under
// deleted types move to the oldest surviving category, and the total of
// moved transactions is reported.
func (s *CategoryService) Delete(ctx context.Context, types []string) (int64, error) {
	total, err := s.categories.Count(ctx)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, ErrNoCategories
	}
	if total == 1 {
		return 0, ErrLastCategory
	}

	for _, t := range types {
		if _, err := s.categories.GetByType(ctx, t); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return 0, fmt.Errorf("%s does not represent a category in the database", t)
			}
			return 0, err
		}
	}

	toDelete := types
	if total == len(types) {
		oldest, err := s.categories.Oldest(ctx)
		if err != nil {
			return 0, err
		}
		kept := oldest.Type
		filtered := make([]string, 0, len(types))
		for _, t := range types {
			if t != kept {
				filtered = append(filtered, t)
			}
		}
		toDelete = filtered
	}

	if err := s.categories.DeleteByTypes(ctx, toDelete); err != nil {
		return 0, err
	}

	target, err := s.categories.Oldest(ctx)
	if err != nil {
		return 0, err
	}

	var moved int64
	for _, t := range toDelete {
		n, err := s.transactions.RetypeAll(ctx, t, target.Type)
		if err != nil {
			return 0, err
		}
		moved += n
	}
	return moved, nil
}

// List returns every category.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}
