package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/wallet-service/internal/domain"
)

// CategoryRepository defines persistence access for spending categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByType(ctx context.Context, categoryType string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Count(ctx context.Context) (int, error)
	// Oldest returns the earliest-created category; transactions orphaned
	// by a bulk delete are reassigned to it.
	Oldest(ctx context.Context) (*domain.Category, error)
	Update(ctx context.Context, oldType, newType, color string) error
	DeleteByTypes(ctx context.Context, types []string) error
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository returns a Postgres-backed implementation.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (id, type, color)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	return r.pool.QueryRow(ctx, query,
		category.ID,
		category.Type,
		category.Color,
	).Scan(&category.CreatedAt)
}

func (r *categoryRepository) GetByType(ctx context.Context, categoryType string) (*domain.Category, error) {
	const query = `SELECT id, type, color, created_at FROM categories WHERE type=$1`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query, categoryType).Scan(
		&category.ID,
		&category.Type,
		&category.Color,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, type, color, created_at FROM categories ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Type, &category.Color, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

func (r *categoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *categoryRepository) Oldest(ctx context.Context) (*domain.Category, error) {
	const query = `SELECT id, type, color, created_at FROM categories ORDER BY created_at LIMIT 1`

	var category domain.Category
	if err := r.pool.QueryRow(ctx, query).Scan(
		&category.ID,
		&category.Type,
		&category.Color,
		&category.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, oldType, newType, color string) error {
	const query = `UPDATE categories SET type=$1, color=$2 WHERE type=$3`

	cmd, err := r.pool.Exec(ctx, query, newType, color, oldType)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *categoryRepository) DeleteByTypes(ctx context.Context, types []string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE type = ANY($1)`, types)
	return err
}
