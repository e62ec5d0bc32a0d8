package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/wallet-service/internal/domain"
)

// GroupRepository defines persistence access for shared groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByName(ctx context.Context, name string) (*domain.Group, error)
	// GetByMemberEmail returns the group containing the email, or
	// pgx.ErrNoRows when the account is not grouped.
	GetByMemberEmail(ctx context.Context, email string) (*domain.Group, error)
	List(ctx context.Context) ([]*domain.Group, error)
	AddMembers(ctx context.Context, name string, members []domain.GroupMember) error
	RemoveMembers(ctx context.Context, name string, emails []string) error
	DeleteByName(ctx context.Context, name string) error
}

type groupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository returns a Postgres-backed implementation.
func NewGroupRepository(pool *pgxpool.Pool) GroupRepository {
	return &groupRepository{pool: pool}
}

func (r *groupRepository) Create(ctx context.Context, group *domain.Group) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertGroup = `
        INSERT INTO groups (id, name) VALUES ($1, $2)
        RETURNING created_at`
	if err := tx.QueryRow(ctx, insertGroup, group.ID, group.Name).Scan(&group.CreatedAt); err != nil {
		return err
	}

	for _, m := range group.Members {
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_id, email, user_id) VALUES ($1, $2, $3)`,
			group.ID, m.Email, m.UserID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *groupRepository) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	const query = `SELECT id, name, created_at FROM groups WHERE name=$1`

	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, name).Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) GetByMemberEmail(ctx context.Context, email string) (*domain.Group, error) {
	const query = `
        SELECT g.id, g.name, g.created_at
        FROM groups g JOIN group_members m ON m.group_id = g.id
        WHERE m.email=$1`

	var group domain.Group
	if err := r.pool.QueryRow(ctx, query, email).Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
		return nil, err
	}
	if err := r.loadMembers(ctx, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM groups ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.Group
	for rows.Next() {
		var group domain.Group
		if err := rows.Scan(&group.ID, &group.Name, &group.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, group := range groups {
		if err := r.loadMembers(ctx, group); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (r *groupRepository) AddMembers(ctx context.Context, name string, members []domain.GroupMember) error {
	groupID, err := r.groupID(ctx, name)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, m := range members {
		if _, err := tx.Exec(ctx,
			`INSERT INTO group_members (group_id, email, user_id) VALUES ($1, $2, $3)`,
			groupID, m.Email, m.UserID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *groupRepository) RemoveMembers(ctx context.Context, name string, emails []string) error {
	groupID, err := r.groupID(ctx, name)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`DELETE FROM group_members WHERE group_id=$1 AND email = ANY($2)`,
		groupID, emails,
	)
	return err
}

func (r *groupRepository) DeleteByName(ctx context.Context, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE name=$1`, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *groupRepository) groupID(ctx context.Context, name string) (string, error) {
	var id string
	if err := r.pool.QueryRow(ctx, `SELECT id FROM groups WHERE name=$1`, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func (r *groupRepository) loadMembers(ctx context.Context, group *domain.Group) error {
	rows, err := r.pool.Query(ctx,
		`SELECT email, user_id FROM group_members WHERE group_id=$1 ORDER BY joined_at`,
		group.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	group.Members = group.Members[:0]
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.Email, &m.UserID); err != nil {
			return err
		}
		group.Members = append(group.Members, m)
	}
	return rows.Err()
}
