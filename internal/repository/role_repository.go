package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-service/internal/domain"
)

// RoleRepository manages role definitions and user role membership.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	List(ctx context.Context) ([]domain.Role, error)
	ListNamesForUser(ctx context.Context, userID string) ([]string, error)
	AddUserToRoles(ctx context.Context, userID string, roleIDs []string) error
	RemoveUserFromRoles(ctx context.Context, userID string, roleNames []string) error
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository returns a Postgres-backed implementation.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	const query = `SELECT id, name, created_at FROM roles WHERE name=$1`

	var role domain.Role
	if err := r.pool.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]domain.Role, error) {
	const query = `SELECT id, name, created_at FROM roles ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []domain.Role
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepository) ListNamesForUser(ctx context.Context, userID string) ([]string, error) {
	const query = `
        SELECT r.name FROM roles r
        JOIN user_roles ur ON ur.role_id = r.id
        WHERE ur.user_id = $1
        ORDER BY r.name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AddUserToRoles inserts memberships idempotently: adding an existing
// membership is a no-op.
func (r *roleRepository) AddUserToRoles(ctx context.Context, userID string, roleIDs []string) error {
	const query = `
        INSERT INTO user_roles (user_id, role_id)
        VALUES ($1, $2)
        ON CONFLICT (user_id, role_id) DO NOTHING`

	for _, roleID := range roleIDs {
		if _, err := r.pool.Exec(ctx, query, userID, roleID); err != nil {
			return err
		}
	}
	return nil
}

// RemoveUserFromRoles deletes memberships by role name. Removing a
// non-membership or an unknown role name is a no-op.
func (r *roleRepository) RemoveUserFromRoles(ctx context.Context, userID string, roleNames []string) error {
	const query = `
        DELETE FROM user_roles ur
        USING roles r
        WHERE ur.role_id = r.id AND ur.user_id = $1 AND r.name = ANY($2)`

	if len(roleNames) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, query, userID, roleNames)
	return err
}
