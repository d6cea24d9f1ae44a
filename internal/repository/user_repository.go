package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/membership-service/internal/domain"
)

// UserRepository defines persistence access for member accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUserName(ctx context.Context, userName string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, keyword string, limit, offset int) ([]domain.User, error)
	Count(ctx context.Context, keyword string) (int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, username, email, first_name, last_name, phone, dob, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.UserName,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.DOB,
		user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, first_name=$2, last_name=$3, phone=$4, dob=$5,
            password_hash=$6, updated_at=NOW()
        WHERE id=$7`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.DOB,
		user.PasswordHash,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = selectUser + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUserName(ctx context.Context, userName string) (*domain.User, error) {
	const query = selectUser + ` WHERE username=$1`
	return r.fetchSingle(ctx, query, userName)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = selectUser + ` WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) List(ctx context.Context, keyword string, limit, offset int) ([]domain.User, error) {
	const query = selectUser + `
        WHERE $1 = '' OR username ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'
        ORDER BY username
        LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, keyword, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepository) Count(ctx context.Context, keyword string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM users
        WHERE $1 = '' OR username ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'`

	var total int
	if err := r.pool.QueryRow(ctx, query, keyword).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

const selectUser = `
        SELECT id, username, email, first_name, last_name, phone, dob, password_hash, created_at, updated_at
        FROM users`

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, arg), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUser(row pgx.Row, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.UserName,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.DOB,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
}
