package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caredesk/caredesk-api/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
	FindByLogin(ctx context.Context, login string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByActivationKey(ctx context.Context, key string) (*domain.User, error)
	FindByResetKey(ctx context.Context, key string) (*domain.User, error)
	Activate(ctx context.Context, id int64) error
	SetResetKey(ctx context.Context, id int64, key string, date time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, clearResetKey bool) error
	UpdateAccount(ctx context.Context, login string, patch *domain.AccountPatch) (*domain.User, error)
	UpdateUser(ctx context.Context, login string, patch *domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, login string) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userCols = `id, login, email, password_hash, first_name, last_name, activated, activation_key, reset_key, reset_date, authorities, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Activated, &u.ActivationKey, &u.ResetKey, &u.ResetDate, &u.Authorities,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const q = `
		INSERT INTO users (login, email, password_hash, first_name, last_name, activated, activation_key, reset_key, reset_date, authorities)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	created, err := scanUser(r.pool.QueryRow(ctx, q,
		u.Login, u.Email, u.PasswordHash, u.FirstName, u.LastName,
		u.Activated, u.ActivationKey, u.ResetKey, u.ResetDate, u.Authorities,
	))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return created, nil
}

// mapUniqueViolation translates the unique indexes on users.login and
// users.email into domain errors. The index is the real uniqueness guard;
// the service-level existence check is only a fast path.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_login_key":
			return domain.ErrLoginAlreadyUsed
		case "users_email_key":
			return domain.ErrEmailAlreadyUsed
		}
	}
	return err
}

func (r *userRepository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE login = lower($1)`
	return r.findOne(ctx, q, login)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE email = lower($1)`
	return r.findOne(ctx, q, email)
}

func (r *userRepository) FindByActivationKey(ctx context.Context, key string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE activation_key = $1`
	return r.findOne(ctx, q, key)
}

func (r *userRepository) FindByResetKey(ctx context.Context, key string) (*domain.User, error) {
	const q = `SELECT ` + userCols + ` FROM users WHERE reset_key = $1`
	return r.findOne(ctx, q, key)
}

func (r *userRepository) findOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, arg))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (r *userRepository) Activate(ctx context.Context, id int64) error {
	const q = `UPDATE users SET activated = true, activation_key = NULL, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *userRepository) SetResetKey(ctx context.Context, id int64, key string, date time.Time) error {
	const q = `UPDATE users SET reset_key = $2, reset_date = $3, updated_at = now() WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, key, date)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, clearResetKey bool) error {
	const q = `
		UPDATE users
		SET password_hash = $2,
		    reset_key = CASE WHEN $3 THEN NULL ELSE reset_key END,
		    reset_date = CASE WHEN $3 THEN NULL ELSE reset_date END,
		    updated_at = now()
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, id, passwordHash, clearResetKey)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *userRepository) UpdateAccount(ctx context.Context, login string, patch *domain.AccountPatch) (*domain.User, error) {
	const q = `
		UPDATE users
		SET
			first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE(lower($4), email),
			updated_at = now()
		WHERE login = lower($1)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, login, patch.FirstName, patch.LastName, patch.Email))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, login string, patch *domain.UserPatch) (*domain.User, error) {
	const q = `
		UPDATE users
		SET
			login = COALESCE(lower($2), login),
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			email = COALESCE(lower($5), email),
			authorities = COALESCE($6, authorities),
			updated_at = now()
		WHERE login = lower($1)
		RETURNING ` + userCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u, err := scanUser(r.pool.QueryRow(ctx, q, login, patch.Login, patch.FirstName, patch.LastName, patch.Email, patch.Authorities))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *userRepository) Delete(ctx context.Context, login string) error {
	const q = `DELETE FROM users WHERE login = lower($1)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	result, err := r.pool.Exec(ctx, q, login)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const q = `
		SELECT ` + userCols + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
			&u.Activated, &u.ActivationKey, &u.ResetKey, &u.ResetDate, &u.Authorities,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
