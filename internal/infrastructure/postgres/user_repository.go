package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vero-api/internal/domain"
	"github.com/jhoicas/vero-api/internal/domain/entity"
	"github.com/jhoicas/vero-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, email, password_hash, role, status,
	COALESCE(stellar_public_key, ''), COALESCE(stellar_secret_key, ''), created_at, updated_at`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, status, stellar_public_key, stellar_secret_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Role, user.Status,
		nullIfEmpty(user.StellarPublicKey), nullIfEmpty(user.StellarSecretKey),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene y bloquea la fila del usuario.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

// ListByRole lista usuarios; role vacío devuelve todos.
func (r *UserRepo) ListByRole(ctx context.Context, role string) ([]*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ($1 = '' OR role = $1) ORDER BY created_at DESC, id`
	rows, err := r.q.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de aprobación.
func (r *UserRepo) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET status = $2, updated_at = $3 WHERE id = $1`, id, status, at)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdateStellarKeys guarda la clave pública y la secret key ya cifrada.
func (r *UserRepo) UpdateStellarKeys(ctx context.Context, id, publicKey, sealedSecret string, at time.Time) error {
	query := `
		UPDATE users SET stellar_public_key = $2, stellar_secret_key = COALESCE($3, stellar_secret_key), updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, publicKey, nullIfEmpty(sealedSecret), at)
	if err != nil {
		return fmt.Errorf("update user stellar keys: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.StellarPublicKey, &u.StellarSecretKey, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
