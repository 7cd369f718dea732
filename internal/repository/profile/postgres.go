package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"standardtime/internal/domain"
)

const profileColumns = `id::text, email, password_hash, COALESCE(display_name, ''), COALESCE(phone, ''), COALESCE(address, ''), created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateInput) (*domain.Profile, error) {
	const q = `
INSERT INTO profiles (email, password_hash, display_name, phone)
VALUES ($1, $2, $3, $4)
RETURNING ` + profileColumns
	p, err := scanProfile(r.pool.QueryRow(ctx, q, in.Email, in.PasswordHash, in.DisplayName, in.Phone))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return r.get(ctx, q, email)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	q := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.get(ctx, q, id)
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Profile, error) {
	const q = `
UPDATE profiles
SET display_name = COALESCE($2, display_name),
    phone        = COALESCE($3, phone),
    address      = COALESCE($4, address)
WHERE id = $1
RETURNING ` + profileColumns
	p, err := scanProfile(r.pool.QueryRow(ctx, q, id, in.DisplayName, in.Phone, in.Address))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE profiles SET password_hash = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) get(ctx context.Context, q, arg string) (*domain.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.Phone, &p.Address, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
