package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/solestep/solestep-api/internal/model"
)

type Repository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListExcludingRole(ctx context.Context, role model.Role) ([]*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgRepository struct {
	db *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, first_name, last_name, role, status, created_at, updated_at)
		VALUES (:id, :email, :password_hash, :first_name, :last_name, :role, :status, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, u)
	return err
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	query := `SELECT * FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *pgRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	query := `SELECT * FROM users WHERE lower(email) = lower($1)`
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *pgRepository) ListExcludingRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	users := []*model.User{}
	query := `SELECT * FROM users WHERE role != $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &users, query, role); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *pgRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
