package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/solestep/solestep-api/internal/model"
)

type Repository interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetByEmail(ctx context.Context, email string) (*model.Customer, error)
	ListActive(ctx context.Context) ([]*model.Customer, error)
	Search(ctx context.Context, query string) ([]*model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error
	SetLoyaltyPoints(ctx context.Context, id uuid.UUID, points int64) error
}

type pgRepository struct {
	db *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) Create(ctx context.Context, c *model.Customer) error {
	query := `
		INSERT INTO customers (id, first_name, last_name, email, phone, loyalty_points, status, created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :email, :phone, :loyalty_points, :status, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	query := `SELECT * FROM customers WHERE id = $1`
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *pgRepository) GetByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	query := `SELECT * FROM customers WHERE lower(email) = lower($1)`
	if err := r.db.GetContext(ctx, &c, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *pgRepository) ListActive(ctx context.Context) ([]*model.Customer, error) {
	customers := []*model.Customer{}
	query := `SELECT * FROM customers WHERE status = $1 ORDER BY last_name, first_name`
	if err := r.db.SelectContext(ctx, &customers, query, model.StatusActive); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *pgRepository) Search(ctx context.Context, search string) ([]*model.Customer, error) {
	customers := []*model.Customer{}
	wildcard := "%" + search + "%"
	query := `
		SELECT * FROM customers
		WHERE status = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2 OR phone ILIKE $2)
		ORDER BY last_name, first_name
	`
	if err := r.db.SelectContext(ctx, &customers, query, model.StatusActive, wildcard); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *pgRepository) Update(ctx context.Context, c *model.Customer) error {
	c.UpdatedAt = time.Now()
	query := `
		UPDATE customers
		SET first_name = :first_name, last_name = :last_name, email = :email, phone = :phone, updated_at = :updated_at
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, c)
	return err
}

func (r *pgRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	query := `UPDATE customers SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *pgRepository) SetLoyaltyPoints(ctx context.Context, id uuid.UUID, points int64) error {
	query := `UPDATE customers SET loyalty_points = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, points, time.Now(), id)
	return err
}
