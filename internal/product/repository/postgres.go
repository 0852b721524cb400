package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/solestep/solestep-api/internal/model"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	ListActive(ctx context.Context) ([]*model.Product, error)
	Search(ctx context.Context, filter model.ProductSearchFilter) ([]*model.Product, error)
	LowStock(ctx context.Context) ([]*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error
	SetSizeQuantity(ctx context.Context, productID uuid.UUID, size string, quantity int) error
	MaxCode(ctx context.Context, prefix string) (string, error)
}

type pgRepository struct {
	db *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO products (id, code, name, description, brand, category, gender, color, price, min_stock_level, status, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :brand, :category, :gender, :color, :price, :min_stock_level, :status, :created_at, :updated_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, p); err != nil {
		return err
	}

	for _, s := range p.Sizes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_sizes (product_id, size, quantity) VALUES ($1, $2, $3)`,
			p.ID, s.Size, s.Quantity,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1`
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.attachSizes(ctx, []*model.Product{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pgRepository) ListActive(ctx context.Context) ([]*model.Product, error) {
	products := []*model.Product{}
	query := `SELECT * FROM products WHERE status = $1 ORDER BY name`
	if err := r.db.SelectContext(ctx, &products, query, model.StatusActive); err != nil {
		return nil, err
	}
	if err := r.attachSizes(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *pgRepository) Search(ctx context.Context, filter model.ProductSearchFilter) ([]*model.Product, error) {
	products := []*model.Product{}

	query := `SELECT * FROM products WHERE status = $1`
	args := []interface{}{model.StatusActive}

	if filter.Query != "" {
		wildcard := "%" + filter.Query + "%"
		query += fmt.Sprintf(" AND (name ILIKE $%d OR brand ILIKE $%d OR description ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1)
		args = append(args, wildcard)
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", len(args)+1)
		args = append(args, filter.Category)
	}
	if filter.Gender != "" {
		query += fmt.Sprintf(" AND gender = $%d", len(args)+1)
		args = append(args, filter.Gender)
	}
	if filter.Brand != "" {
		query += fmt.Sprintf(" AND brand = $%d", len(args)+1)
		args = append(args, filter.Brand)
	}
	if filter.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", len(args)+1)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", len(args)+1)
		args = append(args, *filter.MaxPrice)
	}
	query += " ORDER BY name"

	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	if err := r.attachSizes(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *pgRepository) LowStock(ctx context.Context) ([]*model.Product, error) {
	products := []*model.Product{}
	query := `
		SELECT p.* FROM products p
		WHERE p.status = $1
		  AND (SELECT COALESCE(SUM(ps.quantity), 0) FROM product_sizes ps WHERE ps.product_id = p.id) <= p.min_stock_level
		ORDER BY p.name
	`
	if err := r.db.SelectContext(ctx, &products, query, model.StatusActive); err != nil {
		return nil, err
	}
	if err := r.attachSizes(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *pgRepository) Update(ctx context.Context, p *model.Product) error {
	p.UpdatedAt = time.Now()
	query := `
		UPDATE products
		SET name = :name, description = :description, brand = :brand, category = :category,
		    gender = :gender, color = :color, price = :price, min_stock_level = :min_stock_level,
		    updated_at = :updated_at
		WHERE id = :id
	`
	_, err := r.db.NamedExecContext(ctx, query, p)
	return err
}

func (r *pgRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	query := `UPDATE products SET status = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (r *pgRepository) SetSizeQuantity(ctx context.Context, productID uuid.UUID, size string, quantity int) error {
	query := `UPDATE product_sizes SET quantity = $1 WHERE product_id = $2 AND size = $3`
	_, err := r.db.ExecContext(ctx, query, quantity, productID, size)
	return err
}

// MaxCode returns the highest generated code for a category prefix, or ""
// when no product carries one yet.
func (r *pgRepository) MaxCode(ctx context.Context, prefix string) (string, error) {
	var code string
	query := `SELECT code FROM products WHERE code LIKE $1 ORDER BY code DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &code, query, prefix+"-%"); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return code, nil
}

// attachSizes loads the size rows for each product in insertion order.
func (r *pgRepository) attachSizes(ctx context.Context, products []*model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Sizes = []model.ProductSize{}
	}

	rows := []struct {
		ProductID uuid.UUID `db:"product_id"`
		Size      string    `db:"size"`
		Quantity  int       `db:"quantity"`
	}{}
	query := `SELECT product_id, size, quantity FROM product_sizes WHERE product_id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return err
	}

	for _, row := range rows {
		p := byID[row.ProductID]
		p.Sizes = append(p.Sizes, model.ProductSize{Size: row.Size, Quantity: row.Quantity})
	}
	return nil
}
