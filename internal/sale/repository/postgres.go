package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/solestep/solestep-api/internal/model"
)

// TxStore is the slice of the data layer visible inside one sale
// transaction. Every method runs on the same database transaction, so the
// stock decrements, the sale insert and the loyalty credit commit or roll
// back together.
type TxStore interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetSizeQuantityForUpdate(ctx context.Context, productID uuid.UUID, size string) (int, bool, error)
	DecrementSizeQuantity(ctx context.Context, productID uuid.UUID, size string, quantity int) error
	InsertSale(ctx context.Context, sale *model.Sale) error
	AddLoyaltyPoints(ctx context.Context, customerID uuid.UUID, points int64) error
}

type Repository interface {
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context) ([]*model.Sale, error)
	ListBetween(ctx context.Context, start, end time.Time) ([]*model.Sale, error)
}

type pgRepository struct {
	db *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) RunInTx(ctx context.Context, fn func(tx TxStore) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(&pgTxStore{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

type pgTxStore struct {
	tx *sqlx.Tx
}

func (s *pgTxStore) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	query := `SELECT * FROM customers WHERE id = $1`
	if err := s.tx.GetContext(ctx, &c, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *pgTxStore) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1`
	if err := s.tx.GetContext(ctx, &p, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetSizeQuantityForUpdate locks the size row for the rest of the
// transaction. Racing sales on the same product/size serialize here, which
// is what keeps the last unit from being sold twice.
func (s *pgTxStore) GetSizeQuantityForUpdate(ctx context.Context, productID uuid.UUID, size string) (int, bool, error) {
	var quantity int
	query := `SELECT quantity FROM product_sizes WHERE product_id = $1 AND size = $2 FOR UPDATE`
	if err := s.tx.GetContext(ctx, &quantity, query, productID, size); err != nil {
		if err == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, err
	}
	return quantity, true, nil
}

func (s *pgTxStore) DecrementSizeQuantity(ctx context.Context, productID uuid.UUID, size string, quantity int) error {
	query := `
		UPDATE product_sizes SET quantity = quantity - $1
		WHERE product_id = $2 AND size = $3 AND quantity >= $1
	`
	res, err := s.tx.ExecContext(ctx, query, quantity, productID, size)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *pgTxStore) InsertSale(ctx context.Context, sale *model.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, total_amount, payment_method, payment_status, loyalty_points_earned, processed_by, created_at)
		VALUES (:id, :customer_id, :total_amount, :payment_method, :payment_status, :loyalty_points_earned, :processed_by, :created_at)
	`
	if _, err := s.tx.NamedExecContext(ctx, query, sale); err != nil {
		return err
	}

	for _, item := range sale.Items {
		if _, err := s.tx.ExecContext(ctx,
			`INSERT INTO sale_items (sale_id, product_id, size, quantity, price_at_sale, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			sale.ID, item.ProductID, item.Size, item.Quantity, item.PriceAtSale, item.Subtotal,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *pgTxStore) AddLoyaltyPoints(ctx context.Context, customerID uuid.UUID, points int64) error {
	query := `UPDATE customers SET loyalty_points = loyalty_points + $1, updated_at = $2 WHERE id = $3`
	_, err := s.tx.ExecContext(ctx, query, points, time.Now(), customerID)
	return err
}

const saleSelect = `
	SELECT s.*,
	       c.first_name || ' ' || c.last_name AS customer_name,
	       u.first_name || ' ' || u.last_name AS processed_by_name
	FROM sales s
	JOIN customers c ON c.id = s.customer_id
	JOIN users u ON u.id = s.processed_by
`

func (r *pgRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	if err := r.db.GetContext(ctx, &sale, saleSelect+` WHERE s.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if err := r.attachItems(ctx, []*model.Sale{&sale}); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *pgRepository) List(ctx context.Context) ([]*model.Sale, error) {
	sales := []*model.Sale{}
	if err := r.db.SelectContext(ctx, &sales, saleSelect+` ORDER BY s.created_at DESC`); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *pgRepository) ListBetween(ctx context.Context, start, end time.Time) ([]*model.Sale, error) {
	sales := []*model.Sale{}
	query := saleSelect + ` WHERE s.created_at >= $1 AND s.created_at <= $2 ORDER BY s.created_at`
	if err := r.db.SelectContext(ctx, &sales, query, start, end); err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *pgRepository) attachItems(ctx context.Context, sales []*model.Sale) error {
	if len(sales) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(sales))
	byID := make(map[uuid.UUID]*model.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = []model.SaleItem{}
	}

	rows := []struct {
		SaleID uuid.UUID `db:"sale_id"`
		model.SaleItem
	}{}
	query := `
		SELECT si.sale_id, si.product_id, p.name AS product_name, si.size, si.quantity, si.price_at_sale, si.subtotal
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.id
	`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return err
	}

	for _, row := range rows {
		sale := byID[row.SaleID]
		sale.Items = append(sale.Items, row.SaleItem)
	}
	return nil
}
