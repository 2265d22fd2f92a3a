package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"cart-service/internal/entity"
	"cart-service/internal/service"
)

const cartItemColumns = `id, product_id, quantity, added_at`

// CartRepository stores the shared cart in the cart_items table. The UNIQUE key
// on product_id is what keeps one row per product under concurrent adds.
type CartRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db, now: time.Now}
}

func (r *CartRepository) ListAll(ctx context.Context) ([]entity.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []entity.CartItem
	for rows.Next() {
		var item entity.CartItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *CartRepository) FindByID(ctx context.Context, id int64) (*entity.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *CartRepository) FindByProductID(ctx context.Context, productID int64) (*entity.CartItem, error) {
	query := `SELECT ` + cartItemColumns + ` FROM cart_items WHERE product_id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, productID))
}

// Add creates the product's row or increments its quantity in one statement.
func (r *CartRepository) Add(ctx context.Context, productID int64, quantity int) (*entity.CartItem, error) {
	query := `
		INSERT INTO cart_items (product_id, quantity, added_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`
	_, err := r.db.ExecContext(ctx, query, productID, quantity, r.now().UTC())
	if err != nil {
		return nil, err
	}

	return r.FindByProductID(ctx, productID)
}

func (r *CartRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) (*entity.CartItem, error) {
	query := `UPDATE cart_items SET quantity = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, quantity, id); err != nil {
		return nil, err
	}

	// MySQL reports 0 affected rows for an unchanged value, so existence is
	// decided by reading the row back.
	return r.FindByID(ctx, id)
}

func (r *CartRepository) Remove(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return service.ErrNotFound
	}

	return nil
}

func (r *CartRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`)
	return err
}

func (r *CartRepository) scanOne(row *sql.Row) (*entity.CartItem, error) {
	item := &entity.CartItem{}
	err := row.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.AddedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}
