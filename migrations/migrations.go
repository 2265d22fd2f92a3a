package migrations

import (
	"context"
	"database/sql"
	"time"

	"github.com/jpillora/backoff"
)

// AutoMigrateCartItems creates the cart_items table if it does not exist,
// retrying while the database is still coming up.
func AutoMigrateCartItems(ctx context.Context, db *sql.DB, retries int) error {
	query := `
		CREATE TABLE IF NOT EXISTS cart_items (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			product_id BIGINT NOT NULL,
			quantity INT NOT NULL,
			added_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_cart_items_product_id (product_id)
		);
	`
	retry := backoff.Backoff{Min: 500 * time.Millisecond, Max: 5 * time.Second}

	var err error
	for i := 0; i <= retries; i++ {
		if _, err = db.ExecContext(ctx, query); err == nil {
			return nil
		}
		select {
		case <-time.After(retry.Duration()):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
