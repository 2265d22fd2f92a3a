package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// EnrichedCartItem is a cart row with the live catalog view of its product attached.
type EnrichedCartItem struct {
	CartItem
	Product Product `json:"product"`
}

type CartView struct {
	Items []EnrichedCartItem `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

/*
Mysql Table

CREATE TABLE cart_items (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	product_id BIGINT NOT NULL,
	quantity INT NOT NULL,
	added_at DATETIME(6) NOT NULL,
	UNIQUE KEY uq_cart_items_product_id (product_id)
);

*/
