package entity

import "encoding/json"

type OrderRequest struct {
	Items []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderResult is the order service's response body, passed through verbatim.
type OrderResult = json.RawMessage

type InventoryReduction struct {
	Quantity int `json:"quantity"`
}
