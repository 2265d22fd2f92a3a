package entity

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrMissingPrice = errors.New("product has no price")

// Product is the catalog's view of a product. Only the price is interpreted
// locally; the rest of the catalog document is kept in Raw and written back out
// unchanged.
type Product struct {
	Price decimal.Decimal
	Raw   json.RawMessage
}

func (p Product) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(map[string]any{"price": p.Price})
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var doc struct {
		Price *decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Price == nil {
		return ErrMissingPrice
	}
	p.Price = *doc.Price
	p.Raw = append(json.RawMessage(nil), data...)
	return nil
}
