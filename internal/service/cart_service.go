package service

import (
	"context"
	"fmt"
	"os"

	"cart-service/internal/entity"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "cart").Logger()

// CartService owns the shared cart: item CRUD plus the catalog-enriched views.
// The cart is not scoped to a user; every caller sees the same rows.
type CartService struct {
	repo    CartRepository
	catalog ProductCatalog
}

// NewCartService creates a new instance of CartService.
func NewCartService(repo CartRepository, catalog ProductCatalog) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
	}
}

// GetCart returns the enriched items and their total from one pass over the
// cart, so each product is fetched once.
func (s *CartService) GetCart(ctx context.Context) (*entity.CartView, error) {
	items, err := s.ListEnriched(ctx)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(lineTotal(item.Product, item.Quantity))
	}

	return &entity.CartView{Items: items, Total: total}, nil
}

// ListEnriched attaches the catalog product to every cart item. A single failed
// lookup fails the whole listing.
func (s *CartService) ListEnriched(ctx context.Context) ([]entity.EnrichedCartItem, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing cart items")
		return nil, err
	}

	enriched := make([]entity.EnrichedCartItem, 0, len(items))
	for _, item := range items {
		product, err := s.catalog.Fetch(ctx, item.ProductID)
		if err != nil {
			logger.Error().Err(err).Msgf("Error fetching product %d for cart item %d", item.ProductID, item.ID)
			return nil, err
		}
		enriched = append(enriched, entity.EnrichedCartItem{CartItem: item, Product: *product})
	}

	return enriched, nil
}

// Total sums price * quantity over the cart with the same all-or-nothing policy
// as ListEnriched.
func (s *CartService) Total(ctx context.Context) (decimal.Decimal, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, item := range items {
		product, err := s.catalog.Fetch(ctx, item.ProductID)
		if err != nil {
			logger.Error().Err(err).Msgf("Error fetching product %d for cart total", item.ProductID)
			return decimal.Zero, err
		}
		total = total.Add(lineTotal(*product, item.Quantity))
	}

	return total, nil
}

// AddToCart verifies the product exists in the catalog, then merges quantity
// into the product's existing row or creates one.
func (s *CartService) AddToCart(ctx context.Context, productID int64, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	if _, err := s.catalog.Fetch(ctx, productID); err != nil {
		logger.Warn().Err(err).Msgf("Rejecting add of product %d", productID)
		return nil, err
	}

	item, err := s.repo.Add(ctx, productID, quantity)
	if err != nil {
		logger.Error().Err(err).Msgf("Error adding product %d to cart", productID)
		return nil, err
	}

	logger.Info().Msgf("Cart item %d now holds %d of product %d", item.ID, item.Quantity, item.ProductID)
	return item, nil
}

// UpdateQuantity replaces the quantity of a single row.
func (s *CartService) UpdateQuantity(ctx context.Context, id int64, quantity int) (*entity.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	item, err := s.repo.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveFromCart deletes one row by id.
func (s *CartService) RemoveFromCart(ctx context.Context, id int64) error {
	return s.repo.Remove(ctx, id)
}

// EmptyCart deletes every row.
func (s *CartService) EmptyCart(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		logger.Error().Err(err).Msg("Error emptying cart")
		return err
	}
	return nil
}

func lineTotal(p entity.Product, quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
