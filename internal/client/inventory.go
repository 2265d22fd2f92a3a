package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cart-service/internal/entity"
	"cart-service/internal/service"
)

// InventoryClient reduces stock: PUT {base}/{productId}/reduce {"quantity": n}.
// The response body is ignored.
type InventoryClient struct {
	remote
}

func NewInventoryClient(baseURL string, httpClient *http.Client, timeout time.Duration) *InventoryClient {
	return &InventoryClient{remote: newRemote(baseURL, httpClient, timeout)}
}

func (c *InventoryClient) Reduce(ctx context.Context, productID int64, quantity int) error {
	url := fmt.Sprintf("%s/%d/reduce", c.baseURL, productID)
	if _, err := c.do(ctx, http.MethodPut, url, entity.InventoryReduction{Quantity: quantity}); err != nil {
		return fmt.Errorf("%w for product %d: %v", service.ErrInventoryUnavailable, productID, err)
	}
	return nil
}
