package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cart-service/internal/entity"
	"cart-service/internal/service"
)

// ProductClient reads products from the catalog service: GET {base}/{productId}.
type ProductClient struct {
	remote
}

func NewProductClient(baseURL string, httpClient *http.Client, timeout time.Duration) *ProductClient {
	return &ProductClient{remote: newRemote(baseURL, httpClient, timeout)}
}

func (c *ProductClient) Fetch(ctx context.Context, productID int64) (*entity.Product, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", c.baseURL, productID), nil)
	if err != nil {
		return nil, fmt.Errorf("%w with id: %d: %v", service.ErrProductNotFound, productID, err)
	}
	if isEmpty(body) {
		return nil, fmt.Errorf("%w with id: %d", service.ErrProductNotFound, productID)
	}

	var product entity.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("%w with id: %d: %v", service.ErrProductNotFound, productID, err)
	}

	return &product, nil
}
