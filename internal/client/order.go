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

// OrderClient submits orders: POST {base} {"items": [...]}.
type OrderClient struct {
	remote
}

func NewOrderClient(baseURL string, httpClient *http.Client, timeout time.Duration) *OrderClient {
	return &OrderClient{remote: newRemote(baseURL, httpClient, timeout)}
}

// Create returns the order service's response body unchanged.
func (c *OrderClient) Create(ctx context.Context, req entity.OrderRequest) (entity.OrderResult, error) {
	body, err := c.do(ctx, http.MethodPost, c.baseURL, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrOrderCreationFailed, err)
	}
	if isEmpty(body) || !json.Valid(body) {
		return nil, fmt.Errorf("%w: order service returned no usable result", service.ErrOrderCreationFailed)
	}
	return entity.OrderResult(body), nil
}
