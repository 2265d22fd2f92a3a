package service

import (
	"context"

	"cart-service/internal/entity"

	"github.com/segmentio/kafka-go"
)

type CartRepository interface {
	ListAll(ctx context.Context) ([]entity.CartItem, error)
	FindByID(ctx context.Context, id int64) (*entity.CartItem, error)
	FindByProductID(ctx context.Context, productID int64) (*entity.CartItem, error)
	Add(ctx context.Context, productID int64, quantity int) (*entity.CartItem, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*entity.CartItem, error)
	Remove(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
}

type ProductCatalog interface {
	Fetch(ctx context.Context, productID int64) (*entity.Product, error)
}

type Inventory interface {
	Reduce(ctx context.Context, productID int64, quantity int) error
}

type OrderCreator interface {
	Create(ctx context.Context, req entity.OrderRequest) (entity.OrderResult, error)
}

// Locker guards the span of a checkout from reading the cart to clearing it.
type Locker interface {
	Acquire(ctx context.Context) (release func(), err error)
}

// MessageWriter is satisfied by *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type CheckoutRecorder interface {
	CheckoutFinished(state CheckoutState, err error)
}
