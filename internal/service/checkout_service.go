package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cart-service/internal/entity"
)

type CheckoutState string

const (
	StateValidating         CheckoutState = "validating"
	StateBuildingOrder      CheckoutState = "building_order"
	StateCreatingOrder      CheckoutState = "creating_order"
	StateAdjustingInventory CheckoutState = "adjusting_inventory"
	StateClearingCart       CheckoutState = "clearing_cart"
	StateDone               CheckoutState = "done"
	StateFailed             CheckoutState = "failed"
)

const defaultLockWait = 10 * time.Second

// CheckoutService turns the cart into an order: validate, build the request,
// create the order, reduce inventory item by item, clear the cart.
//
// There is no compensation. If inventory reduction fails after the order was
// created, the order stands, later items are not reduced and the cart is kept,
// so a retry submits a second order.
type CheckoutService struct {
	repo      CartRepository
	orders    OrderCreator
	inventory Inventory
	locker    Locker
	events    MessageWriter
	recorder  CheckoutRecorder
	lockWait  time.Duration
}

// NewCheckoutService creates a new instance of CheckoutService. events and
// recorder may be nil.
func NewCheckoutService(repo CartRepository, orders OrderCreator, inventory Inventory, locker Locker, events MessageWriter, recorder CheckoutRecorder, lockWait time.Duration) *CheckoutService {
	if lockWait <= 0 {
		lockWait = defaultLockWait
	}
	return &CheckoutService{
		repo:      repo,
		orders:    orders,
		inventory: inventory,
		locker:    locker,
		events:    events,
		recorder:  recorder,
		lockWait:  lockWait,
	}
}

// Checkout runs the checkout sequence and returns the order service's response.
// Failures are *CheckoutError values wrapping one of the package's error kinds.
func (s *CheckoutService) Checkout(ctx context.Context) (order entity.OrderResult, err error) {
	state := StateValidating
	defer func() {
		if s.recorder == nil {
			return
		}
		if err != nil {
			s.recorder.CheckoutFinished(state, err)
			return
		}
		s.recorder.CheckoutFinished(StateDone, nil)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
	release, err := s.locker.Acquire(lockCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = ErrCheckoutInProgress
		}
		return nil, s.fail(state, err)
	}
	defer release()

	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, s.fail(state, err)
	}
	if len(items) == 0 {
		return nil, s.fail(state, ErrEmptyCart)
	}

	state = s.advance(state, StateBuildingOrder)
	req := buildOrderRequest(items)

	state = s.advance(state, StateCreatingOrder)
	order, err = s.orders.Create(ctx, req)
	if err != nil {
		return nil, s.fail(state, ensureKind(err, ErrOrderCreationFailed))
	}

	state = s.advance(state, StateAdjustingInventory)
	for i, item := range items {
		if err := s.inventory.Reduce(ctx, item.ProductID, item.Quantity); err != nil {
			err = ensureKind(err, ErrInventoryUnavailable)
			logger.Error().Err(err).
				RawJSON("order", order).
				Int("reduced", i).
				Int("items", len(items)).
				Msgf("Order created but inventory for product %d was not reduced; cart left intact", item.ProductID)
			s.publish(ctx, entity.EventCartCheckoutInventoryFail, req.Items, order, i, err)
			return nil, s.fail(state, err)
		}
	}

	state = s.advance(state, StateClearingCart)
	if err := s.repo.Clear(ctx); err != nil {
		return nil, s.fail(state, err)
	}

	state = s.advance(state, StateDone)
	s.publish(ctx, entity.EventCartCheckedOut, req.Items, order, len(items), nil)

	return order, nil
}

func buildOrderRequest(items []entity.CartItem) entity.OrderRequest {
	orderItems := make([]entity.OrderItem, 0, len(items))
	for _, item := range items {
		orderItems = append(orderItems, entity.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return entity.OrderRequest{Items: orderItems}
}

func (s *CheckoutService) advance(from, to CheckoutState) CheckoutState {
	logger.Debug().Str("from", string(from)).Str("to", string(to)).Msg("Checkout transition")
	return to
}

func (s *CheckoutService) fail(state CheckoutState, err error) error {
	logger.Error().Err(err).Str("state", string(state)).Str("to", string(StateFailed)).Msg("Checkout failed")
	return &CheckoutError{State: state, Err: err}
}

func ensureKind(err, kind error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}
