package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cart-service/internal/entity"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const publishTimeout = 5 * time.Second

// publish emits a checkout event. It is best-effort: the checkout outcome has
// already been decided when it is called.
func (s *CheckoutService) publish(ctx context.Context, eventType string, items []entity.OrderItem, order entity.OrderResult, reduced int, cause error) {
	if s.events == nil {
		return
	}

	event := entity.CheckoutEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		CreatedAt: time.Now().UTC(),
		Items:     items,
		Order:     json.RawMessage(order),
		Reduced:   reduced,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msgf("Error marshalling %s event", eventType)
		return
	}

	// cart-cart.checked_out-<event id>
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("cart-%s-%s", eventType, event.EventID)),
		Value: payload,
		Time:  event.CreatedAt,
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.WriteMessages(pubCtx, msg); err != nil {
		logger.Error().Err(err).Msgf("Error publishing %s event %s", eventType, event.EventID)
	}
}
