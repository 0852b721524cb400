// Package publisher emits sale events onto the store's event topic.
package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/solestep/solestep-api/internal/model"
	"github.com/solestep/solestep-api/internal/platform/broker"
)

const publishTimeout = 5 * time.Second

type SaleCompletedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	ID                  string  `json:"id"`
	CustomerID          string  `json:"customer_id"`
	TotalAmount         float64 `json:"total_amount"`
	LoyaltyPointsEarned int64   `json:"loyalty_points_earned"`
}

type SalePublisher struct {
	producer *broker.KafkaProducer
	logger   *zap.Logger
}

func NewSalePublisher(producer *broker.KafkaProducer, logger *zap.Logger) *SalePublisher {
	return &SalePublisher{producer: producer, logger: logger}
}

// SaleCompleted publishes the event for an already-committed sale. It is
// best-effort: the sale stands whether or not the broker accepts the
// message, so failures are logged and swallowed.
func (p *SalePublisher) SaleCompleted(ctx context.Context, sale *model.Sale) {
	event := SaleCompletedEvent{
		EventID:   uuid.NewString(),
		EventType: "SaleCompleted",
		Payload: SalePayload{
			ID:                  sale.ID.String(),
			CustomerID:          sale.CustomerID.String(),
			TotalAmount:         sale.TotalAmount.InexactFloat64(),
			LoyaltyPointsEarned: sale.LoyaltyPointsEarned,
		},
		Timestamp: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal sale event", zap.Error(err))
		return
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.producer.Publish(publishCtx, []byte(sale.ID.String()), value); err != nil {
		p.logger.Error("Failed to publish sale event",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err),
		)
		return
	}

	p.logger.Info("Sale event published", zap.String("sale_id", sale.ID.String()))
}
