package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type EventType string

const (
	EventCreated EventType = RoutingCreated
	EventDeleted EventType = RoutingDeleted
)

type ProposalEvent struct {
	EventID    string    `json:"event_id"`
	Type       EventType `json:"type"`
	ProposalID string    `json:"proposal_id"`
	SellerID   string    `json:"seller_id,omitempty"`
	ClientName string    `json:"client_name,omitempty"`
	TotalValue float64   `json:"total_value,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewProposalEvent(t EventType, p entity.Proposal) ProposalEvent {
	return ProposalEvent{
		EventID:    uuid.NewString(),
		Type:       t,
		ProposalID: p.ID,
		SellerID:   p.SellerID,
		ClientName: p.ClientName,
		TotalValue: p.TotalValue,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher é o subconjunto de *amqp.Channel usado pelo producer.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) Publish(ctx context.Context, event ProposalEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		string(event.Type),
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}

// LogProducer substitui o RabbitMQ quando RABBITMQ_URL não está definida.
type LogProducer struct{}

func (LogProducer) Publish(_ context.Context, event ProposalEvent) error {
	log.Printf("📨 Evento %s da proposta %s (RabbitMQ desabilitado)", event.Type, event.ProposalID)
	return nil
}
