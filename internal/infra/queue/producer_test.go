package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-solar/internal/entity"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(ctx, exchange, key, msg).Error(0)
}

func TestPublishUsesEventTypeAsRoutingKey(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	event := NewProposalEvent(EventCreated, entity.Proposal{ID: "p1", SellerID: "s1", ClientName: "Ana", TotalValue: 11136})

	pub.On("PublishWithContext", ctx, ExchangeName, "proposal.created", mock.MatchedBy(func(msg amqp.Publishing) bool {
		var got ProposalEvent
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			return false
		}
		return msg.DeliveryMode == amqp.Persistent &&
			msg.MessageId == event.EventID &&
			got.ProposalID == "p1" && got.TotalValue == 11136
	})).Return(nil)

	require.NoError(t, NewProducer(pub).Publish(ctx, event))
	pub.AssertExpectations(t)
}

func TestPublishWrapsError(t *testing.T) {
	ctx := context.Background()
	pub := new(MockPublisher)
	pub.On("PublishWithContext", ctx, ExchangeName, "proposal.deleted", mock.Anything).Return(errors.New("channel closed"))

	err := NewProducer(pub).Publish(ctx, NewProposalEvent(EventDeleted, entity.Proposal{ID: "p1"}))
	assert.ErrorContains(t, err, "channel closed")
}

func TestNewProposalEventHasUniqueIDs(t *testing.T) {
	a := NewProposalEvent(EventCreated, entity.Proposal{ID: "p1"})
	b := NewProposalEvent(EventCreated, entity.Proposal{ID: "p1"})
	assert.NotEqual(t, a.EventID, b.EventID)
	assert.False(t, a.OccurredAt.IsZero())
}
