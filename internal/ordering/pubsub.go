package ordering

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/angelmondragon/ordering-engine/internal/cart"
)

const (
	attrEventType   = "event_type"
	eventTypeOrder  = "order.submitted"
	attrContentType = "content_type"
	contentTypeJSON = "application/json"
)

// Publisher is the subset of the Pub/Sub client the submitter needs.
type Publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// PubSubSubmitter publishes each order as one message on a topic.
type PubSubSubmitter struct {
	publisher Publisher
}

func NewPubSubSubmitter(publisher Publisher) (*PubSubSubmitter, error) {
	if publisher == nil {
		return nil, errors.New("pubsub publisher is required")
	}
	return &PubSubSubmitter{publisher: publisher}, nil
}

func (s *PubSubSubmitter) Submit(ctx context.Context, payload cart.OrderPayload) (Receipt, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Receipt{}, submissionError(err, "encode order payload")
	}
	id, err := s.publisher.Publish(ctx, data, map[string]string{
		attrEventType:   eventTypeOrder,
		attrContentType: contentTypeJSON,
	})
	if err != nil {
		return Receipt{}, submissionError(err, "publish order")
	}
	return Receipt{Sink: SinkPubSub, Reference: id}, nil
}
