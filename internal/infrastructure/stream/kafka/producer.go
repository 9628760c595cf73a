package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/kirillkom/tour-inquiry-service/internal/core/domain"
)

// TriageEventPublisher streams triage outcomes for downstream consumers
// (dashboards, auditing). Events are keyed by inquiry ID so consumers see
// the passes for one inquiry in order.
type TriageEventPublisher struct {
	writer *kafka.Writer
}

func NewTriageEventPublisher(brokers []string, topic string) *TriageEventPublisher {
	return &TriageEventPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *TriageEventPublisher) PublishTriageOutcome(ctx context.Context, event domain.TriageEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal triage event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.InquiryID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write triage event: %w", err)
	}
	return nil
}

func (p *TriageEventPublisher) Close() error {
	return p.writer.Close()
}
