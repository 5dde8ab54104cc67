package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-blueprint-be/pkg/telemetry"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type ITelemetryService interface {
	Consume(ctx context.Context) error
}

type telemetryService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	sink      *telemetry.WebhookSink
}

func NewTelemetryService(
	pubSub *gochannel.GoChannel,
	topicName string,
	sink *telemetry.WebhookSink,
) ITelemetryService {
	return &telemetryService{
		pubSub:    pubSub,
		topicName: topicName,
		sink:      sink,
	}
}

func (ts *telemetryService) Consume(ctx context.Context) error {
	if !ts.sink.Enabled() {
		log.Printf("[INFO] Telemetry webhook not configured, consumer disabled")
		return nil
	}

	messages, err := ts.pubSub.Subscribe(ctx, ts.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ts.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ts *telemetryService) processMessage(ctx context.Context, msg *message.Message) {
	var record telemetry.TurnRecord
	if err := json.Unmarshal(msg.Payload, &record); err != nil {
		log.Printf("[ERROR] Failed to unmarshal telemetry record: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Delivery is fire-and-forget: failures are logged and the message
	// is acked so a dead collector never backs up the bus.
	if err := ts.sink.Deliver(ctx, msg.Payload); err != nil {
		log.Printf("[WARN] Telemetry delivery failed (session=%s role=%s): %v", record.SessionID, record.Role, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Telemetry record delivered (session=%s role=%s)", record.SessionID, record.Role)
	msg.Ack()
}
