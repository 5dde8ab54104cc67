package telemetry

import (
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Publisher hands turn records to the in-process bus. Recording is
// strictly best-effort: a nil publisher, a marshal error or a publish
// error never surfaces to the conversation flow.
type Publisher struct {
	pubSub *gochannel.GoChannel
	topic  string
}

func NewPublisher(pubSub *gochannel.GoChannel, topic string) *Publisher {
	return &Publisher{
		pubSub: pubSub,
		topic:  topic,
	}
}

// Record publishes one turn record and swallows every failure.
func (p *Publisher) Record(sessionID, role, text string) {
	if p == nil || p.pubSub == nil {
		return
	}

	payload, err := json.Marshal(NewTurnRecord(sessionID, role, text))
	if err != nil {
		log.Printf("[WARN] Telemetry marshal failed: %v", err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubSub.Publish(p.topic, msg); err != nil {
		log.Printf("[WARN] Telemetry publish failed: %v", err)
	}
}
