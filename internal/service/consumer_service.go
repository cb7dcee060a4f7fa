package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"specialist-match-be/internal/dto"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub           *gochannel.GoChannel
	topicName        string
	embeddingService IEmbeddingService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	embeddingService IEmbeddingService,
) IConsumerService {
	return &consumerService{
		pubSub:           pubSub,
		topicName:        topicName,
		embeddingService: embeddingService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSpecialistMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing profile embedding for SpecialistId: %s", payload.SpecialistId)

	if err := cs.embeddingService.EmbedSpecialist(ctx, payload.SpecialistId); err != nil {
		log.Printf("[ERROR] Failed to embed specialist %s: %v", payload.SpecialistId, err)
		msg.Nack() // Retry transient failures
		return
	}

	log.Printf("[SUCCESS] Profile embedded for SpecialistId: %s", payload.SpecialistId)
	msg.Ack()
}
