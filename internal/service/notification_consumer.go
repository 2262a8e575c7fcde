package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	ierr "github.com/flexprice/paymirror/internal/errors"
	pubsubRouter "github.com/flexprice/paymirror/internal/pubsub/router"
)

// NotificationConsumer feeds notifications read from the ingestion topic
// into the NotificationService
type NotificationConsumer interface {
	// Register message handler with the router
	RegisterHandler(router *pubsubRouter.Router, subscriber message.Subscriber)

	// ProcessMessage ingests one message. Only store failures are returned,
	// every other outcome acknowledges the message.
	ProcessMessage(msg *message.Message) error
}

type notificationConsumer struct {
	ServiceParams
	notifications NotificationService
}

func NewNotificationConsumer(params ServiceParams, notifications NotificationService) NotificationConsumer {
	return &notificationConsumer{
		ServiceParams: params,
		notifications: notifications,
	}
}

func (s *notificationConsumer) RegisterHandler(router *pubsubRouter.Router, subscriber message.Subscriber) {
	router.AddNoPublishHandler(
		"notification_ingestion_handler",
		s.Config.Ingestion.Topic,
		subscriber,
		s.ProcessMessage,
	)

	s.Logger.Infow("registered notification ingestion handler",
		"topic", s.Config.Ingestion.Topic,
		"pubsub", s.Config.Ingestion.PubSub,
	)
}

func (s *notificationConsumer) ProcessMessage(msg *message.Message) error {
	ctx := msg.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	transaction, ctx := s.Sentry.StartTransaction(ctx, "notification.consume")
	if transaction != nil {
		defer transaction.Finish()
	}

	consumerSpan, ctx := s.Sentry.StartKafkaConsumerSpan(ctx, s.Config.Ingestion.Topic)
	if consumerSpan != nil {
		defer consumerSpan.Finish()
	}

	result, err := s.notifications.Ingest(ctx, msg.Payload)
	if err != nil {
		if ierr.IsStoreUnavailable(err) {
			return err
		}
		s.Logger.Warnw("dropping unreadable notification",
			"message_uuid", msg.UUID,
			"error", err,
		)
		return nil
	}

	s.Logger.Debugw("consumed notification",
		"message_uuid", msg.UUID,
		"resource", result.Kind,
		"outcome", result.Outcome,
	)
	return nil
}
