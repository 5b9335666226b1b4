package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/collegeprep/notifier/internal/pkg/config"
	"github.com/collegeprep/notifier/internal/pkg/goroutine"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/messaging"
	"github.com/collegeprep/notifier/internal/pkg/uid"
	"github.com/collegeprep/notifier/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.notification.consumer_names")

	var consumers = []struct {
		name               string
		topic              string // destination where publisher sent message
		nsqConsumerName    string // for nsq
		natsConsumerName   string // for nats
		kafkaConsumerName  string // for kafka
		pubsubConsumerName string // for google pubusb
		handler            messaging.Handler
	}{
		{
			name:               event.AssignmentCreatedConsumerNotification,
			topic:              event.AssignmentCreatedDestination,
			nsqConsumerName:    event.AssignmentCreatedConsumerNotification,
			natsConsumerName:   event.AssignmentCreatedConsumerNotification,
			kafkaConsumerName:  event.AssignmentCreatedConsumerNotification,
			pubsubConsumerName: event.AssignmentCreatedConsumerNotification,
			handler:            mqHandler.AssignmentCreatedNotification,
		},
		{
			name:               event.GradePostedConsumerNotification,
			topic:              event.GradePostedDestination,
			nsqConsumerName:    event.GradePostedConsumerNotification,
			natsConsumerName:   event.GradePostedConsumerNotification,
			kafkaConsumerName:  event.GradePostedConsumerNotification,
			pubsubConsumerName: event.GradePostedConsumerNotification,
			handler:            mqHandler.GradePostedNotification,
		},
		{
			name:               event.AttendanceWarningConsumerNotification,
			topic:              event.AttendanceWarningDestination,
			nsqConsumerName:    event.AttendanceWarningConsumerNotification,
			natsConsumerName:   event.AttendanceWarningConsumerNotification,
			kafkaConsumerName:  event.AttendanceWarningConsumerNotification,
			pubsubConsumerName: event.AttendanceWarningConsumerNotification,
			handler:            mqHandler.AttendanceWarningNotification,
		},
		{
			name:               event.UserRegisteredConsumerNotification,
			topic:              event.UserRegisteredDestination,
			nsqConsumerName:    event.UserRegisteredConsumerNotification,
			natsConsumerName:   event.UserRegisteredConsumerNotification,
			kafkaConsumerName:  event.UserRegisteredConsumerNotification,
			pubsubConsumerName: event.UserRegisteredConsumerNotification,
			handler:            mqHandler.UserRegisteredNotification,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithSubscription(consumer.pubsubConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
