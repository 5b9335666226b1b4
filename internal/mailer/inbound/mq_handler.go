package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/collegeprep/notifier/internal/mailer/usecase"
	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/messaging"
	"github.com/collegeprep/notifier/internal/pkg/uid"
	"github.com/collegeprep/notifier/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) UserRegisteredMailer(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("mailer.inbound.mq").Start(ctx, "UserRegisteredMailer")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registered mailer", "msg_body", string(body))

	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registered mailer", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeUserRegistered(ctx, usecase.ConsumeUserRegisteredInput{
		UserID:   payload.UserID,
		UserType: payload.UserType,
		Email:    payload.Email,
		FullName: payload.FullName,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume user registered", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}
