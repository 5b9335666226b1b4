package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/collegeprep/notifier/internal/notification/usecase"
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

func (h *MQHandler) AssignmentCreatedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AssignmentCreatedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: assignment created notification", "msg_body", string(body))

	var payload event.AssignmentCreatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of assignment created notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAssignmentCreated(ctx, usecase.ConsumeAssignmentCreatedInput{
		AssignmentID:    payload.AssignmentID,
		CourseID:        payload.CourseID,
		CourseName:      payload.CourseName,
		AssignmentTitle: payload.AssignmentTitle,
		DueDate:         payload.DueDate,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume assignment created", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) GradePostedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "GradePostedNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: grade posted notification", "msg_body", string(body))

	var payload event.GradePostedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of grade posted notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeGradePosted(ctx, usecase.ConsumeGradePostedInput{
		StudentID:       payload.StudentID,
		CourseID:        payload.CourseID,
		AssignmentID:    payload.AssignmentID,
		CourseName:      payload.CourseName,
		AssignmentTitle: payload.AssignmentTitle,
		Grade:           payload.Grade,
		MaxGrade:        payload.MaxGrade,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume grade posted", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) AttendanceWarningNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "AttendanceWarningNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: attendance warning notification", "msg_body", string(body))

	var payload event.AttendanceWarningMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of attendance warning notification", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAttendanceWarning(ctx, usecase.ConsumeAttendanceWarningInput{
		StudentID:      payload.StudentID,
		CourseID:       payload.CourseID,
		CourseName:     payload.CourseName,
		AttendanceRate: payload.AttendanceRate,
		Threshold:      payload.Threshold,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume attendance warning", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

func (h *MQHandler) UserRegisteredNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "UserRegisteredNotification")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: user registered notification", "msg_body", string(body))

	var payload event.UserRegisteredMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of user registered notification", "msg_body", string(body), "error", err)
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
