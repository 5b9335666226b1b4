package inbound

import (
	"strconv"

	"github.com/collegeprep/notifier/internal/notification/entity"
	"github.com/collegeprep/notifier/internal/notification/usecase"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// List returns user notifications.
// @Summary List notifications
// @Description Returns visible notifications for the authenticated user, newest first.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Param unread_only query bool false "Only unread notifications"
// @Param type query string false "Filter by notification type"
// @Param priority query string false "Filter by priority (low|medium|high|urgent)"
// @Param since_days query int false "Only notifications created in the last N days"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=NotificationsResponse} "Notification list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications [get]
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	query := r.URL.Query()
	limit, err := parseInt32(query.Get("limit"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	offset, err := parseInt32(query.Get("offset"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	sinceDays, err := parseInt32(query.Get("since_days"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	items, err := h.uc.List(r.Context(), usecase.ListInput{
		UnreadOnly: query.Get("unread_only") == "true",
		Type:       query.Get("type"),
		Priority:   query.Get("priority"),
		SinceDays:  sinceDays,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toNotificationResponse(item))
	}

	return NotificationsResponse{Notifications: resp}, nil
}

// UnreadCount returns the unread notification count.
// @Summary Count unread notifications
// @Description Returns the number of visible unread notifications for the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=UnreadCountResponse} "Unread count"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/unread-count [get]
func (h *HTTPEndpoint) UnreadCount(r *router.Request) (any, error) {
	count, err := h.uc.UnreadCount(r.Context())
	if err != nil {
		return nil, err
	}

	return UnreadCountResponse{Count: count}, nil
}

// MarkRead marks a notification as read.
// @Summary Mark notification read
// @Description Marks one notification as read; marking an already-read notification succeeds.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/{id}/read [patch]
func (h *HTTPEndpoint) MarkRead(r *router.Request) (any, error) {
	id, err := strconv.ParseInt(r.GetParam("id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.MarkRead(r.Context(), usecase.MarkReadInput{ID: id})
}

// MarkAllRead marks all notifications as read.
// @Summary Mark all notifications read
// @Description Marks every visible unread notification of the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=MarkAllReadResponse} "Number of notifications marked"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/read-all [put]
func (h *HTTPEndpoint) MarkAllRead(r *router.Request) (any, error) {
	count, err := h.uc.MarkAllRead(r.Context())
	if err != nil {
		return nil, err
	}

	return MarkAllReadResponse{MarkedRead: count}, nil
}

// Delete removes a notification.
// @Summary Delete notification
// @Description Soft deletes a notification for the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/{id} [delete]
func (h *HTTPEndpoint) Delete(r *router.Request) (any, error) {
	id, err := strconv.ParseInt(r.GetParam("id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.Delete(r.Context(), usecase.DeleteInput{ID: id})
}

// AdminCreate creates a notification manually.
// @Summary Create notification
// @Description Creates a notification for any user; admin only. Template variables may replace title and message.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateNotificationRequest true "Notification payload"
// @Success 200 {object} router.successResponse{data=NotificationResponse} "Created notification"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications [post]
func (h *HTTPEndpoint) AdminCreate(r *router.Request) (any, error) {
	var req CreateNotificationRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	n, err := h.uc.AdminCreate(r.Context(), usecase.AdminCreateInput{CreateInput: usecase.CreateInput{
		UserID:              req.UserID,
		UserType:            req.UserType,
		Type:                req.Type,
		Title:               req.Title,
		Message:             req.Message,
		Priority:            req.Priority,
		Category:            req.Category,
		ActionURL:           req.ActionURL,
		ActionText:          req.ActionText,
		RelatedCourseID:     req.RelatedCourseID,
		RelatedAssignmentID: req.RelatedAssignmentID,
		RelatedEnrollmentID: req.RelatedEnrollmentID,
		RelatedPaymentID:    req.RelatedPaymentID,
		ExpiresInDays:       req.ExpiresInDays,
		Variables:           req.Variables,
	}})
	if err != nil {
		return nil, err
	}

	return toNotificationResponse(n), nil
}

// NotifyCourse notifies every active student of a course.
// @Summary Notify course students
// @Description Fans one notification out to all active students of a course; admin only.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body NotifyCourseRequest true "Course notification payload"
// @Success 200 {object} router.successResponse{data=NotifyCourseResponse} "Number of targeted students"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/course [post]
func (h *HTTPEndpoint) NotifyCourse(r *router.Request) (any, error) {
	var req NotifyCourseRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	targeted, err := h.uc.NotifyCourse(r.Context(), usecase.NotifyCourseInput{
		CourseID:  req.CourseID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Priority:  req.Priority,
		ActionURL: req.ActionURL,
		Variables: req.Variables,
	})
	if err != nil {
		return nil, err
	}

	return NotifyCourseResponse{Targeted: targeted}, nil
}

// ListTypes returns all notification types.
// @Summary List notification types
// @Description Returns every notification type the platform produces.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=NotificationTypesResponse} "Type list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/types [get]
func (h *HTTPEndpoint) ListTypes(r *router.Request) (any, error) {
	types, err := h.uc.ListTypes(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]string, 0, len(types))
	for _, t := range types {
		resp = append(resp, t.String())
	}

	return NotificationTypesResponse{Types: resp}, nil
}

// ListTemplates returns content templates.
// @Summary List templates
// @Description Returns all notification content templates; admin only.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=TemplatesResponse} "Template list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/templates [get]
func (h *HTTPEndpoint) ListTemplates(r *router.Request) (any, error) {
	items, err := h.uc.ListTemplates(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]TemplateResponse, 0, len(items))
	for _, item := range items {
		channels := make([]string, 0, len(item.DefaultChannels))
		for _, ch := range item.DefaultChannels {
			channels = append(channels, ch.String())
		}
		resp = append(resp, TemplateResponse{
			ID:                   item.ID,
			Type:                 item.Type.String(),
			Name:                 item.Name,
			TitleTemplate:        item.TitleTemplate,
			MessageTemplate:      item.MessageTemplate,
			EmailSubjectTemplate: item.EmailSubjectTemplate,
			EmailBodyTemplate:    item.EmailBodyTemplate,
			SMSTemplate:          item.SMSTemplate,
			DefaultPriority:      item.DefaultPriority.String(),
			DefaultChannels:      channels,
			IsActive:             item.IsActive,
		})
	}

	return TemplatesResponse{Templates: resp}, nil
}

// UpdateTemplate partially updates a type's template.
// @Summary Update template
// @Description Applies a partial update to the content template of a notification type; admin only.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Param type path string true "Notification type"
// @Param request body UpdateTemplateRequest true "Template patch"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Template not found"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/templates/{type} [put]
func (h *HTTPEndpoint) UpdateTemplate(r *router.Request) (any, error) {
	var req UpdateTemplateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	patch := entity.TemplatePatch{
		Name:                 req.Name,
		TitleTemplate:        req.TitleTemplate,
		MessageTemplate:      req.MessageTemplate,
		EmailSubjectTemplate: req.EmailSubjectTemplate,
		EmailBodyTemplate:    req.EmailBodyTemplate,
		SMSTemplate:          req.SMSTemplate,
		IsActive:             req.IsActive,
	}
	if req.DefaultPriority != nil {
		p := entity.Priority(*req.DefaultPriority)
		patch.DefaultPriority = &p
	}

	return nil, h.uc.UpdateTemplate(r.Context(), usecase.UpdateTemplateInput{
		Type:  r.GetParam("type"),
		Patch: patch,
	})
}

// ListPreferences returns the caller's notification preferences.
// @Summary List preferences
// @Description Returns the stored channel preferences of the authenticated user.
// @Tags Notification
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=PreferencesResponse} "Preference list"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/preferences [get]
func (h *HTTPEndpoint) ListPreferences(r *router.Request) (any, error) {
	items, err := h.uc.ListPreferences(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]PreferenceResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toPreferenceResponse(item))
	}

	return PreferencesResponse{Preferences: resp}, nil
}

// UpdatePreference partially updates one preference.
// @Summary Update preference
// @Description Applies a partial update to the caller's preference for one notification type; untouched fields keep their values.
// @Tags Notification
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param type path string true "Notification type"
// @Param request body UpdatePreferenceRequest true "Preference patch"
// @Success 200 {object} router.successResponse{data=PreferenceResponse} "Merged preference"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notifications/preferences/{type} [put]
func (h *HTTPEndpoint) UpdatePreference(r *router.Request) (any, error) {
	var req UpdatePreferenceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	pref, err := h.uc.UpdatePreference(r.Context(), usecase.UpdatePreferenceInput{
		Type: r.GetParam("type"),
		Patch: entity.PreferencePatch{
			InAppEnabled:    req.InAppEnabled,
			EmailEnabled:    req.EmailEnabled,
			SMSEnabled:      req.SMSEnabled,
			PushEnabled:     req.PushEnabled,
			QuietHoursStart: req.QuietHoursStart,
			QuietHoursEnd:   req.QuietHoursEnd,
			DigestMode:      req.DigestMode,
			DigestFrequency: req.DigestFrequency,
		},
	})
	if err != nil {
		return nil, err
	}

	return toPreferenceResponse(pref), nil
}

func parseInt32(raw string) (int32, error) {
	if raw == "" {
		return 0, nil
	}

	val, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, err
	}

	return int32(val), nil
}
