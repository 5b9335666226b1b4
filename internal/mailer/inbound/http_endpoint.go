package inbound

import (
	"strconv"

	"github.com/collegeprep/notifier/internal/mailer/entity"
	"github.com/collegeprep/notifier/internal/mailer/usecase"
	"github.com/collegeprep/notifier/internal/pkg/goerror"
	"github.com/collegeprep/notifier/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// PasswordForgot requests a password reset email.
// @Summary Request password reset
// @Description Sends a reset link when the address is registered; the response never reveals whether it is.
// @Tags Auth
// @Accept json
// @Param request body PasswordForgotRequest true "Email address"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Too many reset requests"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/password/forgot [post]
func (h *HTTPEndpoint) PasswordForgot(r *router.Request) (any, error) {
	var req PasswordForgotRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.PasswordForgot(r.Context(), usecase.PasswordForgotInput{
		Email:     req.Email,
		IPAddress: r.ClientIP(),
		UserAgent: r.UserAgent(),
	})
}

// PasswordReset sets a new password using a reset token.
// @Summary Reset password
// @Description Consumes a reset token exactly once and sets the new password.
// @Tags Auth
// @Accept json
// @Param request body PasswordResetRequest true "Token and new password"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid or expired token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/auth/password/reset [post]
func (h *HTTPEndpoint) PasswordReset(r *router.Request) (any, error) {
	var req PasswordResetRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.PasswordReset(r.Context(), usecase.PasswordResetInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})
}

// GetEmailPreference returns the caller's email switches.
// @Summary Get email preference
// @Description Returns the per-address email switchboard of the authenticated user.
// @Tags Email
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=EmailPreferenceResponse} "Email preference"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/preferences [get]
func (h *HTTPEndpoint) GetEmailPreference(r *router.Request) (any, error) {
	pref, err := h.uc.GetEmailPreference(r.Context())
	if err != nil {
		return nil, err
	}

	return toEmailPreferenceResponse(pref), nil
}

// UpdateEmailPreference partially updates the caller's email switches.
// @Summary Update email preference
// @Description Applies a partial update; untouched switches keep their values.
// @Tags Email
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateEmailPreferenceRequest true "Preference patch"
// @Success 200 {object} router.successResponse{data=EmailPreferenceResponse} "Merged preference"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/preferences [put]
func (h *HTTPEndpoint) UpdateEmailPreference(r *router.Request) (any, error) {
	var req UpdateEmailPreferenceRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	pref, err := h.uc.UpdateEmailPreference(r.Context(), usecase.UpdateEmailPreferenceInput{
		Patch: entity.EmailPreferencePatch{
			EmailNotificationsEnabled: req.EmailNotificationsEnabled,
			ReportEmailsEnabled:       req.ReportEmailsEnabled,
			MarketingEnabled:          req.MarketingEnabled,
		},
	})
	if err != nil {
		return nil, err
	}

	return toEmailPreferenceResponse(pref), nil
}

// Unsubscribe is the one-click opt-out from email footers.
// @Summary Unsubscribe
// @Description Disables all email to an address; the token ties the link to the address it was minted for.
// @Tags Email
// @Accept json
// @Param request body UnsubscribeRequest true "Address and footer token"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Invalid unsubscribe token"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/unsubscribe [post]
func (h *HTTPEndpoint) Unsubscribe(r *router.Request) (any, error) {
	var req UnsubscribeRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.Unsubscribe(r.Context(), usecase.UnsubscribeInput{
		Email: req.Email,
		Token: req.Token,
	})
}

// ListEmailLogs returns the outbound email audit trail.
// @Summary List email logs
// @Description Returns outbound email records, newest first; admin only.
// @Tags Email
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (pending|sent|failed)"
// @Param type query string false "Filter by email type"
// @Param recipient query string false "Filter by recipient address"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=EmailLogsResponse} "Email log list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/logs [get]
func (h *HTTPEndpoint) ListEmailLogs(r *router.Request) (any, error) {
	query := r.URL.Query()
	limit, err := parseInt32(query.Get("limit"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}
	offset, err := parseInt32(query.Get("offset"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	items, err := h.uc.ListEmailLogs(r.Context(), usecase.ListEmailLogsInput{
		Status:    query.Get("status"),
		EmailType: query.Get("type"),
		Recipient: query.Get("recipient"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]EmailLogResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, EmailLogResponse{
			ID:             item.ID,
			RecipientEmail: item.RecipientEmail,
			RecipientName:  item.RecipientName,
			Subject:        item.Subject,
			EmailType:      item.EmailType.String(),
			Status:         item.Status.String(),
			ErrorMessage:   item.ErrorMessage,
			RetryCount:     item.RetryCount,
			CreatedAt:      item.CreatedAt,
			SentAt:         item.SentAt,
		})
	}

	return EmailLogsResponse{Logs: resp}, nil
}

// EmailStats aggregates delivery outcomes.
// @Summary Email statistics
// @Description Aggregates email delivery outcomes over a trailing window; admin only.
// @Tags Email
// @Security BearerAuth
// @Produce json
// @Param since_days query int false "Window size in days (default 30)"
// @Success 200 {object} router.successResponse{data=EmailStatsResponse} "Aggregated statistics"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/stats [get]
func (h *HTTPEndpoint) EmailStats(r *router.Request) (any, error) {
	sinceDays, err := parseInt32(r.URL.Query().Get("since_days"))
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	stats, err := h.uc.EmailStats(r.Context(), usecase.EmailStatsInput{SinceDays: sinceDays})
	if err != nil {
		return nil, err
	}

	return EmailStatsResponse{
		Total:   stats.Total,
		Sent:    stats.Sent,
		Failed:  stats.Failed,
		Pending: stats.Pending,
		ByType:  stats.ByType,
	}, nil
}

// TriggerReports generates monthly reports on demand.
// @Summary Trigger monthly reports
// @Description Generates monthly reports for a period; repeated triggers for the same period are rejected. Admin only.
// @Tags Email
// @Security BearerAuth
// @Accept json
// @Param request body TriggerReportsRequest true "Period and optional report type"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 409 {object} router.errorResponse "Reports already generated or in progress"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/reports/trigger [post]
func (h *HTTPEndpoint) TriggerReports(r *router.Request) (any, error) {
	var req TriggerReportsRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	return nil, h.uc.TriggerReports(r.Context(), usecase.TriggerReportsInput{
		Year:  req.Year,
		Month: req.Month,
		Type:  req.Type,
	})
}

// RunSweep runs the maintenance sweep on demand.
// @Summary Run sweeper
// @Description Deletes expired unused reset tokens and retries failed emails; admin only.
// @Tags Email
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=SweepResponse} "Sweep outcome"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/email/sweeper/run [post]
func (h *HTTPEndpoint) RunSweep(r *router.Request) (any, error) {
	result, err := h.uc.AdminRunSweep(r.Context())
	if err != nil {
		return nil, err
	}

	return SweepResponse{
		TokensDeleted: result.TokensDeleted,
		EmailsRetried: result.EmailsRetried,
	}, nil
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
