package inbound

import (
	"github.com/collegeprep/notifier/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/auth/password/forgot", end.PasswordForgot)
	r.POST("/api/v1/auth/password/reset", end.PasswordReset)

	r.GET("/api/v1/email/preferences", end.GetEmailPreference)
	r.PUT("/api/v1/email/preferences", end.UpdateEmailPreference)
	r.POST("/api/v1/email/unsubscribe", end.Unsubscribe)

	r.GET("/api/v1/email/logs", end.ListEmailLogs)
	r.GET("/api/v1/email/stats", end.EmailStats)
	r.POST("/api/v1/email/reports/trigger", end.TriggerReports)
	r.POST("/api/v1/email/sweeper/run", end.RunSweep)
}
