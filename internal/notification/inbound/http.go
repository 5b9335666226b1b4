package inbound

import (
	"github.com/collegeprep/notifier/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notifications", end.List)
	r.GET("/api/v1/notifications/unread-count", end.UnreadCount)
	r.PATCH("/api/v1/notifications/:id/read", end.MarkRead)
	r.PUT("/api/v1/notifications/read-all", end.MarkAllRead)
	r.DELETE("/api/v1/notifications/:id", end.Delete)

	r.POST("/api/v1/notifications", end.AdminCreate)
	r.POST("/api/v1/notifications/course", end.NotifyCourse)

	r.GET("/api/v1/notifications/types", end.ListTypes)
	r.GET("/api/v1/notifications/templates", end.ListTemplates)
	r.PUT("/api/v1/notifications/templates/:type", end.UpdateTemplate)

	r.GET("/api/v1/notifications/preferences", end.ListPreferences)
	r.PUT("/api/v1/notifications/preferences/:type", end.UpdatePreference)
}
