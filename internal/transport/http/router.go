package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"vn.io.arda/notice/internal/transport/mw"
)

// NewRouter sets up all Echo routes and middleware. Reads are public;
// mutating routes require a bearer token signed with authSecret.
func NewRouter(h *Handler, authSecret string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	// Health (no auth required)
	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")

	// Public read endpoints
	v1.GET("/notices", h.ListNotices)
	v1.GET("/notices/stream", h.Stream)
	v1.GET("/notices/:uid", h.GetNotice)

	// Mutating endpoints — require authentication
	admin := v1.Group("", mw.BearerAuth(authSecret))
	admin.POST("/notices", h.CreateNotice)
	admin.PUT("/notices/:uid", h.UpdateNotice)
	admin.DELETE("/notices/:uid", h.DeleteNotice)
	admin.POST("/notices/:uid/attachments", h.UploadAttachments)
	admin.POST("/notices/:uid/attachments/bulk-delete", h.BulkDeleteAttachments)

	return e
}
