package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the booking endpoints. bookingLimit throttles
// appointment creation.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, bookingLimit gin.HandlerFunc) {
	doctors := g.Group("/doctors")
	doctors.GET("/:id/slots", h.Slots)
	doctors.GET("/:id/appointments", authMiddleware, h.ListByDoctor)

	group := g.Group("/appointments")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", bookingLimit, h.Create)
		group.GET("/:id", h.Get)
	}
}
