package handler

import (
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/gin-gonic/gin"
)

// ReminderHandler serves the derived reminder view.
type ReminderHandler struct {
	svc *service.ReminderService
}

func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{svc: svc}
}

// List GET /reminders
func (h *ReminderHandler) List(c *gin.Context) {
	reminders, err := h.svc.Compute(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": reminders})
}

// Summary GET /reminders/summary
func (h *ReminderHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, summary)
}

// Acknowledge POST /reminders/acknowledge
func (h *ReminderHandler) Acknowledge(c *gin.Context) {
	var req service.AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	ack, err := h.svc.Acknowledge(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, ack)
}
