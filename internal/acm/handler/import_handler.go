package handler

import (
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/gin-gonic/gin"
)

// ImportHandler serves the two-step bulk import plus the register export.
type ImportHandler struct {
	svc *service.ImportService
}

func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Upload POST /assets/import (multipart)
func (h *ImportHandler) Upload(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "An .xlsx file is required")
		return
	}
	defer file.Close()

	preview, err := h.svc.Upload(c.Request.Context(), GetUserID(c), file)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, preview)
}

// Confirm POST /assets/import/confirm
func (h *ImportHandler) Confirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	count, err := h.svc.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"imported": count})
}

// DownloadTemplate GET /assets/import/template
func (h *ImportHandler) DownloadTemplate(c *gin.Context) {
	f, err := h.svc.Template()
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"Asset_Import_Template.xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write template: "+err.Error())
	}
}

// Export GET /assets/export
func (h *ImportHandler) Export(c *gin.Context) {
	f, err := h.svc.Export(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"Asset_Register.xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "write excel: "+err.Error())
	}
}
