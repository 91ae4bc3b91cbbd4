package handler

import (
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/gin-gonic/gin"
)

// ScrapHandler serves the scrap workflow.
type ScrapHandler struct {
	svc *service.ScrapService
}

func NewScrapHandler(svc *service.ScrapService) *ScrapHandler {
	return &ScrapHandler{svc: svc}
}

// Scrap POST /assets/:id/scrap (multipart, developer only)
func (h *ScrapHandler) Scrap(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "The approval note file is required")
		return
	}
	defer file.Close()

	req := &service.ScrapRequest{
		ScrapDate:  c.PostForm("scrap_date"),
		ApprovedBy: c.PostForm("approved_by"),
		Reason:     c.PostForm("reason"),
	}

	record, err := h.svc.Scrap(c.Request.Context(), c.Param("id"), GetUserID(c),
		req, header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, record)
}

// Get GET /assets/:id/scrap
func (h *ScrapHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, record)
}

// List GET /scrap-records
func (h *ScrapHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	records, total, err := h.svc.List(c.Request.Context(), page, pageSize)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"items": records,
		"total": total,
	})
}

// DownloadNote GET /assets/:id/scrap/note
func (h *ScrapHandler) DownloadNote(c *gin.Context) {
	reader, record, err := h.svc.DownloadNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+record.StoredName+"\"")
	c.DataFromReader(200, record.FileSize, "application/pdf", reader, nil)
}
