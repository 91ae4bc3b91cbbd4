package handler

import (
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/gin-gonic/gin"
)

// ContractHandler serves the AMC lifecycle.
type ContractHandler struct {
	svc *service.ContractService
}

func NewContractHandler(svc *service.ContractService) *ContractHandler {
	return &ContractHandler{svc: svc}
}

// Create POST /contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	contract, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, contract)
}

// Get GET /contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, view)
}

// List GET /contracts
func (h *ContractHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if assetID := c.Query("asset_id"); assetID != "" {
		filters["asset_id"] = assetID
	}
	if open := c.Query("open"); open == "true" {
		filters["open"] = true
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, result)
}

// AddEvent POST /contracts/:id/events
func (h *ContractHandler) AddEvent(c *gin.Context) {
	var req service.AddEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	event, err := h.svc.AddEvent(c.Request.Context(), c.Param("id"), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, event)
}

// AddDocument POST /contracts/:id/documents (multipart)
func (h *ContractHandler) AddDocument(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		BadRequest(c, "A file is required")
		return
	}
	defer file.Close()

	doc, err := h.svc.AddDocument(c.Request.Context(), c.Param("id"), GetUserID(c),
		c.PostForm("doc_type"), header.Filename, file, header.Size,
		header.Header.Get("Content-Type"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, doc)
}

// DownloadDocument GET /contracts/documents/:docId/download
func (h *ContractHandler) DownloadDocument(c *gin.Context) {
	reader, doc, err := h.svc.DownloadDocument(c.Request.Context(), c.Param("docId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "attachment; filename=\""+doc.StoredName+"\"")
	c.DataFromReader(200, doc.FileSize, "application/pdf", reader, nil)
}

// Complete POST /contracts/:id/complete
func (h *ContractHandler) Complete(c *gin.Context) {
	view, err := h.svc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, view)
}

// Cancel POST /contracts/:id/cancel
func (h *ContractHandler) Cancel(c *gin.Context) {
	view, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, view)
}
