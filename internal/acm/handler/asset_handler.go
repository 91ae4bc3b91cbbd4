package handler

import (
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/gin-gonic/gin"
)

// AssetHandler serves the asset register.
type AssetHandler struct {
	svc *service.AssetService
}

func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

// Create POST /assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	asset, err := h.svc.Create(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, asset)
}

// Update PUT /assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	asset, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, asset)
}

// Get GET /assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, detail)
}

// List GET /assets
func (h *AssetHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)

	filters := map[string]interface{}{}
	if search := c.Query("search"); search != "" {
		filters["search"] = search
	}
	if plant := c.Query("plant"); plant != "" {
		filters["plant"] = plant
	}
	if department := c.Query("department"); department != "" {
		filters["department"] = department
	}
	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}

	result, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, result)
}

// FilterOptions GET /assets/filter-options
func (h *AssetHandler) FilterOptions(c *gin.Context) {
	plants, departments, err := h.svc.FilterOptions(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{
		"plants":      plants,
		"departments": departments,
	})
}
