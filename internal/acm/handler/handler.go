package handler

import (
	"errors"
	"strconv"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/config"
	"github.com/gin-gonic/gin"
)

// Handlers is the aggregate registered on the router.
type Handlers struct {
	Auth        *AuthHandler
	Asset       *AssetHandler
	Contract    *ContractHandler
	Calibration *CalibrationHandler
	Scrap       *ScrapHandler
	Reminder    *ReminderHandler
	Import      *ImportHandler
}

// NewHandlers wires the handler layer.
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:        NewAuthHandler(svc.Auth, cfg),
		Asset:       NewAssetHandler(svc.Asset),
		Contract:    NewContractHandler(svc.Contract),
		Calibration: NewCalibrationHandler(svc.Calibration),
		Scrap:       NewScrapHandler(svc.Scrap),
		Reminder:    NewReminderHandler(svc.Reminder),
		Import:      NewImportHandler(svc.Import),
	}
}

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success responds 200.
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created responds 201.
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error responds with a business code whose first three digits are the HTTP
// status.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest responds 400.
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized responds 401.
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden responds 403.
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound responds 404.
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict responds 409.
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError responds 500.
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleServiceError maps a service error kind onto its HTTP response.
func HandleServiceError(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		BadRequest(c, ve.Error())
		return
	}
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		Conflict(c, ce.Error())
		return
	}
	var ne *service.NotFoundError
	if errors.As(err, &ne) {
		NotFound(c, ne.Error())
		return
	}
	InternalError(c, err.Error())
}

// GetUserID reads the authenticated user id set by the JWT middleware.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
