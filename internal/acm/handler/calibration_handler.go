package handler

import (
	"encoding/json"

	"github.com/Yash-Aparajit/Asset-Compliance-Manager/internal/acm/service"
	"github.com/gin-gonic/gin"
)

// CalibrationHandler serves the calibration history.
type CalibrationHandler struct {
	svc *service.CalibrationService
}

func NewCalibrationHandler(svc *service.CalibrationService) *CalibrationHandler {
	return &CalibrationHandler{svc: svc}
}

// Save POST /calibrations (multipart)
//
// The record fields arrive as a JSON string in the "payload" form field so
// the attachments can ride along in the same request.
func (h *CalibrationHandler) Save(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		BadRequest(c, "The payload field is required")
		return
	}
	var req service.SaveCalibrationRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		BadRequest(c, "Invalid payload: "+err.Error())
		return
	}

	var docs []service.DocumentInput
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		docTypes := form.Value["doc_type"]
		for i, header := range form.File["files"] {
			file, err := header.Open()
			if err != nil {
				BadRequest(c, "Could not read uploaded file: "+err.Error())
				return
			}
			defer file.Close()
			docType := ""
			if i < len(docTypes) {
				docType = docTypes[i]
			}
			docs = append(docs, service.DocumentInput{
				DocType:     docType,
				FileName:    header.Filename,
				Reader:      file,
				FileSize:    header.Size,
				ContentType: header.Header.Get("Content-Type"),
			})
		}
	}

	record, err := h.svc.Save(c.Request.Context(), GetUserID(c), &req, docs)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, record)
}

// Get GET /calibrations/:id
func (h *CalibrationHandler) Get(c *gin.Context) {
	view, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, view)
}

// History GET /assets/:id/calibrations
func (h *CalibrationHandler) History(c *gin.Context) {
	views, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": views})
}

// DownloadDocument GET /calibrations/documents/:docId/download
func (h *CalibrationHandler) DownloadDocument(c *gin.Context) {
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
