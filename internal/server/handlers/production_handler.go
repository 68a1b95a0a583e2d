package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/service/extraction"
	"github.com/mamadbah2/dyecalc/internal/service/reporting"
)

// maxUploadBytes bounds multipart report uploads.
const maxUploadBytes = 20 << 20

// ProductionHandler serves production records, extraction and the dashboard.
type ProductionHandler struct {
	reporting  *reporting.Service
	extraction *extraction.Service
	logger     *zap.Logger
}

// NewProductionHandler constructs the HTTP handler adapter.
func NewProductionHandler(reportingSvc *reporting.Service, extractionSvc *extraction.Service, logger *zap.Logger) *ProductionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductionHandler{reporting: reportingSvc, extraction: extractionSvc, logger: logger}
}

// Create stores a manually entered record.
func (h *ProductionHandler) Create(c *gin.Context) {
	var record models.ProductionRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	stored, err := h.reporting.AddRecord(c.Request.Context(), record)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// List returns every stored record.
func (h *ProductionHandler) List(c *gin.Context) {
	records, err := h.reporting.Records(c.Request.Context())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	if records == nil {
		records = []models.ProductionRecord{}
	}
	c.JSON(http.StatusOK, records)
}

type extractRequest struct {
	Content    string `json:"content"`
	Base64Data string `json:"base64Data"`
	MimeType   string `json:"mimeType"`
}

// Extract reads a report scan sent as JSON base64 or as a multipart "file".
func (h *ProductionHandler) Extract(c *gin.Context) {
	var (
		record models.ProductionRecord
		err    error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		record, err = h.extractUpload(c)
	} else {
		var body extractRequest
		if bindErr := c.ShouldBindJSON(&body); bindErr != nil {
			badRequest(c, h.logger, bindErr)
			return
		}
		data := body.Content
		if data == "" {
			data = body.Base64Data
		}
		record, err = h.extraction.ExtractBase64(c.Request.Context(), data, body.MimeType)
	}
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *ProductionHandler) extractUpload(c *gin.Context) (models.ProductionRecord, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("%w: missing file field", extraction.ErrInvalidDocument)
	}
	if header.Size > maxUploadBytes {
		return models.ProductionRecord{}, fmt.Errorf("%w: file exceeds %d bytes", extraction.ErrInvalidDocument, maxUploadBytes)
	}

	f, err := header.Open()
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("read upload: %w", err)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(content)
	}
	return h.extraction.ExtractBytes(c.Request.Context(), content, mimeType)
}

// Dashboard returns the production aggregate, or {"status":"no_data"}.
func (h *ProductionHandler) Dashboard(c *gin.Context) {
	summary, ok, err := h.reporting.Dashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "no_data"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
