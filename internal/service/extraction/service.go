// Package extraction turns scanned daily production reports into stored records.
package extraction

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/metrics"
	"github.com/mamadbah2/dyecalc/pkg/clients/anthropic"
)

var (
	// ErrExtractionDisabled is returned when no model API key is configured.
	ErrExtractionDisabled = errors.New("report extraction is not configured")
	// ErrInvalidDocument indicates an empty or undecodable upload.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrExtractionFailed wraps failures of the extraction model.
	ErrExtractionFailed = errors.New("report extraction failed")
)

// RecordStore is the subset of the reporting service used to keep results.
type RecordStore interface {
	AddRecord(ctx context.Context, record models.ProductionRecord) (models.ProductionRecord, error)
}

// Service reads production reports through the extraction model.
type Service struct {
	client anthropic.Client
	store  RecordStore
	logger *zap.Logger
}

// NewService builds the extraction service. A nil client disables extraction.
func NewService(client anthropic.Client, store RecordStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, store: store, logger: logger}
}

// Enabled reports whether a model client is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// ExtractBase64 extracts and stores a report given as base64 text.
func (s *Service) ExtractBase64(ctx context.Context, data, mimeType string) (models.ProductionRecord, error) {
	data = stripDataURL(strings.TrimSpace(data))
	if data == "" {
		metrics.ExtractionRequests.WithLabelValues("invalid").Inc()
		return models.ProductionRecord{}, fmt.Errorf("%w: content is empty", ErrInvalidDocument)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		metrics.ExtractionRequests.WithLabelValues("invalid").Inc()
		return models.ProductionRecord{}, fmt.Errorf("%w: content is not base64", ErrInvalidDocument)
	}
	return s.extract(ctx, anthropic.Document{Data: data, MimeType: mimeType})
}

// ExtractBytes extracts and stores a report uploaded as raw bytes.
func (s *Service) ExtractBytes(ctx context.Context, content []byte, mimeType string) (models.ProductionRecord, error) {
	if len(content) == 0 {
		metrics.ExtractionRequests.WithLabelValues("invalid").Inc()
		return models.ProductionRecord{}, fmt.Errorf("%w: content is empty", ErrInvalidDocument)
	}
	return s.extract(ctx, anthropic.Document{Data: base64.StdEncoding.EncodeToString(content), MimeType: mimeType})
}

func (s *Service) extract(ctx context.Context, doc anthropic.Document) (models.ProductionRecord, error) {
	if s.client == nil {
		return models.ProductionRecord{}, ErrExtractionDisabled
	}

	record, err := s.client.ExtractProductionReport(ctx, doc)
	if err != nil {
		if errors.Is(err, anthropic.ErrUnsupportedMedia) {
			metrics.ExtractionRequests.WithLabelValues("invalid").Inc()
			return models.ProductionRecord{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		metrics.ExtractionRequests.WithLabelValues("failed").Inc()
		s.logger.Error("production report extraction failed", zap.String("mime_type", doc.MimeType), zap.Error(err))
		return models.ProductionRecord{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	stored, err := s.store.AddRecord(ctx, record)
	if err != nil {
		metrics.ExtractionRequests.WithLabelValues("failed").Inc()
		return models.ProductionRecord{}, err
	}

	metrics.ExtractionRequests.WithLabelValues("ok").Inc()
	s.logger.Info("production report extracted", zap.String("record_id", stored.ID), zap.String("date", stored.Date))
	return stored, nil
}

// stripDataURL accepts "data:application/pdf;base64,..." as sent by browsers.
func stripDataURL(data string) string {
	if strings.HasPrefix(data, "data:") {
		if i := strings.Index(data, ","); i >= 0 {
			return data[i+1:]
		}
	}
	return data
}
