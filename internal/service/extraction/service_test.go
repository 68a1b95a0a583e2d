package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/dyecalc/internal/domain/models"
	"github.com/mamadbah2/dyecalc/internal/repository/memory"
	"github.com/mamadbah2/dyecalc/internal/service/reporting"
	"github.com/mamadbah2/dyecalc/pkg/clients/anthropic"
)

type fakeClient struct {
	record models.ProductionRecord
	err    error
	got    anthropic.Document
}

func (f *fakeClient) ExtractProductionReport(_ context.Context, doc anthropic.Document) (models.ProductionRecord, error) {
	f.got = doc
	return f.record, f.err
}

func newStore() *reporting.Service {
	return reporting.NewService(memory.NewProductionRepository(), nil, reporting.Rates{}, nil)
}

func TestExtractBase64_StoresRecord(t *testing.T) {
	client := &fakeClient{record: models.ProductionRecord{
		Date:     "29 Dec 2025",
		Lantabur: models.IndustryData{Total: 300},
		Taqwa:    models.IndustryData{Total: 200},
	}}
	store := newStore()
	svc := NewService(client, store, nil)

	stored, err := svc.ExtractBase64(context.Background(), "data:application/pdf;base64,JVBERi0xLjQ=", "application/pdf")
	if err != nil {
		t.Fatalf("ExtractBase64: %v", err)
	}
	if client.got.Data != "JVBERi0xLjQ=" {
		t.Fatalf("data url prefix not stripped: %q", client.got.Data)
	}
	if stored.ID == "" || stored.TotalProduction != 500 {
		t.Fatalf("stored = %+v", stored)
	}

	records, _ := store.Records(context.Background())
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
}

func TestExtractBytes_EncodesContent(t *testing.T) {
	client := &fakeClient{record: models.ProductionRecord{Date: "2025-12-29"}}
	svc := NewService(client, newStore(), nil)

	if _, err := svc.ExtractBytes(context.Background(), []byte("hi"), "image/png"); err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if client.got.Data != "aGk=" || client.got.MimeType != "image/png" {
		t.Fatalf("document = %+v", client.got)
	}
}

func TestExtract_Errors(t *testing.T) {
	ctx := context.Background()

	if _, err := NewService(nil, newStore(), nil).ExtractBase64(ctx, "aGk=", "image/png"); !errors.Is(err, ErrExtractionDisabled) {
		t.Fatalf("nil client: err = %v", err)
	}

	svc := NewService(&fakeClient{}, newStore(), nil)
	if _, err := svc.ExtractBase64(ctx, "", "image/png"); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("empty: err = %v", err)
	}
	if _, err := svc.ExtractBase64(ctx, "%%%", "image/png"); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("not base64: err = %v", err)
	}
	if _, err := svc.ExtractBytes(ctx, nil, "image/png"); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("no bytes: err = %v", err)
	}

	failing := NewService(&fakeClient{err: errors.New("upstream 529")}, newStore(), nil)
	if _, err := failing.ExtractBase64(ctx, "aGk=", "image/png"); !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("client failure: err = %v", err)
	}

	unsupported := NewService(&fakeClient{err: anthropic.ErrUnsupportedMedia}, newStore(), nil)
	if _, err := unsupported.ExtractBase64(ctx, "aGk=", "text/csv"); !errors.Is(err, ErrInvalidDocument) {
		t.Fatalf("unsupported media: err = %v", err)
	}

	invalid := NewService(&fakeClient{record: models.ProductionRecord{}}, newStore(), nil)
	if _, err := invalid.ExtractBase64(ctx, "aGk=", "image/png"); !errors.Is(err, reporting.ErrInvalidRecord) {
		t.Fatalf("undated record: err = %v", err)
	}
}
