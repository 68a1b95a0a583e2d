package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseReport(t *testing.T) {
	const body = `{"date": "29 Dec 2025",
 "lantabur": {"total": 41000, "loadingCap": 87, "inhouse": 38000, "subContract": 3000,
   "colorGroups": [{"groupName": "Black", "weight": 9000}]},
 "taqwa": {"total": 12000, "inhouse": 12000, "subContract": 0, "colorGroups": []}}`

	for name, text := range map[string]string{
		"plain":            body,
		"fenced":           "```json\n" + body + "\n```",
		"prefilled fenced": "{```json\n" + body + "\n```",
		"trailing prose":   body + "\nLet me know if you need more.",
	} {
		record, err := ParseReport(text)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if record.Date != "29 Dec 2025" || record.Lantabur.Total != 41000 || record.Taqwa.Total != 12000 {
			t.Fatalf("%s: record = %+v", name, record)
		}
		if record.Lantabur.LoadingCap == nil || *record.Lantabur.LoadingCap != 87 {
			t.Fatalf("%s: loadingCap = %v", name, record.Lantabur.LoadingCap)
		}
		if len(record.Lantabur.ColorGroups) != 1 || record.Lantabur.ColorGroups[0].GroupName != "Black" {
			t.Fatalf("%s: colour groups = %+v", name, record.Lantabur.ColorGroups)
		}
	}

	if _, err := ParseReport("not json"); err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if _, err := ParseReport(`{"lantabur": {"total": 1}}`); err == nil {
		t.Fatalf("expected error for missing date")
	}
}

func TestExtractProductionReport(t *testing.T) {
	var got messageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"\"date\":\"2025-12-29\",\"lantabur\":{\"total\":10},\"taqwa\":{\"total\":5}}"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	record, err := client.ExtractProductionReport(context.Background(), Document{Data: "JVBERi0=", MimeType: "application/pdf"})
	if err != nil {
		t.Fatalf("ExtractProductionReport: %v", err)
	}
	if record.Date != "2025-12-29" || record.Lantabur.Total != 10 || record.Taqwa.Total != 5 {
		t.Fatalf("record = %+v", record)
	}

	if got.Model != defaultModel || len(got.Messages) != 2 {
		t.Fatalf("request = %+v", got)
	}
	first := got.Messages[0].Content[0]
	if first.Type != "document" || first.Source == nil || first.Source.MediaType != "application/pdf" {
		t.Fatalf("document block = %+v", first)
	}
	if !strings.Contains(got.System, "Double Part -Black") {
		t.Fatalf("system prompt does not list the colour groups")
	}
}

func TestExtractProductionReport_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	_, err := client.ExtractProductionReport(context.Background(), Document{Data: "aGk=", MimeType: "image/png"})
	if err == nil || !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("err = %v, want api message", err)
	}
}

func TestExtractProductionReport_UnsupportedMedia(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	_, err := client.ExtractProductionReport(context.Background(), Document{Data: "aGk=", MimeType: "text/csv"})
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("err = %v, want ErrUnsupportedMedia", err)
	}
}
