package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

func TestExtractAddressesMapsResponse(t *testing.T) {
	var got extractRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/extractAddresses" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode([]extractedAddress{
			{FullAddress: "Rua das Flores, 10", City: "São Paulo", PostalCode: "01000-000"},
			{Street: "Av. Paulista", Number: "1000"},
			{}, // no address text at all, dropped
		})
	}))
	defer srv.Close()

	e, err := NewHTTPAddressExtractor(srv.URL, "key")
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	parsed, err := e.ExtractAddresses(context.Background(), ports.ExtractionInput{Text: "duas entregas"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if got.Text != "duas entregas" {
		t.Fatalf("request text = %q", got.Text)
	}
	if len(parsed) != 2 {
		t.Fatalf("parsed %d addresses, want 2", len(parsed))
	}
	if parsed[0].FullAddress != "Rua das Flores, 10" || parsed[0].City != "São Paulo" {
		t.Fatalf("first address = %+v", parsed[0])
	}
	if parsed[1].Street != "Av. Paulista" || parsed[1].Number != "1000" {
		t.Fatalf("second address = %+v", parsed[1])
	}
}

func TestExtractAddressesRejectsEmptyInput(t *testing.T) {
	e, err := NewHTTPAddressExtractor("http://localhost:9", "key")
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	if _, err := e.ExtractAddresses(context.Background(), ports.ExtractionInput{Text: "   "}); err == nil {
		t.Fatal("expected error for blank input")
	}
}

func TestExtractAddressesServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e, err := NewHTTPAddressExtractor(srv.URL, "key")
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	if _, err := e.ExtractAddresses(context.Background(), ports.ExtractionInput{Text: "rua x"}); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestExtractAddressesEmptyResultIsNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]extractedAddress{})
	}))
	defer srv.Close()

	e, err := NewHTTPAddressExtractor(srv.URL, "key")
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}

	parsed, err := e.ExtractAddresses(context.Background(), ports.ExtractionInput{Text: "sem endereço"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(parsed) != 0 {
		t.Fatalf("parsed = %v, want empty", parsed)
	}
}
