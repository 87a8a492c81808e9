package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/platform/obs"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// HTTPAddressExtractor implements AddressExtractor against the external
// extraction proxy. A response with zero addresses is not an error here;
// the caller surfaces it as "nothing recognized".
type HTTPAddressExtractor struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewHTTPAddressExtractor(baseURL, apiKey string) (*HTTPAddressExtractor, error) {
	if baseURL == "" {
		return nil, errors.New("extractor base URL is empty")
	}

	return &HTTPAddressExtractor{
		session: &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

type extractRequest struct {
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"imageBase64,omitempty"`
	ImageMime   string `json:"imageMimeType,omitempty"`
}

type extractedAddress struct {
	FullAddress   string `json:"fullAddress"`
	Street        string `json:"street"`
	Number        string `json:"number"`
	Neighborhood  string `json:"bairro"`
	Complement    string `json:"complemento"`
	PostalCode    string `json:"cep"`
	City          string `json:"city"`
	Region        string `json:"state"`
	RecipientName string `json:"recipientName"`
	Phone         string `json:"telefone"`
}

func (e *HTTPAddressExtractor) ExtractAddresses(
	ctx context.Context,
	input ports.ExtractionInput,
) (_ []ports.ParsedAddress, err error) {
	defer obs.Time(ctx, "extractor.ExtractAddresses")(&err)

	if strings.TrimSpace(input.Text) == "" && input.ImageBase64 == "" {
		return nil, errors.New("extract addresses: input is empty")
	}

	payload, err := json.Marshal(extractRequest{
		Text:        input.Text,
		ImageBase64: input.ImageBase64,
		ImageMime:   input.ImageMime,
	})
	if err != nil {
		return nil, fmt.Errorf("extract addresses: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/extractAddresses", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("extract addresses: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract addresses: call extraction service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("extract addresses: service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var raw []extractedAddress
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("extract addresses: decode response: %w", err)
	}

	out := make([]ports.ParsedAddress, 0, len(raw))
	for _, a := range raw {
		// Entries with no address text at all carry no signal.
		if strings.TrimSpace(a.FullAddress) == "" && strings.TrimSpace(a.Street) == "" {
			continue
		}
		out = append(out, ports.ParsedAddress(a))
	}

	return out, nil
}
