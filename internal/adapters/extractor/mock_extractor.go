package extractor

import (
	"context"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// MockAddressExtractor returns canned parse results for tests.
type MockAddressExtractor struct {
	Addresses []ports.ParsedAddress
	Err       error
}

func (m *MockAddressExtractor) ExtractAddresses(
	_ context.Context,
	_ ports.ExtractionInput,
) ([]ports.ParsedAddress, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Addresses, nil
}
