package ports

import "context"

// ParsedAddress is a partial address record extracted from raw driver
// input. Every field is optional; an empty extraction result (no addresses
// at all) signals that nothing was recognized.
type ParsedAddress struct {
	FullAddress   string
	Street        string
	Number        string
	Neighborhood  string
	Complement    string
	PostalCode    string
	City          string
	Region        string
	RecipientName string
	Phone         string
}

// ExtractionInput is the raw capture payload: free text, or an image as
// base64 with its mime type.
type ExtractionInput struct {
	Text        string
	ImageBase64 string
	ImageMime   string
}

// Port: the external NLP address-extraction collaborator.
type AddressExtractor interface {
	ExtractAddresses(ctx context.Context, input ExtractionInput) ([]ParsedAddress, error)
}
