package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/platform/obs"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// HTTPRouteOptimizer implements RouteOptimizer against the external
// route-ordering proxy.
//
// The collaborator receives the address list and an optional origin hint
// and answers with one {id, order} entry per address, order being a dense
// 1-based sequence. Anything else is a degraded response; the caller is
// expected to fall back to identity order.
//
// The adapter is safe for concurrent use.
type HTTPRouteOptimizer struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewHTTPRouteOptimizer(baseURL, apiKey string) (*HTTPRouteOptimizer, error) {
	if baseURL == "" {
		return nil, errors.New("optimizer base URL is empty")
	}

	return &HTTPRouteOptimizer{
		session: &http.Client{Timeout: 20 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
	}, nil
}

type optimizeAddress struct {
	ID          string `json:"id"`
	FullAddress string `json:"fullAddress"`
	Street      string `json:"street,omitempty"`
	Number      string `json:"number,omitempty"`
	City        string `json:"city,omitempty"`
	PostalCode  string `json:"cep,omitempty"`
}

type optimizeRequest struct {
	Addresses       []optimizeAddress `json:"addresses"`
	CurrentLocation *coordinates      `json:"currentLocation,omitempty"`
	ManualOrigin    string            `json:"manualOriginAddress,omitempty"`
}

type coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type optimizeEntry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Optimize sends the package list to the ordering service and returns the
// computed permutation.
func (o *HTTPRouteOptimizer) Optimize(
	ctx context.Context,
	packages []*domain.Package,
	origin domain.OriginHint,
) (_ []ports.OrderedStop, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	if len(packages) == 0 {
		return []ports.OrderedStop{}, nil
	}

	// A single package needs no external call.
	if len(packages) == 1 {
		return []ports.OrderedStop{{PackageID: packages[0].ID, SequenceNumber: 1}}, nil
	}

	reqBody := optimizeRequest{
		Addresses:    make([]optimizeAddress, 0, len(packages)),
		ManualOrigin: origin.ManualAddress,
	}
	for _, p := range packages {
		reqBody.Addresses = append(reqBody.Addresses, optimizeAddress{
			ID:          p.ID,
			FullAddress: p.FullAddress,
			Street:      p.Street,
			Number:      p.Number,
			City:        p.City,
			PostalCode:  p.PostalCode,
		})
	}
	if origin.Location != nil {
		reqBody.CurrentLocation = &coordinates{
			Latitude:  origin.Location.Lat,
			Longitude: origin.Location.Lon,
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("optimize route: marshal request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, o.baseURL+"/optimizeRoute", bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("optimize route: call ordering service: %w", err)
	}
	defer resp.Body.Close()

	var entries []optimizeEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("optimize route: decode response: %w", err)
	}

	stops, err := validatePermutation(packages, entries)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	return stops, nil
}

// validatePermutation checks the response covers exactly the input ids with
// a dense 1..N ordering. A violated contract is an error so the caller can
// apply the identity-order fallback.
func validatePermutation(packages []*domain.Package, entries []optimizeEntry) ([]ports.OrderedStop, error) {
	if len(entries) != len(packages) {
		return nil, fmt.Errorf("expected %d entries, got %d", len(packages), len(entries))
	}

	known := make(map[string]struct{}, len(packages))
	for _, p := range packages {
		known[p.ID] = struct{}{}
	}

	seenID := make(map[string]struct{}, len(entries))
	seenOrder := make(map[int]struct{}, len(entries))
	stops := make([]ports.OrderedStop, 0, len(entries))

	for _, e := range entries {
		if _, ok := known[e.ID]; !ok {
			return nil, fmt.Errorf("unknown package id %q in response", e.ID)
		}
		if _, dup := seenID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate package id %q in response", e.ID)
		}
		if e.Order < 1 || e.Order > len(entries) {
			return nil, fmt.Errorf("order %d out of range for id %q", e.Order, e.ID)
		}
		if _, dup := seenOrder[e.Order]; dup {
			return nil, fmt.Errorf("duplicate order %d in response", e.Order)
		}

		seenID[e.ID] = struct{}{}
		seenOrder[e.Order] = struct{}{}
		stops = append(stops, ports.OrderedStop{PackageID: e.ID, SequenceNumber: e.Order})
	}

	return stops, nil
}
