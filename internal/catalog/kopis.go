// Package catalog talks to the KOPIS performance arts database, the external
// source of performance, venue and price information.
package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/metinatakli/seat-reservation-system/internal/domain"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const DefaultBaseURL = "http://www.kopis.or.kr/openApi/restful"

type kopisEnvelope struct {
	XMLName xml.Name      `xml:"dbs"`
	DB      []kopisDetail `xml:"db"`
}

type kopisDetail struct {
	ID           string `xml:"mt20id"`
	Title        string `xml:"prfnm"`
	FacilityName string `xml:"fcltynm"`
	Poster       string `xml:"poster"`
	PriceGuide   string `xml:"pcseguidance"`
}

type KopisClient struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewKopisClient returns a client whose requests are traced with otelhttp.
// opts tune the instrumentation, such as the tracer provider.
func NewKopisClient(baseURL, serviceKey string, timeout time.Duration, opts ...otelhttp.Option) *KopisClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts = append([]otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "KOPIS " + r.Method + " pblprfr"
		}),
	}, opts...)

	return &KopisClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, opts...),
		},
	}
}

// GetPerformance fetches the performance detail document for externalID.
func (c *KopisClient) GetPerformance(ctx context.Context, externalID string) (*domain.CatalogPerformance, error) {
	endpoint := fmt.Sprintf("%s/pblprfr/%s?service=%s",
		c.baseURL, url.PathEscape(externalID), url.QueryEscape(c.serviceKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d for performance %s",
			domain.ErrCatalogUnavailable, resp.StatusCode, externalID)
	}

	var envelope kopisEnvelope

	err = xml.NewDecoder(resp.Body).Decode(&envelope)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding performance %s: %w", domain.ErrCatalogUnavailable, externalID, err)
	}

	if len(envelope.DB) == 0 || strings.TrimSpace(envelope.DB[0].Title) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrPerformanceNotFound, externalID)
	}

	detail := envelope.DB[0]

	if strings.TrimSpace(detail.FacilityName) == "" {
		return nil, fmt.Errorf("%w: performance %s has no venue", domain.ErrCatalogUnavailable, externalID)
	}

	return &domain.CatalogPerformance{
		ExternalID: externalID,
		Title:      strings.TrimSpace(detail.Title),
		VenueName:  strings.TrimSpace(detail.FacilityName),
		PosterUrl:  strings.TrimSpace(detail.Poster),
		PriceGuide: strings.TrimSpace(detail.PriceGuide),
		Prices:     ParsePriceGuide(detail.PriceGuide),
	}, nil
}
