package domain

import "context"

// CatalogPerformance is what the external catalog knows about a performance.
type CatalogPerformance struct {
	ExternalID string `json:"externalId"`
	Title      string `json:"title"`
	VenueName  string `json:"venueName"`
	PosterUrl  string `json:"posterUrl"`
	PriceGuide string `json:"priceGuide"`
	Prices     []int  `json:"prices"`
}

type Catalog interface {
	GetPerformance(ctx context.Context, externalID string) (*CatalogPerformance, error)
}
