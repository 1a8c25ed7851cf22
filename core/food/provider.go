package food

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider looks foods up in a nutrition database.
type Provider interface {
	Search(ctx context.Context, query string) (SearchResult, error)
	Common(ctx context.Context, name string) (RawRecord, error)
	Branded(ctx context.Context, id string) (RawRecord, error)
}

type SearchResult struct {
	Common  []Hit `json:"common"`
	Branded []Hit `json:"branded"`
}

// Hit is one entry of a search result list.
type Hit struct {
	Name        string          `json:"name"`
	BrandName   string          `json:"brandName,omitempty"`
	NixItemID   string          `json:"nixItemId,omitempty"`
	ImageURL    string          `json:"imageUrl"`
	ServingQty  decimal.Decimal `json:"servingQty"`
	ServingUnit string          `json:"servingUnit"`
	Calories    decimal.Decimal `json:"calories"`
}

func NewHit(raw RawRecord) Hit {
	rec := Sanitize(raw)
	return Hit{
		Name:        rec.Name,
		BrandName:   rec.BrandName,
		NixItemID:   rec.NixItemID,
		ImageURL:    rec.ImageURL,
		ServingQty:  rec.ServingQty,
		ServingUnit: rec.ServingUnit,
		Calories:    rec.Calories,
	}
}
