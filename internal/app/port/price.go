package port

import (
	"context"

	"asset_aggregator/internal/domain/entity"
)

// PriceResolver resolves current and historical USD prices. Like the asset
// providers it fails soft: a whole-request failure yields all-nil prices or a
// nil series, never an error.
type PriceResolver interface {
	// FetchCurrentPrices returns one entry per input token, same order and
	// length. A token with no known price maps to nil at its position; a
	// request-level failure maps every position to nil.
	FetchCurrentPrices(ctx context.Context, tokens []entity.TokenRef) []*float64

	// FetchPriceHistory returns the ascending series for [start, end]
	// (inclusive, unix seconds) at the given granularity, or nil when the
	// provider reports no data or the request fails. Callers rely on the
	// nil-vs-empty distinction.
	FetchPriceHistory(ctx context.Context, token entity.TokenRef, start, end int64, interval entity.Interval) []entity.PricePoint
}
