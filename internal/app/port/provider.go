package port

import (
	"context"

	"asset_aggregator/internal/domain/entity"
)

// QueryOptions controls the owner join and the native/wrapped merge of a
// fetch or search call.
type QueryOptions struct {
	// Owner is the account whose balances are joined onto the records.
	// Empty means no balance join.
	Owner string
	// CombineNativeBalance sums the owner's native SOL balance into the
	// wrapped-SOL record instead of surfacing SOL separately.
	CombineNativeBalance bool
}

// DefaultQueryOptions returns options with the native merge enabled, which is
// the default behavior of every strategy.
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{CombineNativeBalance: true}
}

// DefaultWalletAssetLimit caps FetchWalletAssets output when the caller does
// not pass a positive limit.
const DefaultWalletAssetLimit = 20

// AssetProvider is one aggregation strategy. All three implementations
// (Birdeye, Helius DAS, on-chain) produce the same normalized output and fail
// soft: any batch-level provider failure is logged and yields an empty slice,
// never an error, so callers only ever handle empty results.
type AssetProvider interface {
	// FetchAssets resolves metadata, price and (when opts.Owner is set)
	// held balances for the given mints. Output order follows input order;
	// mints with no metadata are dropped; duplicates are not deduplicated.
	FetchAssets(ctx context.Context, addresses []string, opts QueryOptions) []entity.SolAsset

	// SearchAssets resolves a free-text query into ranked assets with the
	// same owner-join and merge semantics as FetchAssets.
	SearchAssets(ctx context.Context, query string, opts QueryOptions) []entity.SolAsset

	// FetchWalletAssets lists the owner's fungible holdings joined with
	// prices, sorted descending by USD value and truncated to limit
	// (DefaultWalletAssetLimit when limit <= 0).
	FetchWalletAssets(ctx context.Context, owner string, limit int) []entity.SolAsset
}
