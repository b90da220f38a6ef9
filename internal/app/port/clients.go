package port

import (
	"context"

	provider_entity "asset_aggregator/internal/entity"
)

// BirdeyeClient is the raw Birdeye REST surface. Methods return provider
// response shapes; normalization into domain records happens in the services.
type BirdeyeClient interface {
	// TokenMetadataMultiple fetches one metadata batch keyed by mint.
	// Mints unknown to the provider are absent from the result.
	TokenMetadataMultiple(ctx context.Context, addresses []string) (map[string]provider_entity.BirdeyeTokenMetadata, error)

	// MultiPrice fetches one price batch keyed by mint.
	MultiPrice(ctx context.Context, addresses []string) (map[string]*provider_entity.BirdeyePrice, error)

	// WalletTokenBalance fetches the owner's balance of one mint. A nil
	// result with nil error means the wallet holds no account for the mint.
	WalletTokenBalance(ctx context.Context, wallet, mint string) (*provider_entity.BirdeyeTokenBalance, error)

	// Search performs the provider's ranked fuzzy token search, sorted by
	// descending liquidity.
	Search(ctx context.Context, keyword string, limit int) ([]provider_entity.BirdeyeSearchToken, error)

	// HistoryPrice fetches the bucketed price series for one mint.
	HistoryPrice(ctx context.Context, mint, interval string, timeFrom, timeTo int64) ([]provider_entity.BirdeyeHistoryItem, error)

	// WalletTokenList fetches every fungible holding of a wallet.
	WalletTokenList(ctx context.Context, wallet string) ([]provider_entity.BirdeyeWalletToken, error)
}

// HeliusClient is the raw DAS JSON-RPC surface.
type HeliusClient interface {
	// GetAssetBatch resolves assets by id. The result matches the input
	// order and contains a nil element for every id the indexer does not
	// know.
	GetAssetBatch(ctx context.Context, ids []string) ([]*provider_entity.DasAsset, error)

	// GetAssetsByOwner pages through everything the owner holds, with
	// fungible token info included.
	GetAssetsByOwner(ctx context.Context, owner string, page, limit int) (*provider_entity.DasAssetList, error)
}

// SolanaRPCClient is the node RPC surface used for native balances, token
// accounts and raw account data.
type SolanaRPCClient interface {
	// GetBalance returns the account's lamport balance.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetTokenAccountsByOwner lists the owner's SPL token accounts.
	GetTokenAccountsByOwner(ctx context.Context, owner string) ([]provider_entity.RPCTokenAccount, error)

	// GetParsedMint returns the jsonParsed mint account, or nil when the
	// account does not exist.
	GetParsedMint(ctx context.Context, mint string) (*provider_entity.RPCParsedMint, error)

	// GetAccountData returns an account's raw data bytes, or nil when the
	// account does not exist.
	GetAccountData(ctx context.Context, address string) ([]byte, error)
}

// AssetImageFetcher resolves a metadata URI into its image URL.
type AssetImageFetcher interface {
	FetchAssetImage(ctx context.Context, uri string) (string, error)
}
