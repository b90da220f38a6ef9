package service

import (
	"context"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"
	"asset_aggregator/internal/pkg/solana"
	"asset_aggregator/internal/pkg/utils"

	"go.uber.org/zap"
)

// heliusProvider is the aggregation strategy backed by a DAS indexer. One
// getAssetBatch call carries metadata and price together; balances come from
// the node RPC in a single getTokenAccountsByOwner call rather than a
// per-mint fan-out.
type heliusProvider struct {
	api    port.HeliusClient
	rpc    port.SolanaRPCClient // optional; nil disables the balance join
	logger *zap.Logger
}

// dasWalletPageLimit is the page size for getAssetsByOwner.
const dasWalletPageLimit = 100

// NewHeliusProvider creates the DAS-backed AssetProvider.
func NewHeliusProvider(api port.HeliusClient, rpc port.SolanaRPCClient, logger *zap.Logger) port.AssetProvider {
	return &heliusProvider{
		api:    api,
		rpc:    rpc,
		logger: logger.Named("HeliusProvider"),
	}
}

// FetchAssets implements port.AssetProvider.
func (s *heliusProvider) FetchAssets(ctx context.Context, addresses []string, opts port.QueryOptions) []entity.SolAsset {
	if len(addresses) == 0 {
		return []entity.SolAsset{}
	}

	unique := utils.UniqueStrings(addresses)
	batch, err := s.api.GetAssetBatch(ctx, unique)
	if err != nil {
		s.logger.Error("Asset batch fetch failed", zap.Int("addresses", len(addresses)), zap.Error(err))
		return []entity.SolAsset{}
	}

	byID := make(map[string]*provider_entity.DasAsset, len(batch))
	for _, das := range batch {
		if das != nil {
			byID[das.ID] = das
		}
	}

	assets := make([]entity.SolAsset, 0, len(addresses))
	for _, mint := range addresses {
		das, ok := byID[mint]
		if !ok {
			s.logger.Debug("Indexer has no asset for address, dropping from output", zap.String("mint", mint))
			continue
		}
		assets = append(assets, normalizeDasAsset(das))
	}

	s.joinHeldBalances(ctx, assets, opts)
	return assets
}

// SearchAssets implements port.AssetProvider. The DAS API has no fuzzy text
// search, so the strategy degrades to an exact lookup when the query parses
// as a mint address and returns nothing otherwise.
func (s *heliusProvider) SearchAssets(ctx context.Context, query string, opts port.QueryOptions) []entity.SolAsset {
	if !solana.IsValidPubkey(query) {
		s.logger.Debug("Query is not a mint address, DAS search returns no results", zap.String("query", query))
		return []entity.SolAsset{}
	}
	return s.FetchAssets(ctx, []string{query}, opts)
}

// FetchWalletAssets implements port.AssetProvider.
func (s *heliusProvider) FetchWalletAssets(ctx context.Context, owner string, limit int) []entity.SolAsset {
	if limit <= 0 {
		limit = port.DefaultWalletAssetLimit
	}

	list, err := s.api.GetAssetsByOwner(ctx, owner, 1, dasWalletPageLimit)
	if err != nil {
		s.logger.Error("Owner asset listing failed", zap.String("owner", owner), zap.Error(err))
		return []entity.SolAsset{}
	}

	assets := make([]entity.SolAsset, 0, len(list.Items))
	for _, das := range list.Items {
		if das == nil || das.TokenInfo == nil {
			// Non-fungibles and malformed entries have no balance to rank.
			continue
		}
		asset := normalizeDasAsset(das)
		if asset.Symbol == "" {
			continue
		}
		if isStandaloneNative(asset.Symbol, asset.Mint) {
			continue
		}
		asset.HeldBalance = &entity.TokenBalance{
			Owner:  owner,
			Amount: utils.ScaleRawAmount(das.TokenInfo.Balance, das.TokenInfo.Decimals),
		}
		assets = append(assets, asset)
	}

	return sortAndLimitByValue(assets, limit)
}

// joinHeldBalances joins token-account balances from one RPC call and applies
// the native/wrapped merge.
func (s *heliusProvider) joinHeldBalances(ctx context.Context, assets []entity.SolAsset, opts port.QueryOptions) {
	if opts.Owner == "" || len(assets) == 0 || s.rpc == nil {
		return
	}

	accounts, err := s.rpc.GetTokenAccountsByOwner(ctx, opts.Owner)
	if err != nil {
		s.logger.Warn("Token account listing failed, leaving balances unknown",
			zap.String("owner", opts.Owner), zap.Error(err))
		return
	}

	balances := make(map[string]float64, len(accounts))
	for _, acc := range accounts {
		amount, err := utils.ScaleRawAmountString(acc.Amount.Amount, acc.Amount.Decimals)
		if err != nil {
			s.logger.Warn("Skipping token account with unparseable amount",
				zap.String("mint", acc.Mint), zap.Error(err))
			continue
		}
		// An owner can hold several accounts of one mint.
		balances[acc.Mint] += amount
	}

	var nativeAmount float64
	var haveNative bool
	if opts.CombineNativeBalance && containsMint(assets, entity.WrappedSolMint) {
		lamports, err := s.rpc.GetBalance(ctx, opts.Owner)
		if err != nil {
			s.logger.Warn("Native balance lookup failed, skipping merge",
				zap.String("owner", opts.Owner), zap.Error(err))
		} else {
			nativeAmount = utils.ScaleRawAmount(lamports, entity.NativeSolDecimals)
			haveNative = true
		}
	}

	for i := range assets {
		asset := &assets[i]
		amount, ok := balances[asset.Mint]
		if asset.Mint == entity.WrappedSolMint && opts.CombineNativeBalance && haveNative {
			amount += nativeAmount
			ok = true
		}
		if ok {
			asset.HeldBalance = &entity.TokenBalance{Owner: opts.Owner, Amount: amount}
		}
	}
}

// normalizeDasAsset maps a DAS asset into the canonical record.
func normalizeDasAsset(das *provider_entity.DasAsset) entity.SolAsset {
	asset := entity.SolAsset{Mint: das.ID}
	if das.Content != nil {
		asset.Name = das.Content.Metadata.Name
		asset.Symbol = das.Content.Metadata.Symbol
		asset.ImageURL = das.Content.Links.Image
	}
	if das.TokenInfo != nil {
		asset.Decimals = das.TokenInfo.Decimals
		if das.TokenInfo.Symbol != "" {
			asset.Symbol = das.TokenInfo.Symbol
		}
		if das.TokenInfo.PriceInfo != nil {
			v := das.TokenInfo.PriceInfo.PricePerToken
			asset.Price = &v
		}
	}
	return asset
}
