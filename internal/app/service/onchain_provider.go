package service

import (
	"context"
	"sync"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/domain/entity"
	"asset_aggregator/internal/pkg/solana"
	"asset_aggregator/internal/pkg/utils"

	"go.uber.org/zap"
)

// onchainProvider is the aggregation strategy that reads metadata straight
// from the chain: mint accounts for decimals, Metaplex metadata accounts for
// name/symbol/URI, and the metadata URI for the image. The chain carries no
// prices, so those come from an injected resolver.
type onchainProvider struct {
	rpc                port.SolanaRPCClient
	images             port.AssetImageFetcher // optional; nil skips image resolution
	prices             port.PriceResolver     // optional; nil leaves prices unknown
	logger             *zap.Logger
	maxMetadataFetches int
}

// NewOnchainProvider creates the on-chain AssetProvider.
func NewOnchainProvider(rpc port.SolanaRPCClient, images port.AssetImageFetcher, prices port.PriceResolver, logger *zap.Logger, maxMetadataFetches int) port.AssetProvider {
	if maxMetadataFetches <= 0 {
		maxMetadataFetches = 1
	}
	return &onchainProvider{
		rpc:                rpc,
		images:             images,
		prices:             prices,
		logger:             logger.Named("OnchainProvider"),
		maxMetadataFetches: maxMetadataFetches,
	}
}

// FetchAssets implements port.AssetProvider.
func (s *onchainProvider) FetchAssets(ctx context.Context, addresses []string, opts port.QueryOptions) []entity.SolAsset {
	if len(addresses) == 0 {
		return []entity.SolAsset{}
	}

	// Per-mint account reads settle individually; a mint whose accounts
	// cannot be resolved is dropped like missing metadata elsewhere.
	results := make([]*entity.SolAsset, len(addresses))
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.maxMetadataFetches)

	for i, mint := range addresses {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, mint string) {
			defer wg.Done()
			defer func() { <-sem }()

			asset, err := s.resolveAsset(ctx, mint)
			if err != nil {
				s.logger.Debug("Could not resolve on-chain asset, dropping from output",
					zap.String("mint", mint), zap.Error(err))
				return
			}
			results[i] = asset
		}(i, mint)
	}
	wg.Wait()

	assets := make([]entity.SolAsset, 0, len(addresses))
	for _, r := range results {
		if r != nil {
			assets = append(assets, *r)
		}
	}

	s.fillPrices(ctx, assets)
	s.joinHeldBalances(ctx, assets, opts)
	return assets
}

// SearchAssets implements port.AssetProvider. The chain has no search
// surface, so only exact mint addresses resolve.
func (s *onchainProvider) SearchAssets(ctx context.Context, query string, opts port.QueryOptions) []entity.SolAsset {
	if !solana.IsValidPubkey(query) {
		s.logger.Debug("Query is not a mint address, on-chain search returns no results", zap.String("query", query))
		return []entity.SolAsset{}
	}
	return s.FetchAssets(ctx, []string{query}, opts)
}

// FetchWalletAssets implements port.AssetProvider.
func (s *onchainProvider) FetchWalletAssets(ctx context.Context, owner string, limit int) []entity.SolAsset {
	if limit <= 0 {
		limit = port.DefaultWalletAssetLimit
	}

	accounts, err := s.rpc.GetTokenAccountsByOwner(ctx, owner)
	if err != nil {
		s.logger.Error("Token account listing failed", zap.String("owner", owner), zap.Error(err))
		return []entity.SolAsset{}
	}

	balances := make(map[string]float64, len(accounts))
	mints := make([]string, 0, len(accounts))
	for _, acc := range accounts {
		amount, err := utils.ScaleRawAmountString(acc.Amount.Amount, acc.Amount.Decimals)
		if err != nil {
			s.logger.Warn("Skipping token account with unparseable amount",
				zap.String("mint", acc.Mint), zap.Error(err))
			continue
		}
		if _, seen := balances[acc.Mint]; !seen {
			mints = append(mints, acc.Mint)
		}
		balances[acc.Mint] += amount
	}

	assets := s.FetchAssets(ctx, mints, port.QueryOptions{})
	kept := make([]entity.SolAsset, 0, len(assets))
	for _, asset := range assets {
		if asset.Symbol == "" {
			continue
		}
		if isStandaloneNative(asset.Symbol, asset.Mint) {
			continue
		}
		asset.HeldBalance = &entity.TokenBalance{Owner: owner, Amount: balances[asset.Mint]}
		kept = append(kept, asset)
	}

	return sortAndLimitByValue(kept, limit)
}

// resolveAsset reads the mint account and the Metaplex metadata account for
// one mint and assembles the record. Image resolution is best-effort.
func (s *onchainProvider) resolveAsset(ctx context.Context, mint string) (*entity.SolAsset, error) {
	mintInfo, err := s.rpc.GetParsedMint(ctx, mint)
	if err != nil {
		return nil, err
	}
	if mintInfo == nil {
		return nil, errMintNotFound(mint)
	}

	pda, err := solana.MetadataPDA(mint)
	if err != nil {
		return nil, err
	}
	raw, err := s.rpc.GetAccountData(ctx, pda)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errMetadataNotFound(mint)
	}
	md, err := solana.ParseMetadata(raw)
	if err != nil {
		return nil, err
	}

	asset := &entity.SolAsset{
		Mint:     mint,
		Name:     md.Name,
		Symbol:   md.Symbol,
		Decimals: mintInfo.Decimals,
	}
	if s.images != nil && md.URI != "" {
		image, err := s.images.FetchAssetImage(ctx, md.URI)
		if err != nil {
			s.logger.Debug("Metadata URI fetch failed, record keeps no image",
				zap.String("mint", mint), zap.String("uri", md.URI), zap.Error(err))
		} else {
			asset.ImageURL = image
		}
	}
	return asset, nil
}

// fillPrices asks the resolver for current prices. The resolver fails soft,
// so a price outage leaves every price nil rather than dropping records.
func (s *onchainProvider) fillPrices(ctx context.Context, assets []entity.SolAsset) {
	if s.prices == nil || len(assets) == 0 {
		return
	}
	refs := make([]entity.TokenRef, len(assets))
	for i := range assets {
		refs[i] = entity.TokenRef{Mint: assets[i].Mint, Symbol: assets[i].Symbol}
	}
	values := s.prices.FetchCurrentPrices(ctx, refs)
	for i := range assets {
		if i < len(values) && values[i] != nil {
			v := *values[i]
			assets[i].Price = &v
		}
	}
}

// joinHeldBalances joins balances from getTokenAccountsByOwner and applies
// the native/wrapped merge, mirroring the DAS strategy.
func (s *onchainProvider) joinHeldBalances(ctx context.Context, assets []entity.SolAsset, opts port.QueryOptions) {
	if opts.Owner == "" || len(assets) == 0 {
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
			continue
		}
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
