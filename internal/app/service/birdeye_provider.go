package service

import (
	"context"
	"sync"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"
	"asset_aggregator/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// birdeyeProvider is the aggregation strategy backed by the Birdeye API. It
// is the fastest of the three: metadata and prices arrive as single batch
// calls, so one FetchAssets is two racing requests plus the optional balance
// fan-out.
type birdeyeProvider struct {
	api               port.BirdeyeClient
	rpc               port.SolanaRPCClient // optional; nil disables the native balance merge
	logger            *zap.Logger
	maxBalanceLookups int
}

// NewBirdeyeProvider creates the Birdeye-backed AssetProvider. rpc may be nil
// when no node connection is available; the native SOL balance is then never
// fetched and the wrapped record carries the token balance alone.
func NewBirdeyeProvider(api port.BirdeyeClient, rpc port.SolanaRPCClient, logger *zap.Logger, maxBalanceLookups int) port.AssetProvider {
	if maxBalanceLookups <= 0 {
		maxBalanceLookups = 1
	}
	return &birdeyeProvider{
		api:               api,
		rpc:               rpc,
		logger:            logger.Named("BirdeyeProvider"),
		maxBalanceLookups: maxBalanceLookups,
	}
}

// FetchAssets implements port.AssetProvider.
func (s *birdeyeProvider) FetchAssets(ctx context.Context, addresses []string, opts port.QueryOptions) []entity.SolAsset {
	if len(addresses) == 0 {
		return []entity.SolAsset{}
	}

	// Metadata and price batches race; both must land before the join.
	unique := utils.UniqueStrings(addresses)
	var meta map[string]provider_entity.BirdeyeTokenMetadata
	var prices map[string]*provider_entity.BirdeyePrice

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := s.api.TokenMetadataMultiple(gctx, unique)
		meta = m
		return err
	})
	g.Go(func() error {
		p, err := s.api.MultiPrice(gctx, unique)
		prices = p
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Asset batch fetch failed", zap.Int("addresses", len(addresses)), zap.Error(err))
		return []entity.SolAsset{}
	}

	// Join by address key, preserving input order. Addresses the provider
	// has no metadata for are dropped, not stubbed.
	assets := make([]entity.SolAsset, 0, len(addresses))
	for _, mint := range addresses {
		md, ok := meta[mint]
		if !ok {
			s.logger.Debug("No metadata for address, dropping from output", zap.String("mint", mint))
			continue
		}
		asset := entity.SolAsset{
			Mint:     mint,
			Name:     md.Name,
			Symbol:   md.Symbol,
			ImageURL: md.LogoURI,
			Decimals: md.Decimals,
		}
		if p := prices[mint]; p != nil {
			v := p.Value
			asset.Price = &v
		}
		assets = append(assets, asset)
	}

	s.joinHeldBalances(ctx, assets, opts)
	return assets
}

// SearchAssets implements port.AssetProvider.
func (s *birdeyeProvider) SearchAssets(ctx context.Context, query string, opts port.QueryOptions) []entity.SolAsset {
	hits, err := s.api.Search(ctx, query, searchResultLimit)
	if err != nil {
		s.logger.Error("Search failed", zap.String("query", query), zap.Error(err))
		return []entity.SolAsset{}
	}

	assets := make([]entity.SolAsset, 0, len(hits))
	for _, hit := range hits {
		// The native coin would be merged into the wrapped balance anyway,
		// so don't present it as a separately selectable token.
		if opts.CombineNativeBalance && isStandaloneNative(hit.Symbol, hit.Address) {
			continue
		}
		asset := entity.SolAsset{
			Mint:     hit.Address,
			Name:     hit.Name,
			Symbol:   hit.Symbol,
			ImageURL: hit.LogoURI,
			Decimals: hit.Decimals,
		}
		if hit.Price != nil {
			v := *hit.Price
			asset.Price = &v
		}
		assets = append(assets, asset)
	}

	s.joinHeldBalances(ctx, assets, opts)
	return assets
}

// FetchWalletAssets implements port.AssetProvider.
func (s *birdeyeProvider) FetchWalletAssets(ctx context.Context, owner string, limit int) []entity.SolAsset {
	if limit <= 0 {
		limit = port.DefaultWalletAssetLimit
	}

	items, err := s.api.WalletTokenList(ctx, owner)
	if err != nil {
		s.logger.Error("Wallet token list failed", zap.String("owner", owner), zap.Error(err))
		return []entity.SolAsset{}
	}

	assets := make([]entity.SolAsset, 0, len(items))
	for _, item := range items {
		if item.Symbol == "" {
			continue
		}
		if isStandaloneNative(item.Symbol, item.Address) {
			continue
		}
		asset := entity.SolAsset{
			Mint:     item.Address,
			Name:     item.Name,
			Symbol:   item.Symbol,
			ImageURL: item.LogoURI,
			Decimals: item.Decimals,
			HeldBalance: &entity.TokenBalance{
				Owner:  owner,
				Amount: utils.ScaleRawAmount(item.Balance, item.Decimals),
			},
		}
		if item.PriceUSD != nil {
			v := *item.PriceUSD
			asset.Price = &v
		}
		assets = append(assets, asset)
	}

	return sortAndLimitByValue(assets, limit)
}

// joinHeldBalances fetches the owner's balance for every asset and applies
// the native/wrapped merge. Each lookup settles individually: a failed
// per-address request leaves that record's balance unknown instead of
// failing the whole batch.
func (s *birdeyeProvider) joinHeldBalances(ctx context.Context, assets []entity.SolAsset, opts port.QueryOptions) {
	if opts.Owner == "" || len(assets) == 0 {
		return
	}

	mints := make([]string, 0, len(assets))
	for i := range assets {
		mints = append(mints, assets[i].Mint)
	}
	mints = utils.UniqueStrings(mints)

	balances := make(map[string]float64, len(mints))
	var nativeAmount float64
	var haveNative bool

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.maxBalanceLookups)

	for _, mint := range mints {
		sem <- struct{}{}
		wg.Add(1)
		go func(mint string) {
			defer wg.Done()
			defer func() { <-sem }()

			bal, err := s.api.WalletTokenBalance(ctx, opts.Owner, mint)
			if err != nil {
				s.logger.Warn("Balance lookup failed, leaving balance unknown",
					zap.String("owner", opts.Owner), zap.String("mint", mint), zap.Error(err))
				return
			}
			if bal == nil {
				// Wallet holds no account for this mint.
				return
			}
			amount := utils.ScaleRawAmount(bal.Balance, bal.Decimals)
			mu.Lock()
			balances[mint] = amount
			mu.Unlock()
		}(mint)
	}

	if opts.CombineNativeBalance && s.rpc != nil && containsMint(assets, entity.WrappedSolMint) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lamports, err := s.rpc.GetBalance(ctx, opts.Owner)
			if err != nil {
				s.logger.Warn("Native balance lookup failed, skipping merge",
					zap.String("owner", opts.Owner), zap.Error(err))
				return
			}
			nativeAmount = utils.ScaleRawAmount(lamports, entity.NativeSolDecimals)
			haveNative = true
		}()
	}

	wg.Wait()

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
