package service

import (
	"context"
	"errors"

	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"
)

// errStub is the generic failure injected by the stubs below.
var errStub = errors.New("stub failure")

// stubBirdeyeClient implements port.BirdeyeClient with per-method hooks. Nil
// hooks return empty results.
type stubBirdeyeClient struct {
	metadataFn func(ctx context.Context, addresses []string) (map[string]provider_entity.BirdeyeTokenMetadata, error)
	priceFn    func(ctx context.Context, addresses []string) (map[string]*provider_entity.BirdeyePrice, error)
	balanceFn  func(ctx context.Context, wallet, mint string) (*provider_entity.BirdeyeTokenBalance, error)
	searchFn   func(ctx context.Context, keyword string, limit int) ([]provider_entity.BirdeyeSearchToken, error)
	historyFn  func(ctx context.Context, mint, interval string, timeFrom, timeTo int64) ([]provider_entity.BirdeyeHistoryItem, error)
	walletFn   func(ctx context.Context, wallet string) ([]provider_entity.BirdeyeWalletToken, error)
}

func (s *stubBirdeyeClient) TokenMetadataMultiple(ctx context.Context, addresses []string) (map[string]provider_entity.BirdeyeTokenMetadata, error) {
	if s.metadataFn == nil {
		return map[string]provider_entity.BirdeyeTokenMetadata{}, nil
	}
	return s.metadataFn(ctx, addresses)
}

func (s *stubBirdeyeClient) MultiPrice(ctx context.Context, addresses []string) (map[string]*provider_entity.BirdeyePrice, error) {
	if s.priceFn == nil {
		return map[string]*provider_entity.BirdeyePrice{}, nil
	}
	return s.priceFn(ctx, addresses)
}

func (s *stubBirdeyeClient) WalletTokenBalance(ctx context.Context, wallet, mint string) (*provider_entity.BirdeyeTokenBalance, error) {
	if s.balanceFn == nil {
		return nil, nil
	}
	return s.balanceFn(ctx, wallet, mint)
}

func (s *stubBirdeyeClient) Search(ctx context.Context, keyword string, limit int) ([]provider_entity.BirdeyeSearchToken, error) {
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(ctx, keyword, limit)
}

func (s *stubBirdeyeClient) HistoryPrice(ctx context.Context, mint, interval string, timeFrom, timeTo int64) ([]provider_entity.BirdeyeHistoryItem, error) {
	if s.historyFn == nil {
		return nil, nil
	}
	return s.historyFn(ctx, mint, interval, timeFrom, timeTo)
}

func (s *stubBirdeyeClient) WalletTokenList(ctx context.Context, wallet string) ([]provider_entity.BirdeyeWalletToken, error) {
	if s.walletFn == nil {
		return nil, nil
	}
	return s.walletFn(ctx, wallet)
}

// stubHeliusClient implements port.HeliusClient.
type stubHeliusClient struct {
	assetBatchFn    func(ctx context.Context, ids []string) ([]*provider_entity.DasAsset, error)
	assetsByOwnerFn func(ctx context.Context, owner string, page, limit int) (*provider_entity.DasAssetList, error)
}

func (s *stubHeliusClient) GetAssetBatch(ctx context.Context, ids []string) ([]*provider_entity.DasAsset, error) {
	if s.assetBatchFn == nil {
		return nil, nil
	}
	return s.assetBatchFn(ctx, ids)
}

func (s *stubHeliusClient) GetAssetsByOwner(ctx context.Context, owner string, page, limit int) (*provider_entity.DasAssetList, error) {
	if s.assetsByOwnerFn == nil {
		return &provider_entity.DasAssetList{}, nil
	}
	return s.assetsByOwnerFn(ctx, owner, page, limit)
}

// stubRPCClient implements port.SolanaRPCClient.
type stubRPCClient struct {
	balanceFn       func(ctx context.Context, pubkey string) (uint64, error)
	tokenAccountsFn func(ctx context.Context, owner string) ([]provider_entity.RPCTokenAccount, error)
	parsedMintFn    func(ctx context.Context, mint string) (*provider_entity.RPCParsedMint, error)
	accountDataFn   func(ctx context.Context, address string) ([]byte, error)
}

func (s *stubRPCClient) GetBalance(ctx context.Context, pubkey string) (uint64, error) {
	if s.balanceFn == nil {
		return 0, nil
	}
	return s.balanceFn(ctx, pubkey)
}

func (s *stubRPCClient) GetTokenAccountsByOwner(ctx context.Context, owner string) ([]provider_entity.RPCTokenAccount, error) {
	if s.tokenAccountsFn == nil {
		return nil, nil
	}
	return s.tokenAccountsFn(ctx, owner)
}

func (s *stubRPCClient) GetParsedMint(ctx context.Context, mint string) (*provider_entity.RPCParsedMint, error) {
	if s.parsedMintFn == nil {
		return nil, nil
	}
	return s.parsedMintFn(ctx, mint)
}

func (s *stubRPCClient) GetAccountData(ctx context.Context, address string) ([]byte, error) {
	if s.accountDataFn == nil {
		return nil, nil
	}
	return s.accountDataFn(ctx, address)
}

// stubPriceResolver implements port.PriceResolver with a fixed price table.
type stubPriceResolver struct {
	prices map[string]float64
}

func (s *stubPriceResolver) FetchCurrentPrices(_ context.Context, tokens []entity.TokenRef) []*float64 {
	out := make([]*float64, len(tokens))
	for i, token := range tokens {
		if v, ok := s.prices[token.Mint]; ok {
			price := v
			out[i] = &price
		}
	}
	return out
}

func (s *stubPriceResolver) FetchPriceHistory(context.Context, entity.TokenRef, int64, int64, entity.Interval) []entity.PricePoint {
	return nil
}

func fptr(v float64) *float64 { return &v }
