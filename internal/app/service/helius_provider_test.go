package service

import (
	"context"
	"testing"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dasFungible(id, name, symbol string, decimals uint8, price *float64) *provider_entity.DasAsset {
	asset := &provider_entity.DasAsset{
		ID:        id,
		Interface: "FungibleToken",
		Content: &provider_entity.DasContent{
			Metadata: provider_entity.DasMetadata{Name: name, Symbol: symbol},
			Links:    provider_entity.DasLinks{Image: "https://img.example/" + symbol + ".png"},
		},
		TokenInfo: &provider_entity.DasTokenInfo{Decimals: decimals},
	}
	if price != nil {
		asset.TokenInfo.PriceInfo = &provider_entity.DasPriceInfo{PricePerToken: *price, Currency: "USDC"}
	}
	return asset
}

func TestHeliusFetchAssetsNormalizes(t *testing.T) {
	api := &stubHeliusClient{
		assetBatchFn: func(_ context.Context, ids []string) ([]*provider_entity.DasAsset, error) {
			return []*provider_entity.DasAsset{dasFungible(mintUSDC, "USD Coin", "USDC", 6, fptr(0.9998))}, nil
		},
	}
	p := NewHeliusProvider(api, nil, zap.NewNop())

	assets := p.FetchAssets(context.Background(), []string{mintUSDC}, port.DefaultQueryOptions())
	require.Len(t, assets, 1)

	got := assets[0]
	assert.Equal(t, mintUSDC, got.Mint)
	assert.Equal(t, "USD Coin", got.Name)
	assert.Equal(t, "USDC", got.Symbol)
	assert.Equal(t, "https://img.example/USDC.png", got.ImageURL)
	assert.Equal(t, uint8(6), got.Decimals)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 0.9998, *got.Price, 1e-9)
}

func TestHeliusTokenInfoSymbolWins(t *testing.T) {
	das := dasFungible(mintUSDC, "USD Coin", "usdc-old", 6, nil)
	das.TokenInfo.Symbol = "USDC"
	api := &stubHeliusClient{
		assetBatchFn: func(_ context.Context, _ []string) ([]*provider_entity.DasAsset, error) {
			return []*provider_entity.DasAsset{das}, nil
		},
	}
	p := NewHeliusProvider(api, nil, zap.NewNop())

	assets := p.FetchAssets(context.Background(), []string{mintUSDC}, port.DefaultQueryOptions())
	require.Len(t, assets, 1)
	assert.Equal(t, "USDC", assets[0].Symbol)
	assert.Nil(t, assets[0].Price)
}

func TestHeliusFetchAssetsDropsUnresolved(t *testing.T) {
	api := &stubHeliusClient{
		assetBatchFn: func(_ context.Context, ids []string) ([]*provider_entity.DasAsset, error) {
			// The indexer answers id-for-id with nil holes.
			out := make([]*provider_entity.DasAsset, len(ids))
			for i, id := range ids {
				if id == mintBonk {
					out[i] = dasFungible(id, "Bonk", "Bonk", 5, nil)
				}
			}
			return out, nil
		},
	}
	p := NewHeliusProvider(api, nil, zap.NewNop())

	assets := p.FetchAssets(context.Background(), []string{mintUSDC, mintBonk}, port.DefaultQueryOptions())
	require.Len(t, assets, 1)
	assert.Equal(t, mintBonk, assets[0].Mint)
}

func TestHeliusFetchAssetsFailsClosedOnBatchError(t *testing.T) {
	api := &stubHeliusClient{
		assetBatchFn: func(_ context.Context, _ []string) ([]*provider_entity.DasAsset, error) {
			return nil, errStub
		},
	}
	p := NewHeliusProvider(api, nil, zap.NewNop())

	assets := p.FetchAssets(context.Background(), []string{mintUSDC}, port.DefaultQueryOptions())
	require.NotNil(t, assets)
	assert.Empty(t, assets)
}

func TestHeliusSearchRequiresMintAddress(t *testing.T) {
	var batchCalls int
	api := &stubHeliusClient{
		assetBatchFn: func(_ context.Context, ids []string) ([]*provider_entity.DasAsset, error) {
			batchCalls++
			return []*provider_entity.DasAsset{dasFungible(ids[0], "Wrapped SOL", "SOL", 9, nil)}, nil
		},
	}
	p := NewHeliusProvider(api, nil, zap.NewNop())

	assets := p.SearchAssets(context.Background(), "bonk", port.DefaultQueryOptions())
	assert.Empty(t, assets)
	assert.Zero(t, batchCalls)

	assets = p.SearchAssets(context.Background(), entity.WrappedSolMint, port.DefaultQueryOptions())
	require.Len(t, assets, 1)
	assert.Equal(t, entity.WrappedSolMint, assets[0].Mint)
	assert.Equal(t, 1, batchCalls)
}

func TestHeliusBalanceJoinSumsAccountsAndMergesNative(t *testing.T) {
	api := &stubHeliusClient{
		assetBatchFn: func(_ context.Context, _ []string) ([]*provider_entity.DasAsset, error) {
			return []*provider_entity.DasAsset{
				dasFungible(entity.WrappedSolMint, "Wrapped SOL", "SOL", 9, nil),
				dasFungible(mintUSDC, "USD Coin", "USDC", 6, nil),
			}, nil
		},
	}
	rpc := &stubRPCClient{
		tokenAccountsFn: func(_ context.Context, _ string) ([]provider_entity.RPCTokenAccount, error) {
			return []provider_entity.RPCTokenAccount{
				{Mint: entity.WrappedSolMint, Owner: owner, Amount: provider_entity.RPCTokenAmount{Amount: "2500000000", Decimals: 9}},
				{Mint: mintUSDC, Owner: owner, Amount: provider_entity.RPCTokenAmount{Amount: "1000000", Decimals: 6}},
				{Mint: mintUSDC, Owner: owner, Amount: provider_entity.RPCTokenAmount{Amount: "500000", Decimals: 6}},
			}, nil
		},
		balanceFn: func(_ context.Context, _ string) (uint64, error) {
			return 1_500_000_000, nil
		},
	}
	p := NewHeliusProvider(api, rpc, zap.NewNop())

	opts := port.QueryOptions{Owner: owner, CombineNativeBalance: true}
	assets := p.FetchAssets(context.Background(), []string{entity.WrappedSolMint, mintUSDC}, opts)
	require.Len(t, assets, 2)

	require.NotNil(t, assets[0].HeldBalance)
	assert.InDelta(t, 4.0, assets[0].HeldBalance.Amount, 1e-9)

	// Two token accounts of one mint add up.
	require.NotNil(t, assets[1].HeldBalance)
	assert.InDelta(t, 1.5, assets[1].HeldBalance.Amount, 1e-9)
}

func TestHeliusFetchWalletAssetsSortsAndLimits(t *testing.T) {
	mk := func(id, symbol string, balance uint64, price float64) *provider_entity.DasAsset {
		das := dasFungible(id, symbol, symbol, 0, fptr(price))
		das.TokenInfo.Balance = balance
		return das
	}
	api := &stubHeliusClient{
		assetsByOwnerFn: func(_ context.Context, _ string, page, limit int) (*provider_entity.DasAssetList, error) {
			return &provider_entity.DasAssetList{
				Page:  page,
				Limit: limit,
				Items: []*provider_entity.DasAsset{
					mk("MintA111111111111111111111111111111111111", "AAA", 1, 10),
					mk("MintB111111111111111111111111111111111111", "BBB", 1, 500),
					mk("MintC111111111111111111111111111111111111", "CCC", 1, 0),
					mk("MintD111111111111111111111111111111111111", "DDD", 1, 50),
					nil, // indexer holes are skipped
				},
			}, nil
		},
	}
	p := NewHeliusProvider(api, nil, zap.NewNop())

	assets := p.FetchWalletAssets(context.Background(), owner, 2)
	require.Len(t, assets, 2)
	assert.Equal(t, "BBB", assets[0].Symbol)
	assert.Equal(t, "DDD", assets[1].Symbol)
}
