package service

import (
	"context"
	"testing"

	"asset_aggregator/internal/config"
	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func priceServiceConfig() config.PriceServiceConfig {
	return config.PriceServiceConfig{
		CacheTTLMinutes:          1,
		CacheCleanupMinutes:      10,
		MaxTokensPerBatchRequest: 100,
	}
}

func refs(mints ...string) []entity.TokenRef {
	out := make([]entity.TokenRef, len(mints))
	for i, mint := range mints {
		out[i] = entity.TokenRef{Mint: mint}
	}
	return out
}

func TestFetchCurrentPricesAlignedWithInput(t *testing.T) {
	api := &stubBirdeyeClient{
		priceFn: func(_ context.Context, _ []string) (map[string]*provider_entity.BirdeyePrice, error) {
			return map[string]*provider_entity.BirdeyePrice{
				mintUSDC: {Value: 1.0},
				mintBonk: nil, // provider knows the mint but has no price
			}, nil
		},
	}
	svc := NewPriceService(api, priceServiceConfig(), nil, zap.NewNop())

	prices := svc.FetchCurrentPrices(context.Background(), refs(mintBonk, mintUSDC, "UnknownMint"))
	require.Len(t, prices, 3)
	assert.Nil(t, prices[0])
	require.NotNil(t, prices[1])
	assert.Equal(t, 1.0, *prices[1])
	assert.Nil(t, prices[2])
}

func TestFetchCurrentPricesAllNilOnBatchFailure(t *testing.T) {
	calls := 0
	api := &stubBirdeyeClient{
		priceFn: func(_ context.Context, _ []string) (map[string]*provider_entity.BirdeyePrice, error) {
			calls++
			if calls == 1 {
				return map[string]*provider_entity.BirdeyePrice{mintUSDC: {Value: 1.0}}, nil
			}
			return nil, errStub
		},
	}
	svc := NewPriceService(api, priceServiceConfig(), nil, zap.NewNop())

	// Warm the cache with a successful batch first.
	warm := svc.FetchCurrentPrices(context.Background(), refs(mintUSDC))
	require.NotNil(t, warm[0])

	// A failed batch maps every position to nil, cached entries included.
	prices := svc.FetchCurrentPrices(context.Background(), refs(mintUSDC, mintBonk))
	require.Len(t, prices, 2)
	assert.Nil(t, prices[0])
	assert.Nil(t, prices[1])
}

func TestFetchCurrentPricesServedFromCache(t *testing.T) {
	calls := 0
	api := &stubBirdeyeClient{
		priceFn: func(_ context.Context, addresses []string) (map[string]*provider_entity.BirdeyePrice, error) {
			calls++
			out := make(map[string]*provider_entity.BirdeyePrice, len(addresses))
			for _, mint := range addresses {
				out[mint] = &provider_entity.BirdeyePrice{Value: 2.5}
			}
			return out, nil
		},
	}
	svc := NewPriceService(api, priceServiceConfig(), nil, zap.NewNop())

	first := svc.FetchCurrentPrices(context.Background(), refs(mintUSDC))
	second := svc.FetchCurrentPrices(context.Background(), refs(mintUSDC))

	assert.Equal(t, 1, calls)
	require.NotNil(t, first[0])
	require.NotNil(t, second[0])
	assert.Equal(t, *first[0], *second[0])
}

func TestFetchCurrentPricesBatchesLargeRequests(t *testing.T) {
	var batchSizes []int
	api := &stubBirdeyeClient{
		priceFn: func(_ context.Context, addresses []string) (map[string]*provider_entity.BirdeyePrice, error) {
			batchSizes = append(batchSizes, len(addresses))
			return map[string]*provider_entity.BirdeyePrice{}, nil
		},
	}
	cfg := priceServiceConfig()
	cfg.MaxTokensPerBatchRequest = 2
	svc := NewPriceService(api, cfg, nil, zap.NewNop())

	mints := []string{"m1", "m2", "m3", "m4", "m5"}
	prices := svc.FetchCurrentPrices(context.Background(), refs(mints...))
	require.Len(t, prices, 5)
	assert.Equal(t, []int{2, 2, 1}, batchSizes)
}

func TestFetchCurrentPricesEmptyInput(t *testing.T) {
	svc := NewPriceService(&stubBirdeyeClient{}, priceServiceConfig(), nil, zap.NewNop())
	prices := svc.FetchCurrentPrices(context.Background(), nil)
	require.NotNil(t, prices)
	assert.Empty(t, prices)
}

func TestFetchPriceHistoryMapsItems(t *testing.T) {
	api := &stubBirdeyeClient{
		historyFn: func(_ context.Context, mint, interval string, timeFrom, timeTo int64) ([]provider_entity.BirdeyeHistoryItem, error) {
			assert.Equal(t, mintUSDC, mint)
			assert.Equal(t, "1H", interval)
			return []provider_entity.BirdeyeHistoryItem{
				{UnixTime: 1000, Value: 1.0},
				{UnixTime: 4600, Value: 1.1},
			}, nil
		},
	}
	svc := NewPriceService(api, priceServiceConfig(), nil, zap.NewNop())

	points := svc.FetchPriceHistory(context.Background(), entity.TokenRef{Mint: mintUSDC}, 0, 5000, entity.Interval1H)
	require.Len(t, points, 2)
	assert.Equal(t, entity.PricePoint{Timestamp: 1000, Price: 1.0}, points[0])
	assert.Equal(t, entity.PricePoint{Timestamp: 4600, Price: 1.1}, points[1])
}

func TestFetchPriceHistoryNilOnFailureAndNoData(t *testing.T) {
	api := &stubBirdeyeClient{
		historyFn: func(_ context.Context, _, _ string, _, _ int64) ([]provider_entity.BirdeyeHistoryItem, error) {
			return nil, errStub
		},
	}
	svc := NewPriceService(api, priceServiceConfig(), nil, zap.NewNop())
	assert.Nil(t, svc.FetchPriceHistory(context.Background(), entity.TokenRef{Mint: mintUSDC}, 0, 1, entity.Interval1D))

	api.historyFn = func(_ context.Context, _, _ string, _, _ int64) ([]provider_entity.BirdeyeHistoryItem, error) {
		return []provider_entity.BirdeyeHistoryItem{}, nil
	}
	// Zero items is nil, never an empty slice.
	assert.Nil(t, svc.FetchPriceHistory(context.Background(), entity.TokenRef{Mint: mintUSDC}, 0, 1, entity.Interval1D))
}

func TestFetchPriceHistoryRejectsUnknownInterval(t *testing.T) {
	calls := 0
	api := &stubBirdeyeClient{
		historyFn: func(_ context.Context, _, _ string, _, _ int64) ([]provider_entity.BirdeyeHistoryItem, error) {
			calls++
			return nil, nil
		},
	}
	svc := NewPriceService(api, priceServiceConfig(), nil, zap.NewNop())

	assert.Nil(t, svc.FetchPriceHistory(context.Background(), entity.TokenRef{Mint: mintUSDC}, 0, 1, "2Y"))
	assert.Zero(t, calls)
}
