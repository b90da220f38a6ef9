package service

import (
	"context"
	"encoding/binary"
	"testing"

	"asset_aggregator/internal/app/port"
	provider_entity "asset_aggregator/internal/entity"
	"asset_aggregator/internal/pkg/solana"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// metadataAccount builds a raw Metaplex metadata account for a mint, with the
// NUL padding real accounts carry.
func metadataAccount(t *testing.T, mint, name, symbol, uri string) []byte {
	t.Helper()
	mintKey, err := solana.DecodePubkey(mint)
	require.NoError(t, err)

	buf := make([]byte, 0, 256)
	buf = append(buf, 4) // key discriminator
	buf = append(buf, make([]byte, 32)...)
	buf = append(buf, mintKey[:]...)
	for _, s := range []string{name + "\x00\x00", symbol + "\x00", uri} {
		var prefix [4]byte
		binary.LittleEndian.PutUint32(prefix[:], uint32(len(s)))
		buf = append(buf, prefix[:]...)
		buf = append(buf, s...)
	}
	return buf
}

type stubImageFetcher struct {
	imageFn func(ctx context.Context, uri string) (string, error)
}

func (s *stubImageFetcher) FetchAssetImage(ctx context.Context, uri string) (string, error) {
	if s.imageFn == nil {
		return "", nil
	}
	return s.imageFn(ctx, uri)
}

func TestOnchainFetchAssetsResolvesFromAccounts(t *testing.T) {
	rpc := &stubRPCClient{
		parsedMintFn: func(_ context.Context, mint string) (*provider_entity.RPCParsedMint, error) {
			return &provider_entity.RPCParsedMint{Decimals: 5, Supply: "100"}, nil
		},
		accountDataFn: func(_ context.Context, _ string) ([]byte, error) {
			return metadataAccount(t, mintBonk, "Bonk", "Bonk", "https://meta.example/bonk.json"), nil
		},
	}
	images := &stubImageFetcher{
		imageFn: func(_ context.Context, uri string) (string, error) {
			assert.Equal(t, "https://meta.example/bonk.json", uri)
			return "https://img.example/bonk.png", nil
		},
	}
	prices := &stubPriceResolver{prices: map[string]float64{mintBonk: 0.00002}}
	p := NewOnchainProvider(rpc, images, prices, zap.NewNop(), 4)

	assets := p.FetchAssets(context.Background(), []string{mintBonk}, port.DefaultQueryOptions())
	require.Len(t, assets, 1)

	got := assets[0]
	assert.Equal(t, mintBonk, got.Mint)
	assert.Equal(t, "Bonk", got.Name)
	assert.Equal(t, "Bonk", got.Symbol)
	assert.Equal(t, uint8(5), got.Decimals)
	assert.Equal(t, "https://img.example/bonk.png", got.ImageURL)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 0.00002, *got.Price, 1e-12)
}

func TestOnchainFetchAssetsDropsMissingAccounts(t *testing.T) {
	rpc := &stubRPCClient{
		parsedMintFn: func(_ context.Context, mint string) (*provider_entity.RPCParsedMint, error) {
			if mint == mintUSDC {
				return nil, nil // account does not exist
			}
			return &provider_entity.RPCParsedMint{Decimals: 5}, nil
		},
		accountDataFn: func(_ context.Context, _ string) ([]byte, error) {
			return metadataAccount(t, mintBonk, "Bonk", "Bonk", ""), nil
		},
	}
	p := NewOnchainProvider(rpc, nil, nil, zap.NewNop(), 4)

	assets := p.FetchAssets(context.Background(), []string{mintUSDC, mintBonk}, port.DefaultQueryOptions())
	require.Len(t, assets, 1)
	assert.Equal(t, mintBonk, assets[0].Mint)
	assert.Nil(t, assets[0].Price)
}

func TestOnchainImageFailureKeepsRecord(t *testing.T) {
	rpc := &stubRPCClient{
		parsedMintFn: func(_ context.Context, _ string) (*provider_entity.RPCParsedMint, error) {
			return &provider_entity.RPCParsedMint{Decimals: 5}, nil
		},
		accountDataFn: func(_ context.Context, _ string) ([]byte, error) {
			return metadataAccount(t, mintBonk, "Bonk", "Bonk", "https://meta.example/bonk.json"), nil
		},
	}
	images := &stubImageFetcher{
		imageFn: func(_ context.Context, _ string) (string, error) {
			return "", errStub
		},
	}
	p := NewOnchainProvider(rpc, images, nil, zap.NewNop(), 4)

	assets := p.FetchAssets(context.Background(), []string{mintBonk}, port.DefaultQueryOptions())
	require.Len(t, assets, 1)
	assert.Empty(t, assets[0].ImageURL)
}

func TestOnchainSearchRequiresMintAddress(t *testing.T) {
	p := NewOnchainProvider(&stubRPCClient{}, nil, nil, zap.NewNop(), 4)
	assets := p.SearchAssets(context.Background(), "not a pubkey", port.DefaultQueryOptions())
	require.NotNil(t, assets)
	assert.Empty(t, assets)
}
