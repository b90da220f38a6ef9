package client

import (
	"context"
	"strings"
	"time"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/config"
	provider_entity "asset_aggregator/internal/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const heliusProviderName = "helius"

// heliusClientImpl is the fasthttp implementation of port.HeliusClient,
// speaking the DAS JSON-RPC methods.
type heliusClientImpl struct {
	caller *jsonrpcCaller
	logger *zap.Logger
}

// NewHeliusClient creates a new instance of heliusClientImpl. The API key is
// carried as a query parameter, the way the provider expects it.
func NewHeliusClient(cfg config.HeliusConfig, logger *zap.Logger) port.HeliusClient {
	endpoint := strings.TrimRight(cfg.RPCURL, "/")
	if cfg.APIKey != "" {
		endpoint += "/?api-key=" + cfg.APIKey
	}
	return &heliusClientImpl{
		caller: &jsonrpcCaller{
			client:   &fasthttp.Client{},
			endpoint: endpoint,
			provider: heliusProviderName,
			timeout:  time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		},
		logger: logger.Named("HeliusClient"),
	}
}

// GetAssetBatch implements port.HeliusClient. The indexer preserves input
// order and returns null for unknown ids.
func (c *heliusClientImpl) GetAssetBatch(ctx context.Context, ids []string) ([]*provider_entity.DasAsset, error) {
	if len(ids) == 0 {
		return []*provider_entity.DasAsset{}, nil
	}

	params := map[string]interface{}{"ids": ids}
	var assets []*provider_entity.DasAsset
	if err := c.caller.call(ctx, "getAssetBatch", params, &assets); err != nil {
		c.logger.Error("getAssetBatch failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, err
	}
	c.logger.Debug("Fetched asset batch", zap.Int("requested", len(ids)), zap.Int("returned", len(assets)))
	return assets, nil
}

// GetAssetsByOwner implements port.HeliusClient.
func (c *heliusClientImpl) GetAssetsByOwner(ctx context.Context, owner string, page, limit int) (*provider_entity.DasAssetList, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 100
	}

	params := map[string]interface{}{
		"ownerAddress": owner,
		"page":         page,
		"limit":        limit,
		"displayOptions": map[string]interface{}{
			"showFungible": true,
		},
	}
	var list provider_entity.DasAssetList
	if err := c.caller.call(ctx, "getAssetsByOwner", params, &list); err != nil {
		c.logger.Error("getAssetsByOwner failed", zap.String("owner", owner), zap.Error(err))
		return nil, err
	}
	return &list, nil
}
