package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/config"
	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const birdeyeProviderName = "birdeye"

// birdeyeClientImpl is the fasthttp implementation of port.BirdeyeClient.
type birdeyeClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewBirdeyeClient creates a new instance of birdeyeClientImpl. The limiter
// keeps the client inside the provider's request-per-second quota.
func NewBirdeyeClient(cfg config.BirdeyeConfig, logger *zap.Logger) port.BirdeyeClient {
	return &birdeyeClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		timeout: time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateBurst),
		logger:  logger.Named("BirdeyeClient"),
	}
}

// doGet executes one GET request against the Birdeye API and returns the raw
// body. The API key header is always attached; the provider rejects keyless
// requests itself.
func (c *birdeyeClientImpl) doGet(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindRequest, err)
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	c.logger.Debug("Requesting Birdeye API", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")
	req.Header.Set("x-chain", "solana")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to Birdeye", zap.String("url", requestURL), zap.Error(err))
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindRequest,
			fmt.Errorf("failed to execute request to %s: %w", requestURL, err))
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Birdeye API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", resp.Body()))
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindStatus,
			fmt.Errorf("request to %s failed with status %d", requestURL, resp.StatusCode()))
	}

	// Body() is only valid until the response is released.
	body := append([]byte(nil), resp.Body()...)
	return body, nil
}

// TokenMetadataMultiple implements port.BirdeyeClient.
func (c *birdeyeClientImpl) TokenMetadataMultiple(ctx context.Context, addresses []string) (map[string]provider_entity.BirdeyeTokenMetadata, error) {
	const operation = "token_metadata_multiple"
	if len(addresses) == 0 {
		return map[string]provider_entity.BirdeyeTokenMetadata{}, nil
	}

	query := url.Values{}
	query.Set("list_address", strings.Join(addresses, ","))
	body, err := c.doGet(ctx, operation, "/defi/v3/token/meta-data/multiple", query)
	if err != nil {
		return nil, err
	}

	var parsed provider_entity.BirdeyeTokenMetadataResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed, err)
	}
	if !parsed.Success {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed,
			fmt.Errorf("provider reported success=false"))
	}
	c.logger.Debug("Fetched token metadata batch",
		zap.Int("requested", len(addresses)), zap.Int("resolved", len(parsed.Data)))
	return parsed.Data, nil
}

// MultiPrice implements port.BirdeyeClient.
func (c *birdeyeClientImpl) MultiPrice(ctx context.Context, addresses []string) (map[string]*provider_entity.BirdeyePrice, error) {
	const operation = "multi_price"
	if len(addresses) == 0 {
		return map[string]*provider_entity.BirdeyePrice{}, nil
	}

	query := url.Values{}
	query.Set("list_address", strings.Join(addresses, ","))
	body, err := c.doGet(ctx, operation, "/defi/multi_price", query)
	if err != nil {
		return nil, err
	}

	var parsed provider_entity.BirdeyeMultiPriceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed, err)
	}
	if !parsed.Success {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed,
			fmt.Errorf("provider reported success=false"))
	}
	return parsed.Data, nil
}

// WalletTokenBalance implements port.BirdeyeClient.
func (c *birdeyeClientImpl) WalletTokenBalance(ctx context.Context, wallet, mint string) (*provider_entity.BirdeyeTokenBalance, error) {
	const operation = "wallet_token_balance"

	query := url.Values{}
	query.Set("wallet", wallet)
	query.Set("token_address", mint)
	body, err := c.doGet(ctx, operation, "/v1/wallet/token_balance", query)
	if err != nil {
		return nil, err
	}

	var parsed provider_entity.BirdeyeTokenBalanceResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed, err)
	}
	// Data is null when the wallet has no account for this mint.
	return parsed.Data, nil
}

// Search implements port.BirdeyeClient. Results are provider-ranked by
// descending liquidity.
func (c *birdeyeClientImpl) Search(ctx context.Context, keyword string, limit int) ([]provider_entity.BirdeyeSearchToken, error) {
	const operation = "search"

	query := url.Values{}
	query.Set("chain", "solana")
	query.Set("target", "token")
	query.Set("sort_by", "liquidity")
	query.Set("sort_type", "desc")
	query.Set("offset", "0")
	query.Set("limit", strconv.Itoa(limit))
	query.Set("keyword", keyword)
	body, err := c.doGet(ctx, operation, "/defi/v3/search", query)
	if err != nil {
		return nil, err
	}

	var parsed provider_entity.BirdeyeSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed, err)
	}
	if !parsed.Success {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed,
			fmt.Errorf("provider reported success=false"))
	}

	var tokens []provider_entity.BirdeyeSearchToken
	for _, category := range parsed.Data.Items {
		if category.Type != "" && category.Type != "token" {
			continue
		}
		tokens = append(tokens, category.Result...)
	}
	return tokens, nil
}

// HistoryPrice implements port.BirdeyeClient.
func (c *birdeyeClientImpl) HistoryPrice(ctx context.Context, mint, interval string, timeFrom, timeTo int64) ([]provider_entity.BirdeyeHistoryItem, error) {
	const operation = "history_price"

	query := url.Values{}
	query.Set("address", mint)
	query.Set("address_type", "token")
	query.Set("type", interval)
	query.Set("time_from", strconv.FormatInt(timeFrom, 10))
	query.Set("time_to", strconv.FormatInt(timeTo, 10))
	body, err := c.doGet(ctx, operation, "/defi/history_price", query)
	if err != nil {
		return nil, err
	}

	var parsed provider_entity.BirdeyeHistoryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed, err)
	}
	if !parsed.Success {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed,
			fmt.Errorf("provider reported success=false"))
	}
	return parsed.Data.Items, nil
}

// WalletTokenList implements port.BirdeyeClient.
func (c *birdeyeClientImpl) WalletTokenList(ctx context.Context, wallet string) ([]provider_entity.BirdeyeWalletToken, error) {
	const operation = "wallet_token_list"

	query := url.Values{}
	query.Set("wallet", wallet)
	body, err := c.doGet(ctx, operation, "/v1/wallet/token_list", query)
	if err != nil {
		return nil, err
	}

	var parsed provider_entity.BirdeyeWalletTokenListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed, err)
	}
	if !parsed.Success {
		return nil, entity.NewProviderError(birdeyeProviderName, operation, entity.ErrKindMalformed,
			fmt.Errorf("provider reported success=false"))
	}
	c.logger.Debug("Fetched wallet token list",
		zap.String("wallet", wallet), zap.Int("holdings", len(parsed.Data.Items)))
	return parsed.Data.Items, nil
}
