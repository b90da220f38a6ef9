package restapi

import (
	"net/http"
	"strconv"
	"strings"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/app/service"
	"asset_aggregator/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// APIAssetsResponse is the envelope of every asset-returning endpoint.
type APIAssetsResponse struct {
	Data struct {
		Assets []entity.SolAsset `json:"assets"`
	} `json:"data"`
	Provider string `json:"provider"`
}

// APIPricesResponse is the envelope of the current-prices endpoint. Prices
// is index-aligned with the requested addresses; unknown prices are null.
type APIPricesResponse struct {
	Data struct {
		Prices []*float64 `json:"prices"`
	} `json:"data"`
}

// APIPriceHistoryResponse is the envelope of the price-history endpoint.
// Items is null (not empty) when the provider has no data for the range.
type APIPriceHistoryResponse struct {
	Data struct {
		Items []entity.PricePoint `json:"items"`
	} `json:"data"`
}

// AssetHandler handles HTTP requests against the aggregation layer.
type AssetHandler struct {
	registry *service.Registry
	prices   port.PriceResolver
}

// NewAssetHandler creates a new instance of AssetHandler.
func NewAssetHandler(registry *service.Registry, prices port.PriceResolver) *AssetHandler {
	return &AssetHandler{registry: registry, prices: prices}
}

// provider resolves the strategy for a request, honoring the ?provider=
// override. Writes the error response itself when the override is unknown.
func (h *AssetHandler) provider(c *gin.Context) (port.AssetProvider, string, bool) {
	name := c.Query("provider")
	p, err := h.registry.Select(name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}
	if name == "" {
		name = h.registry.DefaultName()
	}
	return p, strings.ToLower(name), true
}

// queryOptions reads the owner join and merge flags shared by the fetch and
// search endpoints.
func queryOptions(c *gin.Context) port.QueryOptions {
	opts := port.DefaultQueryOptions()
	opts.Owner = c.Query("owner")
	if raw := c.Query("combineNativeBalance"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			opts.CombineNativeBalance = v
		}
	}
	return opts
}

// GetAssetsHandler handles GET /api/v1/assets?addresses=a,b&owner=&combineNativeBalance=.
func (h *AssetHandler) GetAssetsHandler(c *gin.Context) {
	p, name, ok := h.provider(c)
	if !ok {
		return
	}

	raw := c.Query("addresses")
	var addresses []string
	if raw != "" {
		addresses = strings.Split(raw, ",")
	}

	assets := p.FetchAssets(c.Request.Context(), addresses, queryOptions(c))

	var resp APIAssetsResponse
	resp.Data.Assets = assets
	resp.Provider = name
	c.JSON(http.StatusOK, resp)
}

// SearchAssetsHandler handles GET /api/v1/assets/search?q=&owner=.
func (h *AssetHandler) SearchAssetsHandler(c *gin.Context) {
	p, name, ok := h.provider(c)
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	assets := p.SearchAssets(c.Request.Context(), query, queryOptions(c))

	var resp APIAssetsResponse
	resp.Data.Assets = assets
	resp.Provider = name
	c.JSON(http.StatusOK, resp)
}

// GetWalletAssetsHandler handles GET /api/v1/wallets/:owner/assets?limit=.
func (h *AssetHandler) GetWalletAssetsHandler(c *gin.Context) {
	p, name, ok := h.provider(c)
	if !ok {
		return
	}

	owner := c.Param("owner")
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	assets := p.FetchWalletAssets(c.Request.Context(), owner, limit)

	var resp APIAssetsResponse
	resp.Data.Assets = assets
	resp.Provider = name
	c.JSON(http.StatusOK, resp)
}

// GetPricesHandler handles GET /api/v1/prices?addresses=a,b.
func (h *AssetHandler) GetPricesHandler(c *gin.Context) {
	raw := c.Query("addresses")
	var tokens []entity.TokenRef
	if raw != "" {
		for _, mint := range strings.Split(raw, ",") {
			tokens = append(tokens, entity.TokenRef{Mint: mint})
		}
	}

	var resp APIPricesResponse
	resp.Data.Prices = h.prices.FetchCurrentPrices(c.Request.Context(), tokens)
	c.JSON(http.StatusOK, resp)
}

// GetPriceHistoryHandler handles
// GET /api/v1/prices/history?address=&type=1H&time_from=&time_to=.
func (h *AssetHandler) GetPriceHistoryHandler(c *gin.Context) {
	mint := c.Query("address")
	if mint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter address is required"})
		return
	}
	interval := entity.Interval(c.DefaultQuery("type", string(entity.Interval1D)))
	timeFrom, _ := strconv.ParseInt(c.Query("time_from"), 10, 64)
	timeTo, _ := strconv.ParseInt(c.Query("time_to"), 10, 64)

	var resp APIPriceHistoryResponse
	resp.Data.Items = h.prices.FetchPriceHistory(
		c.Request.Context(), entity.TokenRef{Mint: mint}, timeFrom, timeTo, interval)
	c.JSON(http.StatusOK, resp)
}
