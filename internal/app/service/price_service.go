package service

import (
	"context"
	"time"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/config"
	"asset_aggregator/internal/domain/entity"
	"asset_aggregator/internal/observability"
	"asset_aggregator/internal/pkg/utils"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// priceServiceImpl implements port.PriceResolver on top of the Birdeye price
// endpoints with a short TTL cache for current prices. The aggregation
// strategies stay cacheless; only the resolver surface caches.
type priceServiceImpl struct {
	api          port.BirdeyeClient
	logger       *zap.Logger
	pricesCache  *cache.Cache
	metrics      *observability.Metrics
	maxBatchSize int
}

// NewPriceService creates a new instance of priceServiceImpl. metrics may be
// nil in tests.
func NewPriceService(api port.BirdeyeClient, cfg config.PriceServiceConfig, metrics *observability.Metrics, logger *zap.Logger) port.PriceResolver {
	return &priceServiceImpl{
		api:    api,
		logger: logger.Named("PriceService"),
		pricesCache: cache.New(
			time.Duration(cfg.CacheTTLMinutes)*time.Minute,
			time.Duration(cfg.CacheCleanupMinutes)*time.Minute,
		),
		metrics:      metrics,
		maxBatchSize: cfg.MaxTokensPerBatchRequest,
	}
}

// FetchCurrentPrices implements port.PriceResolver. The output always has
// one entry per input token in input order; a request-level failure maps
// every position to nil.
func (s *priceServiceImpl) FetchCurrentPrices(ctx context.Context, tokens []entity.TokenRef) []*float64 {
	out := make([]*float64, len(tokens))
	if len(tokens) == 0 {
		return out
	}

	cached := make(map[string]float64, len(tokens))
	var missing []string
	for _, token := range tokens {
		if v, found := s.pricesCache.Get(token.Mint); found {
			if price, ok := v.(float64); ok {
				cached[token.Mint] = price
				s.countCacheHit()
				continue
			}
		}
		missing = append(missing, token.Mint)
	}
	missing = utils.UniqueStrings(missing)

	fetched := make(map[string]float64, len(missing))
	for _, batch := range utils.BatchStrings(missing, s.maxBatchSize) {
		prices, err := s.api.MultiPrice(ctx, batch)
		if err != nil {
			// Whole-request failure fails soft to all-nil, cache included,
			// so callers cannot mistake stale partial data for a full
			// answer.
			s.logger.Error("Price batch fetch failed", zap.Int("tokens", len(batch)), zap.Error(err))
			return make([]*float64, len(tokens))
		}
		for mint, p := range prices {
			if p == nil {
				continue
			}
			fetched[mint] = p.Value
			s.pricesCache.Set(mint, p.Value, cache.DefaultExpiration)
		}
	}

	for i, token := range tokens {
		if price, ok := cached[token.Mint]; ok {
			v := price
			out[i] = &v
			continue
		}
		if price, ok := fetched[token.Mint]; ok {
			v := price
			out[i] = &v
		}
	}
	return out
}

// FetchPriceHistory implements port.PriceResolver. Historical series are not
// cached. A provider failure and a zero-item response both map to nil, never
// an empty slice, so callers checking for nil see "no data" in both cases.
func (s *priceServiceImpl) FetchPriceHistory(ctx context.Context, token entity.TokenRef, start, end int64, interval entity.Interval) []entity.PricePoint {
	if !interval.Valid() {
		s.logger.Warn("Rejecting price history request with unknown interval",
			zap.String("mint", token.Mint), zap.String("interval", string(interval)))
		return nil
	}

	items, err := s.api.HistoryPrice(ctx, token.Mint, string(interval), start, end)
	if err != nil {
		s.logger.Error("Price history fetch failed",
			zap.String("mint", token.Mint), zap.String("interval", string(interval)), zap.Error(err))
		return nil
	}
	if len(items) == 0 {
		return nil
	}

	points := make([]entity.PricePoint, 0, len(items))
	for _, item := range items {
		points = append(points, entity.PricePoint{Timestamp: item.UnixTime, Price: item.Value})
	}
	return points
}

func (s *priceServiceImpl) countCacheHit() {
	if s.metrics != nil {
		s.metrics.PriceCacheHits.Inc()
	}
}
