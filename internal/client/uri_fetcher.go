package client

import (
	"context"
	"fmt"
	"time"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/domain/entity"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// maxMetadataJSONBytes caps how much of an arbitrary metadata URI response is
// read. Metadata JSON documents are small; anything larger is suspect.
const maxMetadataJSONBytes = 1 << 20

// uriFetcherImpl resolves off-chain metadata URIs into image URLs for the
// on-chain strategy.
type uriFetcherImpl struct {
	client  *fasthttp.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewURIFetcher creates a new instance of uriFetcherImpl.
func NewURIFetcher(timeout time.Duration, logger *zap.Logger) port.AssetImageFetcher {
	return &uriFetcherImpl{
		client:  &fasthttp.Client{MaxResponseBodySize: maxMetadataJSONBytes},
		timeout: timeout,
		logger:  logger.Named("URIFetcher"),
	}
}

// FetchAssetImage implements port.AssetImageFetcher.
func (f *uriFetcherImpl) FetchAssetImage(ctx context.Context, uri string) (string, error) {
	const operation = "fetch_asset_image"

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = f.client.DoDeadline(req, resp, deadline)
	} else {
		err = f.client.DoTimeout(req, resp, f.timeout)
	}
	if err != nil {
		return "", entity.NewProviderError("metadata_uri", operation, entity.ErrKindRequest,
			fmt.Errorf("failed to fetch %s: %w", uri, err))
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", entity.NewProviderError("metadata_uri", operation, entity.ErrKindStatus,
			fmt.Errorf("request to %s failed with status %d", uri, resp.StatusCode()))
	}

	var doc struct {
		Image string `json:"image"`
	}
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return "", entity.NewProviderError("metadata_uri", operation, entity.ErrKindMalformed, err)
	}
	return doc.Image, nil
}
