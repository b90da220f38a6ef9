package client

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"asset_aggregator/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

// jsonrpcRequest is a JSON-RPC 2.0 request envelope.
type jsonrpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// jsonrpcResponse is a JSON-RPC 2.0 response envelope.
type jsonrpcResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      uint64              `json:"id"`
	Result  jsoniter.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError       `json:"error,omitempty"`
}

// jsonrpcError is a JSON-RPC 2.0 error object.
type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *jsonrpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// jsonrpcCaller posts JSON-RPC 2.0 requests over fasthttp with monotonically
// increasing request ids.
type jsonrpcCaller struct {
	client    *fasthttp.Client
	endpoint  string
	provider  string
	timeout   time.Duration
	requestID atomic.Uint64
}

// call performs one JSON-RPC request and unmarshals the result into out.
func (c *jsonrpcCaller) call(ctx context.Context, method string, params interface{}, out interface{}) error {
	payload, err := json.Marshal(jsonrpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return entity.NewProviderError(c.provider, method, entity.ErrKindRequest, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		return entity.NewProviderError(c.provider, method, entity.ErrKindRequest,
			fmt.Errorf("failed to execute request to %s: %w", c.endpoint, err))
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return entity.NewProviderError(c.provider, method, entity.ErrKindStatus,
			fmt.Errorf("request to %s failed with status %d", c.endpoint, resp.StatusCode()))
	}

	var parsed jsonrpcResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return entity.NewProviderError(c.provider, method, entity.ErrKindMalformed, err)
	}
	if parsed.Error != nil {
		return entity.NewProviderError(c.provider, method, entity.ErrKindStatus, parsed.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(parsed.Result, out); err != nil {
		return entity.NewProviderError(c.provider, method, entity.ErrKindMalformed, err)
	}
	return nil
}
