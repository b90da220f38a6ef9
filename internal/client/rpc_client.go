package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"asset_aggregator/internal/app/port"
	"asset_aggregator/internal/config"
	"asset_aggregator/internal/domain/entity"
	provider_entity "asset_aggregator/internal/entity"
	"asset_aggregator/internal/pkg/solana"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const rpcProviderName = "solana_rpc"

// rpcClientImpl is the fasthttp implementation of port.SolanaRPCClient.
type rpcClientImpl struct {
	caller *jsonrpcCaller
	logger *zap.Logger
}

// NewRPCClient creates a new instance of rpcClientImpl.
func NewRPCClient(cfg config.RPCConfig, logger *zap.Logger) port.SolanaRPCClient {
	return &rpcClientImpl{
		caller: &jsonrpcCaller{
			client:   &fasthttp.Client{},
			endpoint: cfg.Endpoint,
			provider: rpcProviderName,
			timeout:  time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		},
		logger: logger.Named("SolanaRPCClient"),
	}
}

// rpcValueEnvelope wraps the {context, value} result shape most account
// methods share.
type rpcValueEnvelope[T any] struct {
	Value T `json:"value"`
}

// GetBalance implements port.SolanaRPCClient.
func (c *rpcClientImpl) GetBalance(ctx context.Context, pubkey string) (uint64, error) {
	var result rpcValueEnvelope[uint64]
	params := []interface{}{pubkey}
	if err := c.caller.call(ctx, "getBalance", params, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// tokenAccountEntry is the jsonParsed shape of one getTokenAccountsByOwner
// entry before flattening.
type tokenAccountEntry struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info struct {
					Mint        string                         `json:"mint"`
					Owner       string                         `json:"owner"`
					TokenAmount provider_entity.RPCTokenAmount `json:"tokenAmount"`
				} `json:"parsed"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}

// GetTokenAccountsByOwner implements port.SolanaRPCClient.
func (c *rpcClientImpl) GetTokenAccountsByOwner(ctx context.Context, owner string) ([]provider_entity.RPCTokenAccount, error) {
	var result rpcValueEnvelope[[]tokenAccountEntry]
	params := []interface{}{
		owner,
		map[string]interface{}{"programId": solana.TokenProgramID},
		map[string]interface{}{"encoding": "jsonParsed"},
	}
	if err := c.caller.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		c.logger.Error("getTokenAccountsByOwner failed", zap.String("owner", owner), zap.Error(err))
		return nil, err
	}

	accounts := make([]provider_entity.RPCTokenAccount, 0, len(result.Value))
	for _, e := range result.Value {
		info := e.Account.Data.Parsed.Info
		accounts = append(accounts, provider_entity.RPCTokenAccount{
			Mint:   info.Mint,
			Owner:  info.Owner,
			Amount: info.TokenAmount,
		})
	}
	return accounts, nil
}

// parsedMintAccount is the jsonParsed shape of a mint account.
type parsedMintAccount struct {
	Data struct {
		Parsed struct {
			Type string                        `json:"type"`
			Info provider_entity.RPCParsedMint `json:"info"`
		} `json:"parsed"`
	} `json:"data"`
}

// GetParsedMint implements port.SolanaRPCClient.
func (c *rpcClientImpl) GetParsedMint(ctx context.Context, mint string) (*provider_entity.RPCParsedMint, error) {
	var result rpcValueEnvelope[*parsedMintAccount]
	params := []interface{}{
		mint,
		map[string]interface{}{"encoding": "jsonParsed"},
	}
	if err := c.caller.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	if result.Value.Data.Parsed.Type != "mint" {
		return nil, entity.NewProviderError(rpcProviderName, "getAccountInfo", entity.ErrKindMalformed,
			fmt.Errorf("account %s is not a mint (type %q)", mint, result.Value.Data.Parsed.Type))
	}
	info := result.Value.Data.Parsed.Info
	return &info, nil
}

// rawAccount is the base64 shape of a getAccountInfo value.
type rawAccount struct {
	// Data is a [payload, encoding] tuple.
	Data []string `json:"data"`
}

// GetAccountData implements port.SolanaRPCClient.
func (c *rpcClientImpl) GetAccountData(ctx context.Context, address string) ([]byte, error) {
	var result rpcValueEnvelope[*rawAccount]
	params := []interface{}{
		address,
		map[string]interface{}{"encoding": "base64"},
	}
	if err := c.caller.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}
	if len(result.Value.Data) < 1 {
		return nil, entity.NewProviderError(rpcProviderName, "getAccountInfo", entity.ErrKindMalformed,
			fmt.Errorf("account %s returned no data tuple", address))
	}
	raw, err := base64.StdEncoding.DecodeString(result.Value.Data[0])
	if err != nil {
		return nil, entity.NewProviderError(rpcProviderName, "getAccountInfo", entity.ErrKindMalformed,
			fmt.Errorf("account %s data is not valid base64: %w", address, err))
	}
	return raw, nil
}
