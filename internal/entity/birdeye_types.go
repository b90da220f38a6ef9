package entity

// Response shapes of the Birdeye public API. All endpoints wrap their payload
// in {"success": bool, "data": ...}; the per-endpoint Data types below are
// what the client hands to the services after unwrapping.

// BirdeyeTokenMetadata is one entry of /defi/v3/token/meta-data/multiple.
type BirdeyeTokenMetadata struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	LogoURI  string `json:"logo_uri"`
	Decimals uint8  `json:"decimals"`
}

// BirdeyeTokenMetadataResponse is the envelope of /defi/v3/token/meta-data/multiple.
type BirdeyeTokenMetadataResponse struct {
	Success bool                            `json:"success"`
	Data    map[string]BirdeyeTokenMetadata `json:"data"`
}

// BirdeyePrice is one entry of /defi/multi_price, keyed by mint address.
type BirdeyePrice struct {
	Value          float64 `json:"value"`
	UpdateUnixTime int64   `json:"updateUnixTime"`
}

// BirdeyeMultiPriceResponse is the envelope of /defi/multi_price. Mints with
// no known price are simply absent from Data (or present with a null value,
// which the client also treats as absent).
type BirdeyeMultiPriceResponse struct {
	Success bool                     `json:"success"`
	Data    map[string]*BirdeyePrice `json:"data"`
}

// BirdeyeTokenBalance is the payload of /v1/wallet/token_balance.
type BirdeyeTokenBalance struct {
	Address  string  `json:"address"`
	Balance  uint64  `json:"balance"`
	Decimals uint8   `json:"decimals"`
	UIAmount float64 `json:"uiAmount"`
}

// BirdeyeTokenBalanceResponse is the envelope of /v1/wallet/token_balance.
// Data is null when the wallet holds no account for the mint.
type BirdeyeTokenBalanceResponse struct {
	Success bool                 `json:"success"`
	Data    *BirdeyeTokenBalance `json:"data"`
}

// BirdeyeSearchToken is one ranked hit of /defi/v3/search.
type BirdeyeSearchToken struct {
	Address   string   `json:"address"`
	Name      string   `json:"name"`
	Symbol    string   `json:"symbol"`
	LogoURI   string   `json:"logo_uri"`
	Decimals  uint8    `json:"decimals"`
	Price     *float64 `json:"price"`
	Liquidity float64  `json:"liquidity"`
}

// BirdeyeSearchCategory groups search hits by target type.
type BirdeyeSearchCategory struct {
	Type   string               `json:"type"`
	Result []BirdeyeSearchToken `json:"result"`
}

// BirdeyeSearchResponse is the envelope of /defi/v3/search.
type BirdeyeSearchResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items []BirdeyeSearchCategory `json:"items"`
	} `json:"data"`
}

// BirdeyeHistoryItem is one bucket of /defi/history_price.
type BirdeyeHistoryItem struct {
	UnixTime int64   `json:"unixTime"`
	Value    float64 `json:"value"`
}

// BirdeyeHistoryResponse is the envelope of /defi/history_price.
type BirdeyeHistoryResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Items []BirdeyeHistoryItem `json:"items"`
	} `json:"data"`
}

// BirdeyeWalletToken is one holding of /v1/wallet/token_list.
type BirdeyeWalletToken struct {
	Address  string   `json:"address"`
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	LogoURI  string   `json:"logoURI"`
	Decimals uint8    `json:"decimals"`
	Balance  uint64   `json:"balance"`
	UIAmount float64  `json:"uiAmount"`
	PriceUSD *float64 `json:"priceUsd"`
	ValueUSD float64  `json:"valueUsd"`
}

// BirdeyeWalletTokenListResponse is the envelope of /v1/wallet/token_list.
type BirdeyeWalletTokenListResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Wallet   string               `json:"wallet"`
		TotalUSD float64              `json:"totalUsd"`
		Items    []BirdeyeWalletToken `json:"items"`
	} `json:"data"`
}
