package entity

// Response shapes of the Helius DAS (Digital Asset Standard) JSON-RPC API.

// DasAsset is one asset returned by getAssetBatch / getAssetsByOwner.
// getAssetBatch returns a null element for every id it cannot resolve, so
// slices of this type use pointers.
type DasAsset struct {
	ID        string        `json:"id"`
	Interface string        `json:"interface"`
	Content   *DasContent   `json:"content"`
	TokenInfo *DasTokenInfo `json:"token_info"`
}

// DasContent holds off-chain metadata resolved by the indexer.
type DasContent struct {
	JSONURI  string      `json:"json_uri"`
	Metadata DasMetadata `json:"metadata"`
	Links    DasLinks    `json:"links"`
}

// DasMetadata mirrors the on-chain Metaplex metadata fields.
type DasMetadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// DasLinks holds resolved external links.
type DasLinks struct {
	Image string `json:"image"`
}

// DasTokenInfo holds fungible-token specifics; absent for non-fungibles.
type DasTokenInfo struct {
	Symbol    string        `json:"symbol"`
	Balance   uint64        `json:"balance"`
	Decimals  uint8         `json:"decimals"`
	PriceInfo *DasPriceInfo `json:"price_info"`
}

// DasPriceInfo is the indexer's live price for a fungible token.
type DasPriceInfo struct {
	PricePerToken float64 `json:"price_per_token"`
	Currency      string  `json:"currency"`
}

// DasAssetList is the paginated result of getAssetsByOwner.
type DasAssetList struct {
	Total int         `json:"total"`
	Limit int         `json:"limit"`
	Page  int         `json:"page"`
	Items []*DasAsset `json:"items"`
}
