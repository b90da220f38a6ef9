package entity

// Well-known Solana constants used across all provider strategies.
const (
	// WrappedSolMint is the mint address of wrapped SOL (WSOL).
	WrappedSolMint = "So11111111111111111111111111111111111111112"

	// NativeSolSymbol is the display symbol of the chain's native coin.
	NativeSolSymbol = "SOL"

	// NativeSolDecimals is the decimal scaling of SOL / WSOL.
	NativeSolDecimals = 9

	// LamportsPerSol converts a raw lamport balance to SOL.
	LamportsPerSol = 1_000_000_000
)

// SolAsset is the canonical normalized asset record. Every provider strategy
// produces this shape regardless of the upstream response format.
type SolAsset struct {
	Mint        string        `json:"mint"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	ImageURL    string        `json:"imageUrl,omitempty"`
	Decimals    uint8         `json:"decimals"`
	Price       *float64      `json:"price"` // nil means unknown, not zero
	HeldBalance *TokenBalance `json:"heldBalance,omitempty"`
}

// TokenBalance is an owner's holding of one mint. Amount is always
// human-scaled (raw amount divided by 10^decimals), never raw units.
type TokenBalance struct {
	Owner  string  `json:"owner"`
	Amount float64 `json:"amount"`
}

// USDValue returns the asset's held value in USD, treating a missing price
// or balance as zero.
func (a *SolAsset) USDValue() float64 {
	if a.HeldBalance == nil || a.Price == nil {
		return 0
	}
	return a.HeldBalance.Amount * *a.Price
}

// TokenRef identifies a token for price lookups.
type TokenRef struct {
	Mint   string `json:"mint"`
	Symbol string `json:"symbol"`
}

// PricePoint is one sample of a historical price series, ordered ascending
// by timestamp (unix seconds).
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// Interval selects the bucket granularity of a historical price query.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval1H  Interval = "1H"
	Interval4H  Interval = "4H"
	Interval1D  Interval = "1D"
	Interval1W  Interval = "1W"
)

// Valid reports whether the interval is one the providers accept.
func (i Interval) Valid() bool {
	switch i {
	case Interval1m, Interval5m, Interval15m, Interval1H, Interval4H, Interval1D, Interval1W:
		return true
	}
	return false
}
