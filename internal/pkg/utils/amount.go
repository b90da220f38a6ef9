package utils

import (
	"fmt"
	"math"
	"strconv"
)

// ScaleRawAmount converts a raw integer token amount to its human-readable
// quantity by dividing by 10^decimals.
// Example: raw=1234500000, decimals=9 => 1.2345
func ScaleRawAmount(raw uint64, decimals uint8) float64 {
	if decimals == 0 {
		return float64(raw)
	}
	return float64(raw) / math.Pow10(int(decimals))
}

// ScaleRawAmountString scales a raw amount given as a decimal string, the
// form Solana's jsonParsed token accounts use. On-chain amounts are u64.
func ScaleRawAmountString(raw string, decimals uint8) (float64, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid raw amount %q: %w", raw, err)
	}
	return ScaleRawAmount(v, decimals), nil
}
