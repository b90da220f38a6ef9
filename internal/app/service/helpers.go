package service

import (
	"fmt"
	"sort"

	"asset_aggregator/internal/domain/entity"
)

// searchResultLimit is the provider-enforced page size for ranked search.
const searchResultLimit = 10

// sortAndLimitByValue orders assets descending by held USD value (missing
// price or balance counts as zero) and truncates to limit.
func sortAndLimitByValue(assets []entity.SolAsset, limit int) []entity.SolAsset {
	sort.SliceStable(assets, func(i, j int) bool {
		return assets[i].USDValue() > assets[j].USDValue()
	})
	if limit > 0 && len(assets) > limit {
		assets = assets[:limit]
	}
	return assets
}

// containsMint reports whether any asset has the given mint.
func containsMint(assets []entity.SolAsset, mint string) bool {
	for i := range assets {
		if assets[i].Mint == mint {
			return true
		}
	}
	return false
}

func errMintNotFound(mint string) error {
	return fmt.Errorf("mint account %s not found", mint)
}

func errMetadataNotFound(mint string) error {
	return fmt.Errorf("metadata account for mint %s not found", mint)
}

// isStandaloneNative reports whether a result presents the native coin as a
// separately selectable token: native symbol but not the wrapped mint. Such
// entries are filtered when the native balance will be merged into the
// wrapped record anyway.
func isStandaloneNative(symbol, mint string) bool {
	return symbol == entity.NativeSolSymbol && mint != entity.WrappedSolMint
}
