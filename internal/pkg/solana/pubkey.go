// Package solana holds the small on-chain primitives the on-chain strategy
// needs: public key validation, program-derived-address math and Metaplex
// metadata account parsing.
package solana

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Well-known program ids.
const (
	// TokenProgramID is the SPL token program.
	TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	// MetadataProgramID is the Metaplex token metadata program.
	MetadataProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

// pdaMarker terminates the seed hash of a program-derived address.
var pdaMarker = []byte("ProgramDerivedAddress")

// DecodePubkey decodes a base58 public key and checks its length.
func DecodePubkey(s string) ([32]byte, error) {
	var key [32]byte
	raw, err := base58.Decode(s)
	if err != nil {
		return key, fmt.Errorf("invalid base58 pubkey %q: %w", s, err)
	}
	if len(raw) != 32 {
		return key, fmt.Errorf("pubkey %q decodes to %d bytes, want 32", s, len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

// IsValidPubkey reports whether s is a base58-encoded 32-byte public key.
func IsValidPubkey(s string) bool {
	_, err := DecodePubkey(s)
	return err == nil
}

// isOnCurve reports whether b decodes to a point on the ed25519 curve.
// Program-derived addresses must not have a corresponding private key, so
// derivation keeps bumping until the hash falls off the curve.
func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// FindProgramAddress derives the first off-curve address for the given seeds
// under programID, searching bump seeds from 255 downward.
func FindProgramAddress(seeds [][]byte, programID [32]byte) (string, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			if len(seed) > 32 {
				return "", 0, fmt.Errorf("seed exceeds 32 bytes")
			}
			h.Write(seed)
		}
		h.Write([]byte{uint8(bump)})
		h.Write(programID[:])
		h.Write(pdaMarker)
		candidate := h.Sum(nil)
		if !isOnCurve(candidate) {
			return base58.Encode(candidate), uint8(bump), nil
		}
	}
	return "", 0, fmt.Errorf("no viable program address bump found")
}

// MetadataPDA derives the Metaplex metadata account address for a mint.
func MetadataPDA(mint string) (string, error) {
	mintKey, err := DecodePubkey(mint)
	if err != nil {
		return "", err
	}
	programKey, err := DecodePubkey(MetadataProgramID)
	if err != nil {
		return "", err
	}
	seeds := [][]byte{[]byte("metadata"), programKey[:], mintKey[:]}
	addr, _, err := FindProgramAddress(seeds, programKey)
	if err != nil {
		return "", fmt.Errorf("derive metadata PDA for %s: %w", mint, err)
	}
	return addr, nil
}
