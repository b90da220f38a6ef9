package solana

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// Metadata is the subset of a Metaplex token metadata account this system
// reads.
type Metadata struct {
	Mint   string
	Name   string
	Symbol string
	URI    string
}

// Account layout: key (1) | update authority (32) | mint (32) | name | symbol
// | uri | ..., where strings are borsh-encoded (u32 little-endian length
// followed by that many bytes). On-chain the string payloads are allocated at
// fixed size and NUL-padded.
const metadataHeaderLen = 1 + 32 + 32

// ParseMetadata decodes the fields this system needs out of a raw metadata
// account. It rejects truncated or inconsistent buffers instead of panicking
// on them.
func ParseMetadata(data []byte) (*Metadata, error) {
	if len(data) < metadataHeaderLen {
		return nil, fmt.Errorf("metadata account too short: %d bytes", len(data))
	}

	mint := base58EncodeKey(data[1+32 : 1+32+32])

	offset := metadataHeaderLen
	name, offset, err := readBorshString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("metadata name: %w", err)
	}
	symbol, offset, err := readBorshString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("metadata symbol: %w", err)
	}
	uri, _, err := readBorshString(data, offset)
	if err != nil {
		return nil, fmt.Errorf("metadata uri: %w", err)
	}

	return &Metadata{
		Mint:   mint,
		Name:   trimPadding(name),
		Symbol: trimPadding(symbol),
		URI:    trimPadding(uri),
	}, nil
}

// readBorshString reads a u32-length-prefixed string at offset and returns
// the string and the next offset.
func readBorshString(data []byte, offset int) (string, int, error) {
	if offset+4 > len(data) {
		return "", 0, fmt.Errorf("length prefix out of bounds at offset %d", offset)
	}
	strLen := int(binary.LittleEndian.Uint32(data[offset : offset+4]))
	offset += 4
	if strLen < 0 || offset+strLen > len(data) {
		return "", 0, fmt.Errorf("string of %d bytes out of bounds at offset %d", strLen, offset)
	}
	return string(data[offset : offset+strLen]), offset + strLen, nil
}

// trimPadding strips the NUL padding of fixed-size on-chain strings.
func trimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

func base58EncodeKey(b []byte) string {
	return base58.Encode(b)
}
