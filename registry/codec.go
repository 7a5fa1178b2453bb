package registry

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	gethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// EncodeBytes32String encodes a display string as the zero-padded fixed-width
// value the registry stores on-chain. Values longer than 31 bytes do not fit
// and are rejected before any transaction is attempted.
func EncodeBytes32String(s string) ([32]byte, error) {
	var encoded [32]byte
	b := []byte(s)
	if len(b) > 31 {
		return encoded, fmt.Errorf("value exceeds 31 bytes: %s", s)
	}
	copy(encoded[:], b)
	return encoded, nil
}

// DecodeBytes32String decodes a fixed-width value back to a display string.
// Decoding never fails; payloads that are not null-terminated UTF-8 fall back
// to the 0x-prefixed rendering of the raw bytes.
func DecodeBytes32String(b [32]byte) string {
	end := bytes.IndexByte(b[:], 0)
	if end == -1 {
		end = len(b)
	}
	for _, c := range b[end:] {
		if c != 0 {
			return hexutil.Encode(b[:])
		}
	}
	if !utf8.Valid(b[:end]) {
		return hexutil.Encode(b[:])
	}
	return string(b[:end])
}

// CIDDigest derives the fixed-width content digest the registry stores for an
// off-chain document identifier.
func CIDDigest(cid string) [32]byte {
	return gethcrypto.Keccak256Hash([]byte(cid))
}

// NormalizeAddress parses a hex wallet address, canonicalizing checksum
// casing so downstream comparisons are case-insensitive.
func NormalizeAddress(addr string) (gethcommon.Address, error) {
	if !gethcommon.IsHexAddress(addr) {
		return gethcommon.Address{}, fmt.Errorf("invalid wallet address: %s", addr)
	}
	return gethcommon.HexToAddress(addr), nil
}
