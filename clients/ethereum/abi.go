package ethereum

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// Selector returns the 4-byte function selector for a canonical signature
// such as "rolePrices(uint8)".
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// EncodeCall builds calldata for a function taking only unsigned integer arguments.
func EncodeCall(signature string, args ...*big.Int) (string, error) {
	data := Selector(signature)
	for _, arg := range args {
		if arg.Sign() < 0 || arg.BitLen() > wordSize*8 {
			return "", fmt.Errorf("argument %s does not fit in uint256", arg)
		}
		word := make([]byte, wordSize)
		arg.FillBytes(word)
		data = append(data, word...)
	}
	return "0x" + hex.EncodeToString(data), nil
}

// DecodeUint reads the first return word of an eth_call result.
func DecodeUint(result string) (*big.Int, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return nil, fmt.Errorf("malformed call result %q: %w", result, err)
	}
	if len(raw) < wordSize {
		return nil, fmt.Errorf("call result too short: %d bytes", len(raw))
	}
	return new(big.Int).SetBytes(raw[:wordSize]), nil
}
