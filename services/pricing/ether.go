package pricing

import (
	"math/big"
	"strings"
)

const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// FormatEther renders a wei amount in ether, always with a fractional part:
// 10^16 is "0.01", 10^18 is "1.0".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	sign := ""
	v := new(big.Int).Set(wei)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	whole, frac := new(big.Int).QuoRem(v, weiPerEther, new(big.Int))
	fs := frac.String()
	fs = strings.Repeat("0", etherDecimals-len(fs)) + fs
	fs = strings.TrimRight(fs, "0")
	if fs == "" {
		fs = "0"
	}
	return sign + whole.String() + "." + fs
}
