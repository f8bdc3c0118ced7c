// Package pricing decides what a mint costs: a flat price during the public
// window, then a price per role tier.
package pricing

import (
	"context"
	"math/big"
	"strings"
	"time"

	"pfpMint/errs"
)

// DefaultRole is what a member without a known role is treated as.
const DefaultRole = "Newbie"

var roleTiers = map[string]int{
	"newbie":        0,
	"fullaccess":    1,
	"nads":          2,
	"nadog":         3,
	"mon":           4,
	"communityteam": 5,
}

// MapRole returns the contract tier for a role name. Unknown names map to 0.
func MapRole(role string) int {
	return roleTiers[strings.ToLower(role)]
}

// InPublicWindow reports whether now still falls in the flat-rate sale. The
// end instant itself belongs to the window.
func InPublicWindow(now, publicMintEnd time.Time) bool {
	return !now.After(publicMintEnd)
}

// Resolve picks the price for a mint at now. Tiers outside table yield nil.
func Resolve(now, publicMintEnd time.Time, initial *big.Int, role string, table []*big.Int) *big.Int {
	if InPublicWindow(now, publicMintEnd) {
		return initial
	}
	tier := MapRole(role)
	if tier >= len(table) {
		return nil
	}
	return table[tier]
}

// Source is the on-chain side of the price policy.
type Source interface {
	PublicMintEnd(ctx context.Context) (time.Time, error)
	InitialPrice(ctx context.Context) (*big.Int, error)
	RolePrice(ctx context.Context, tier int) (*big.Int, error)
}

// RoleLookup finds the role a member is priced at.
type RoleLookup interface {
	HighestRole(ctx context.Context, username string) (string, error)
}

// Quote applies the same decision as Resolve but only reads what the branch
// needs from src.
func Quote(ctx context.Context, now time.Time, src Source, roles RoleLookup, username string) (*big.Int, error) {
	end, err := src.PublicMintEnd(ctx)
	if err != nil {
		return nil, errs.E(errs.ContractRead, "pricing.PublicMintEnd", err)
	}
	if InPublicWindow(now, end) {
		price, err := src.InitialPrice(ctx)
		return price, errs.E(errs.ContractRead, "pricing.InitialPrice", err)
	}

	role, err := roles.HighestRole(ctx, username)
	if err != nil {
		return nil, errs.E(errs.ContractRead, "pricing.HighestRole", err)
	}
	price, err := src.RolePrice(ctx, MapRole(role))
	return price, errs.E(errs.ContractRead, "pricing.RolePrice", err)
}
