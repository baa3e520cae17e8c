// Package curve prices pool actions. Every function is pure: it takes a
// reserve and supply snapshot and returns amounts or an error, never touching
// any ledger.
package curve

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/fees"
)

// InitialSwapPoolAmount is the number of pool tokens minted on
// initialization and the supply used to price deposits into an empty pool.
const InitialSwapPoolAmount uint64 = 1_000_000_000

// TradeDirection selects which pool token is the source side of an action.
type TradeDirection int

const (
	// AtoB trades token A for token B.
	AtoB TradeDirection = iota
	// BtoA trades token B for token A.
	BtoA
)

// ParseTradeDirection parses "a_to_b" or "b_to_a".
func ParseTradeDirection(s string) (TradeDirection, error) {
	switch s {
	case "a_to_b":
		return AtoB, nil
	case "b_to_a":
		return BtoA, nil
	default:
		return 0, errors.Wrapf(apperrors.ErrInvalidArgument, "unknown trade direction %q", s)
	}
}

func (d TradeDirection) String() string {
	if d == BtoA {
		return "b_to_a"
	}
	return "a_to_b"
}

// Opposite returns the reverse direction.
func (d TradeDirection) Opposite() TradeDirection {
	if d == AtoB {
		return BtoA
	}
	return AtoB
}

// RoundDirection selects how inexact conversions are rounded.
type RoundDirection int

const (
	// Floor rounds down, used for amounts paid out to the user.
	Floor RoundDirection = iota
	// Ceiling rounds up, used for amounts the user pays in.
	Ceiling
)

func (r RoundDirection) String() string {
	if r == Ceiling {
		return "ceiling"
	}
	return "floor"
}

// SwapResult holds every amount produced by a fee-aware swap. All amounts
// are in source token units except the destination ones.
type SwapResult struct {
	// NewSwapSourceAmount is the source reserve after the swap.
	NewSwapSourceAmount *uint256.Int
	// NewSwapDestinationAmount is the destination reserve after the swap.
	NewSwapDestinationAmount *uint256.Int
	// SourceAmountSwapped is the source amount taken from the user, fees included.
	SourceAmountSwapped *uint256.Int
	// DestinationAmountSwapped is the amount paid out to the user.
	DestinationAmountSwapped *uint256.Int
	// TradeFee stays in the pool for liquidity providers.
	TradeFee *uint256.Int
	// OwnerFee is later converted into pool tokens for the owner.
	OwnerFee *uint256.Int
}

// Curve is the capability set the orchestrator needs from a pricing curve.
type Curve interface {
	// ValidateSupply fails with ErrEmptySupply when a reserve is zero.
	ValidateSupply(reserveA, reserveB uint64) error
	// NewPoolSupply returns the pool tokens minted on initialization.
	NewPoolSupply() *uint256.Int
	// AllowsDeposits reports whether deposits are accepted after initialization.
	AllowsDeposits() bool
	// PoolTokensToTradingTokens converts pool tokens into both reserves.
	PoolTokensToTradingTokens(poolTokens, supply, reserveA, reserveB *uint256.Int, round RoundDirection) (amountA, amountB *uint256.Int, err error)
	// Swap prices a trade of sourceAmount including fees.
	Swap(sourceAmount, swapSourceAmount, swapDestinationAmount *uint256.Int, f fees.Fees) (SwapResult, error)
	// DepositSingleTokenType returns the pool tokens minted for a single-sided deposit.
	DepositSingleTokenType(sourceAmount, reserveA, reserveB, supply *uint256.Int, dir TradeDirection, f fees.Fees) (*uint256.Int, error)
	// WithdrawSingleTokenTypeExactOut returns the pool tokens burned to pay out exactly destinationAmount.
	WithdrawSingleTokenTypeExactOut(destinationAmount, reserveA, reserveB, supply *uint256.Int, dir TradeDirection, f fees.Fees) (*uint256.Int, error)
}

// Type names a curve variant in configuration.
type Type string

// ConstantProductType is the x*y=k curve.
const ConstantProductType Type = "constant_product"

// New returns the curve for t. An empty type selects the constant product.
func New(t Type) (Curve, error) {
	switch t {
	case ConstantProductType, "":
		return ConstantProduct{}, nil
	default:
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "unknown curve type %q", t)
	}
}
