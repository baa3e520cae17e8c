package curve

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/dexmath"
	"github.com/fleshka4/swap-pool/internal/fees"
	"github.com/fleshka4/swap-pool/internal/precise"
)

// ConstantProduct is the Uniswap style x*y=k curve. Single-sided deposits and
// withdrawals follow the Balancer formulas for two tokens weighted 50/50.
type ConstantProduct struct{}

var _ Curve = ConstantProduct{}

// ValidateSupply implements Curve.
func (ConstantProduct) ValidateSupply(reserveA, reserveB uint64) error {
	if reserveA == 0 {
		return errors.Wrap(apperrors.ErrEmptySupply, "token a reserve is zero")
	}
	if reserveB == 0 {
		return errors.Wrap(apperrors.ErrEmptySupply, "token b reserve is zero")
	}
	return nil
}

// NewPoolSupply implements Curve.
func (ConstantProduct) NewPoolSupply() *uint256.Int {
	return uint256.NewInt(InitialSwapPoolAmount)
}

// AllowsDeposits implements Curve.
func (ConstantProduct) AllowsDeposits() bool {
	return true
}

// PoolTokensToTradingTokens computes poolTokens*reserve/supply for each side.
// Under Ceiling an inexact amount is bumped by one unless it is already zero,
// so that a dust amount of pool tokens cannot claim a whole reserve unit.
func (ConstantProduct) PoolTokensToTradingTokens(
	poolTokens, supply, reserveA, reserveB *uint256.Int,
	round RoundDirection,
) (amountA, amountB *uint256.Int, err error) {
	if amountA, err = poolTokenShare(poolTokens, supply, reserveA, round); err != nil {
		return nil, nil, errors.Wrap(err, "token a")
	}
	if amountB, err = poolTokenShare(poolTokens, supply, reserveB, round); err != nil {
		return nil, nil, errors.Wrap(err, "token b")
	}
	return amountA, amountB, nil
}

func poolTokenShare(poolTokens, supply, reserve *uint256.Int, round RoundDirection) (*uint256.Int, error) {
	product, ok := dexmath.CheckedMul(poolTokens, reserve)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrCalculationFailure, "pool tokens times reserve overflows")
	}
	amount, ok := dexmath.CheckedDiv(product, supply)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrCalculationFailure, "zero pool token supply")
	}
	if round == Floor || amount.IsZero() {
		return amount, nil
	}
	remainder, _ := dexmath.CheckedRem(product, supply)
	if !remainder.IsZero() {
		// amount <= product/supply < 2^128, +1 stays in range
		amount.AddUint64(amount, 1)
	}
	return amount, nil
}

// Swap implements Curve. Trade and owner fees are taken from sourceAmount
// before pricing and added back to the swapped source amount, so they stay
// in the source reserve.
func (ConstantProduct) Swap(sourceAmount, swapSourceAmount, swapDestinationAmount *uint256.Int, f fees.Fees) (SwapResult, error) {
	tradeFee, err := f.TradingFee(sourceAmount)
	if err != nil {
		return SwapResult{}, errors.Wrap(err, "trade fee")
	}
	ownerFee, err := f.OwnerTradingFee(sourceAmount)
	if err != nil {
		return SwapResult{}, errors.Wrap(err, "owner fee")
	}

	totalFees, ok := dexmath.CheckedAdd(tradeFee, ownerFee)
	if !ok {
		return SwapResult{}, errors.Wrap(apperrors.ErrFeeCalculationFailure, "total fees overflow")
	}
	sourceLessFees, ok := dexmath.CheckedSub(sourceAmount, totalFees)
	if !ok {
		return SwapResult{}, errors.Wrapf(apperrors.ErrFeeCalculationFailure,
			"fees %s exceed source amount %s", totalFees.Dec(), sourceAmount.Dec())
	}

	sourceSwapped, destinationSwapped, err := Swap(sourceLessFees, swapSourceAmount, swapDestinationAmount)
	if err != nil {
		return SwapResult{}, err
	}

	if sourceSwapped, ok = dexmath.CheckedAdd(sourceSwapped, totalFees); !ok {
		return SwapResult{}, errors.Wrap(apperrors.ErrCalculationFailure, "swapped source plus fees overflows")
	}
	newSource, ok := dexmath.CheckedAdd(swapSourceAmount, sourceSwapped)
	if !ok {
		return SwapResult{}, errors.Wrap(apperrors.ErrCalculationFailure, "new source reserve overflows")
	}
	newDestination, ok := dexmath.CheckedSub(swapDestinationAmount, destinationSwapped)
	if !ok {
		return SwapResult{}, errors.Wrap(apperrors.ErrCalculationFailure, "new destination reserve underflows")
	}

	return SwapResult{
		NewSwapSourceAmount:      newSource,
		NewSwapDestinationAmount: newDestination,
		SourceAmountSwapped:      sourceSwapped,
		DestinationAmountSwapped: destinationSwapped,
		TradeFee:                 tradeFee,
		OwnerFee:                 ownerFee,
	}, nil
}

// Swap is the fee-agnostic constant product swap. It returns the source
// amount actually consumed and the destination amount delivered. The new
// destination reserve is rounded up, adjusting the new source reserve with
// it, so the product of reserves never decreases. A swap delivering nothing
// fails.
func Swap(sourceAmount, swapSourceAmount, swapDestinationAmount *uint256.Int) (sourceSwapped, destinationSwapped *uint256.Int, err error) {
	invariant, ok := dexmath.CheckedMul(swapSourceAmount, swapDestinationAmount)
	if !ok {
		return nil, nil, errors.Wrap(apperrors.ErrCalculationFailure, "invariant overflows")
	}
	newSource, ok := dexmath.CheckedAdd(swapSourceAmount, sourceAmount)
	if !ok {
		return nil, nil, errors.Wrap(apperrors.ErrCalculationFailure, "new source reserve overflows")
	}
	newDestination, newSource, ok := dexmath.CheckedCeilDiv(invariant, newSource)
	if !ok {
		return nil, nil, errors.Wrap(apperrors.ErrCalculationFailure, "new destination reserve")
	}

	if sourceSwapped, ok = dexmath.CheckedSub(newSource, swapSourceAmount); !ok {
		return nil, nil, errors.Wrap(apperrors.ErrCalculationFailure, "source swapped underflows")
	}
	if destinationSwapped, ok = dexmath.CheckedSub(swapDestinationAmount, newDestination); !ok {
		return nil, nil, errors.Wrap(apperrors.ErrCalculationFailure, "destination swapped underflows")
	}
	if destinationSwapped.IsZero() {
		return nil, nil, errors.Wrap(apperrors.ErrCalculationFailure, "swap delivers nothing")
	}
	return sourceSwapped, destinationSwapped, nil
}

// DepositSingleTokenType implements Curve:
//
//	poolTokens = supply * (sqrt(1 + source/reserve) - 1)
//
// rounded down, where source is net of a trade fee charged on half of it.
func (ConstantProduct) DepositSingleTokenType(
	sourceAmount, reserveA, reserveB, supply *uint256.Int,
	dir TradeDirection,
	f fees.Fees,
) (*uint256.Int, error) {
	if sourceAmount.IsZero() {
		return new(uint256.Int), nil
	}
	net, err := levyHalfTradeFee(sourceAmount, f)
	if err != nil {
		return nil, err
	}
	return depositSingleTokenType(net, sourceReserve(dir, reserveA, reserveB), supply, Floor)
}

// WithdrawSingleTokenTypeExactOut implements Curve:
//
//	poolTokens = supply * (1 - sqrt(1 - destination/reserve))
//
// rounded up, where destination is net of a trade fee charged on half of it.
// A net destination amount that is not below the reserve fails.
func (ConstantProduct) WithdrawSingleTokenTypeExactOut(
	destinationAmount, reserveA, reserveB, supply *uint256.Int,
	dir TradeDirection,
	f fees.Fees,
) (*uint256.Int, error) {
	if destinationAmount.IsZero() {
		return new(uint256.Int), nil
	}
	net, err := levyHalfTradeFee(destinationAmount, f)
	if err != nil {
		return nil, err
	}
	reserve := sourceReserve(dir, reserveA, reserveB)
	if !net.Lt(reserve) {
		return nil, errors.Wrapf(apperrors.ErrCalculationFailure,
			"withdrawal %s is not below reserve %s", net.Dec(), reserve.Dec())
	}
	return withdrawSingleTokenTypeExactOut(net, reserve, supply, Ceiling)
}

// levyHalfTradeFee subtracts the trade fee charged on max(1, amount/2).
func levyHalfTradeFee(amount *uint256.Int, f fees.Fees) (*uint256.Int, error) {
	half := new(uint256.Int).Rsh(amount, 1)
	if half.IsZero() {
		half.SetOne()
	}
	fee, err := f.TradingFee(half)
	if err != nil {
		return nil, errors.Wrap(err, "trade fee on half amount")
	}
	net, ok := dexmath.CheckedSub(amount, fee)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrFeeCalculationFailure,
			"trade fee %s exceeds amount %s", fee.Dec(), amount.Dec())
	}
	return net, nil
}

func sourceReserve(dir TradeDirection, reserveA, reserveB *uint256.Int) *uint256.Int {
	if dir == BtoA {
		return reserveB
	}
	return reserveA
}

func depositSingleTokenType(amount, reserve, supply *uint256.Int, round RoundDirection) (*uint256.Int, error) {
	ratio, err := preciseRatio(amount, reserve)
	if err != nil {
		return nil, err
	}
	base, ok := precise.One().CheckedAdd(ratio)
	if !ok {
		return nil, calcErr("1 + ratio")
	}
	root, ok := base.Sqrt()
	if !ok {
		return nil, calcErr("sqrt")
	}
	if root, ok = root.CheckedSub(precise.One()); !ok {
		return nil, calcErr("sqrt - 1")
	}
	return scaleSupply(supply, root, round)
}

func withdrawSingleTokenTypeExactOut(amount, reserve, supply *uint256.Int, round RoundDirection) (*uint256.Int, error) {
	ratio, err := preciseRatio(amount, reserve)
	if err != nil {
		return nil, err
	}
	base, ok := precise.One().CheckedSub(ratio)
	if !ok {
		return nil, calcErr("1 - ratio")
	}
	root, ok := base.Sqrt()
	if !ok {
		return nil, calcErr("sqrt")
	}
	if root, ok = precise.One().CheckedSub(root); !ok {
		return nil, calcErr("1 - sqrt")
	}
	return scaleSupply(supply, root, round)
}

func preciseRatio(amount, reserve *uint256.Int) (precise.Number, error) {
	a, ok := precise.New(amount)
	if !ok {
		return precise.Number{}, calcErr("amount out of range")
	}
	r, ok := precise.New(reserve)
	if !ok {
		return precise.Number{}, calcErr("reserve out of range")
	}
	ratio, ok := a.CheckedDiv(r)
	if !ok {
		return precise.Number{}, calcErr("amount / reserve")
	}
	return ratio, nil
}

func scaleSupply(supply *uint256.Int, factor precise.Number, round RoundDirection) (*uint256.Int, error) {
	s, ok := precise.New(supply)
	if !ok {
		return nil, calcErr("supply out of range")
	}
	poolTokens, ok := s.CheckedMul(factor)
	if !ok {
		return nil, calcErr("supply * factor")
	}
	if round == Ceiling {
		if poolTokens, ok = poolTokens.Ceiling(); !ok {
			return nil, calcErr("ceiling")
		}
	} else {
		poolTokens = poolTokens.Floor()
	}
	amount, ok := poolTokens.ToImprecise()
	if !ok {
		return nil, calcErr("pool tokens out of range")
	}
	return amount, nil
}

func calcErr(step string) error {
	return errors.Wrap(apperrors.ErrCalculationFailure, step)
}
