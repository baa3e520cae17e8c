// Package fees holds the fee parameters charged by a pool. Every fee is a
// numerator/denominator fraction applied to an amount.
package fees

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/dexmath"
)

// Fees describes the fractions charged on trades and withdrawals.
type Fees struct {
	// Trade fee kept in the pool for liquidity providers, in source tokens.
	TradeFeeNumerator   uint64 `yaml:"trade_fee_numerator" json:"trade_fee_numerator"`
	TradeFeeDenominator uint64 `yaml:"trade_fee_denominator" json:"trade_fee_denominator"`
	// Trade fee routed to the pool owner, converted into pool tokens.
	OwnerTradeFeeNumerator   uint64 `yaml:"owner_trade_fee_numerator" json:"owner_trade_fee_numerator"`
	OwnerTradeFeeDenominator uint64 `yaml:"owner_trade_fee_denominator" json:"owner_trade_fee_denominator"`
	// Withdrawal fee routed to the pool owner, in pool tokens.
	OwnerWithdrawFeeNumerator   uint64 `yaml:"owner_withdraw_fee_numerator" json:"owner_withdraw_fee_numerator"`
	OwnerWithdrawFeeDenominator uint64 `yaml:"owner_withdraw_fee_denominator" json:"owner_withdraw_fee_denominator"`
	// Share of the owner trade fee paid to a referring host, in pool tokens.
	HostFeeNumerator   uint64 `yaml:"host_fee_numerator" json:"host_fee_numerator"`
	HostFeeDenominator uint64 `yaml:"host_fee_denominator" json:"host_fee_denominator"`
}

// TradingFee returns the liquidity provider fee charged on amount.
func (f Fees) TradingFee(amount *uint256.Int) (*uint256.Int, error) {
	return calculateFee(amount, f.TradeFeeNumerator, f.TradeFeeDenominator)
}

// OwnerTradingFee returns the owner fee charged on a traded amount.
func (f Fees) OwnerTradingFee(amount *uint256.Int) (*uint256.Int, error) {
	return calculateFee(amount, f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator)
}

// OwnerWithdrawFee returns the owner fee charged on withdrawn pool tokens.
func (f Fees) OwnerWithdrawFee(amount *uint256.Int) (*uint256.Int, error) {
	return calculateFee(amount, f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator)
}

// HostFee returns the host share of an owner fee expressed in pool tokens.
func (f Fees) HostFee(ownerFee *uint256.Int) (*uint256.Int, error) {
	return calculateFee(ownerFee, f.HostFeeNumerator, f.HostFeeDenominator)
}

// Validate checks that every fraction is below one. A 0/0 fraction means the
// fee is disabled.
func (f Fees) Validate() error {
	fractions := []struct {
		name     string
		num, den uint64
	}{
		{"trade fee", f.TradeFeeNumerator, f.TradeFeeDenominator},
		{"owner trade fee", f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator},
		{"owner withdraw fee", f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator},
		{"host fee", f.HostFeeNumerator, f.HostFeeDenominator},
	}
	for _, fr := range fractions {
		if fr.num == 0 && fr.den == 0 {
			continue
		}
		if fr.num >= fr.den {
			return errors.Wrapf(apperrors.ErrInvalidFee, "%s %d/%d", fr.name, fr.num, fr.den)
		}
	}
	return nil
}

// calculateFee returns amount*num/den. A non-zero fee that rounds down to
// zero is raised to one so small amounts cannot skip the fee.
func calculateFee(amount *uint256.Int, num, den uint64) (*uint256.Int, error) {
	if num == 0 || amount.IsZero() {
		return new(uint256.Int), nil
	}
	fee, ok := dexmath.CheckedMul(amount, uint256.NewInt(num))
	if !ok {
		return nil, errors.Wrap(apperrors.ErrFeeCalculationFailure, "fee numerator overflow")
	}
	if fee, ok = dexmath.CheckedDiv(fee, uint256.NewInt(den)); !ok {
		return nil, errors.Wrap(apperrors.ErrFeeCalculationFailure, "zero fee denominator")
	}
	if fee.IsZero() {
		return uint256.NewInt(1), nil
	}
	return fee, nil
}
