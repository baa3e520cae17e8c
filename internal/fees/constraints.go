package fees

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
)

// Constraints is the fee policy a pool must satisfy at initialization.
type Constraints struct {
	// MaxFees holds the ceiling for each fraction. A 0/0 ceiling forbids the fee.
	MaxFees Fees `yaml:"max_fees"`
}

// DefaultConstraints caps trade fees at 1%, owner fees at 0.5% and the host
// share of the owner fee at 50%.
var DefaultConstraints = Constraints{
	MaxFees: Fees{
		TradeFeeNumerator:           1,
		TradeFeeDenominator:         100,
		OwnerTradeFeeNumerator:      5,
		OwnerTradeFeeDenominator:    1000,
		OwnerWithdrawFeeNumerator:   5,
		OwnerWithdrawFeeDenominator: 1000,
		HostFeeNumerator:            50,
		HostFeeDenominator:          100,
	},
}

// ValidateFees checks that no fraction of f exceeds the matching ceiling.
func (c Constraints) ValidateFees(f Fees) error {
	checks := []struct {
		name           string
		num, den       uint64
		maxNum, maxDen uint64
	}{
		{"trade fee", f.TradeFeeNumerator, f.TradeFeeDenominator, c.MaxFees.TradeFeeNumerator, c.MaxFees.TradeFeeDenominator},
		{"owner trade fee", f.OwnerTradeFeeNumerator, f.OwnerTradeFeeDenominator, c.MaxFees.OwnerTradeFeeNumerator, c.MaxFees.OwnerTradeFeeDenominator},
		{"owner withdraw fee", f.OwnerWithdrawFeeNumerator, f.OwnerWithdrawFeeDenominator, c.MaxFees.OwnerWithdrawFeeNumerator, c.MaxFees.OwnerWithdrawFeeDenominator},
		{"host fee", f.HostFeeNumerator, f.HostFeeDenominator, c.MaxFees.HostFeeNumerator, c.MaxFees.HostFeeDenominator},
	}
	for _, ch := range checks {
		if ch.num == 0 {
			continue
		}
		if ch.den == 0 || ch.maxDen == 0 {
			return errors.Wrapf(apperrors.ErrInvalidFee, "%s %d/%d not allowed", ch.name, ch.num, ch.den)
		}
		// num/den <= maxNum/maxDen  <=>  num*maxDen <= maxNum*den
		lhs := new(uint256.Int).Mul(uint256.NewInt(ch.num), uint256.NewInt(ch.maxDen))
		rhs := new(uint256.Int).Mul(uint256.NewInt(ch.maxNum), uint256.NewInt(ch.den))
		if lhs.Gt(rhs) {
			return errors.Wrapf(apperrors.ErrInvalidFee, "%s %d/%d exceeds %d/%d",
				ch.name, ch.num, ch.den, ch.maxNum, ch.maxDen)
		}
	}
	return nil
}
