package service

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/dexmath"
	"github.com/fleshka4/swap-pool/internal/service/dto"
)

// priceSwap prices a swap of amountIn and converts the owner fee into pool
// tokens. HostPoolTokens is only set when withHost is true.
func (sn snapshot) priceSwap(dir curve.TradeDirection, amountIn uint64, withHost bool) (dto.SwapResult, error) {
	source, destination := sn.reserves(dir)
	result, err := sn.curve.Swap(amount(amountIn), amount(source), amount(destination), sn.pool.Fees)
	if err != nil {
		return dto.SwapResult{}, reject(apperrors.ErrZeroTradingTokens, err)
	}

	newA, newB := result.NewSwapSourceAmount, result.NewSwapDestinationAmount
	if dir == curve.BtoA {
		newA, newB = newB, newA
	}

	// Комиссия владельца считается по резервам ПОСЛЕ свопа.
	ownerTokens, err := sn.curve.WithdrawSingleTokenTypeExactOut(
		result.OwnerFee, newA, newB, amount(sn.supply), dir, sn.pool.Fees)
	if err != nil {
		return dto.SwapResult{}, reject(apperrors.ErrFeeCalculationFailure, err)
	}
	hostTokens := new(uint256.Int)
	if withHost && !ownerTokens.IsZero() {
		if hostTokens, err = sn.pool.Fees.HostFee(ownerTokens); err != nil {
			return dto.SwapResult{}, reject(apperrors.ErrFeeCalculationFailure, err)
		}
	}

	out := dto.SwapResult{Direction: dir.String()}
	fields := []struct {
		dst  *uint64
		v    *uint256.Int
		name string
	}{
		{&out.AmountIn, result.SourceAmountSwapped, "source amount swapped"},
		{&out.AmountOut, result.DestinationAmountSwapped, "destination amount swapped"},
		{&out.TradeFee, result.TradeFee, "trade fee"},
		{&out.OwnerFee, result.OwnerFee, "owner fee"},
		{&out.OwnerPoolTokens, ownerTokens, "owner pool tokens"},
		{&out.HostPoolTokens, hostTokens, "host pool tokens"},
		{&out.NewReserveA, newA, "new reserve a"},
		{&out.NewReserveB, newB, "new reserve b"},
	}
	for _, f := range fields {
		if *f.dst, err = narrow(f.v, f.name); err != nil {
			return dto.SwapResult{}, err
		}
	}
	return out, nil
}

// priceDepositAll returns the pool tokens minted and the amounts of both
// tokens owed for poolTokens. An empty pool is priced at its initial supply.
func (sn snapshot) priceDepositAll(poolTokens uint64) (minted, tokenA, tokenB uint64, err error) {
	if !sn.curve.AllowsDeposits() {
		return 0, 0, 0, errors.Wrapf(apperrors.ErrDepositsNotAllowed, "pool %s", sn.pool.ID)
	}

	tokens, supply := amount(poolTokens), amount(sn.supply)
	if sn.supply == 0 {
		tokens, supply = sn.curve.NewPoolSupply(), sn.curve.NewPoolSupply()
	}
	a, b, err := sn.curve.PoolTokensToTradingTokens(tokens, supply, amount(sn.reserveA), amount(sn.reserveB), curve.Ceiling)
	if err != nil {
		return 0, 0, 0, reject(apperrors.ErrZeroTradingTokens, err)
	}
	if sn.supply == 0 {
		if err = sn.validateRefill(a, b); err != nil {
			return 0, 0, 0, err
		}
	}

	if minted, err = narrow(tokens, "pool tokens"); err != nil {
		return 0, 0, 0, err
	}
	if tokenA, err = narrow(a, "token a amount"); err != nil {
		return 0, 0, 0, err
	}
	if tokenB, err = narrow(b, "token b amount"); err != nil {
		return 0, 0, 0, err
	}
	return minted, tokenA, tokenB, nil
}

// priceDepositSingle returns the pool tokens minted for sourceAmount.
func (sn snapshot) priceDepositSingle(dir curve.TradeDirection, sourceAmount uint64) (uint64, error) {
	if !sn.curve.AllowsDeposits() {
		return 0, errors.Wrapf(apperrors.ErrDepositsNotAllowed, "pool %s", sn.pool.ID)
	}

	tokens := sn.curve.NewPoolSupply()
	if sn.supply == 0 {
		deposit := [2]*uint256.Int{amount(sourceAmount), new(uint256.Int)}
		if dir == curve.BtoA {
			deposit[0], deposit[1] = deposit[1], deposit[0]
		}
		if err := sn.validateRefill(deposit[0], deposit[1]); err != nil {
			return 0, err
		}
	} else {
		var err error
		tokens, err = sn.curve.DepositSingleTokenType(amount(sourceAmount), amount(sn.reserveA), amount(sn.reserveB),
			amount(sn.supply), dir, sn.pool.Fees)
		if err != nil {
			return 0, reject(apperrors.ErrZeroTradingTokens, err)
		}
	}

	minted, err := narrow(tokens, "pool tokens")
	if err != nil {
		return 0, err
	}
	if minted == 0 {
		return 0, errors.Wrap(apperrors.ErrZeroTradingTokens, "deposit mints no pool tokens")
	}
	return minted, nil
}

// validateRefill checks that a deposit of (a, b) into a pool without pool
// tokens leaves both reserves funded.
func (sn snapshot) validateRefill(a, b *uint256.Int) error {
	newA, okA := dexmath.CheckedAdd(amount(sn.reserveA), a)
	newB, okB := dexmath.CheckedAdd(amount(sn.reserveB), b)
	if !okA || !okB {
		return errors.Wrap(apperrors.ErrCalculationFailure, "reserve plus deposit overflows")
	}
	resA, err := narrow(newA, "new reserve a")
	if err != nil {
		return err
	}
	resB, err := narrow(newB, "new reserve b")
	if err != nil {
		return err
	}
	return sn.curve.ValidateSupply(resA, resB)
}

// withdrawFee returns the owner fee on poolTokens. It is waived when the
// pool fee account itself withdraws.
func (sn snapshot) withdrawFee(source string, poolTokens *uint256.Int) (*uint256.Int, error) {
	if source == sn.pool.FeeAccount {
		return new(uint256.Int), nil
	}
	fee, err := sn.pool.Fees.OwnerWithdrawFee(poolTokens)
	if err != nil {
		return nil, reject(apperrors.ErrFeeCalculationFailure, err)
	}
	return fee, nil
}

// priceWithdrawAll splits poolTokens into the withdraw fee and the burned
// rest, and returns the reserves paid for the burned part capped at the
// vault balances.
func (sn snapshot) priceWithdrawAll(source string, poolTokens uint64) (burned, fee, tokenA, tokenB uint64, err error) {
	feeTokens, err := sn.withdrawFee(source, amount(poolTokens))
	if err != nil {
		return 0, 0, 0, 0, err
	}
	net, ok := dexmath.CheckedSub(amount(poolTokens), feeTokens)
	if !ok {
		return 0, 0, 0, 0, errors.Wrap(apperrors.ErrFeeCalculationFailure, "withdraw fee exceeds pool tokens")
	}

	a, b, err := sn.curve.PoolTokensToTradingTokens(net, amount(sn.supply), amount(sn.reserveA), amount(sn.reserveB), curve.Floor)
	if err != nil {
		return 0, 0, 0, 0, reject(apperrors.ErrZeroTradingTokens, err)
	}
	a = dexmath.Min(a, amount(sn.reserveA))
	b = dexmath.Min(b, amount(sn.reserveB))

	// Min above bounds a and b by the uint64 reserves.
	tokenA, tokenB = a.Uint64(), b.Uint64()
	// Как и при одностороннем выводе, резерв нельзя опустошить.
	if sn.reserveA != 0 && tokenA == sn.reserveA {
		return 0, 0, 0, 0, errors.Wrapf(apperrors.ErrInsufficientFunds, "withdrawal empties token a reserve %d", sn.reserveA)
	}
	if sn.reserveB != 0 && tokenB == sn.reserveB {
		return 0, 0, 0, 0, errors.Wrapf(apperrors.ErrInsufficientFunds, "withdrawal empties token b reserve %d", sn.reserveB)
	}
	if tokenA == 0 && sn.reserveA != 0 {
		return 0, 0, 0, 0, errors.Wrap(apperrors.ErrZeroTradingTokens, "withdrawal pays no token a")
	}
	if tokenB == 0 && sn.reserveB != 0 {
		return 0, 0, 0, 0, errors.Wrap(apperrors.ErrZeroTradingTokens, "withdrawal pays no token b")
	}
	return net.Uint64(), feeTokens.Uint64(), tokenA, tokenB, nil
}

// priceWithdrawSingle returns the pool tokens burned to pay out exactly
// destinationAmount and the withdraw fee charged on top.
func (sn snapshot) priceWithdrawSingle(source string, dir curve.TradeDirection, destinationAmount uint64) (burned, fee uint64, err error) {
	// A pool never pays out a whole reserve.
	if reserve, _ := sn.reserves(dir); destinationAmount >= reserve {
		return 0, 0, errors.Wrapf(apperrors.ErrInsufficientFunds, "pool holds %d, requested %d", reserve, destinationAmount)
	}

	burn, err := sn.curve.WithdrawSingleTokenTypeExactOut(amount(destinationAmount), amount(sn.reserveA), amount(sn.reserveB),
		amount(sn.supply), dir, sn.pool.Fees)
	if err != nil {
		return 0, 0, reject(apperrors.ErrZeroTradingTokens, err)
	}
	feeTokens, err := sn.withdrawFee(source, burn)
	if err != nil {
		return 0, 0, err
	}
	total, ok := dexmath.CheckedAdd(burn, feeTokens)
	if !ok {
		return 0, 0, errors.Wrap(apperrors.ErrCalculationFailure, "pool tokens plus withdraw fee overflows")
	}
	if _, err = narrow(total, "pool tokens"); err != nil {
		return 0, 0, err
	}
	if total.IsZero() {
		return 0, 0, errors.Wrap(apperrors.ErrZeroTradingTokens, "withdrawal burns no pool tokens")
	}
	return burn.Uint64(), feeTokens.Uint64(), nil
}
