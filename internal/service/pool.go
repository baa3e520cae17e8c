package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/ledger"
	"github.com/fleshka4/swap-pool/internal/metrics"
	"github.com/fleshka4/swap-pool/internal/service/dto"
	"github.com/fleshka4/swap-pool/internal/service/validate"
)

// Initialize creates a pool over funded vaults and mints the initial pool
// token supply to req.Destination.
func (s *PoolService) Initialize(ctx context.Context, req dto.InitializeRequest) (state dto.PoolState, err error) {
	started := time.Now()
	defer func() {
		s.observe("initialize", req.PoolID, zapcore.InfoLevel, started, err,
			zap.Uint64("reserve_a", state.ReserveA), zap.Uint64("reserve_b", state.ReserveB))
	}()

	if err = validate.InitializeRequestValidate(req); err != nil {
		return dto.PoolState{}, err
	}

	unlock := s.lock(req.PoolID)
	defer unlock()

	if _, err = s.ledger.Pool(ctx, req.PoolID); err == nil {
		return dto.PoolState{}, errors.Wrapf(apperrors.ErrPoolExists, "pool %s", req.PoolID)
	} else if !errors.Is(err, apperrors.ErrPoolNotFound) {
		return dto.PoolState{}, errors.Wrap(err, "s.ledger.Pool")
	}

	c, err := curve.New(req.CurveType)
	if err != nil {
		return dto.PoolState{}, err
	}
	if err = s.constraints.ValidateFees(req.Fees); err != nil {
		return dto.PoolState{}, err
	}
	if err = req.Fees.Validate(); err != nil {
		return dto.PoolState{}, err
	}

	vaultA, err := s.account(ctx, req.VaultA, req.TokenAMint)
	if err != nil {
		return dto.PoolState{}, err
	}
	vaultB, err := s.account(ctx, req.VaultB, req.TokenBMint)
	if err != nil {
		return dto.PoolState{}, err
	}
	feeAccount, err := s.account(ctx, req.FeeAccount, req.PoolMint)
	if err != nil {
		return dto.PoolState{}, err
	}
	if feeAccount.Owner != s.admin {
		return dto.PoolState{}, errors.Wrapf(apperrors.ErrInvalidOwner, "fee account %s is owned by %q", feeAccount.ID, feeAccount.Owner)
	}
	if _, err = s.account(ctx, req.Destination, req.PoolMint); err != nil {
		return dto.PoolState{}, err
	}

	if err = c.ValidateSupply(vaultA.Balance, vaultB.Balance); err != nil {
		return dto.PoolState{}, err
	}
	supply, err := s.ledger.Supply(ctx, req.PoolMint)
	if err != nil {
		return dto.PoolState{}, errors.Wrap(err, "s.ledger.Supply")
	}
	if supply != 0 {
		return dto.PoolState{}, errors.Wrapf(apperrors.ErrInvalidArgument, "pool mint %s already has supply %d", req.PoolMint, supply)
	}
	initial, err := narrow(c.NewPoolSupply(), "initial supply")
	if err != nil {
		return dto.PoolState{}, err
	}

	if err = s.ledger.Apply(ctx, ledger.MintTo(req.PoolMint, req.Destination, initial)); err != nil {
		return dto.PoolState{}, errors.Wrap(err, "s.ledger.Apply")
	}
	err = s.ledger.CreatePool(ctx, ledger.PoolRecord{
		ID:         req.PoolID,
		CurveType:  req.CurveType,
		Fees:       req.Fees,
		TokenAMint: req.TokenAMint,
		TokenBMint: req.TokenBMint,
		PoolMint:   req.PoolMint,
		VaultA:     req.VaultA,
		VaultB:     req.VaultB,
		FeeAccount: req.FeeAccount,
	})
	if err != nil {
		err = errors.Wrap(err, "s.ledger.CreatePool")
		// Без записи пула начальная эмиссия должна быть сожжена.
		if rbErr := s.ledger.Apply(context.WithoutCancel(ctx), ledger.Burn(req.PoolMint, req.Destination, initial)); rbErr != nil {
			err = multierr.Append(err, errors.Wrap(rbErr, "burn initial supply"))
		}
		return dto.PoolState{}, err
	}

	sn, err := s.snapshot(ctx, req.PoolID)
	if err != nil {
		return dto.PoolState{}, err
	}
	metrics.SetPoolState(sn.pool.ID, sn.reserveA, sn.reserveB, sn.supply)
	return sn.state(), nil
}

// Pool returns the current state of pool id.
func (s *PoolService) Pool(ctx context.Context, id string) (dto.PoolState, error) {
	unlock := s.lock(id)
	defer unlock()

	sn, err := s.snapshot(ctx, id)
	if err != nil {
		return dto.PoolState{}, err
	}
	return sn.state(), nil
}

// Pools returns the state of every pool ordered by id.
func (s *PoolService) Pools(ctx context.Context) ([]dto.PoolState, error) {
	records, err := s.ledger.Pools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "s.ledger.Pools")
	}

	out := make([]dto.PoolState, 0, len(records))
	for _, r := range records {
		state, err := s.Pool(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, state)
	}
	return out, nil
}

// Swap trades req.AmountIn of the token held by req.Source for the other token.
// The owner fee is minted to the fee account as pool tokens, minus the host
// share when req.HostAccount is set.
func (s *PoolService) Swap(ctx context.Context, req dto.SwapRequest) (res dto.SwapResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("swap", req.PoolID, zapcore.InfoLevel, started, err,
			zap.String("direction", res.Direction), zap.Uint64("amount_in", res.AmountIn), zap.Uint64("amount_out", res.AmountOut))
	}()

	if err = validate.SwapRequestValidate(req); err != nil {
		return dto.SwapResult{}, err
	}

	unlock := s.lock(req.PoolID)
	defer unlock()

	sn, err := s.snapshot(ctx, req.PoolID)
	if err != nil {
		return dto.SwapResult{}, err
	}
	if err = sn.userAccounts(req.Source, req.Destination, req.HostAccount); err != nil {
		return dto.SwapResult{}, err
	}
	source, err := s.ledger.Account(ctx, req.Source)
	if err != nil {
		return dto.SwapResult{}, errors.Wrap(err, "source")
	}
	dir, err := sn.direction(source.Mint)
	if err != nil {
		return dto.SwapResult{}, err
	}

	res, err = sn.priceSwap(dir, req.AmountIn, req.HostAccount != "")
	if err != nil {
		return dto.SwapResult{}, err
	}
	if res.AmountOut < req.MinAmountOut {
		return dto.SwapResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "amount out %d below minimum %d", res.AmountOut, req.MinAmountOut)
	}

	sourceVault, sourceMint := sn.side(dir)
	destinationVault, destinationMint := sn.side(dir.Opposite())
	ops := []ledger.Op{
		ledger.Transfer(sourceMint, req.Source, sourceVault, res.AmountIn),
		ledger.Transfer(destinationMint, destinationVault, req.Destination, res.AmountOut),
	}
	if res.HostPoolTokens > 0 {
		ops = append(ops, ledger.MintTo(sn.pool.PoolMint, req.HostAccount, res.HostPoolTokens))
	}
	if owner := res.OwnerPoolTokens - res.HostPoolTokens; owner > 0 {
		ops = append(ops, ledger.MintTo(sn.pool.PoolMint, sn.pool.FeeAccount, owner))
	}
	if err = s.ledger.Apply(ctx, ops...); err != nil {
		return dto.SwapResult{}, errors.Wrap(err, "s.ledger.Apply")
	}

	s.publish(ctx, req.PoolID)
	return res, nil
}

// DepositAll mints exactly req.PoolTokenAmount pool tokens for both tokens in
// the current reserve ratio, rounding the owed amounts up.
func (s *PoolService) DepositAll(ctx context.Context, req dto.DepositAllRequest) (res dto.DepositAllResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("deposit_all", req.PoolID, zapcore.InfoLevel, started, err,
			zap.Uint64("pool_tokens", res.PoolTokens), zap.Uint64("token_a", res.TokenA), zap.Uint64("token_b", res.TokenB))
	}()

	if err = validate.DepositAllRequestValidate(req); err != nil {
		return dto.DepositAllResult{}, err
	}

	unlock := s.lock(req.PoolID)
	defer unlock()

	sn, err := s.snapshot(ctx, req.PoolID)
	if err != nil {
		return dto.DepositAllResult{}, err
	}
	if err = sn.userAccounts(req.SourceA, req.SourceB, req.Destination); err != nil {
		return dto.DepositAllResult{}, err
	}

	minted, tokenA, tokenB, err := sn.priceDepositAll(req.PoolTokenAmount)
	if err != nil {
		return dto.DepositAllResult{}, err
	}
	if tokenA > req.MaximumTokenA {
		return dto.DepositAllResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "token a %d above maximum %d", tokenA, req.MaximumTokenA)
	}
	if tokenB > req.MaximumTokenB {
		return dto.DepositAllResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "token b %d above maximum %d", tokenB, req.MaximumTokenB)
	}
	if tokenA == 0 || tokenB == 0 {
		return dto.DepositAllResult{}, errors.Wrap(apperrors.ErrZeroTradingTokens, "deposit pays nothing for one side")
	}

	err = s.ledger.Apply(ctx,
		ledger.Transfer(sn.pool.TokenAMint, req.SourceA, sn.pool.VaultA, tokenA),
		ledger.Transfer(sn.pool.TokenBMint, req.SourceB, sn.pool.VaultB, tokenB),
		ledger.MintTo(sn.pool.PoolMint, req.Destination, minted),
	)
	if err != nil {
		return dto.DepositAllResult{}, errors.Wrap(err, "s.ledger.Apply")
	}

	s.publish(ctx, req.PoolID)
	return dto.DepositAllResult{PoolTokens: minted, TokenA: tokenA, TokenB: tokenB}, nil
}

// DepositSingle deposits req.SourceAmount of the token held by req.Source and
// mints the pool tokens it is worth after half of it is notionally swapped.
func (s *PoolService) DepositSingle(ctx context.Context, req dto.DepositSingleRequest) (res dto.DepositSingleResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("deposit_single", req.PoolID, zapcore.InfoLevel, started, err,
			zap.String("direction", res.Direction), zap.Uint64("pool_tokens", res.PoolTokens))
	}()

	if err = validate.DepositSingleRequestValidate(req); err != nil {
		return dto.DepositSingleResult{}, err
	}

	unlock := s.lock(req.PoolID)
	defer unlock()

	sn, err := s.snapshot(ctx, req.PoolID)
	if err != nil {
		return dto.DepositSingleResult{}, err
	}
	if err = sn.userAccounts(req.Source, req.Destination); err != nil {
		return dto.DepositSingleResult{}, err
	}
	source, err := s.ledger.Account(ctx, req.Source)
	if err != nil {
		return dto.DepositSingleResult{}, errors.Wrap(err, "source")
	}
	dir, err := sn.direction(source.Mint)
	if err != nil {
		return dto.DepositSingleResult{}, err
	}

	minted, err := sn.priceDepositSingle(dir, req.SourceAmount)
	if err != nil {
		return dto.DepositSingleResult{}, err
	}
	if minted < req.MinimumPoolTokens {
		return dto.DepositSingleResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "pool tokens %d below minimum %d", minted, req.MinimumPoolTokens)
	}

	vault, mint := sn.side(dir)
	err = s.ledger.Apply(ctx,
		ledger.Transfer(mint, req.Source, vault, req.SourceAmount),
		ledger.MintTo(sn.pool.PoolMint, req.Destination, minted),
	)
	if err != nil {
		return dto.DepositSingleResult{}, errors.Wrap(err, "s.ledger.Apply")
	}

	s.publish(ctx, req.PoolID)
	return dto.DepositSingleResult{Direction: dir.String(), SourceAmount: req.SourceAmount, PoolTokens: minted}, nil
}

// WithdrawAll burns req.PoolTokenAmount pool tokens for both reserves in
// proportion, rounding the paid amounts down. The withdraw fee is moved to
// the fee account instead of being burned.
func (s *PoolService) WithdrawAll(ctx context.Context, req dto.WithdrawAllRequest) (res dto.WithdrawAllResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("withdraw_all", req.PoolID, zapcore.InfoLevel, started, err,
			zap.Uint64("pool_tokens", res.PoolTokens), zap.Uint64("token_a", res.TokenA), zap.Uint64("token_b", res.TokenB))
	}()

	if err = validate.WithdrawAllRequestValidate(req); err != nil {
		return dto.WithdrawAllResult{}, err
	}

	unlock := s.lock(req.PoolID)
	defer unlock()

	sn, err := s.snapshot(ctx, req.PoolID)
	if err != nil {
		return dto.WithdrawAllResult{}, err
	}
	if err = sn.userAccounts(req.Source, req.DestinationA, req.DestinationB); err != nil {
		return dto.WithdrawAllResult{}, err
	}

	burned, fee, tokenA, tokenB, err := sn.priceWithdrawAll(req.Source, req.PoolTokenAmount)
	if err != nil {
		return dto.WithdrawAllResult{}, err
	}
	if tokenA < req.MinimumTokenA {
		return dto.WithdrawAllResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "token a %d below minimum %d", tokenA, req.MinimumTokenA)
	}
	if tokenB < req.MinimumTokenB {
		return dto.WithdrawAllResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "token b %d below minimum %d", tokenB, req.MinimumTokenB)
	}

	ops := make([]ledger.Op, 0, 4)
	if fee > 0 {
		ops = append(ops, ledger.Transfer(sn.pool.PoolMint, req.Source, sn.pool.FeeAccount, fee))
	}
	ops = append(ops, ledger.Burn(sn.pool.PoolMint, req.Source, burned))
	if tokenA > 0 {
		ops = append(ops, ledger.Transfer(sn.pool.TokenAMint, sn.pool.VaultA, req.DestinationA, tokenA))
	}
	if tokenB > 0 {
		ops = append(ops, ledger.Transfer(sn.pool.TokenBMint, sn.pool.VaultB, req.DestinationB, tokenB))
	}
	if err = s.ledger.Apply(ctx, ops...); err != nil {
		return dto.WithdrawAllResult{}, errors.Wrap(err, "s.ledger.Apply")
	}

	s.publish(ctx, req.PoolID)
	return dto.WithdrawAllResult{PoolTokens: burned, WithdrawFee: fee, TokenA: tokenA, TokenB: tokenB}, nil
}

// WithdrawSingle pays out exactly req.DestinationAmount of the token held by
// req.Destination and burns the pool tokens it costs.
func (s *PoolService) WithdrawSingle(ctx context.Context, req dto.WithdrawSingleRequest) (res dto.WithdrawSingleResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("withdraw_single", req.PoolID, zapcore.InfoLevel, started, err,
			zap.String("direction", res.Direction), zap.Uint64("pool_tokens", res.PoolTokens))
	}()

	if err = validate.WithdrawSingleRequestValidate(req); err != nil {
		return dto.WithdrawSingleResult{}, err
	}

	unlock := s.lock(req.PoolID)
	defer unlock()

	sn, err := s.snapshot(ctx, req.PoolID)
	if err != nil {
		return dto.WithdrawSingleResult{}, err
	}
	if err = sn.userAccounts(req.Source, req.Destination); err != nil {
		return dto.WithdrawSingleResult{}, err
	}
	destination, err := s.ledger.Account(ctx, req.Destination)
	if err != nil {
		return dto.WithdrawSingleResult{}, errors.Wrap(err, "destination")
	}
	dir, err := sn.direction(destination.Mint)
	if err != nil {
		return dto.WithdrawSingleResult{}, err
	}

	burned, fee, err := sn.priceWithdrawSingle(req.Source, dir, req.DestinationAmount)
	if err != nil {
		return dto.WithdrawSingleResult{}, err
	}
	if total := burned + fee; total > req.MaximumPoolTokens {
		return dto.WithdrawSingleResult{}, errors.Wrapf(apperrors.ErrExceededSlippage, "pool tokens %d above maximum %d", total, req.MaximumPoolTokens)
	}

	vault, mint := sn.side(dir)
	ops := make([]ledger.Op, 0, 3)
	if fee > 0 {
		ops = append(ops, ledger.Transfer(sn.pool.PoolMint, req.Source, sn.pool.FeeAccount, fee))
	}
	ops = append(ops,
		ledger.Burn(sn.pool.PoolMint, req.Source, burned),
		ledger.Transfer(mint, vault, req.Destination, req.DestinationAmount),
	)
	if err = s.ledger.Apply(ctx, ops...); err != nil {
		return dto.WithdrawSingleResult{}, errors.Wrap(err, "s.ledger.Apply")
	}

	s.publish(ctx, req.PoolID)
	return dto.WithdrawSingleResult{
		Direction:         dir.String(),
		DestinationAmount: req.DestinationAmount,
		PoolTokens:        burned + fee,
		WithdrawFee:       fee,
	}, nil
}

// QuoteSwap prices a swap against the current reserves without executing it.
func (s *PoolService) QuoteSwap(ctx context.Context, req dto.QuoteSwapRequest) (res dto.SwapResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("quote_swap", req.PoolID, zapcore.DebugLevel, started, err, zap.Uint64("amount_out", res.AmountOut))
	}()

	if req.AmountIn == 0 {
		return dto.SwapResult{}, errors.Wrap(apperrors.ErrInvalidArgument, "amount in cannot be zero")
	}
	sn, err := s.quoteSnapshot(ctx, req.PoolID)
	if err != nil {
		return dto.SwapResult{}, err
	}
	return sn.priceSwap(req.Direction, req.AmountIn, req.WithHost)
}

// QuoteDepositSingle prices a single-sided deposit without executing it.
func (s *PoolService) QuoteDepositSingle(ctx context.Context, req dto.QuoteDepositSingleRequest) (res dto.DepositSingleResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("quote_deposit_single", req.PoolID, zapcore.DebugLevel, started, err, zap.Uint64("pool_tokens", res.PoolTokens))
	}()

	if req.SourceAmount == 0 {
		return dto.DepositSingleResult{}, errors.Wrap(apperrors.ErrInvalidArgument, "source amount cannot be zero")
	}
	sn, err := s.quoteSnapshot(ctx, req.PoolID)
	if err != nil {
		return dto.DepositSingleResult{}, err
	}
	minted, err := sn.priceDepositSingle(req.Direction, req.SourceAmount)
	if err != nil {
		return dto.DepositSingleResult{}, err
	}
	return dto.DepositSingleResult{Direction: req.Direction.String(), SourceAmount: req.SourceAmount, PoolTokens: minted}, nil
}

// QuoteWithdrawSingle prices a single-sided withdrawal by a regular holder,
// withdraw fee included.
func (s *PoolService) QuoteWithdrawSingle(ctx context.Context, req dto.QuoteWithdrawSingleRequest) (res dto.WithdrawSingleResult, err error) {
	started := time.Now()
	defer func() {
		s.observe("quote_withdraw_single", req.PoolID, zapcore.DebugLevel, started, err, zap.Uint64("pool_tokens", res.PoolTokens))
	}()

	if req.DestinationAmount == 0 {
		return dto.WithdrawSingleResult{}, errors.Wrap(apperrors.ErrInvalidArgument, "destination amount cannot be zero")
	}
	sn, err := s.quoteSnapshot(ctx, req.PoolID)
	if err != nil {
		return dto.WithdrawSingleResult{}, err
	}
	burned, fee, err := sn.priceWithdrawSingle("", req.Direction, req.DestinationAmount)
	if err != nil {
		return dto.WithdrawSingleResult{}, err
	}
	return dto.WithdrawSingleResult{
		Direction:         req.Direction.String(),
		DestinationAmount: req.DestinationAmount,
		PoolTokens:        burned + fee,
		WithdrawFee:       fee,
	}, nil
}

// QuotePoolTokens values req.PoolTokens in both reserves with the given
// rounding.
func (s *PoolService) QuotePoolTokens(ctx context.Context, req dto.QuotePoolTokensRequest) (res dto.PoolTokensValue, err error) {
	started := time.Now()
	defer func() {
		s.observe("quote_pool_tokens", req.PoolID, zapcore.DebugLevel, started, err,
			zap.Uint64("token_a", res.TokenA), zap.Uint64("token_b", res.TokenB))
	}()

	sn, err := s.quoteSnapshot(ctx, req.PoolID)
	if err != nil {
		return dto.PoolTokensValue{}, err
	}
	a, b, err := sn.curve.PoolTokensToTradingTokens(amount(req.PoolTokens), amount(sn.supply),
		amount(sn.reserveA), amount(sn.reserveB), req.Round)
	if err != nil {
		return dto.PoolTokensValue{}, reject(apperrors.ErrZeroTradingTokens, err)
	}

	res.PoolTokens = req.PoolTokens
	if res.TokenA, err = narrow(a, "token a amount"); err != nil {
		return dto.PoolTokensValue{}, err
	}
	if res.TokenB, err = narrow(b, "token b amount"); err != nil {
		return dto.PoolTokensValue{}, err
	}
	return res, nil
}

func (s *PoolService) quoteSnapshot(ctx context.Context, id string) (snapshot, error) {
	if id == "" {
		return snapshot{}, errors.Wrap(apperrors.ErrInvalidArgument, "pool id cannot be empty")
	}
	unlock := s.lock(id)
	defer unlock()

	return s.snapshot(ctx, id)
}

// account loads id and checks that it holds mint.
func (s *PoolService) account(ctx context.Context, id, mint string) (ledger.Account, error) {
	acc, err := s.ledger.Account(ctx, id)
	if err != nil {
		return ledger.Account{}, errors.Wrap(err, "s.ledger.Account")
	}
	if acc.Mint != mint {
		return ledger.Account{}, errors.Wrapf(apperrors.ErrIncorrectSwapAccount, "account %s holds %s, want %s", id, acc.Mint, mint)
	}
	return acc, nil
}

// publish exports the committed state of pool id. Called with the pool lock held.
func (s *PoolService) publish(ctx context.Context, id string) {
	sn, err := s.snapshot(ctx, id)
	if err != nil {
		s.logger.Debug("pool state not published", zap.String("pool", id), zap.Error(err))
		return
	}
	metrics.SetPoolState(id, sn.reserveA, sn.reserveB, sn.supply)
}

func (s *PoolService) observe(action, poolID string, lvl zapcore.Level, started time.Time, err error, fields ...zap.Field) {
	metrics.ObserveAction(action, started, err)

	fields = append(fields, zap.String("pool", poolID), zap.Duration("took", time.Since(started)))
	if err != nil {
		s.logger.Warn(action+" rejected", append(fields, zap.Error(err))...)
		return
	}
	if ce := s.logger.Check(lvl, action); ce != nil {
		ce.Write(fields...)
	}
}
