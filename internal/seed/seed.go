// Package seed builds the startup ledger state from configuration: mints,
// user accounts and funded pools, optionally mirroring a live Uniswap V2
// pair.
package seed

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/config"
	"github.com/fleshka4/swap-pool/internal/infra/uniswap"
	"github.com/fleshka4/swap-pool/internal/ledger"
	"github.com/fleshka4/swap-pool/internal/service"
	"github.com/fleshka4/swap-pool/internal/service/dto"
)

// Seeder applies a config to an empty ledger.
type Seeder struct {
	ledger ledger.Ledger
	svc    service.Service
	// reader may be nil when no pool is seeded from a pair.
	reader uniswap.Reader
	admin  string
	logger *zap.Logger
}

// New creates Seeder.
func New(l ledger.Ledger, svc service.Service, reader uniswap.Reader, admin string, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		ledger: l,
		svc:    svc,
		reader: reader,
		admin:  admin,
		logger: logger.Named("seed"),
	}
}

// Run creates every mint and account named in cfg, funds the pool vaults and
// initializes the pools in config order.
func (s *Seeder) Run(ctx context.Context, cfg config.Config) error {
	if err := s.createMints(ctx, cfg); err != nil {
		return err
	}

	for _, a := range cfg.Accounts {
		if err := s.open(ctx, a.ID, a.Mint, a.Owner); err != nil {
			return err
		}
		if a.Balance == 0 {
			continue
		}
		if err := s.ledger.Apply(ctx, ledger.MintTo(a.Mint, a.ID, a.Balance)); err != nil {
			return errors.Wrapf(err, "fund account %s", a.ID)
		}
	}

	for _, p := range cfg.Pools {
		state, err := s.pool(ctx, p)
		if err != nil {
			return errors.Wrapf(err, "pool %s", p.ID)
		}
		s.logger.Info("pool seeded",
			zap.String("pool", state.ID),
			zap.Uint64("reserve_a", state.ReserveA),
			zap.Uint64("reserve_b", state.ReserveB),
			zap.Uint64("supply", state.PoolTokenSupply),
		)
	}
	return nil
}

func (s *Seeder) createMints(ctx context.Context, cfg config.Config) error {
	seen := make(map[string]struct{})
	var mints []string
	add := func(m string) {
		if _, ok := seen[m]; !ok {
			seen[m] = struct{}{}
			mints = append(mints, m)
		}
	}
	for _, p := range cfg.Pools {
		add(p.TokenAMint)
		add(p.TokenBMint)
		add(p.PoolMint)
	}
	for _, a := range cfg.Accounts {
		add(a.Mint)
	}

	for _, m := range mints {
		if err := s.ledger.CreateMint(ctx, m); err != nil && !errors.Is(err, apperrors.ErrAccountExists) {
			return errors.Wrapf(err, "create mint %s", m)
		}
	}
	return nil
}

func (s *Seeder) pool(ctx context.Context, p config.Pool) (dto.PoolState, error) {
	reserveA, reserveB, err := s.reserves(ctx, p)
	if err != nil {
		return dto.PoolState{}, err
	}

	accounts := []struct{ id, mint, owner string }{
		{p.VaultA, p.TokenAMint, p.ID},
		{p.VaultB, p.TokenBMint, p.ID},
		{p.FeeAccount, p.PoolMint, s.admin},
		{p.Destination, p.PoolMint, p.DestinationOwner},
	}
	for _, a := range accounts {
		if err = s.open(ctx, a.id, a.mint, a.owner); err != nil {
			return dto.PoolState{}, err
		}
	}

	if err = s.ledger.Apply(ctx,
		ledger.MintTo(p.TokenAMint, p.VaultA, reserveA),
		ledger.MintTo(p.TokenBMint, p.VaultB, reserveB),
	); err != nil {
		return dto.PoolState{}, errors.Wrap(err, "fund vaults")
	}

	return s.svc.Initialize(ctx, dto.InitializeRequest{
		PoolID:      p.ID,
		CurveType:   p.Curve,
		Fees:        p.Fees,
		TokenAMint:  p.TokenAMint,
		TokenBMint:  p.TokenBMint,
		PoolMint:    p.PoolMint,
		VaultA:      p.VaultA,
		VaultB:      p.VaultB,
		FeeAccount:  p.FeeAccount,
		Destination: p.Destination,
	})
}

// reserves returns the configured reserves or reads them from the pair,
// ordered as (token A, token B).
func (s *Seeder) reserves(ctx context.Context, p config.Pool) (uint64, uint64, error) {
	if !p.FromPair() {
		return p.ReserveA, p.ReserveB, nil
	}
	if s.reader == nil {
		return 0, 0, errors.Wrap(apperrors.ErrInvalidArgument, "no pair reader configured")
	}
	if !common.IsHexAddress(p.PairAddress) || !common.IsHexAddress(p.TokenAAddress) {
		return 0, 0, errors.Wrapf(apperrors.ErrInvalidArgument, "invalid address in pair %q token %q", p.PairAddress, p.TokenAAddress)
	}

	pair, err := s.reader.ReadPair(ctx, common.HexToAddress(p.PairAddress))
	if err != nil {
		return 0, 0, errors.Wrap(err, "s.reader.ReadPair")
	}
	s.logger.Debug("pair read",
		zap.String("pair", pair.Address.Hex()),
		zap.Uint64("reserve0", pair.Reserve0),
		zap.Uint64("reserve1", pair.Reserve1),
	)
	return pair.Reserves(common.HexToAddress(p.TokenAAddress))
}

// open creates an account unless it already exists with the same mint.
func (s *Seeder) open(ctx context.Context, id, mint, owner string) error {
	err := s.ledger.OpenAccount(ctx, id, mint, owner)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrAccountExists) {
		return errors.Wrapf(err, "open account %s", id)
	}

	acc, err := s.ledger.Account(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "account %s", id)
	}
	if acc.Mint != mint {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "account %s holds %s, want %s", id, acc.Mint, mint)
	}
	return nil
}
