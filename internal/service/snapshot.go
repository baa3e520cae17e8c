package service

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/dexmath"
	"github.com/fleshka4/swap-pool/internal/ledger"
	"github.com/fleshka4/swap-pool/internal/service/dto"
)

// snapshot is a read of a pool taken under its lock. Pricing only ever
// looks at a snapshot, never at the ledger.
type snapshot struct {
	pool     ledger.PoolRecord
	curve    curve.Curve
	reserveA uint64
	reserveB uint64
	supply   uint64
}

func (s *PoolService) snapshot(ctx context.Context, id string) (snapshot, error) {
	pool, err := s.ledger.Pool(ctx, id)
	if err != nil {
		return snapshot{}, errors.Wrap(err, "s.ledger.Pool")
	}
	c, err := curve.New(pool.CurveType)
	if err != nil {
		return snapshot{}, errors.Wrapf(err, "pool %s", id)
	}
	vaultA, err := s.ledger.Account(ctx, pool.VaultA)
	if err != nil {
		return snapshot{}, errors.Wrap(err, "vault a")
	}
	vaultB, err := s.ledger.Account(ctx, pool.VaultB)
	if err != nil {
		return snapshot{}, errors.Wrap(err, "vault b")
	}
	supply, err := s.ledger.Supply(ctx, pool.PoolMint)
	if err != nil {
		return snapshot{}, errors.Wrap(err, "pool mint supply")
	}

	return snapshot{
		pool:     pool,
		curve:    c,
		reserveA: vaultA.Balance,
		reserveB: vaultB.Balance,
		supply:   supply,
	}, nil
}

func (sn snapshot) state() dto.PoolState {
	return dto.PoolState{
		ID:              sn.pool.ID,
		CurveType:       sn.pool.CurveType,
		TokenAMint:      sn.pool.TokenAMint,
		TokenBMint:      sn.pool.TokenBMint,
		PoolMint:        sn.pool.PoolMint,
		FeeAccount:      sn.pool.FeeAccount,
		ReserveA:        sn.reserveA,
		ReserveB:        sn.reserveB,
		PoolTokenSupply: sn.supply,
		Fees:            sn.pool.Fees,
	}
}

// direction maps the mint of a user account to the side it trades.
func (sn snapshot) direction(mint string) (curve.TradeDirection, error) {
	switch mint {
	case sn.pool.TokenAMint:
		return curve.AtoB, nil
	case sn.pool.TokenBMint:
		return curve.BtoA, nil
	default:
		return 0, errors.Wrapf(apperrors.ErrIncorrectSwapAccount, "mint %s is not traded by pool %s", mint, sn.pool.ID)
	}
}

// reserves returns the source and destination reserves for dir.
func (sn snapshot) reserves(dir curve.TradeDirection) (source, destination uint64) {
	if dir == curve.BtoA {
		return sn.reserveB, sn.reserveA
	}
	return sn.reserveA, sn.reserveB
}

// side returns the vault and mint of the source side of dir.
func (sn snapshot) side(dir curve.TradeDirection) (vault, mint string) {
	if dir == curve.BtoA {
		return sn.pool.VaultB, sn.pool.TokenBMint
	}
	return sn.pool.VaultA, sn.pool.TokenAMint
}

// userAccounts rejects pool owned accounts passed as user accounts.
func (sn snapshot) userAccounts(ids ...string) error {
	for _, id := range ids {
		if id == sn.pool.VaultA || id == sn.pool.VaultB {
			return errors.Wrapf(apperrors.ErrInvalidArgument, "account %s is a pool vault", id)
		}
	}
	return nil
}

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func narrow(x *uint256.Int, what string) (uint64, error) {
	v, ok := dexmath.ToUint64(x)
	if !ok {
		return 0, errors.Wrapf(apperrors.ErrConversionFailure, "%s %s", what, x.Dec())
	}
	return v, nil
}

// reject reports a curve failure as sentinel, keeping the cause in the message.
func reject(sentinel, err error) error {
	return errors.Wrapf(sentinel, "%v", err)
}
