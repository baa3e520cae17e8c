package validate

import (
	"github.com/pkg/errors"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/service/dto"
)

// InitializeRequestValidate validates pool initialization request.
func InitializeRequestValidate(req dto.InitializeRequest) error {
	if req.PoolID == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool id cannot be empty")
	}
	if req.TokenAMint == "" || req.TokenBMint == "" || req.PoolMint == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "mint cannot be empty")
	}
	if req.TokenAMint == req.TokenBMint {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool tokens must differ")
	}
	if req.PoolMint == req.TokenAMint || req.PoolMint == req.TokenBMint {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool mint cannot be a traded token")
	}
	if req.VaultA == "" || req.VaultB == "" || req.FeeAccount == "" || req.Destination == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "account cannot be empty")
	}
	if req.VaultA == req.VaultB {
		return errors.Wrap(apperrors.ErrInvalidArgument, "vaults must differ")
	}
	return nil
}

// SwapRequestValidate validates swap request.
func SwapRequestValidate(req dto.SwapRequest) error {
	if err := accounts(req.PoolID, req.Source, req.Destination); err != nil {
		return err
	}
	if req.AmountIn == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "amount in cannot be zero")
	}
	return nil
}

// DepositAllRequestValidate validates dual-sided deposit request.
func DepositAllRequestValidate(req dto.DepositAllRequest) error {
	if err := accounts(req.PoolID, req.SourceA, req.SourceB, req.Destination); err != nil {
		return err
	}
	if req.PoolTokenAmount == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool token amount cannot be zero")
	}
	return nil
}

// DepositSingleRequestValidate validates single-sided deposit request.
func DepositSingleRequestValidate(req dto.DepositSingleRequest) error {
	if err := accounts(req.PoolID, req.Source, req.Destination); err != nil {
		return err
	}
	if req.SourceAmount == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "source amount cannot be zero")
	}
	return nil
}

// WithdrawAllRequestValidate validates dual-sided withdrawal request.
func WithdrawAllRequestValidate(req dto.WithdrawAllRequest) error {
	if err := accounts(req.PoolID, req.Source, req.DestinationA, req.DestinationB); err != nil {
		return err
	}
	if req.PoolTokenAmount == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool token amount cannot be zero")
	}
	return nil
}

// WithdrawSingleRequestValidate validates single-sided withdrawal request.
func WithdrawSingleRequestValidate(req dto.WithdrawSingleRequest) error {
	if err := accounts(req.PoolID, req.Source, req.Destination); err != nil {
		return err
	}
	if req.DestinationAmount == 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "destination amount cannot be zero")
	}
	return nil
}

func accounts(poolID string, ids ...string) error {
	if poolID == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "pool id cannot be empty")
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return errors.Wrap(apperrors.ErrInvalidArgument, "account cannot be empty")
		}
		if _, ok := seen[id]; ok {
			return errors.Wrapf(apperrors.ErrInvalidArgument, "account %s used twice", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
