package service

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/fees"
	"github.com/fleshka4/swap-pool/internal/ledger"
	"github.com/fleshka4/swap-pool/internal/ledger/mock"
	"github.com/fleshka4/swap-pool/internal/service/dto"
)

const (
	poolID = "a-b"
	admin  = "admin"
)

var poolFees = fees.Fees{
	TradeFeeNumerator:           25,
	TradeFeeDenominator:         10000,
	OwnerTradeFeeNumerator:      5,
	OwnerTradeFeeDenominator:    10000,
	OwnerWithdrawFeeNumerator:   1,
	OwnerWithdrawFeeDenominator: 1000,
	HostFeeNumerator:            20,
	HostFeeDenominator:          100,
}

func initRequest() dto.InitializeRequest {
	return dto.InitializeRequest{
		PoolID:      poolID,
		CurveType:   curve.ConstantProductType,
		Fees:        poolFees,
		TokenAMint:  "a",
		TokenBMint:  "b",
		PoolMint:    "lp",
		VaultA:      "vault-a",
		VaultB:      "vault-b",
		FeeAccount:  "fee-lp",
		Destination: "alice-lp",
	}
}

// newLedger funds 1e6/1e6 vaults and gives alice 1e6 of each token.
func newLedger(t *testing.T) *ledger.Memory {
	t.Helper()

	ctx := context.Background()
	m := ledger.NewMemory()
	for _, mint := range []string{"a", "b", "lp"} {
		require.NoError(t, m.CreateMint(ctx, mint))
	}
	accounts := []struct{ id, mint, owner string }{
		{"vault-a", "a", "pool"},
		{"vault-b", "b", "pool"},
		{"empty-a", "a", "pool"},
		{"fee-lp", "lp", admin},
		{"admin-a", "a", admin},
		{"admin-b", "b", admin},
		{"alice-a", "a", "alice"},
		{"alice-b", "b", "alice"},
		{"alice-lp", "lp", "alice"},
		{"host-lp", "lp", "host"},
	}
	for _, a := range accounts {
		require.NoError(t, m.OpenAccount(ctx, a.id, a.mint, a.owner))
	}
	require.NoError(t, m.Apply(ctx,
		ledger.MintTo("a", "vault-a", 1_000_000),
		ledger.MintTo("b", "vault-b", 1_000_000),
		ledger.MintTo("a", "alice-a", 1_000_000),
		ledger.MintTo("b", "alice-b", 1_000_000),
	))
	return m
}

func newService(t *testing.T, l ledger.Ledger) *PoolService {
	t.Helper()
	return NewPoolService(l, fees.DefaultConstraints, admin, zaptest.NewLogger(t))
}

// newPool returns a service over an initialized pool.
func newPool(t *testing.T) (*PoolService, *ledger.Memory) {
	t.Helper()

	m := newLedger(t)
	s := newService(t, m)
	_, err := s.Initialize(context.Background(), initRequest())
	require.NoError(t, err)
	return s, m
}

func balanceOf(t *testing.T, m *ledger.Memory, id string) uint64 {
	t.Helper()

	acc, err := m.Account(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func supplyOf(t *testing.T, m *ledger.Memory) uint64 {
	t.Helper()

	s, err := m.Supply(context.Background(), "lp")
	require.NoError(t, err)
	return s
}

// drainedPool stores a pool over vaults holding reserveA and reserveB with
// no pool tokens outstanding.
func drainedPool(t *testing.T, reserveA, reserveB uint64) (*PoolService, *ledger.Memory) {
	t.Helper()

	ctx := context.Background()
	m := newLedger(t)
	require.NoError(t, m.OpenAccount(ctx, "drained-a", "a", "pool"))
	require.NoError(t, m.OpenAccount(ctx, "drained-b", "b", "pool"))
	require.NoError(t, m.Apply(ctx,
		ledger.MintTo("a", "drained-a", reserveA),
		ledger.MintTo("b", "drained-b", reserveB),
	))
	require.NoError(t, m.CreatePool(ctx, ledger.PoolRecord{
		ID:         poolID,
		CurveType:  curve.ConstantProductType,
		Fees:       poolFees,
		TokenAMint: "a",
		TokenBMint: "b",
		PoolMint:   "lp",
		VaultA:     "drained-a",
		VaultB:     "drained-b",
		FeeAccount: "fee-lp",
	}))
	return newService(t, m), m
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		m := newLedger(t)
		s := newService(t, m)

		state, err := s.Initialize(ctx, initRequest())
		require.NoError(t, err)
		require.Equal(t, dto.PoolState{
			ID:              poolID,
			CurveType:       curve.ConstantProductType,
			TokenAMint:      "a",
			TokenBMint:      "b",
			PoolMint:        "lp",
			FeeAccount:      "fee-lp",
			ReserveA:        1_000_000,
			ReserveB:        1_000_000,
			PoolTokenSupply: 1_000_000_000,
			Fees:            poolFees,
		}, state)
		require.Equal(t, uint64(1_000_000_000), balanceOf(t, m, "alice-lp"))

		_, err = s.Initialize(ctx, initRequest())
		require.True(t, errors.Is(err, apperrors.ErrPoolExists))
		require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
	})

	tests := []struct {
		name    string
		modify  func(req *dto.InitializeRequest)
		prepare func(t *testing.T, m *ledger.Memory)
		wantErr error
	}{
		{
			name:    "empty pool id",
			modify:  func(req *dto.InitializeRequest) { req.PoolID = "" },
			wantErr: apperrors.ErrInvalidArgument,
		},
		{
			name:    "unknown curve",
			modify:  func(req *dto.InitializeRequest) { req.CurveType = "stable" },
			wantErr: apperrors.ErrInvalidArgument,
		},
		{
			name:    "fee above constraint",
			modify:  func(req *dto.InitializeRequest) { req.Fees.TradeFeeNumerator = 200 },
			wantErr: apperrors.ErrInvalidFee,
		},
		{
			name:    "fee account not owned by admin",
			modify:  func(req *dto.InitializeRequest) { req.FeeAccount = "host-lp" },
			wantErr: apperrors.ErrInvalidOwner,
		},
		{
			name:    "vault holds wrong mint",
			modify:  func(req *dto.InitializeRequest) { req.VaultA = "alice-b" },
			wantErr: apperrors.ErrIncorrectSwapAccount,
		},
		{
			name:    "destination holds wrong mint",
			modify:  func(req *dto.InitializeRequest) { req.Destination = "alice-a" },
			wantErr: apperrors.ErrIncorrectSwapAccount,
		},
		{
			name:    "empty vault",
			modify:  func(req *dto.InitializeRequest) { req.VaultA = "empty-a" },
			wantErr: apperrors.ErrEmptySupply,
		},
		{
			name:    "unknown account",
			modify:  func(req *dto.InitializeRequest) { req.VaultB = "nobody" },
			wantErr: apperrors.ErrAccountNotFound,
		},
		{
			name: "pool mint already issued",
			prepare: func(t *testing.T, m *ledger.Memory) {
				require.NoError(t, m.Apply(context.Background(), ledger.MintTo("lp", "host-lp", 1)))
			},
			wantErr: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newLedger(t)
			if tt.prepare != nil {
				tt.prepare(t, m)
			}
			req := initRequest()
			if tt.modify != nil {
				tt.modify(&req)
			}

			_, err := newService(t, m).Initialize(ctx, req)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			_, err = m.Pool(ctx, poolID)
			require.True(t, errors.Is(err, apperrors.ErrPoolNotFound))
		})
	}
}

func TestSwap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("with host", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		res, err := s.Swap(ctx, dto.SwapRequest{
			PoolID:       poolID,
			Source:       "alice-a",
			Destination:  "alice-b",
			AmountIn:     100_000,
			MinAmountOut: 90_000,
			HostAccount:  "host-lp",
		})
		require.NoError(t, err)
		require.Equal(t, dto.SwapResult{
			Direction:       "a_to_b",
			AmountIn:        100_000,
			AmountOut:       90_661,
			TradeFee:        250,
			OwnerFee:        50,
			OwnerPoolTokens: 22_273,
			HostPoolTokens:  4_454,
			NewReserveA:     1_100_000,
			NewReserveB:     909_339,
		}, res)

		require.Equal(t, uint64(900_000), balanceOf(t, m, "alice-a"))
		require.Equal(t, uint64(1_090_661), balanceOf(t, m, "alice-b"))
		require.Equal(t, uint64(1_100_000), balanceOf(t, m, "vault-a"))
		require.Equal(t, uint64(909_339), balanceOf(t, m, "vault-b"))
		require.Equal(t, uint64(4_454), balanceOf(t, m, "host-lp"))
		require.Equal(t, uint64(17_819), balanceOf(t, m, "fee-lp"))
		require.Equal(t, uint64(1_000_022_273), supplyOf(t, m))
	})

	t.Run("without host", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		res, err := s.Swap(ctx, dto.SwapRequest{PoolID: poolID, Source: "alice-b", Destination: "alice-a", AmountIn: 100_000})
		require.NoError(t, err)
		require.Equal(t, "b_to_a", res.Direction)
		require.Equal(t, uint64(90_661), res.AmountOut)
		require.Zero(t, res.HostPoolTokens)
		require.Equal(t, uint64(1_100_000), res.NewReserveB)
		require.Equal(t, uint64(909_339), res.NewReserveA)

		require.Equal(t, uint64(22_273), balanceOf(t, m, "fee-lp"))
		require.Equal(t, uint64(909_339), balanceOf(t, m, "vault-a"))
	})

	tests := []struct {
		name    string
		req     dto.SwapRequest
		wantErr error
	}{
		{
			name:    "slippage",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b", AmountIn: 100_000, MinAmountOut: 90_662},
			wantErr: apperrors.ErrExceededSlippage,
		},
		{
			name:    "fees eat the input",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b", AmountIn: 1},
			wantErr: apperrors.ErrZeroTradingTokens,
		},
		{
			name:    "insufficient funds",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b", AmountIn: 1_000_001},
			wantErr: apperrors.ErrInsufficientFunds,
		},
		{
			name:    "source not traded",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-lp", Destination: "alice-b", AmountIn: 10},
			wantErr: apperrors.ErrIncorrectSwapAccount,
		},
		{
			name:    "destination of the same mint",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "admin-a", AmountIn: 10_000},
			wantErr: apperrors.ErrIncorrectSwapAccount,
		},
		{
			name:    "vault as user account",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "vault-b", AmountIn: 10_000},
			wantErr: apperrors.ErrInvalidArgument,
		},
		{
			name:    "unknown pool",
			req:     dto.SwapRequest{PoolID: "missing", Source: "alice-a", Destination: "alice-b", AmountIn: 10_000},
			wantErr: apperrors.ErrPoolNotFound,
		},
		{
			name:    "zero amount",
			req:     dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b"},
			wantErr: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, m := newPool(t)
			_, err := s.Swap(ctx, tt.req)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-a"))
			require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-b"))
			require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
		})
	}
}

func TestDepositAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	req := dto.DepositAllRequest{
		PoolID:          poolID,
		SourceA:         "alice-a",
		SourceB:         "alice-b",
		Destination:     "alice-lp",
		PoolTokenAmount: 10_000_000,
		MaximumTokenA:   10_000,
		MaximumTokenB:   10_000,
	}

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		res, err := s.DepositAll(ctx, req)
		require.NoError(t, err)
		require.Equal(t, dto.DepositAllResult{PoolTokens: 10_000_000, TokenA: 10_000, TokenB: 10_000}, res)

		require.Equal(t, uint64(1_010_000_000), balanceOf(t, m, "alice-lp"))
		require.Equal(t, uint64(1_010_000), balanceOf(t, m, "vault-a"))
		require.Equal(t, uint64(990_000), balanceOf(t, m, "alice-b"))
	})

	t.Run("rounds owed amounts up", func(t *testing.T) {
		t.Parallel()

		s, _ := newPool(t)
		r := req
		r.PoolTokenAmount = 1_001
		res, err := s.DepositAll(ctx, r)
		require.NoError(t, err)
		require.Equal(t, uint64(2), res.TokenA)
		require.Equal(t, uint64(2), res.TokenB)
	})

	t.Run("dust pays nothing", func(t *testing.T) {
		t.Parallel()

		s, _ := newPool(t)
		r := req
		r.PoolTokenAmount = 1
		_, err := s.DepositAll(ctx, r)
		require.True(t, errors.Is(err, apperrors.ErrZeroTradingTokens))
	})

	t.Run("slippage", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		r := req
		r.MaximumTokenB = 9_999
		_, err := s.DepositAll(ctx, r)
		require.True(t, errors.Is(err, apperrors.ErrExceededSlippage))
		require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
	})

	t.Run("swapped sources", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		r := req
		r.SourceA, r.SourceB = r.SourceB, r.SourceA
		_, err := s.DepositAll(ctx, r)
		require.True(t, errors.Is(err, apperrors.ErrIncorrectSwapAccount))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "alice-a"))
	})

	t.Run("empty pool with one reserve", func(t *testing.T) {
		t.Parallel()

		s, m := drainedPool(t, 1_000, 0)
		r := req
		r.MaximumTokenA, r.MaximumTokenB = 1_000_000, 1_000_000
		_, err := s.DepositAll(ctx, r)
		require.True(t, errors.Is(err, apperrors.ErrEmptySupply))
		require.Zero(t, supplyOf(t, m))
		require.Zero(t, balanceOf(t, m, "drained-b"))
	})
}

func TestDepositSingle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		res, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID:            poolID,
			Source:            "alice-a",
			Destination:       "alice-lp",
			SourceAmount:      10_000,
			MinimumPoolTokens: 4_900_000,
		})
		require.NoError(t, err)
		require.Equal(t, dto.DepositSingleResult{Direction: "a_to_b", SourceAmount: 10_000, PoolTokens: 4_981_591}, res)

		require.Equal(t, uint64(1_010_000), balanceOf(t, m, "vault-a"))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-b"))
		require.Equal(t, uint64(1_004_981_591), supplyOf(t, m))
	})

	t.Run("slippage", func(t *testing.T) {
		t.Parallel()

		s, _ := newPool(t)
		_, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-b", Destination: "alice-lp", SourceAmount: 10_000, MinimumPoolTokens: 4_981_592,
		})
		require.True(t, errors.Is(err, apperrors.ErrExceededSlippage))
	})

	t.Run("dust mints nothing", func(t *testing.T) {
		t.Parallel()

		s, _ := newPool(t)
		_, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-a", Destination: "alice-lp", SourceAmount: 1,
		})
		require.True(t, errors.Is(err, apperrors.ErrZeroTradingTokens))
	})

	t.Run("destination not a pool token account", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		_, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-a", Destination: "alice-b", SourceAmount: 10_000,
		})
		require.True(t, errors.Is(err, apperrors.ErrIncorrectSwapAccount))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "alice-a"))
	})

	t.Run("drained pool", func(t *testing.T) {
		t.Parallel()

		s, m := drainedPool(t, 0, 0)
		_, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-a", Destination: "alice-lp", SourceAmount: 1,
		})
		require.True(t, errors.Is(err, apperrors.ErrEmptySupply))
		require.Zero(t, supplyOf(t, m))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "alice-a"))
	})

	t.Run("empty pool keeps other reserve empty", func(t *testing.T) {
		t.Parallel()

		s, _ := drainedPool(t, 1_000, 0)
		_, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-a", Destination: "alice-lp", SourceAmount: 1_000,
		})
		require.True(t, errors.Is(err, apperrors.ErrEmptySupply))
	})

	t.Run("empty pool refilled", func(t *testing.T) {
		t.Parallel()

		s, m := drainedPool(t, 1_000, 0)
		res, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-b", Destination: "alice-lp", SourceAmount: 1_000,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(1_000_000_000), res.PoolTokens)
		require.Equal(t, uint64(1_000), balanceOf(t, m, "drained-b"))
		require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
	})
}

func TestWithdrawAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		res, err := s.WithdrawAll(ctx, dto.WithdrawAllRequest{
			PoolID:          poolID,
			Source:          "alice-lp",
			DestinationA:    "alice-a",
			DestinationB:    "alice-b",
			PoolTokenAmount: 10_000_000,
			MinimumTokenA:   9_990,
			MinimumTokenB:   9_990,
		})
		require.NoError(t, err)
		require.Equal(t, dto.WithdrawAllResult{PoolTokens: 9_990_000, WithdrawFee: 10_000, TokenA: 9_990, TokenB: 9_990}, res)

		require.Equal(t, uint64(990_000_000), balanceOf(t, m, "alice-lp"))
		require.Equal(t, uint64(10_000), balanceOf(t, m, "fee-lp"))
		require.Equal(t, uint64(990_010_000), supplyOf(t, m))
		require.Equal(t, uint64(990_010), balanceOf(t, m, "vault-a"))
		require.Equal(t, uint64(1_009_990), balanceOf(t, m, "alice-b"))
	})

	t.Run("fee account pays no fee", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		_, err := s.Swap(ctx, dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b", AmountIn: 100_000})
		require.NoError(t, err)
		require.Equal(t, uint64(22_273), balanceOf(t, m, "fee-lp"))

		res, err := s.WithdrawAll(ctx, dto.WithdrawAllRequest{
			PoolID:          poolID,
			Source:          "fee-lp",
			DestinationA:    "admin-a",
			DestinationB:    "admin-b",
			PoolTokenAmount: 22_273,
		})
		require.NoError(t, err)
		require.Equal(t, dto.WithdrawAllResult{PoolTokens: 22_273, TokenA: 24, TokenB: 20}, res)
		require.Zero(t, balanceOf(t, m, "fee-lp"))
		require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
	})

	t.Run("slippage", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		_, err := s.WithdrawAll(ctx, dto.WithdrawAllRequest{
			PoolID:          poolID,
			Source:          "alice-lp",
			DestinationA:    "alice-a",
			DestinationB:    "alice-b",
			PoolTokenAmount: 10_000_000,
			MinimumTokenA:   9_991,
		})
		require.True(t, errors.Is(err, apperrors.ErrExceededSlippage))
		require.Equal(t, uint64(1_000_000_000), balanceOf(t, m, "alice-lp"))
	})

	t.Run("dust pays nothing", func(t *testing.T) {
		t.Parallel()

		s, _ := newPool(t)
		_, err := s.WithdrawAll(ctx, dto.WithdrawAllRequest{
			PoolID: poolID, Source: "alice-lp", DestinationA: "alice-a", DestinationB: "alice-b", PoolTokenAmount: 100,
		})
		require.True(t, errors.Is(err, apperrors.ErrZeroTradingTokens))
	})

	t.Run("more than held", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		_, err := s.WithdrawAll(ctx, dto.WithdrawAllRequest{
			PoolID: poolID, Source: "host-lp", DestinationA: "alice-a", DestinationB: "alice-b", PoolTokenAmount: 10_000_000,
		})
		require.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-a"))
	})

	t.Run("entire supply", func(t *testing.T) {
		t.Parallel()

		m := newLedger(t)
		s := newService(t, m)
		noWithdrawFee := initRequest()
		noWithdrawFee.Fees.OwnerWithdrawFeeNumerator, noWithdrawFee.Fees.OwnerWithdrawFeeDenominator = 0, 0
		_, err := s.Initialize(ctx, noWithdrawFee)
		require.NoError(t, err)

		_, err = s.WithdrawAll(ctx, dto.WithdrawAllRequest{
			PoolID: poolID, Source: "alice-lp", DestinationA: "alice-a", DestinationB: "alice-b", PoolTokenAmount: 1_000_000_000,
		})
		require.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-a"))
		require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-b"))
		require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
	})
}

func TestWithdrawSingle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		s, m := newPool(t)
		res, err := s.WithdrawSingle(ctx, dto.WithdrawSingleRequest{
			PoolID:            poolID,
			Source:            "alice-lp",
			Destination:       "alice-a",
			DestinationAmount: 10_000,
			MaximumPoolTokens: 5_100_000,
		})
		require.NoError(t, err)
		require.Equal(t, dto.WithdrawSingleResult{
			Direction:         "a_to_b",
			DestinationAmount: 10_000,
			PoolTokens:        5_011_539,
			WithdrawFee:       5_006,
		}, res)

		require.Equal(t, uint64(1_000_000_000-5_011_539), balanceOf(t, m, "alice-lp"))
		require.Equal(t, uint64(5_006), balanceOf(t, m, "fee-lp"))
		require.Equal(t, uint64(1_000_000_000-5_006_533), supplyOf(t, m))
		require.Equal(t, uint64(990_000), balanceOf(t, m, "vault-a"))
		require.Equal(t, uint64(1_010_000), balanceOf(t, m, "alice-a"))
	})

	t.Run("deposit then withdraw same amount", func(t *testing.T) {
		t.Parallel()

		s, _ := newPool(t)
		dep, err := s.DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-a", Destination: "alice-lp", SourceAmount: 10_000,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(4_981_591), dep.PoolTokens)

		res, err := s.WithdrawSingle(ctx, dto.WithdrawSingleRequest{
			PoolID: poolID, Source: "alice-lp", Destination: "alice-a", DestinationAmount: 10_000, MaximumPoolTokens: 1 << 62,
		})
		require.NoError(t, err)
		require.Equal(t, uint64(4_986_514), res.PoolTokens)
		require.Equal(t, uint64(4_981), res.WithdrawFee)
		// Getting the deposit back costs at least the pool tokens it minted.
		require.GreaterOrEqual(t, res.PoolTokens, dep.PoolTokens)
	})

	tests := []struct {
		name    string
		req     dto.WithdrawSingleRequest
		wantErr error
	}{
		{
			name: "slippage",
			req: dto.WithdrawSingleRequest{
				PoolID: poolID, Source: "alice-lp", Destination: "alice-a", DestinationAmount: 10_000, MaximumPoolTokens: 5_011_538,
			},
			wantErr: apperrors.ErrExceededSlippage,
		},
		{
			name: "above reserve",
			req: dto.WithdrawSingleRequest{
				PoolID: poolID, Source: "alice-lp", Destination: "alice-b", DestinationAmount: 1_000_001, MaximumPoolTokens: 1_000_000_000,
			},
			wantErr: apperrors.ErrInsufficientFunds,
		},
		{
			name: "whole reserve",
			req: dto.WithdrawSingleRequest{
				PoolID: poolID, Source: "alice-lp", Destination: "alice-b", DestinationAmount: 1_000_000, MaximumPoolTokens: 1_000_000_000,
			},
			wantErr: apperrors.ErrInsufficientFunds,
		},
		{
			name: "destination not traded",
			req: dto.WithdrawSingleRequest{
				PoolID: poolID, Source: "alice-lp", Destination: "host-lp", DestinationAmount: 10, MaximumPoolTokens: 1_000_000_000,
			},
			wantErr: apperrors.ErrIncorrectSwapAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s, m := newPool(t)
			_, err := s.WithdrawSingle(ctx, tt.req)
			require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
		})
	}
}

func TestQuotes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, m := newPool(t)

	swap, err := s.QuoteSwap(ctx, dto.QuoteSwapRequest{PoolID: poolID, Direction: curve.AtoB, AmountIn: 100_000, WithHost: true})
	require.NoError(t, err)
	require.Equal(t, uint64(90_661), swap.AmountOut)
	require.Equal(t, uint64(22_273), swap.OwnerPoolTokens)
	require.Equal(t, uint64(4_454), swap.HostPoolTokens)

	deposit, err := s.QuoteDepositSingle(ctx, dto.QuoteDepositSingleRequest{PoolID: poolID, Direction: curve.BtoA, SourceAmount: 10_000})
	require.NoError(t, err)
	require.Equal(t, dto.DepositSingleResult{Direction: "b_to_a", SourceAmount: 10_000, PoolTokens: 4_981_591}, deposit)

	withdraw, err := s.QuoteWithdrawSingle(ctx, dto.QuoteWithdrawSingleRequest{PoolID: poolID, Direction: curve.AtoB, DestinationAmount: 10_000})
	require.NoError(t, err)
	require.Equal(t, uint64(5_011_539), withdraw.PoolTokens)
	require.Equal(t, uint64(5_006), withdraw.WithdrawFee)

	floor, err := s.QuotePoolTokens(ctx, dto.QuotePoolTokensRequest{PoolID: poolID, PoolTokens: 333_333_333, Round: curve.Floor})
	require.NoError(t, err)
	require.Equal(t, dto.PoolTokensValue{PoolTokens: 333_333_333, TokenA: 333_333, TokenB: 333_333}, floor)

	ceiling, err := s.QuotePoolTokens(ctx, dto.QuotePoolTokensRequest{PoolID: poolID, PoolTokens: 333_333_333, Round: curve.Ceiling})
	require.NoError(t, err)
	require.Equal(t, uint64(333_334), ceiling.TokenA)

	_, err = s.QuoteSwap(ctx, dto.QuoteSwapRequest{PoolID: poolID, AmountIn: 0})
	require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	_, err = s.QuoteSwap(ctx, dto.QuoteSwapRequest{PoolID: "missing", AmountIn: 10})
	require.True(t, errors.Is(err, apperrors.ErrPoolNotFound))

	// quotes never touch balances
	require.Equal(t, uint64(1_000_000), balanceOf(t, m, "vault-a"))
	require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
	require.Zero(t, balanceOf(t, m, "fee-lp"))
}

func TestPools(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newPool(t)

	pools, err := s.Pools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, poolID, pools[0].ID)

	state, err := s.Pool(ctx, poolID)
	require.NoError(t, err)
	require.Equal(t, pools[0], state)
}

func TestConcurrentSwaps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, m := newPool(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			req := dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b", AmountIn: 1_000}
			if i%2 == 1 {
				req.Source, req.Destination = req.Destination, req.Source
			}
			_, err := s.Swap(ctx, req)
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Equal(t, uint64(2_000_000), balanceOf(t, m, "alice-a")+balanceOf(t, m, "vault-a"))
	require.Equal(t, uint64(2_000_000), balanceOf(t, m, "alice-b")+balanceOf(t, m, "vault-b"))
	// fees stay in the pool
	require.GreaterOrEqual(t, balanceOf(t, m, "vault-a")*balanceOf(t, m, "vault-b"), uint64(1_000_000_000_000))
}

func TestLedgerFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	record := ledger.PoolRecord{
		ID:         poolID,
		CurveType:  curve.ConstantProductType,
		Fees:       poolFees,
		TokenAMint: "a",
		TokenBMint: "b",
		PoolMint:   "lp",
		VaultA:     "vault-a",
		VaultB:     "vault-b",
		FeeAccount: "fee-lp",
	}

	t.Run("apply rejected", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		l := mock.NewMockLedger(ctrl)
		l.EXPECT().Pool(gomock.Any(), poolID).Return(record, nil)
		l.EXPECT().Account(gomock.Any(), "vault-a").Return(ledger.Account{ID: "vault-a", Mint: "a", Balance: 1_000_000}, nil)
		l.EXPECT().Account(gomock.Any(), "vault-b").Return(ledger.Account{ID: "vault-b", Mint: "b", Balance: 1_000_000}, nil)
		l.EXPECT().Supply(gomock.Any(), "lp").Return(uint64(1_000_000_000), nil)
		l.EXPECT().Account(gomock.Any(), "alice-a").Return(ledger.Account{ID: "alice-a", Mint: "a", Balance: 10}, nil)
		l.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(errors.Wrap(apperrors.ErrInsufficientFunds, "alice-a"))

		_, err := newService(t, l).Swap(ctx, dto.SwapRequest{PoolID: poolID, Source: "alice-a", Destination: "alice-b", AmountIn: 100_000})
		require.True(t, errors.Is(err, apperrors.ErrInsufficientFunds))
	})

	t.Run("pool lookup fails", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		l := mock.NewMockLedger(ctrl)
		l.EXPECT().Pool(gomock.Any(), poolID).Return(ledger.PoolRecord{}, context.DeadlineExceeded)

		_, err := newService(t, l).DepositSingle(ctx, dto.DepositSingleRequest{
			PoolID: poolID, Source: "alice-a", Destination: "alice-lp", SourceAmount: 10,
		})
		require.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("pool record not stored", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		l := mock.NewMockLedger(ctrl)
		l.EXPECT().Pool(gomock.Any(), poolID).Return(ledger.PoolRecord{}, errors.Wrap(apperrors.ErrPoolNotFound, poolID))
		l.EXPECT().Account(gomock.Any(), "vault-a").Return(ledger.Account{ID: "vault-a", Mint: "a", Balance: 1_000_000}, nil)
		l.EXPECT().Account(gomock.Any(), "vault-b").Return(ledger.Account{ID: "vault-b", Mint: "b", Balance: 1_000_000}, nil)
		l.EXPECT().Account(gomock.Any(), "fee-lp").Return(ledger.Account{ID: "fee-lp", Mint: "lp", Owner: admin}, nil)
		l.EXPECT().Account(gomock.Any(), "alice-lp").Return(ledger.Account{ID: "alice-lp", Mint: "lp", Owner: "alice"}, nil)
		l.EXPECT().Supply(gomock.Any(), "lp").Return(uint64(0), nil)
		gomock.InOrder(
			l.EXPECT().Apply(gomock.Any(), ledger.MintTo("lp", "alice-lp", 1_000_000_000)).Return(nil),
			l.EXPECT().CreatePool(gomock.Any(), record).Return(context.Canceled),
			l.EXPECT().Apply(gomock.Any(), ledger.Burn("lp", "alice-lp", 1_000_000_000)).Return(nil),
		)

		_, err := newService(t, l).Initialize(ctx, initRequest())
		require.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("burn after failed pool record is reported", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		l := mock.NewMockLedger(ctrl)
		l.EXPECT().Pool(gomock.Any(), poolID).Return(ledger.PoolRecord{}, errors.Wrap(apperrors.ErrPoolNotFound, poolID))
		l.EXPECT().Account(gomock.Any(), "vault-a").Return(ledger.Account{ID: "vault-a", Mint: "a", Balance: 1_000_000}, nil)
		l.EXPECT().Account(gomock.Any(), "vault-b").Return(ledger.Account{ID: "vault-b", Mint: "b", Balance: 1_000_000}, nil)
		l.EXPECT().Account(gomock.Any(), "fee-lp").Return(ledger.Account{ID: "fee-lp", Mint: "lp", Owner: admin}, nil)
		l.EXPECT().Account(gomock.Any(), "alice-lp").Return(ledger.Account{ID: "alice-lp", Mint: "lp", Owner: "alice"}, nil)
		l.EXPECT().Supply(gomock.Any(), "lp").Return(uint64(0), nil)
		gomock.InOrder(
			l.EXPECT().Apply(gomock.Any(), ledger.MintTo("lp", "alice-lp", 1_000_000_000)).Return(nil),
			l.EXPECT().CreatePool(gomock.Any(), record).Return(context.Canceled),
			l.EXPECT().Apply(gomock.Any(), ledger.Burn("lp", "alice-lp", 1_000_000_000)).Return(errors.New("ledger down")),
		)

		_, err := newService(t, l).Initialize(ctx, initRequest())
		require.True(t, errors.Is(err, context.Canceled))
		require.ErrorContains(t, err, "burn initial supply: ledger down")
	})
}

func TestInitializeRetryAfterCancel(t *testing.T) {
	t.Parallel()

	m := newLedger(t)
	l := &cancelOnCreatePool{Memory: m, fail: true}
	s := newService(t, l)

	_, err := s.Initialize(context.Background(), initRequest())
	require.True(t, errors.Is(err, context.Canceled))
	require.Zero(t, supplyOf(t, m))
	require.Zero(t, balanceOf(t, m, "alice-lp"))

	l.fail = false
	_, err = s.Initialize(context.Background(), initRequest())
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), supplyOf(t, m))
}

// cancelOnCreatePool fails CreatePool while fail is set.
type cancelOnCreatePool struct {
	*ledger.Memory
	fail bool
}

func (c *cancelOnCreatePool) CreatePool(ctx context.Context, pool ledger.PoolRecord) error {
	if c.fail {
		return errors.Wrap(context.Canceled, "create pool")
	}
	return c.Memory.CreatePool(ctx, pool)
}
