package service

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fleshka4/swap-pool/internal/fees"
	"github.com/fleshka4/swap-pool/internal/ledger"
	"github.com/fleshka4/swap-pool/internal/service/dto"
)

// Service represents interface for business logic.
type Service interface {
	Initialize(ctx context.Context, req dto.InitializeRequest) (dto.PoolState, error)
	Pool(ctx context.Context, id string) (dto.PoolState, error)
	Pools(ctx context.Context) ([]dto.PoolState, error)

	Swap(ctx context.Context, req dto.SwapRequest) (dto.SwapResult, error)
	DepositAll(ctx context.Context, req dto.DepositAllRequest) (dto.DepositAllResult, error)
	DepositSingle(ctx context.Context, req dto.DepositSingleRequest) (dto.DepositSingleResult, error)
	WithdrawAll(ctx context.Context, req dto.WithdrawAllRequest) (dto.WithdrawAllResult, error)
	WithdrawSingle(ctx context.Context, req dto.WithdrawSingleRequest) (dto.WithdrawSingleResult, error)

	QuoteSwap(ctx context.Context, req dto.QuoteSwapRequest) (dto.SwapResult, error)
	QuoteDepositSingle(ctx context.Context, req dto.QuoteDepositSingleRequest) (dto.DepositSingleResult, error)
	QuoteWithdrawSingle(ctx context.Context, req dto.QuoteWithdrawSingleRequest) (dto.WithdrawSingleResult, error)
	QuotePoolTokens(ctx context.Context, req dto.QuotePoolTokensRequest) (dto.PoolTokensValue, error)
}

// PoolService prices pool actions with the pool curve and applies them to
// the ledger. Actions on the same pool are serialized.
type PoolService struct {
	ledger      ledger.Ledger
	constraints fees.Constraints
	admin       string
	logger      *zap.Logger

	locks sync.Map // pool id -> *sync.Mutex
}

var _ Service = (*PoolService)(nil)

// NewPoolService creates PoolService. Fee accounts of new pools must be owned
// by admin and pool fees must satisfy constraints.
func NewPoolService(l ledger.Ledger, constraints fees.Constraints, admin string, logger *zap.Logger) *PoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PoolService{
		ledger:      l,
		constraints: constraints,
		admin:       admin,
		logger:      logger.Named("pool"),
	}
}

// lock serializes actions on pool id and returns the unlock func.
func (s *PoolService) lock(id string) func() {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}
