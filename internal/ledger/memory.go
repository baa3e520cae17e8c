package ledger

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/swap-pool/internal/apperrors"
)

// Memory is an in-process Ledger. It is safe for concurrent use.
type Memory struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	supply   map[string]uint64
	pools    map[string]PoolRecord
}

var _ Ledger = (*Memory)(nil)

// NewMemory creates an empty ledger.
func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[string]*Account),
		supply:   make(map[string]uint64),
		pools:    make(map[string]PoolRecord),
	}
}

// CreateMint registers mint with zero supply.
func (m *Memory) CreateMint(ctx context.Context, mint string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "create mint")
	}
	if mint == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "empty mint")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.supply[mint]; ok {
		return errors.Wrapf(apperrors.ErrAccountExists, "mint %s", mint)
	}
	m.supply[mint] = 0
	return nil
}

// OpenAccount creates an empty account for an existing mint.
func (m *Memory) OpenAccount(ctx context.Context, id, mint, owner string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "open account")
	}
	if id == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "empty account id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.supply[mint]; !ok {
		return errors.Wrapf(apperrors.ErrAccountNotFound, "mint %s", mint)
	}
	if _, ok := m.accounts[id]; ok {
		return errors.Wrapf(apperrors.ErrAccountExists, "account %s", id)
	}
	m.accounts[id] = &Account{ID: id, Mint: mint, Owner: owner}
	return nil
}

// Account returns a copy of the account.
func (m *Memory) Account(ctx context.Context, id string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, errors.Wrap(err, "account")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return Account{}, errors.Wrapf(apperrors.ErrAccountNotFound, "account %s", id)
	}
	return *acc, nil
}

// Supply returns the outstanding supply of mint.
func (m *Memory) Supply(ctx context.Context, mint string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "supply")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.supply[mint]
	if !ok {
		return 0, errors.Wrapf(apperrors.ErrAccountNotFound, "mint %s", mint)
	}
	return s, nil
}

// CreatePool stores pool. Its mints and accounts must already exist.
func (m *Memory) CreatePool(ctx context.Context, pool PoolRecord) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "create pool")
	}
	if pool.ID == "" {
		return errors.Wrap(apperrors.ErrInvalidArgument, "empty pool id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pools[pool.ID]; ok {
		return errors.Wrapf(apperrors.ErrPoolExists, "pool %s", pool.ID)
	}

	var err error
	for _, mint := range []string{pool.TokenAMint, pool.TokenBMint, pool.PoolMint} {
		if _, ok := m.supply[mint]; !ok {
			err = multierr.Append(err, errors.Wrapf(apperrors.ErrAccountNotFound, "mint %s", mint))
		}
	}
	holdings := []struct{ account, mint string }{
		{pool.VaultA, pool.TokenAMint},
		{pool.VaultB, pool.TokenBMint},
		{pool.FeeAccount, pool.PoolMint},
	}
	for _, h := range holdings {
		if e := m.checkAccountLocked(h.account, h.mint); e != nil {
			err = multierr.Append(err, e)
		}
	}
	if err != nil {
		return errors.Wrapf(err, "pool %s", pool.ID)
	}

	m.pools[pool.ID] = pool
	return nil
}

// Pool returns the pool record.
func (m *Memory) Pool(ctx context.Context, id string) (PoolRecord, error) {
	if err := ctx.Err(); err != nil {
		return PoolRecord{}, errors.Wrap(err, "pool")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.pools[id]
	if !ok {
		return PoolRecord{}, errors.Wrapf(apperrors.ErrPoolNotFound, "pool %s", id)
	}
	return p, nil
}

// Pools returns every pool ordered by id.
func (m *Memory) Pools(ctx context.Context) ([]PoolRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "pools")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PoolRecord, 0, len(m.pools))
	for _, p := range m.pools {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Apply validates the whole batch against a scratch copy of the touched
// balances and commits only when every op succeeds. All failing ops are
// reported together.
func (m *Memory) Apply(ctx context.Context, ops ...Op) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "apply")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	balances := make(map[string]uint64)
	supply := make(map[string]uint64)

	var err error
	for i, op := range ops {
		if e := m.stageLocked(op, balances, supply); e != nil {
			err = multierr.Append(err, errors.Wrapf(e, "op %d %s", i, op.Kind))
		}
	}
	if err != nil {
		return err
	}

	for id, b := range balances {
		m.accounts[id].Balance = b
	}
	for mint, s := range supply {
		m.supply[mint] = s
	}
	return nil
}

func (m *Memory) stageLocked(op Op, balances, supply map[string]uint64) error {
	if _, ok := m.supply[op.Mint]; !ok {
		return errors.Wrapf(apperrors.ErrAccountNotFound, "mint %s", op.Mint)
	}

	switch op.Kind {
	case OpTransfer:
		if err := m.checkAccountLocked(op.From, op.Mint); err != nil {
			return err
		}
		if err := m.checkAccountLocked(op.To, op.Mint); err != nil {
			return err
		}
		if err := m.debit(op.From, op.Amount, balances); err != nil {
			return err
		}
		return m.credit(op.To, op.Amount, balances)

	case OpMint:
		if err := m.checkAccountLocked(op.To, op.Mint); err != nil {
			return err
		}
		s := m.stagedSupply(op.Mint, supply)
		if s > math.MaxUint64-op.Amount {
			return errors.Wrapf(apperrors.ErrCalculationFailure, "supply of %s overflows", op.Mint)
		}
		if err := m.credit(op.To, op.Amount, balances); err != nil {
			return err
		}
		supply[op.Mint] = s + op.Amount
		return nil

	case OpBurn:
		if err := m.checkAccountLocked(op.From, op.Mint); err != nil {
			return err
		}
		s := m.stagedSupply(op.Mint, supply)
		if s < op.Amount {
			return errors.Wrapf(apperrors.ErrInsufficientFunds, "supply of %s is %d", op.Mint, s)
		}
		if err := m.debit(op.From, op.Amount, balances); err != nil {
			return err
		}
		supply[op.Mint] = s - op.Amount
		return nil

	default:
		return errors.Wrapf(apperrors.ErrInvalidArgument, "unknown op kind %d", op.Kind)
	}
}

func (m *Memory) checkAccountLocked(id, mint string) error {
	acc, ok := m.accounts[id]
	if !ok {
		return errors.Wrapf(apperrors.ErrAccountNotFound, "account %s", id)
	}
	if acc.Mint != mint {
		return errors.Wrapf(apperrors.ErrIncorrectSwapAccount, "account %s holds %s, not %s", id, acc.Mint, mint)
	}
	return nil
}

func (m *Memory) stagedBalance(id string, balances map[string]uint64) uint64 {
	if b, ok := balances[id]; ok {
		return b
	}
	return m.accounts[id].Balance
}

func (m *Memory) stagedSupply(mint string, supply map[string]uint64) uint64 {
	if s, ok := supply[mint]; ok {
		return s
	}
	return m.supply[mint]
}

func (m *Memory) debit(id string, amount uint64, balances map[string]uint64) error {
	b := m.stagedBalance(id, balances)
	if b < amount {
		return errors.Wrapf(apperrors.ErrInsufficientFunds, "account %s has %d, needs %d", id, b, amount)
	}
	balances[id] = b - amount
	return nil
}

func (m *Memory) credit(id string, amount uint64, balances map[string]uint64) error {
	b := m.stagedBalance(id, balances)
	if b > math.MaxUint64-amount {
		return errors.Wrapf(apperrors.ErrCalculationFailure, "balance of %s overflows", id)
	}
	balances[id] = b + amount
	return nil
}
