// Package ledger keeps token balances, mint supplies and pool records.
//
// Amounts are uint64 like on-chain token accounts. Every mutation goes
// through Apply, which executes a batch of operations all-or-nothing.
package ledger

//go:generate mockgen -source=ledger.go -destination=mock/ledger.go -package=mock

import (
	"context"

	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/fees"
)

// Account is a token account holding a single mint.
type Account struct {
	ID      string `json:"id"`
	Mint    string `json:"mint"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
}

// PoolRecord describes a two-token pool and the accounts backing it.
type PoolRecord struct {
	ID         string     `json:"id"`
	CurveType  curve.Type `json:"curve_type"`
	Fees       fees.Fees  `json:"fees"`
	TokenAMint string     `json:"token_a_mint"`
	TokenBMint string     `json:"token_b_mint"`
	PoolMint   string     `json:"pool_mint"`
	// VaultA and VaultB hold the reserves.
	VaultA string `json:"vault_a"`
	VaultB string `json:"vault_b"`
	// FeeAccount receives owner fees in pool tokens.
	FeeAccount string `json:"fee_account"`
}

// OpKind is the type of ledger operation.
type OpKind int

const (
	// OpTransfer moves Amount of Mint from From to To.
	OpTransfer OpKind = iota
	// OpMint creates Amount of Mint in To.
	OpMint
	// OpBurn destroys Amount of Mint held by From.
	OpBurn
)

func (k OpKind) String() string {
	switch k {
	case OpTransfer:
		return "transfer"
	case OpMint:
		return "mint"
	case OpBurn:
		return "burn"
	default:
		return "unknown"
	}
}

// Op is a single balance change.
type Op struct {
	Kind   OpKind
	Mint   string
	From   string
	To     string
	Amount uint64
}

// Transfer returns an operation moving amount of mint between two accounts.
func Transfer(mint, from, to string, amount uint64) Op {
	return Op{Kind: OpTransfer, Mint: mint, From: from, To: to, Amount: amount}
}

// MintTo returns an operation minting amount of mint into to.
func MintTo(mint, to string, amount uint64) Op {
	return Op{Kind: OpMint, Mint: mint, To: to, Amount: amount}
}

// Burn returns an operation burning amount of mint held by from.
func Burn(mint, from string, amount uint64) Op {
	return Op{Kind: OpBurn, Mint: mint, From: from, Amount: amount}
}

// Ledger is the storage the pool service works against.
type Ledger interface {
	// CreateMint registers a new mint with zero supply.
	CreateMint(ctx context.Context, mint string) error
	// OpenAccount creates an empty account for mint owned by owner.
	OpenAccount(ctx context.Context, id, mint, owner string) error
	// Account returns the account with the given id.
	Account(ctx context.Context, id string) (Account, error)
	// Supply returns the outstanding supply of mint.
	Supply(ctx context.Context, mint string) (uint64, error)
	// CreatePool stores a new pool record.
	CreatePool(ctx context.Context, pool PoolRecord) error
	// Pool returns the pool record with the given id.
	Pool(ctx context.Context, id string) (PoolRecord, error)
	// Pools returns every pool record ordered by id.
	Pools(ctx context.Context) ([]PoolRecord, error)
	// Apply executes ops in order. Either every op succeeds or none is applied.
	Apply(ctx context.Context, ops ...Op) error
}
