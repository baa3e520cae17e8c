package dto

import (
	"github.com/fleshka4/swap-pool/internal/curve"
	"github.com/fleshka4/swap-pool/internal/fees"
)

// InitializeRequest creates a pool over already funded vault accounts.
type InitializeRequest struct {
	PoolID     string
	CurveType  curve.Type
	Fees       fees.Fees
	TokenAMint string
	TokenBMint string
	PoolMint   string
	VaultA     string
	VaultB     string
	// FeeAccount is a pool token account owned by the admin.
	FeeAccount string
	// Destination receives the initial pool token supply.
	Destination string
}

// PoolState is a snapshot of a pool.
type PoolState struct {
	ID              string     `json:"id"`
	CurveType       curve.Type `json:"curve_type"`
	TokenAMint      string     `json:"token_a_mint"`
	TokenBMint      string     `json:"token_b_mint"`
	PoolMint        string     `json:"pool_mint"`
	FeeAccount      string     `json:"fee_account"`
	ReserveA        uint64     `json:"reserve_a"`
	ReserveB        uint64     `json:"reserve_b"`
	PoolTokenSupply uint64     `json:"pool_token_supply"`
	Fees            fees.Fees  `json:"fees"`
}
