package dto

import "github.com/fleshka4/swap-pool/internal/curve"

// WithdrawAllRequest burns PoolTokenAmount pool tokens from Source for at
// least MinimumTokenA and MinimumTokenB.
type WithdrawAllRequest struct {
	PoolID          string
	Source          string
	DestinationA    string
	DestinationB    string
	PoolTokenAmount uint64
	MinimumTokenA   uint64
	MinimumTokenB   uint64
}

// WithdrawAllResult reports a dual-sided withdrawal.
type WithdrawAllResult struct {
	// PoolTokens is the amount burned, WithdrawFee excluded.
	PoolTokens  uint64 `json:"pool_tokens"`
	WithdrawFee uint64 `json:"withdraw_fee"`
	TokenA      uint64 `json:"token_a"`
	TokenB      uint64 `json:"token_b"`
}

// WithdrawSingleRequest withdraws exactly DestinationAmount of one token,
// spending at most MaximumPoolTokens. The token follows the mint of
// Destination.
type WithdrawSingleRequest struct {
	PoolID            string
	Source            string
	Destination       string
	DestinationAmount uint64
	MaximumPoolTokens uint64
}

// WithdrawSingleResult reports a single-sided withdrawal.
type WithdrawSingleResult struct {
	Direction         string `json:"direction"`
	DestinationAmount uint64 `json:"destination_amount"`
	// PoolTokens is the total spent: burned plus WithdrawFee.
	PoolTokens  uint64 `json:"pool_tokens"`
	WithdrawFee uint64 `json:"withdraw_fee"`
}

// QuoteWithdrawSingleRequest prices a single-sided withdrawal.
type QuoteWithdrawSingleRequest struct {
	PoolID            string
	Direction         curve.TradeDirection
	DestinationAmount uint64
}

// QuotePoolTokensRequest values PoolTokens in both reserves.
type QuotePoolTokensRequest struct {
	PoolID     string
	PoolTokens uint64
	Round      curve.RoundDirection
}

// PoolTokensValue reports the reserves backing an amount of pool tokens.
type PoolTokensValue struct {
	PoolTokens uint64 `json:"pool_tokens"`
	TokenA     uint64 `json:"token_a"`
	TokenB     uint64 `json:"token_b"`
}
