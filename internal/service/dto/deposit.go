package dto

import "github.com/fleshka4/swap-pool/internal/curve"

// DepositAllRequest deposits both tokens for exactly PoolTokenAmount pool
// tokens, paying at most MaximumTokenA and MaximumTokenB.
type DepositAllRequest struct {
	PoolID          string
	SourceA         string
	SourceB         string
	Destination     string
	PoolTokenAmount uint64
	MaximumTokenA   uint64
	MaximumTokenB   uint64
}

// DepositAllResult reports a dual-sided deposit.
type DepositAllResult struct {
	PoolTokens uint64 `json:"pool_tokens"`
	TokenA     uint64 `json:"token_a"`
	TokenB     uint64 `json:"token_b"`
}

// DepositSingleRequest deposits SourceAmount of one token for at least
// MinimumPoolTokens pool tokens. The token follows the mint of Source.
type DepositSingleRequest struct {
	PoolID            string
	Source            string
	Destination       string
	SourceAmount      uint64
	MinimumPoolTokens uint64
}

// DepositSingleResult reports a single-sided deposit.
type DepositSingleResult struct {
	Direction    string `json:"direction"`
	SourceAmount uint64 `json:"source_amount"`
	PoolTokens   uint64 `json:"pool_tokens"`
}

// QuoteDepositSingleRequest prices a single-sided deposit.
type QuoteDepositSingleRequest struct {
	PoolID       string
	Direction    curve.TradeDirection
	SourceAmount uint64
}
