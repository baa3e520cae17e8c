package dto

import "github.com/fleshka4/swap-pool/internal/curve"

// SwapRequest trades AmountIn from Source for at least MinAmountOut into
// Destination. The direction follows the mint of Source.
type SwapRequest struct {
	PoolID       string
	Source       string
	Destination  string
	AmountIn     uint64
	MinAmountOut uint64
	// HostAccount optionally receives the host share of the owner fee.
	HostAccount string
}

// SwapResult reports a priced or executed swap.
type SwapResult struct {
	Direction string `json:"direction"`
	// AmountIn is the source amount taken, fees included.
	AmountIn  uint64 `json:"amount_in"`
	AmountOut uint64 `json:"amount_out"`
	TradeFee  uint64 `json:"trade_fee"`
	OwnerFee  uint64 `json:"owner_fee"`
	// OwnerPoolTokens is the owner fee converted into pool tokens,
	// HostPoolTokens included.
	OwnerPoolTokens uint64 `json:"owner_pool_tokens"`
	HostPoolTokens  uint64 `json:"host_pool_tokens"`
	NewReserveA     uint64 `json:"new_reserve_a"`
	NewReserveB     uint64 `json:"new_reserve_b"`
}

// QuoteSwapRequest prices a swap without executing it.
type QuoteSwapRequest struct {
	PoolID    string
	Direction curve.TradeDirection
	AmountIn  uint64
	// WithHost splits the owner fee as if a host account were given.
	WithHost bool
}
