package validate

import (
	"math"
	"net/http"

	"github.com/fleshka4/swap-pool/internal/service/dto"
)

// PoolIDValidate validates requests addressing a single pool.
func PoolIDValidate(r *http.Request) (string, int, error) {
	p := newParams(r)
	id := p.pool()
	code, err := p.done()
	return id, code, err
}

// SwapRequestValidate validates /pools/{pool}/swap request and returns dto.
func SwapRequestValidate(r *http.Request) (*dto.SwapRequest, int, error) {
	p := newParams(r)
	req := &dto.SwapRequest{
		PoolID:       p.pool(),
		Source:       p.str("source"),
		Destination:  p.str("destination"),
		AmountIn:     p.amount("amount_in"),
		MinAmountOut: p.limit("min_amount_out", 0),
		HostAccount:  p.optional("host"),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// DepositAllRequestValidate validates /pools/{pool}/deposit request and returns dto.
func DepositAllRequestValidate(r *http.Request) (*dto.DepositAllRequest, int, error) {
	p := newParams(r)
	req := &dto.DepositAllRequest{
		PoolID:          p.pool(),
		SourceA:         p.str("source_a"),
		SourceB:         p.str("source_b"),
		Destination:     p.str("destination"),
		PoolTokenAmount: p.amount("pool_tokens"),
		MaximumTokenA:   p.limit("max_a", math.MaxUint64),
		MaximumTokenB:   p.limit("max_b", math.MaxUint64),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// DepositSingleRequestValidate validates /pools/{pool}/deposit-single request and returns dto.
func DepositSingleRequestValidate(r *http.Request) (*dto.DepositSingleRequest, int, error) {
	p := newParams(r)
	req := &dto.DepositSingleRequest{
		PoolID:            p.pool(),
		Source:            p.str("source"),
		Destination:       p.str("destination"),
		SourceAmount:      p.amount("amount"),
		MinimumPoolTokens: p.limit("min_pool_tokens", 0),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// WithdrawAllRequestValidate validates /pools/{pool}/withdraw request and returns dto.
func WithdrawAllRequestValidate(r *http.Request) (*dto.WithdrawAllRequest, int, error) {
	p := newParams(r)
	req := &dto.WithdrawAllRequest{
		PoolID:          p.pool(),
		Source:          p.str("source"),
		DestinationA:    p.str("destination_a"),
		DestinationB:    p.str("destination_b"),
		PoolTokenAmount: p.amount("pool_tokens"),
		MinimumTokenA:   p.limit("min_a", 0),
		MinimumTokenB:   p.limit("min_b", 0),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// WithdrawSingleRequestValidate validates /pools/{pool}/withdraw-single request and returns dto.
func WithdrawSingleRequestValidate(r *http.Request) (*dto.WithdrawSingleRequest, int, error) {
	p := newParams(r)
	req := &dto.WithdrawSingleRequest{
		PoolID:            p.pool(),
		Source:            p.str("source"),
		Destination:       p.str("destination"),
		DestinationAmount: p.amount("amount"),
		MaximumPoolTokens: p.limit("max_pool_tokens", math.MaxUint64),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// QuoteSwapRequestValidate validates /pools/{pool}/quote/swap request and returns dto.
func QuoteSwapRequestValidate(r *http.Request) (*dto.QuoteSwapRequest, int, error) {
	p := newParams(r)
	req := &dto.QuoteSwapRequest{
		PoolID:    p.pool(),
		Direction: p.direction("direction"),
		AmountIn:  p.amount("amount_in"),
		WithHost:  p.flag("with_host"),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// QuoteDepositSingleRequestValidate validates /pools/{pool}/quote/deposit-single request and returns dto.
func QuoteDepositSingleRequestValidate(r *http.Request) (*dto.QuoteDepositSingleRequest, int, error) {
	p := newParams(r)
	req := &dto.QuoteDepositSingleRequest{
		PoolID:       p.pool(),
		Direction:    p.direction("direction"),
		SourceAmount: p.amount("amount"),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// QuoteWithdrawSingleRequestValidate validates /pools/{pool}/quote/withdraw-single request and returns dto.
func QuoteWithdrawSingleRequestValidate(r *http.Request) (*dto.QuoteWithdrawSingleRequest, int, error) {
	p := newParams(r)
	req := &dto.QuoteWithdrawSingleRequest{
		PoolID:            p.pool(),
		Direction:         p.direction("direction"),
		DestinationAmount: p.amount("amount"),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}

// QuotePoolTokensRequestValidate validates /pools/{pool}/quote/pool-tokens request and returns dto.
func QuotePoolTokensRequestValidate(r *http.Request) (*dto.QuotePoolTokensRequest, int, error) {
	p := newParams(r)
	req := &dto.QuotePoolTokensRequest{
		PoolID:     p.pool(),
		PoolTokens: p.amount("pool_tokens"),
		Round:      p.round("round"),
	}
	if code, err := p.done(); err != nil {
		return nil, code, err
	}
	return req, 0, nil
}
