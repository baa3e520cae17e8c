package http

import (
	"context"
	"net/http"

	"github.com/fleshka4/swap-pool/internal/transport/http/dto"
	"github.com/fleshka4/swap-pool/internal/transport/http/validate"
)

func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, func(ctx context.Context) (any, error) {
		pools, err := s.svc.Pools(ctx)
		if err != nil {
			return nil, err
		}
		return dto.PoolsResponse{Pools: pools}, nil
	})
}

func (s *Server) handlePool(w http.ResponseWriter, r *http.Request) {
	id, code, err := validate.PoolIDValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.Pool(ctx, id)
	})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.SwapRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.Swap(ctx, *req)
	})
}

func (s *Server) handleDepositAll(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.DepositAllRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.DepositAll(ctx, *req)
	})
}

func (s *Server) handleDepositSingle(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.DepositSingleRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.DepositSingle(ctx, *req)
	})
}

func (s *Server) handleWithdrawAll(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.WithdrawAllRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.WithdrawAll(ctx, *req)
	})
}

func (s *Server) handleWithdrawSingle(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.WithdrawSingleRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.WithdrawSingle(ctx, *req)
	})
}

func (s *Server) handleQuoteSwap(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteSwapRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.QuoteSwap(ctx, *req)
	})
}

func (s *Server) handleQuoteDepositSingle(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteDepositSingleRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.QuoteDepositSingle(ctx, *req)
	})
}

func (s *Server) handleQuoteWithdrawSingle(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteWithdrawSingleRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.QuoteWithdrawSingle(ctx, *req)
	})
}

func (s *Server) handleQuotePoolTokens(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuotePoolTokensRequestValidate(r)
	if err != nil {
		s.fail(w, code, err)
		return
	}
	s.respond(w, r, func(ctx context.Context) (any, error) {
		return s.svc.QuotePoolTokens(ctx, *req)
	})
}
