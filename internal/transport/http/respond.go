package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/fleshka4/swap-pool/internal/apperrors"
	"github.com/fleshka4/swap-pool/internal/transport/http/dto"
)

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrPoolNotFound), errors.Is(err, apperrors.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrPoolExists), errors.Is(err, apperrors.ErrAccountExists):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidArgument),
		errors.Is(err, apperrors.ErrEmptySupply),
		errors.Is(err, apperrors.ErrZeroTradingTokens),
		errors.Is(err, apperrors.ErrExceededSlippage),
		errors.Is(err, apperrors.ErrInvalidFee),
		errors.Is(err, apperrors.ErrInvalidOwner),
		errors.Is(err, apperrors.ErrIncorrectSwapAccount),
		errors.Is(err, apperrors.ErrDepositsNotAllowed),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrFeeCalculationFailure),
		errors.Is(err, apperrors.ErrCalculationFailure),
		errors.Is(err, apperrors.ErrConversionFailure):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respond runs call under the request timeout and writes its result as JSON.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, call func(ctx context.Context) (any, error)) {
	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	out, err := call(ctx)
	if err != nil {
		code := statusOf(err)
		msg := err.Error()
		if code == http.StatusInternalServerError {
			s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
			msg = "internal error"
		}
		s.writeJSON(w, code, dto.ErrorResponse{Error: msg})
		return
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) fail(w http.ResponseWriter, code int, err error) {
	if code == 0 {
		code = http.StatusBadRequest
	}
	s.writeJSON(w, code, dto.ErrorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response write error", zap.Error(err))
	}
}
