package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptySupply is returned when a pool reserve is zero at a point that
	// requires a non-zero reserve.
	ErrEmptySupply = errors.New("empty supply")

	// ErrZeroTradingTokens is returned when a computed exchange or issuance
	// amount is zero.
	ErrZeroTradingTokens = errors.New("zero trading tokens")

	// ErrCalculationFailure is returned when a checked arithmetic step
	// overflows, underflows or divides by zero.
	ErrCalculationFailure = errors.New("calculation failure")

	// ErrFeeCalculationFailure is returned when a fee cannot be computed or
	// cannot be subtracted from the amount it was charged on.
	ErrFeeCalculationFailure = errors.New("fee calculation failure")

	// ErrExceededSlippage is returned when a computed amount violates a
	// caller-specified bound.
	ErrExceededSlippage = errors.New("exceeded slippage")

	// ErrConversionFailure is returned when a 128-bit amount does not fit
	// into a 64-bit ledger amount.
	ErrConversionFailure = errors.New("conversion failure")

	// ErrInvalidFee is returned when fee parameters are malformed or exceed
	// the fee policy.
	ErrInvalidFee = errors.New("invalid fee")

	// ErrInvalidOwner is returned when the pool fee account is not owned by
	// the configured admin.
	ErrInvalidOwner = errors.New("invalid owner")

	// ErrIncorrectSwapAccount is returned when a user account does not hold
	// one of the pool tokens.
	ErrIncorrectSwapAccount = errors.New("incorrect swap account")

	// ErrDepositsNotAllowed is returned when the pool curve forbids deposits.
	ErrDepositsNotAllowed = errors.New("deposits not allowed")

	// ErrPoolNotFound is returned when the requested pool does not exist.
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolExists is returned when a pool with the same id already exists.
	ErrPoolExists = errors.New("pool already exists")

	// ErrAccountNotFound is returned when a ledger account or mint is unknown.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountExists is returned when a ledger account or mint already exists.
	ErrAccountExists = errors.New("account already exists")

	// ErrInsufficientFunds is returned when a ledger account balance is lower
	// than the amount being moved out of it.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrPairRead is returned when fetching pair data (tokens or reserves) fails,
	// typically due to an RPC or ABI decoding error.
	ErrPairRead = errors.New("pair read failed")
)
