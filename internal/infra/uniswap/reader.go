// Package uniswap reads Uniswap V2 pair state over Ethereum JSON-RPC. It is
// used to seed pool reserves from a live pair.
package uniswap

//go:generate mockgen -source=reader.go -destination=mock/reader.go -package=mock

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/fleshka4/swap-pool/internal/apperrors"
)

const pairABIJSON = `[
	{"inputs":[],"name":"token0","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"token1","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getReserves","outputs":[{"internalType":"uint112","name":"_reserve0","type":"uint112"},{"internalType":"uint112","name":"_reserve1","type":"uint112"},{"internalType":"uint32","name":"_blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"}
]`

const (
	token0Method   = "token0"
	token1Method   = "token1"
	reservesMethod = "getReserves"
)

// Pair is the state of a pair contract. Reserves are in token0/token1 order.
type Pair struct {
	Address  common.Address
	Token0   common.Address
	Token1   common.Address
	Reserve0 uint64
	Reserve1 uint64
}

// Reserves returns the pair reserves ordered as (tokenA, tokenB). tokenA
// must be one of the pair tokens.
func (p Pair) Reserves(tokenA common.Address) (uint64, uint64, error) {
	switch tokenA {
	case p.Token0:
		return p.Reserve0, p.Reserve1, nil
	case p.Token1:
		return p.Reserve1, p.Reserve0, nil
	default:
		return 0, 0, errors.Wrapf(apperrors.ErrInvalidArgument, "token %s is not in pair %s", tokenA.Hex(), p.Address.Hex())
	}
}

// Reader reads pair contracts.
type Reader interface {
	ReadPair(ctx context.Context, pair common.Address) (Pair, error)
}

// EthCaller represents interface for calling contracts.
type EthCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type pairReader struct {
	caller  EthCaller
	pairABI abi.ABI

	callTimeout time.Duration
}

// NewReader creates a Reader backed by an Ethereum RPC connection.
func NewReader(rpcURL string, callTimeout time.Duration) (Reader, error) {
	caller, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	return NewReaderWithCaller(caller, callTimeout)
}

// NewReaderWithCaller creates a Reader over an existing contract caller.
func NewReaderWithCaller(caller EthCaller, callTimeout time.Duration) (Reader, error) {
	pairABI, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}

	return &pairReader{
		caller:  caller,
		pairABI: pairABI,

		callTimeout: callTimeout,
	}, nil
}

func (c *pairReader) call(ctx context.Context, to common.Address, method string) ([]interface{}, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	data, err := c.pairABI.Pack(method)
	if err != nil {
		return nil, errors.Wrap(err, "c.pairABI.Pack")
	}

	res, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "c.caller.CallContract")
	}

	out, err := c.pairABI.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "c.pairABI.Unpack")
	}

	return out, nil
}

// ReadPair reads both tokens and the reserves of pair in parallel. Every
// failed call is reported, wrapped in ErrPairRead.
func (c *pairReader) ReadPair(ctx context.Context, pair common.Address) (Pair, error) {
	methods := []string{token0Method, token1Method, reservesMethod}
	outs := make([][]interface{}, len(methods))
	errs := make([]error, len(methods))

	var wg sync.WaitGroup
	for i, method := range methods {
		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := ctx.Err(); err != nil {
				errs[i] = errors.Wrap(err, "context cancelled before call")
				return
			}
			out, err := c.call(ctx, pair, method)
			if err != nil {
				errs[i] = errors.Wrapf(err, "failed to call %s", method)
				return
			}
			outs[i] = out
		}()
	}
	wg.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return Pair{}, errors.Wrapf(apperrors.ErrPairRead, "pair %s: %v", pair.Hex(), err)
	}

	p := Pair{Address: pair}
	var err error
	if p.Token0, err = address(outs[0], token0Method); err != nil {
		return Pair{}, err
	}
	if p.Token1, err = address(outs[1], token1Method); err != nil {
		return Pair{}, err
	}
	if p.Reserve0, p.Reserve1, err = reserves(outs[2]); err != nil {
		return Pair{}, err
	}
	return p, nil
}

func address(out []interface{}, method string) (common.Address, error) {
	if len(out) == 0 {
		return common.Address{}, errors.Wrapf(apperrors.ErrPairRead, "empty %s result", method)
	}
	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Wrapf(apperrors.ErrPairRead, "failed to cast %s result to address", method)
	}
	return addr, nil
}

// reserves narrows the uint112 reserves to uint64 ledger amounts.
func reserves(out []interface{}) (uint64, uint64, error) {
	const requiredSize = 2
	if len(out) < requiredSize {
		return 0, 0, errors.Wrapf(apperrors.ErrPairRead,
			"insufficient outputs from getReserves call: expected %d, got %d", requiredSize, len(out))
	}

	var res [requiredSize]uint64
	for i, name := range []string{"reserve0", "reserve1"} {
		v, ok := out[i].(*big.Int)
		if !ok {
			return 0, 0, errors.Wrapf(apperrors.ErrPairRead, "failed to cast %s to *big.Int", name)
		}
		if !v.IsUint64() {
			return 0, 0, errors.Wrapf(apperrors.ErrConversionFailure, "%s %s does not fit u64", name, v)
		}
		res[i] = v.Uint64()
	}
	return res[0], res[1], nil
}
