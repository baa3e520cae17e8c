// Package dexmath implements checked arithmetic over unsigned 128-bit
// amounts. Values are carried in *uint256.Int; anything above 2^128-1 is
// treated as an overflow. No function mutates its arguments.
package dexmath

import "github.com/holiman/uint256"

// Max128 is the largest representable amount, 2^128-1. It MUST NOT be modified.
var Max128 = new(uint256.Int).Sub(
	new(uint256.Int).Lsh(uint256.NewInt(1), 128),
	uint256.NewInt(1),
)

// Fits128 reports whether x is a valid 128-bit amount.
func Fits128(x *uint256.Int) bool {
	return x != nil && x.BitLen() <= 128
}

// ToUint64 narrows x to a ledger amount. ok is false when x does not fit.
func ToUint64(x *uint256.Int) (uint64, bool) {
	if x == nil || !x.IsUint64() {
		return 0, false
	}
	return x.Uint64(), true
}

// Min returns the smaller of x and y.
func Min(x, y *uint256.Int) *uint256.Int {
	if x.Lt(y) {
		return x.Clone()
	}
	return y.Clone()
}

// CheckedAdd returns x+y, or ok=false if the sum leaves the 128-bit range.
func CheckedAdd(x, y *uint256.Int) (*uint256.Int, bool) {
	if !Fits128(x) || !Fits128(y) {
		return nil, false
	}
	z := new(uint256.Int).Add(x, y)
	if !Fits128(z) {
		return nil, false
	}
	return z, true
}

// CheckedSub returns x-y, or ok=false if y > x.
func CheckedSub(x, y *uint256.Int) (*uint256.Int, bool) {
	if !Fits128(x) || !Fits128(y) || x.Lt(y) {
		return nil, false
	}
	return new(uint256.Int).Sub(x, y), true
}

// CheckedMul returns x*y, or ok=false if the product leaves the 128-bit range.
func CheckedMul(x, y *uint256.Int) (*uint256.Int, bool) {
	if !Fits128(x) || !Fits128(y) {
		return nil, false
	}
	// two 128-bit factors never overflow 256 bits.
	z := new(uint256.Int).Mul(x, y)
	if !Fits128(z) {
		return nil, false
	}
	return z, true
}

// CheckedDiv returns floor(x/y), or ok=false if y is zero.
func CheckedDiv(x, y *uint256.Int) (*uint256.Int, bool) {
	if !Fits128(x) || !Fits128(y) || y.IsZero() {
		return nil, false
	}
	return new(uint256.Int).Div(x, y), true
}

// CheckedRem returns x mod y, or ok=false if y is zero.
func CheckedRem(x, y *uint256.Int) (*uint256.Int, bool) {
	if !Fits128(x) || !Fits128(y) || y.IsZero() {
		return nil, false
	}
	return new(uint256.Int).Mod(x, y), true
}

// CheckedCeilDiv divides numerator by denominator rounding the quotient up.
//
// When the division is inexact the denominator is raised to the smallest
// value that still yields the same quotient, so that
// quotient * adjusted >= numerator always holds. A zero quotient is rejected
// instead of being rounded up to one.
func CheckedCeilDiv(numerator, denominator *uint256.Int) (quotient, adjusted *uint256.Int, ok bool) {
	quotient, ok = CheckedDiv(numerator, denominator)
	if !ok || quotient.IsZero() {
		return nil, nil, false
	}

	adjusted = denominator.Clone()
	remainder, ok := CheckedRem(numerator, denominator)
	if !ok {
		return nil, nil, false
	}
	if remainder.IsZero() {
		return quotient, adjusted, true
	}

	if quotient, ok = CheckedAdd(quotient, uint256.NewInt(1)); !ok {
		return nil, nil, false
	}
	if adjusted, ok = CheckedDiv(numerator, quotient); !ok {
		return nil, nil, false
	}
	if remainder, ok = CheckedRem(numerator, quotient); !ok {
		return nil, nil, false
	}
	if !remainder.IsZero() {
		if adjusted, ok = CheckedAdd(adjusted, uint256.NewInt(1)); !ok {
			return nil, nil, false
		}
	}

	return quotient, adjusted, true
}
