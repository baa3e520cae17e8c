// Package precise implements a fixed-point fractional number with twelve
// decimal places backed by a 256-bit unsigned integer.
//
// Every operation is checked: a result that does not fit 256 bits, a
// division by zero or a negative difference yields ok=false. Rounding is
// half-up for multiplication, division and narrowing back to an integer.
// The algorithms are fixed so that results are reproducible bit for bit.
package precise

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/fleshka4/swap-pool/internal/dexmath"
)

const (
	// Decimals is the number of fractional decimal digits.
	Decimals = 12

	maxSqrtIterations = 100
)

var (
	one                = uint256.NewInt(1_000_000_000_000)
	roundingCorrection = uint256.NewInt(1_000_000_000_000 / 2)
	// successive square root guesses closer than this are considered equal.
	sqrtPrecision = uint256.NewInt(100)
	// largest operand accepted by Sqrt, u128::MAX * 10^12.
	maxSqrtBase = new(uint256.Int).Mul(dexmath.Max128, one)
)

// Number is an immutable fixed-point value. The zero value is 0.
type Number struct {
	value uint256.Int
}

// New returns v as a Number. ok is false when v exceeds 128 bits.
func New(v *uint256.Int) (Number, bool) {
	if !dexmath.Fits128(v) {
		return Number{}, false
	}
	var n Number
	// 2^128 * 10^12 < 2^256, the product cannot overflow.
	n.value.Mul(v, one)
	return n, true
}

// NewUint64 returns v as a Number.
func NewUint64(v uint64) Number {
	n, _ := New(uint256.NewInt(v))
	return n
}

// Zero returns 0.
func Zero() Number {
	return Number{}
}

// One returns 1.
func One() Number {
	return NewUint64(1)
}

// FromRaw builds a Number from its scaled representation.
func FromRaw(raw *uint256.Int) Number {
	var n Number
	n.value.Set(raw)
	return n
}

// Raw returns the scaled representation, x * 10^12.
func (n Number) Raw() *uint256.Int {
	return n.value.Clone()
}

// IsZero reports whether n is 0.
func (n Number) IsZero() bool {
	return n.value.IsZero()
}

// Cmp compares n and m and returns -1, 0 or +1.
func (n Number) Cmp(m Number) int {
	return n.value.Cmp(&m.value)
}

// AlmostEqual reports whether |n - m| is below precision, expressed in raw
// units of 10^-12.
func (n Number) AlmostEqual(m Number, precision *uint256.Int) bool {
	return n.absDiff(m).Lt(precision)
}

func (n Number) absDiff(m Number) *uint256.Int {
	if n.value.Lt(&m.value) {
		return new(uint256.Int).Sub(&m.value, &n.value)
	}
	return new(uint256.Int).Sub(&n.value, &m.value)
}

// CheckedAdd returns n + m.
func (n Number) CheckedAdd(m Number) (Number, bool) {
	var r Number
	if _, overflow := r.value.AddOverflow(&n.value, &m.value); overflow {
		return Number{}, false
	}
	return r, true
}

// CheckedSub returns n - m, or ok=false when m > n.
func (n Number) CheckedSub(m Number) (Number, bool) {
	var r Number
	if _, underflow := r.value.SubOverflow(&n.value, &m.value); underflow {
		return Number{}, false
	}
	return r, true
}

// CheckedMul returns n * m rounded half-up. When the raw product does not fit
// 256 bits the larger operand is truncated to an integer first.
func (n Number) CheckedMul(m Number) (Number, bool) {
	var r Number
	product, overflow := new(uint256.Int).MulOverflow(&n.value, &m.value)
	if !overflow {
		if _, overflow = product.AddOverflow(product, roundingCorrection); overflow {
			return Number{}, false
		}
		r.value.Div(product, one)
		return r, true
	}

	big, small := &n.value, &m.value
	if big.Lt(small) {
		big, small = small, big
	}
	whole := new(uint256.Int).Div(big, one)
	if _, overflow = r.value.MulOverflow(whole, small); overflow {
		return Number{}, false
	}
	return r, true
}

// CheckedDiv returns n / m rounded half-up, or ok=false when m is zero. When
// scaling n up would overflow, the quotient is computed at integer precision.
func (n Number) CheckedDiv(m Number) (Number, bool) {
	if m.IsZero() {
		return Number{}, false
	}

	var r Number
	scaled, overflow := new(uint256.Int).MulOverflow(&n.value, one)
	if !overflow {
		if _, overflow = scaled.AddOverflow(scaled, roundingCorrection); overflow {
			return Number{}, false
		}
		r.value.Div(scaled, &m.value)
		return r, true
	}

	rounded, overflow := new(uint256.Int).AddOverflow(&n.value, roundingCorrection)
	if overflow {
		return Number{}, false
	}
	rounded.Div(rounded, &m.value)
	if _, overflow = r.value.MulOverflow(rounded, one); overflow {
		return Number{}, false
	}
	return r, true
}

// CheckedPow returns n^exponent by square and multiply.
func (n Number) CheckedPow(exponent uint64) (Number, bool) {
	result := One()
	if exponent%2 != 0 {
		result = n
	}
	base := n
	var ok bool
	for exponent /= 2; exponent != 0; exponent /= 2 {
		if base, ok = base.CheckedMul(base); !ok {
			return Number{}, false
		}
		if exponent%2 != 0 {
			if result, ok = result.CheckedMul(base); !ok {
				return Number{}, false
			}
		}
	}
	return result, true
}

// Floor rounds n down to an integer.
func (n Number) Floor() Number {
	var r Number
	r.value.Div(&n.value, one)
	r.value.Mul(&r.value, one)
	return r
}

// Ceiling rounds n up to an integer.
func (n Number) Ceiling() (Number, bool) {
	var r Number
	bump := new(uint256.Int).SubUint64(one, 1)
	if _, overflow := r.value.AddOverflow(&n.value, bump); overflow {
		return Number{}, false
	}
	r.value.Div(&r.value, one)
	r.value.Mul(&r.value, one)
	return r, true
}

// ToImprecise rounds n half-up to an integer amount. ok is false when the
// result exceeds 128 bits.
func (n Number) ToImprecise() (*uint256.Int, bool) {
	v, overflow := new(uint256.Int).AddOverflow(&n.value, roundingCorrection)
	if overflow {
		return nil, false
	}
	v.Div(v, one)
	if !dexmath.Fits128(v) {
		return nil, false
	}
	return v, true
}

// Sqrt returns the square root of n approximated with Newton's method.
func (n Number) Sqrt() (Number, bool) {
	if n.value.Gt(maxSqrtBase) {
		return Number{}, false
	}
	two := NewUint64(2)
	// the root of any value lies between 1 and the value itself
	sum, ok := n.CheckedAdd(One())
	if !ok {
		return Number{}, false
	}
	guess, ok := sum.CheckedDiv(two)
	if !ok {
		return Number{}, false
	}
	return n.newtonRoot(two, guess, maxSqrtIterations)
}

// newtonRoot approximates the root-th root of n:
//
//	x_k+1 = ((root - 1) * x_k + n / x_k^(root - 1)) / root
func (n Number) newtonRoot(root, guess Number, iterations int) (Number, bool) {
	if n.IsZero() {
		return Zero(), true
	}
	if root.IsZero() {
		return Number{}, false
	}

	rootMinusOne, ok := root.CheckedSub(One())
	if !ok {
		return Number{}, false
	}
	exponent, ok := rootMinusOne.ToImprecise()
	if !ok || !exponent.IsUint64() {
		return Number{}, false
	}

	last := guess
	for i := 0; i < iterations; i++ {
		first, ok := rootMinusOne.CheckedMul(guess)
		if !ok {
			return Number{}, false
		}
		second := Zero()
		if power, ok := guess.CheckedPow(exponent.Uint64()); ok {
			if second, ok = n.CheckedDiv(power); !ok {
				return Number{}, false
			}
		}
		sum, ok := first.CheckedAdd(second)
		if !ok {
			return Number{}, false
		}
		if guess, ok = sum.CheckedDiv(root); !ok {
			return Number{}, false
		}
		if last.AlmostEqual(guess, sqrtPrecision) {
			break
		}
		last = guess
	}
	return guess, true
}

// String formats n with all twelve decimals.
func (n Number) String() string {
	whole := new(uint256.Int).Div(&n.value, one)
	frac := new(uint256.Int).Mod(&n.value, one)
	return fmt.Sprintf("%s.%0*d", whole.Dec(), Decimals, frac.Uint64())
}
