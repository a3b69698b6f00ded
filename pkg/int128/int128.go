// Package int128 implements a signed 128-bit integer value type.
//
// Int is a comparable value (usable with == and as a map key) stored in
// two's complement as a high signed word and a low unsigned word.
// Arithmetic wraps on overflow; callers that need overflow-free sums keep
// their operands within the Safe range.
package int128

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/bits"
	"strconv"
	"strings"
)

var (
	// ErrSyntax indicates a string that is not a base-10 integer.
	ErrSyntax = errors.New("invalid integer syntax")

	// ErrOverflow indicates a value outside the signed 128-bit range.
	ErrOverflow = errors.New("value out of 128-bit range")
)

// Int is a signed 128-bit integer. The zero value is 0.
type Int struct {
	hi int64
	lo uint64
}

// Max and Min are the largest and smallest representable values.
var (
	Max = Int{hi: math.MaxInt64, lo: math.MaxUint64}
	Min = Int{hi: math.MinInt64, lo: 0}
)

var (
	bigMax = Max.Big()
	bigMin = Min.Big()
	mask64 = new(big.Int).SetUint64(math.MaxUint64)
)

// FromInt64 returns v as an Int.
func FromInt64(v int64) Int {
	return Int{hi: v >> 63, lo: uint64(v)}
}

// FromBig converts b, returning ErrOverflow when it does not fit.
func FromBig(b *big.Int) (Int, error) {
	if b.Cmp(bigMax) > 0 || b.Cmp(bigMin) < 0 {
		return Int{}, ErrOverflow
	}
	lo := new(big.Int).And(b, mask64).Uint64()
	hi := new(big.Int).Rsh(b, 64).Int64()
	return Int{hi: hi, lo: lo}, nil
}

// Parse parses a base-10 integer with an optional sign.
func Parse(s string) (Int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return FromInt64(v), nil
	}

	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int{}, fmt.Errorf("parsing %q: %w", s, ErrSyntax)
	}
	v, err := FromBig(b)
	if err != nil {
		return Int{}, fmt.Errorf("parsing %q: %w", s, err)
	}
	return v, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// package-level constants.
func MustParse(s string) Int {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Add returns x+y.
func (x Int) Add(y Int) Int {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	return Int{hi: x.hi + y.hi + int64(carry), lo: lo}
}

// Sub returns x-y.
func (x Int) Sub(y Int) Int {
	lo, borrow := bits.Sub64(x.lo, y.lo, 0)
	return Int{hi: x.hi - y.hi - int64(borrow), lo: lo}
}

// AddChecked returns x+y and false if the sum does not fit in 128 bits.
func (x Int) AddChecked(y Int) (Int, bool) {
	z := x.Add(y)
	if (x.hi < 0) == (y.hi < 0) && (z.hi < 0) != (x.hi < 0) {
		return z, false
	}
	return z, true
}

// SubChecked returns x-y and false if the difference does not fit in 128 bits.
func (x Int) SubChecked(y Int) (Int, bool) {
	z := x.Sub(y)
	if (x.hi < 0) != (y.hi < 0) && (z.hi < 0) != (x.hi < 0) {
		return z, false
	}
	return z, true
}

// Neg returns -x.
func (x Int) Neg() Int {
	return Int{}.Sub(x)
}

// Cmp returns -1, 0 or +1 depending on whether x is less than, equal to
// or greater than y.
func (x Int) Cmp(y Int) int {
	switch {
	case x.hi < y.hi:
		return -1
	case x.hi > y.hi:
		return 1
	case x.lo < y.lo:
		return -1
	case x.lo > y.lo:
		return 1
	}
	return 0
}

// Less reports whether x < y.
func (x Int) Less(y Int) bool {
	return x.Cmp(y) < 0
}

// Sign returns -1, 0 or +1.
func (x Int) Sign() int {
	switch {
	case x.hi < 0:
		return -1
	case x.hi == 0 && x.lo == 0:
		return 0
	}
	return 1
}

// IsZero reports whether x == 0.
func (x Int) IsZero() bool {
	return x.hi == 0 && x.lo == 0
}

// Safe reports whether x lies in [-2^126, 2^126). The sum or difference of
// two safe values never overflows.
func (x Int) Safe() bool {
	top := x.hi >> 62
	return top == 0 || top == -1
}

// Int64 returns x as an int64 and whether the conversion was exact.
func (x Int) Int64() (int64, bool) {
	return int64(x.lo), x.hi == int64(x.lo)>>63
}

// Big returns x as a newly allocated big.Int.
func (x Int) Big() *big.Int {
	b := new(big.Int).SetInt64(x.hi)
	b.Lsh(b, 64)
	return b.Add(b, new(big.Int).SetUint64(x.lo))
}

// String returns the base-10 representation of x.
func (x Int) String() string {
	if v, ok := x.Int64(); ok {
		return strconv.FormatInt(v, 10)
	}
	return x.Big().String()
}

// MinOf returns the smaller of x and y.
func MinOf(x, y Int) Int {
	if y.Less(x) {
		return y
	}
	return x
}

// MaxOf returns the larger of x and y.
func MaxOf(x, y Int) Int {
	if x.Less(y) {
		return y
	}
	return x
}

// MarshalJSON encodes x as a JSON number.
func (x Int) MarshalJSON() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (x *Int) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*x = v
	return nil
}

// Value implements driver.Valuer. Values are stored as decimal text so
// that no database integer width limits them.
func (x Int) Value() (driver.Value, error) {
	return x.String(), nil
}

// Scan implements sql.Scanner.
func (x *Int) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		return fmt.Errorf("cannot scan nil into Int")
	case int64:
		*x = FromInt64(v)
		return nil
	case string:
		return x.scanString(v)
	case []byte:
		return x.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan type %T into Int", value)
	}
}

func (x *Int) scanString(s string) error {
	v, err := Parse(s)
	if err != nil {
		return err
	}
	*x = v
	return nil
}
