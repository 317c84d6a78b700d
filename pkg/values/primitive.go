package values

import (
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/seanpm2001/vallang/pkg/canonical"
	"github.com/seanpm2001/vallang/pkg/types"
)

// Bool is the boolean value. Only two instances exist.
type Bool struct {
	b bool
}

var (
	trueValue  = &Bool{b: true}
	falseValue = &Bool{b: false}

	trueHash  = xxhash.Sum64String("bool\x00true")
	falseHash = xxhash.Sum64String("bool\x00false")
)

// NewBool returns the canonical boolean value.
func NewBool(b bool) *Bool {
	if b {
		return trueValue
	}
	return falseValue
}

func (v *Bool) Value() bool      { return v.b }
func (v *Bool) Type() types.Type { return types.BoolType() }

func (v *Bool) Hash() uint64 {
	if v.b {
		return trueHash
	}
	return falseHash
}

func (v *Bool) Equal(other Value) bool {
	o, ok := other.(*Bool)
	return ok && o.b == v.b
}

func (v *Bool) String() string { return strconv.FormatBool(v.b) }

// Integer is an arbitrary-precision integer value.
type Integer struct {
	v *big.Int
	h uint64
}

var (
	integerCacheSize = 256
	integerCacheOnce sync.Once
	integerCache     []*Integer
)

// SetIntegerCacheSize configures how many small non-negative integers are
// served from a shared cache. Effective only before the first integer is
// constructed.
func SetIntegerCacheSize(n int) {
	if n >= 0 {
		integerCacheSize = n
	}
}

func initIntegerCache() {
	integerCache = make([]*Integer, integerCacheSize)
	for i := range integerCache {
		integerCache[i] = newInteger(big.NewInt(int64(i)))
	}
}

func newInteger(v *big.Int) *Integer {
	return &Integer{v: v, h: xxhash.Sum64String("int\x00" + v.String())}
}

// NewInteger returns the integer value for i. Small non-negative integers
// share cached instances.
func NewInteger(i int64) *Integer {
	integerCacheOnce.Do(initIntegerCache)
	if i >= 0 && i < int64(len(integerCache)) {
		return integerCache[i]
	}
	return newInteger(big.NewInt(i))
}

// NewIntegerFromBig returns the integer value for v. The argument is copied.
func NewIntegerFromBig(v *big.Int) *Integer {
	integerCacheOnce.Do(initIntegerCache)
	if v.IsInt64() {
		if i := v.Int64(); i >= 0 && i < int64(len(integerCache)) {
			return integerCache[i]
		}
	}
	return newInteger(new(big.Int).Set(v))
}

// Big returns a copy of the underlying arbitrary-precision integer.
func (v *Integer) Big() *big.Int { return new(big.Int).Set(v.v) }

func (v *Integer) Type() types.Type { return types.IntegerType() }
func (v *Integer) Hash() uint64     { return v.h }

func (v *Integer) Equal(other Value) bool {
	o, ok := other.(*Integer)
	return ok && (o == v || o.v.Cmp(v.v) == 0)
}

func (v *Integer) String() string { return v.v.String() }

// Real is an arbitrary-precision floating point value.
type Real struct {
	v *big.Float
	h uint64
}

func newReal(v *big.Float) *Real {
	return &Real{v: v, h: xxhash.Sum64String("real\x00" + v.Text('g', -1))}
}

// NewReal returns the real value for f.
func NewReal(f float64) *Real { return newReal(big.NewFloat(f)) }

// NewRealFromBig returns the real value for v. The argument is copied.
func NewRealFromBig(v *big.Float) *Real { return newReal(new(big.Float).Copy(v)) }

// Big returns a copy of the underlying arbitrary-precision float.
func (v *Real) Big() *big.Float { return new(big.Float).Copy(v.v) }

func (v *Real) Type() types.Type { return types.RealType() }
func (v *Real) Hash() uint64     { return v.h }

func (v *Real) Equal(other Value) bool {
	o, ok := other.(*Real)
	return ok && (o == v || o.v.Cmp(v.v) == 0)
}

func (v *Real) String() string { return v.v.Text('g', -1) }

// Rational is an arbitrary-precision rational value.
type Rational struct {
	v *big.Rat
	h uint64
}

func newRational(v *big.Rat) *Rational {
	return &Rational{v: v, h: xxhash.Sum64String("rat\x00" + v.RatString())}
}

// NewRational returns the rational value num/den.
func NewRational(num, den int64) *Rational { return newRational(big.NewRat(num, den)) }

// NewRationalFromBig returns the rational value for v. The argument is
// copied.
func NewRationalFromBig(v *big.Rat) *Rational { return newRational(new(big.Rat).Set(v)) }

// Big returns a copy of the underlying rational.
func (v *Rational) Big() *big.Rat { return new(big.Rat).Set(v.v) }

func (v *Rational) Type() types.Type { return types.RationalType() }
func (v *Rational) Hash() uint64     { return v.h }

func (v *Rational) Equal(other Value) bool {
	o, ok := other.(*Rational)
	return ok && (o == v || o.v.Cmp(v.v) == 0)
}

func (v *Rational) String() string { return v.v.RatString() }

// String is the string value. Instances are interned through a canonical
// table, so equal strings share one representative while unreferenced ones
// remain collectable.
type String struct {
	s string
	h uint64
}

var stringTable = canonical.NewTable(
	func(v *String) uint64 { return v.h },
	func(a, b *String) bool { return a.s == b.s })

// NewString returns the canonical string value for s.
func NewString(s string) *String {
	return stringTable.Get(&String{s: s, h: xxhash.Sum64String("str\x00" + s)})
}

func (v *String) Value() string    { return v.s }
func (v *String) Type() types.Type { return types.StringType() }
func (v *String) Hash() uint64     { return v.h }

func (v *String) Equal(other Value) bool {
	o, ok := other.(*String)
	return ok && (o == v || o.s == v.s)
}

func (v *String) String() string { return strconv.Quote(v.s) }

// SourceLocation points at a region of a named source artifact.
type SourceLocation struct {
	uri    string
	offset int
	length int
	h      uint64
}

// NewSourceLocation returns a location covering length bytes at offset in
// the artifact identified by uri. Use offset -1 for a whole-artifact
// location.
func NewSourceLocation(uri string, offset, length int) *SourceLocation {
	return &SourceLocation{
		uri: uri, offset: offset, length: length,
		h: combineHashes("loc", xxhash.Sum64String(uri), uint64(int64(offset)), uint64(int64(length))),
	}
}

func (v *SourceLocation) URI() string      { return v.uri }
func (v *SourceLocation) Offset() int      { return v.offset }
func (v *SourceLocation) Length() int      { return v.length }
func (v *SourceLocation) Type() types.Type { return types.SourceLocationType() }
func (v *SourceLocation) Hash() uint64     { return v.h }

func (v *SourceLocation) Equal(other Value) bool {
	o, ok := other.(*SourceLocation)
	return ok && o.uri == v.uri && o.offset == v.offset && o.length == v.length
}

func (v *SourceLocation) String() string {
	if v.offset < 0 {
		return "|" + v.uri + "|"
	}
	return "|" + v.uri + "|(" + strconv.Itoa(v.offset) + "," + strconv.Itoa(v.length) + ")"
}

// DateTime is an instant in time.
type DateTime struct {
	t time.Time
	h uint64
}

// NewDateTime returns the date-time value for t.
func NewDateTime(t time.Time) *DateTime {
	return &DateTime{t: t, h: combineHashes("datetime", uint64(t.UnixNano()))}
}

func (v *DateTime) Time() time.Time  { return v.t }
func (v *DateTime) Type() types.Type { return types.DateTimeType() }
func (v *DateTime) Hash() uint64     { return v.h }

func (v *DateTime) Equal(other Value) bool {
	o, ok := other.(*DateTime)
	return ok && o.t.Equal(v.t)
}

func (v *DateTime) String() string { return "$" + v.t.Format(time.RFC3339Nano) + "$" }
