package values

import (
	"strings"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Tuple is a fixed-width sequence of values. Its type is the tuple type of
// its field types.
type Tuple struct {
	fields []Value
	typ    *types.Tuple
	h      uint64
}

// NewTuple returns the tuple of the given fields.
func NewTuple(fields ...Value) *Tuple {
	fs := append([]Value(nil), fields...)
	ts := make([]types.Type, len(fs))
	for i, f := range fs {
		ts[i] = f.Type()
	}
	return &Tuple{fields: fs, typ: types.TupleType(ts...), h: hashValues("tuple", fs)}
}

func (v *Tuple) Arity() int         { return len(v.fields) }
func (v *Tuple) Field(i int) Value  { return v.fields[i] }
func (v *Tuple) Type() types.Type   { return v.typ }
func (v *Tuple) TupleType() *types.Tuple { return v.typ }
func (v *Tuple) Hash() uint64       { return v.h }

// WithField returns a copy of the tuple with field i replaced.
func (v *Tuple) WithField(i int, f Value) *Tuple {
	fs := append([]Value(nil), v.fields...)
	fs[i] = f
	return NewTuple(fs...)
}

// Select projects the given field positions into a new tuple.
func (v *Tuple) Select(fields ...int) (*Tuple, error) {
	if _, err := v.typ.Select(fields...); err != nil {
		return nil, err
	}
	sel := make([]Value, len(fields))
	for j, i := range fields {
		sel[j] = v.fields[i]
	}
	return NewTuple(sel...), nil
}

func (v *Tuple) Equal(other Value) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.fields) != len(v.fields) {
		return false
	}
	if o == v {
		return true
	}
	for i, f := range v.fields {
		if !f.Equal(o.fields[i]) {
			return false
		}
	}
	return true
}

func (v *Tuple) String() string {
	parts := make([]string, len(v.fields))
	for i, f := range v.fields {
		parts[i] = f.String()
	}
	return "<" + strings.Join(parts, ",") + ">"
}
