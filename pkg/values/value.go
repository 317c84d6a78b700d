// Package values implements the immutable runtime values of the term model:
// primitives, tuples, tree nodes, constructors, and the persistent
// List/Set/Map containers, together with the relational algebra over sets
// of pairs and the reification of types to and from Symbol trees.
//
// Every value carries a precise structural type from pkg/types. Values are
// immutable once constructed; container operations return new values that
// share structure with their inputs.
package values

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Value is an immutable runtime value.
type Value interface {
	// Type returns the dynamic type of the value.
	Type() types.Type

	// Hash returns a structural hash consistent with Equal.
	Hash() uint64

	// Equal reports structural equality with another value.
	Equal(other Value) bool

	// String returns the standard textual notation of the value.
	String() string
}

// valueHasher adapts value hashing and equality to the persistent
// collection engine.
type valueHasher struct{}

func (valueHasher) Hash(v Value) uint32 {
	h := v.Hash()
	return uint32(h ^ (h >> 32))
}

func (valueHasher) Equal(a, b Value) bool { return a.Equal(b) }

func combineHashes(tag string, hs ...uint64) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(tag)
	var b [8]byte
	for _, h := range hs {
		binary.LittleEndian.PutUint64(b[:], h)
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}

func hashValues(tag string, vals []Value) uint64 {
	hs := make([]uint64, len(vals))
	for i, v := range vals {
		hs[i] = v.Hash()
	}
	return combineHashes(tag, hs...)
}
