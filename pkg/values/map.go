package values

import (
	"sort"
	"strings"
	"sync"

	"github.com/benbjohnson/immutable"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Map is an immutable associative value backed by a persistent hash map.
// Its key and value types are least upper bounds tracked independently.
type Map struct {
	items *immutable.Map[Value, Value]
	key   types.Type
	value types.Type

	hashOnce sync.Once
	hash     uint64
}

var emptyMap = &Map{
	items: immutable.NewMap[Value, Value](valueHasher{}),
	key:   types.VoidType(),
	value: types.VoidType(),
}

// EmptyMap returns the map with no entries. Its key and value types are
// void.
func EmptyMap() *Map { return emptyMap }

func newMap(items *immutable.Map[Value, Value], key, value types.Type) *Map {
	if items.Len() == 0 {
		return emptyMap
	}
	return &Map{items: items, key: key, value: value}
}

func (v *Map) Len() int              { return v.items.Len() }
func (v *Map) IsEmpty() bool         { return v.items.Len() == 0 }
func (v *Map) KeyType() types.Type   { return v.key }
func (v *Map) ValueType() types.Type { return v.value }
func (v *Map) Type() types.Type      { return types.MapType(v.key, v.value) }

// Get returns the value stored under a key equal to k.
func (v *Map) Get(k Value) (Value, bool) { return v.items.Get(k) }

// ContainsKey reports whether the map has an entry for k.
func (v *Map) ContainsKey(k Value) bool {
	_, ok := v.items.Get(k)
	return ok
}

// Put returns a copy of the map with the entry k -> val added or replaced.
func (v *Map) Put(k, val Value) *Map {
	return newMap(v.items.Set(k, val),
		types.Lub(v.key, k.Type()), types.Lub(v.value, val.Type()))
}

// Delete returns a copy of the map without an entry for k.
func (v *Map) Delete(k Value) *Map {
	if !v.ContainsKey(k) {
		return v
	}
	return newMap(v.items.Delete(k), v.key, v.value)
}

// Join returns the union of the two maps; entries of other win on key
// collisions.
func (v *Map) Join(other *Map) *Map {
	if other.IsEmpty() {
		return v
	}
	items := v.items
	other.Each(func(k, val Value) bool {
		items = items.Set(k, val)
		return true
	})
	return newMap(items, types.Lub(v.key, other.key), types.Lub(v.value, other.value))
}

// Each calls f on every entry until f returns false. Iteration order is
// unspecified.
func (v *Map) Each(f func(k, val Value) bool) {
	for itr := v.items.Iterator(); !itr.Done(); {
		k, val, _ := itr.Next()
		if !f(k, val) {
			return
		}
	}
}

// Keys returns the keys as a set.
func (v *Map) Keys() *Set {
	w := NewSetWriter()
	v.Each(func(k, _ Value) bool {
		w.Insert(k)
		return true
	})
	return w.Done()
}

func (v *Map) Hash() uint64 {
	v.hashOnce.Do(func() {
		h := combineHashes("map", uint64(v.items.Len()))
		v.Each(func(k, val Value) bool {
			h ^= combineHashes("entry", k.Hash(), val.Hash())
			return true
		})
		v.hash = h
	})
	return v.hash
}

func (v *Map) Equal(other Value) bool {
	o, ok := other.(*Map)
	if !ok || o.Len() != v.Len() {
		return false
	}
	if o == v {
		return true
	}
	equal := true
	v.Each(func(k, val Value) bool {
		ov, ok := o.Get(k)
		equal = ok && val.Equal(ov)
		return equal
	})
	return equal
}

func (v *Map) String() string {
	parts := make([]string, 0, v.Len())
	v.Each(func(k, val Value) bool {
		parts = append(parts, k.String()+":"+val.String())
		return true
	})
	sort.Strings(parts)
	return "(" + strings.Join(parts, ",") + ")"
}

// MapWriter accumulates entries for a map under construction. It is not
// safe for concurrent use; Done seals the writer.
type MapWriter struct {
	b     *immutable.MapBuilder[Value, Value]
	key   types.Type
	value types.Type
	done  bool
}

// NewMapWriter creates an empty map writer.
func NewMapWriter() *MapWriter {
	return &MapWriter{
		b:     immutable.NewMapBuilder[Value, Value](valueHasher{}),
		key:   types.VoidType(),
		value: types.VoidType(),
	}
}

// Put adds an entry to the map under construction; a later entry for the
// same key wins.
func (w *MapWriter) Put(k, val Value) {
	if w.done {
		panic("values: use of a finished MapWriter")
	}
	w.b.Set(k, val)
	w.key = types.Lub(w.key, k.Type())
	w.value = types.Lub(w.value, val.Type())
}

// Done seals the writer and returns the finished map.
func (w *MapWriter) Done() *Map {
	if w.done {
		panic("values: use of a finished MapWriter")
	}
	w.done = true
	return newMap(w.b.Map(), w.key, w.value)
}
