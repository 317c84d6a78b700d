package values

import (
	"fmt"
	"sync"

	"github.com/seanpm2001/vallang/pkg/types"
)

// Type reification: every type can be serialized to a "Symbol" constructor
// value and reconstructed from one, so type descriptors can cross process
// or persistence boundaries. Abstract data types additionally emit one
// "Production" value per reachable constructor into a grammar set, making
// the symbol self-contained.

// ReificationError reports an unrecognized or malformed symbol during
// reconstruction. It is fatal to that reconstruction call only.
type ReificationError struct {
	Tag    string
	Reason string
}

func (e *ReificationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("symbol %q: %s", e.Tag, e.Reason)
	}
	return fmt.Sprintf("%q is not a reified type symbol", e.Tag)
}

// Grammar resolves an adt symbol to the productions of its constructors,
// as emitted earlier by TypeToSymbol.
type Grammar func(adtSymbol *Constructor) []*Constructor

// GrammarFromSet turns a set of production values into a Grammar lookup.
func GrammarFromSet(productions *Set) Grammar {
	return func(adtSymbol *Constructor) []*Constructor {
		var out []*Constructor
		productions.Each(func(e Value) bool {
			p, ok := e.(*Constructor)
			if ok && p.ConstructorType() == prodCons && p.Child(0).Equal(adtSymbol) {
				out = append(out, p)
			}
			return true
		})
		return out
	}
}

// reconstructor rebuilds a type from its symbol. The registry below maps
// every symbol tag to one; it is built once and read-only afterwards.
type reconstructor func(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error)

var (
	symbolsOnce sync.Once

	symbolStore   *types.Store
	symbolADT     *types.AbstractData
	productionADT *types.AbstractData

	basicSymbols map[types.BasicKind]*types.Constructor

	symLabel     *types.Constructor
	symTuple     *types.Constructor
	symList      *types.Constructor
	symLrel      *types.Constructor
	symSet       *types.Constructor
	symRel       *types.Constructor
	symMap       *types.Constructor
	symADT       *types.Constructor
	symCons      *types.Constructor
	symAlias     *types.Constructor
	symParameter *types.Constructor
	prodCons     *types.Constructor

	fromSymbolFuncs map[*types.Constructor]reconstructor
)

// SymbolType returns the abstract data type of reified type symbols.
func SymbolType() *types.AbstractData {
	symbolsOnce.Do(initSymbols)
	return symbolADT
}

// ProductionType returns the abstract data type of constructor productions.
func ProductionType() *types.AbstractData {
	symbolsOnce.Do(initSymbols)
	return productionADT
}

func initSymbols() {
	symbolStore = types.NewStore()
	symbolADT = types.AbstractDataType(symbolStore, "Symbol")
	productionADT = types.AbstractDataType(symbolStore, "Production")

	str := types.StringType()
	sym := types.Type(symbolADT)
	syms := types.ListType(symbolADT)

	tag := func(name string, fields []types.Type, labels []string) *types.Constructor {
		return types.ConstructorType(symbolStore, symbolADT, name,
			types.LabelledTupleType(fields, labels))
	}

	basicSymbols = map[types.BasicKind]*types.Constructor{
		types.KindVoid:           tag("void", nil, nil),
		types.KindValue:          tag("value", nil, nil),
		types.KindBool:           tag("bool", nil, nil),
		types.KindInteger:        tag("int", nil, nil),
		types.KindReal:           tag("real", nil, nil),
		types.KindRational:       tag("rat", nil, nil),
		types.KindNumber:         tag("num", nil, nil),
		types.KindString:         tag("str", nil, nil),
		types.KindSourceLocation: tag("loc", nil, nil),
		types.KindDateTime:       tag("datetime", nil, nil),
		types.KindNode:           tag("node", nil, nil),
	}

	symLabel = tag("label", []types.Type{str, sym}, []string{"name", "symbol"})
	symTuple = tag("tuple", []types.Type{syms}, []string{"symbols"})
	symList = tag("list", []types.Type{sym}, []string{"symbol"})
	symLrel = tag("lrel", []types.Type{syms}, []string{"symbols"})
	symSet = tag("set", []types.Type{sym}, []string{"symbol"})
	symRel = tag("rel", []types.Type{syms}, []string{"symbols"})
	symMap = tag("map", []types.Type{sym, sym}, []string{"from", "to"})
	symADT = tag("adt", []types.Type{str, syms}, []string{"name", "parameters"})
	symCons = tag("cons", []types.Type{sym, str, syms}, []string{"adt", "name", "parameters"})
	symAlias = tag("alias", []types.Type{str, sym, syms}, []string{"name", "aliased", "parameters"})
	symParameter = tag("parameter", []types.Type{str, sym}, []string{"name", "bound"})

	prodCons = types.ConstructorType(symbolStore, productionADT, "cons",
		types.LabelledTupleType([]types.Type{sym, str, syms}, []string{"def", "name", "fields"}))

	constant := func(t types.Type) reconstructor {
		return func(*Constructor, *types.Store, Grammar) (types.Type, error) { return t, nil }
	}

	fromSymbolFuncs = map[*types.Constructor]reconstructor{
		basicSymbols[types.KindVoid]:           constant(types.VoidType()),
		basicSymbols[types.KindValue]:          constant(types.ValueType()),
		basicSymbols[types.KindBool]:           constant(types.BoolType()),
		basicSymbols[types.KindInteger]:        constant(types.IntegerType()),
		basicSymbols[types.KindReal]:           constant(types.RealType()),
		basicSymbols[types.KindRational]:       constant(types.RationalType()),
		basicSymbols[types.KindNumber]:         constant(types.NumberType()),
		basicSymbols[types.KindString]:         constant(types.StringType()),
		basicSymbols[types.KindSourceLocation]: constant(types.SourceLocationType()),
		basicSymbols[types.KindDateTime]:       constant(types.DateTimeType()),
		basicSymbols[types.KindNode]:           constant(types.NodeType()),

		symTuple:     tupleFromSymbol,
		symList:      listFromSymbol,
		symLrel:      lrelFromSymbol,
		symSet:       setFromSymbol,
		symRel:       relFromSymbol,
		symMap:       mapFromSymbol,
		symADT:       adtFromSymbol,
		symCons:      consFromSymbol,
		symAlias:     aliasFromSymbol,
		symParameter: parameterFromSymbol,
	}
}

// TypeToSymbol reifies t into a symbol value. Productions for every
// constructor reachable through abstract data types in t are written to
// grammar; visited tracks the ADT names already emitted and may be nil for
// a fresh traversal. External types cannot be reified and panic.
func TypeToSymbol(t types.Type, store *types.Store, grammar *SetWriter, visited map[string]bool) *Constructor {
	symbolsOnce.Do(initSymbols)
	if visited == nil {
		visited = make(map[string]bool)
	}
	return toSymbol(t, store, grammar, visited)
}

func toSymbol(t types.Type, store *types.Store, grammar *SetWriter, visited map[string]bool) *Constructor {
	switch t := t.(type) {
	case *types.Basic:
		return MustConstructor(basicSymbols[t.Kind()])

	case *types.Tuple:
		return MustConstructor(symTuple, fieldSymbols(t, store, grammar, visited))

	case *types.List:
		if e, ok := relationElement(t.ElementType()); ok {
			return MustConstructor(symLrel, fieldSymbols(e, store, grammar, visited))
		}
		return MustConstructor(symList, toSymbol(t.ElementType(), store, grammar, visited))

	case *types.Set:
		if e, ok := relationElement(t.ElementType()); ok {
			return MustConstructor(symRel, fieldSymbols(e, store, grammar, visited))
		}
		return MustConstructor(symSet, toSymbol(t.ElementType(), store, grammar, visited))

	case *types.Map:
		return MustConstructor(symMap,
			toSymbol(t.KeyType(), store, grammar, visited),
			toSymbol(t.ValueType(), store, grammar, visited))

	case *types.AbstractData:
		return adtToSymbol(t, store, grammar, visited)

	case *types.Constructor:
		adtSym := adtToSymbol(t.AbstractData(), store, grammar, visited)
		return MustConstructor(symCons, adtSym, NewString(t.Name()),
			fieldSymbols(t.Fields(), store, grammar, visited))

	case *types.Alias:
		return MustConstructor(symAlias, NewString(t.Name()),
			toSymbol(t.Aliased(), store, grammar, visited),
			symbolList(t.Params(), store, grammar, visited))

	case *types.Parameter:
		return MustConstructor(symParameter, NewString(t.Name()),
			toSymbol(t.Bound(), store, grammar, visited))
	}
	panic(types.NewUnsupportedOperationError("asSymbol", t))
}

func adtToSymbol(t *types.AbstractData, store *types.Store, grammar *SetWriter, visited map[string]bool) *Constructor {
	adtSym := MustConstructor(symADT, NewString(t.Name()),
		symbolList(t.Params(), store, grammar, visited))
	if visited[t.Name()] || store == nil {
		return adtSym
	}
	visited[t.Name()] = true
	for _, c := range store.ConstructorsOf(t) {
		prod := MustConstructor(prodCons, adtSym, NewString(c.Name()),
			fieldSymbols(c.Fields(), store, grammar, visited))
		if grammar != nil {
			grammar.Insert(prod)
		}
	}
	return adtSym
}

// relationElement returns the tuple element of a relation-shaped container
// type. Aliased or constructor elements reify as plain containers so their
// identity survives the round-trip.
func relationElement(elem types.Type) (*types.Tuple, bool) {
	t, ok := elem.(*types.Tuple)
	return t, ok
}

// fieldSymbols reifies a tuple's fields as a list of symbols, wrapping
// each in a label symbol when the tuple is labelled.
func fieldSymbols(t *types.Tuple, store *types.Store, grammar *SetWriter, visited map[string]bool) *List {
	w := NewListWriter()
	for i := 0; i < t.Arity(); i++ {
		s := toSymbol(t.Field(i), store, grammar, visited)
		if t.Labelled() {
			s = MustConstructor(symLabel, NewString(t.Label(i)), s)
		}
		w.Append(s)
	}
	return w.Done()
}

func symbolList(ts []types.Type, store *types.Store, grammar *SetWriter, visited map[string]bool) *List {
	w := NewListWriter()
	for _, t := range ts {
		w.Append(toSymbol(t, store, grammar, visited))
	}
	return w.Done()
}

// TypeFromSymbol reconstructs the type a symbol describes. Abstract data
// types are declared into store together with the constructors their
// productions describe, resolved through grammar.
func TypeFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	symbolsOnce.Do(initSymbols)
	f, ok := fromSymbolFuncs[sym.ConstructorType()]
	if !ok {
		return nil, &ReificationError{Tag: sym.Name()}
	}
	return f(sym, store, grammar)
}

// TuplesFromSymbols reconstructs a tuple type from a list of element
// symbols. The tuple is labelled iff every element carries a label
// wrapper; partial labelling falls back to an unlabelled tuple.
func TuplesFromSymbols(symbols *List, store *types.Store, grammar Grammar) (*types.Tuple, error) {
	symbolsOnce.Do(initSymbols)
	n := symbols.Len()
	fields := make([]types.Type, n)
	labels := make([]string, n)
	labelled := 0
	for i := 0; i < n; i++ {
		elem, ok := symbols.Get(i).(*Constructor)
		if !ok {
			return nil, &ReificationError{Tag: symbols.Get(i).String(), Reason: "not a symbol"}
		}
		if elem.ConstructorType() == symLabel {
			labels[i] = elem.Child(0).(*String).Value()
			elem = elem.Child(1).(*Constructor)
			labelled++
		}
		t, err := TypeFromSymbol(elem, store, grammar)
		if err != nil {
			return nil, err
		}
		fields[i] = t
	}
	if labelled == n && n > 0 {
		return types.LabelledTupleType(fields, labels), nil
	}
	return types.TupleType(fields...), nil
}

func symbolField(sym *Constructor, name string) Value {
	v, err := sym.ChildByName(name)
	if err != nil {
		panic(err)
	}
	return v
}

func typeField(sym *Constructor, name string, store *types.Store, grammar Grammar) (types.Type, error) {
	return TypeFromSymbol(symbolField(sym, name).(*Constructor), store, grammar)
}

func typeListField(sym *Constructor, name string, store *types.Store, grammar Grammar) ([]types.Type, error) {
	l := symbolField(sym, name).(*List)
	out := make([]types.Type, l.Len())
	for i := range out {
		t, err := TypeFromSymbol(l.Get(i).(*Constructor), store, grammar)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func stringField(sym *Constructor, name string) string {
	return symbolField(sym, name).(*String).Value()
}

func tupleFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	return TuplesFromSymbols(symbolField(sym, "symbols").(*List), store, grammar)
}

func listFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	elem, err := typeField(sym, "symbol", store, grammar)
	if err != nil {
		return nil, err
	}
	return types.ListType(elem), nil
}

func lrelFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	elem, err := TuplesFromSymbols(symbolField(sym, "symbols").(*List), store, grammar)
	if err != nil {
		return nil, err
	}
	return types.ListType(elem), nil
}

func setFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	elem, err := typeField(sym, "symbol", store, grammar)
	if err != nil {
		return nil, err
	}
	return types.SetType(elem), nil
}

func relFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	elem, err := TuplesFromSymbols(symbolField(sym, "symbols").(*List), store, grammar)
	if err != nil {
		return nil, err
	}
	return types.SetType(elem), nil
}

func mapFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	from, err := typeField(sym, "from", store, grammar)
	if err != nil {
		return nil, err
	}
	to, err := typeField(sym, "to", store, grammar)
	if err != nil {
		return nil, err
	}
	return types.MapType(from, to), nil
}

func adtFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	name := stringField(sym, "name")
	params, err := typeListField(sym, "parameters", store, grammar)
	if err != nil {
		return nil, err
	}
	if _, err := store.LookupAbstractData(name); err == nil {
		// Already declared: the grammar for this name was expanded by an
		// earlier call or by the host, so only the instance is rebuilt.
		return types.AbstractDataType(store, name, params...), nil
	}
	adt := types.AbstractDataType(store, name, params...)
	if grammar != nil {
		for _, p := range grammar(sym) {
			if _, err := productionFromSymbol(p, store, grammar); err != nil {
				return nil, err
			}
		}
	}
	return adt, nil
}

func productionFromSymbol(p *Constructor, store *types.Store, grammar Grammar) (*types.Constructor, error) {
	if p.ConstructorType() != prodCons {
		return nil, &ReificationError{Tag: p.Name(), Reason: "not a constructor production"}
	}
	def, err := typeField(p, "def", store, grammar)
	if err != nil {
		return nil, err
	}
	adt, ok := def.(*types.AbstractData)
	if !ok {
		return nil, &ReificationError{Tag: p.Name(), Reason: "production def is not an abstract data type"}
	}
	fields, err := TuplesFromSymbols(symbolField(p, "fields").(*List), store, grammar)
	if err != nil {
		return nil, err
	}
	c, err := types.TryConstructorType(store, adt, stringField(p, "name"), fields)
	if err != nil {
		return nil, &ReificationError{Tag: stringField(p, "name"), Reason: err.Error()}
	}
	return c, nil
}

func consFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	def, err := typeField(sym, "adt", store, grammar)
	if err != nil {
		return nil, err
	}
	adt, ok := def.(*types.AbstractData)
	if !ok {
		return nil, &ReificationError{Tag: sym.Name(), Reason: "constructor adt is not an abstract data type"}
	}
	fields, err := TuplesFromSymbols(symbolField(sym, "parameters").(*List), store, grammar)
	if err != nil {
		return nil, err
	}
	c, err := types.TryConstructorType(store, adt, stringField(sym, "name"), fields)
	if err != nil {
		return nil, &ReificationError{Tag: stringField(sym, "name"), Reason: err.Error()}
	}
	return c, nil
}

func aliasFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	aliased, err := typeField(sym, "aliased", store, grammar)
	if err != nil {
		return nil, err
	}
	params, err := typeListField(sym, "parameters", store, grammar)
	if err != nil {
		return nil, err
	}
	a, err := types.TryAliasType(store, stringField(sym, "name"), aliased, params...)
	if err != nil {
		return nil, &ReificationError{Tag: stringField(sym, "name"), Reason: err.Error()}
	}
	return a, nil
}

func parameterFromSymbol(sym *Constructor, store *types.Store, grammar Grammar) (types.Type, error) {
	bound, err := typeField(sym, "bound", store, grammar)
	if err != nil {
		return nil, err
	}
	return types.ParameterType(stringField(sym, "name"), bound), nil
}
