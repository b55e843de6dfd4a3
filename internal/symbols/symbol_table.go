// Package symbols implements the two tier scope store of a Jack class: a
// class scope holding statics and fields, and a subroutine scope holding
// arguments and locals.
package symbols

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jackc.symbols")

// ErrUndefined is returned by Resolve for names declared in neither scope.
var ErrUndefined = errors.New("undefined identifier")

type scope struct {
	symbols map[string]Symbol
	counts  map[Kind]int
}

func newScope() scope {
	return scope{
		symbols: make(map[string]Symbol),
		counts:  make(map[Kind]int),
	}
}

func (s *scope) register(symbol Symbol) Symbol {
	symbol.Index = s.counts[symbol.Kind]
	s.counts[symbol.Kind]++
	s.symbols[symbol.Name] = symbol
	return symbol
}

// Table is owned by a single translator for the lifetime of one class.
type Table struct {
	class      scope
	subroutine scope
}

func New() *Table {
	return &Table{
		class:      newScope(),
		subroutine: newScope(),
	}
}

// StartSubroutine drops all arguments and locals and resets their counters.
func (t *Table) StartSubroutine() {
	t.subroutine = newScope()
}

// Define registers name at the next free index of kind. A name already
// present in the same scope is replaced.
func (t *Table) Define(name, typ string, kind Kind) Symbol {
	symbol := Symbol{Name: name, Type: typ, Kind: kind}
	if kind.classScoped() {
		symbol = t.class.register(symbol)
	} else {
		symbol = t.subroutine.register(symbol)
	}
	log.Debugf("registered %s %s %s at index %d", kind, typ, name, symbol.Index)
	return symbol
}

// Resolve looks name up in the subroutine scope first, then the class scope.
func (t *Table) Resolve(name string) (Symbol, error) {
	if symbol, ok := t.subroutine.symbols[name]; ok {
		return symbol, nil
	}
	if symbol, ok := t.class.symbols[name]; ok {
		return symbol, nil
	}
	return Symbol{}, fmt.Errorf("%w %q", ErrUndefined, name)
}

// VarCount is the number of symbols of kind defined in the current scope.
func (t *Table) VarCount(kind Kind) int {
	if kind.classScoped() {
		return t.class.counts[kind]
	}
	return t.subroutine.counts[kind]
}
