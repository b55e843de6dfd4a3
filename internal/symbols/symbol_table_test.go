package symbols

import (
	"errors"
	"testing"

	"github.com/libklein/nand2tetris/jackc/internal/vmwriter"
)

func TestDefineAssignsDenseIndices(t *testing.T) {
	table := New()

	tests := []struct {
		name  string
		kind  Kind
		index int
	}{
		{"a", Static, 0},
		{"x", Field, 0},
		{"b", Static, 1},
		{"y", Field, 1},
		{"p", Argument, 0},
		{"i", Var, 0},
		{"q", Argument, 1},
		{"j", Var, 1},
		{"k", Var, 2},
	}

	for _, tc := range tests {
		symbol := table.Define(tc.name, "int", tc.kind)
		if symbol.Index != tc.index {
			t.Errorf("Define(%q, %s).Index = %d, want %d", tc.name, tc.kind, symbol.Index, tc.index)
		}
	}

	counts := map[Kind]int{Static: 2, Field: 2, Argument: 2, Var: 3}
	for kind, want := range counts {
		if got := table.VarCount(kind); got != want {
			t.Errorf("VarCount(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestStartSubroutineResetsOnlySubroutineScope(t *testing.T) {
	table := New()
	table.Define("s", "int", Static)
	table.Define("f", "int", Field)
	table.Define("p", "int", Argument)
	table.Define("v", "int", Var)

	table.StartSubroutine()

	if got := table.VarCount(Argument); got != 0 {
		t.Errorf("VarCount(argument) = %d, want 0", got)
	}
	if got := table.VarCount(Var); got != 0 {
		t.Errorf("VarCount(var) = %d, want 0", got)
	}
	if _, err := table.Resolve("p"); !errors.Is(err, ErrUndefined) {
		t.Errorf("Resolve(p) after StartSubroutine: err = %v, want ErrUndefined", err)
	}

	if symbol := table.Define("w", "int", Var); symbol.Index != 0 {
		t.Errorf("first var after reset has index %d, want 0", symbol.Index)
	}
	if symbol := table.Define("g", "int", Field); symbol.Index != 1 {
		t.Errorf("second field has index %d, want 1", symbol.Index)
	}
	if _, err := table.Resolve("s"); err != nil {
		t.Errorf("Resolve(s): %v", err)
	}
}

func TestResolvePrefersSubroutineScope(t *testing.T) {
	table := New()
	table.Define("x", "int", Field)
	table.Define("x", "Array", Var)

	symbol, err := table.Resolve("x")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := Symbol{Name: "x", Type: "Array", Kind: Var, Index: 0}
	if symbol != want {
		t.Errorf("Resolve(x) = %+v, want %+v", symbol, want)
	}

	table.StartSubroutine()
	symbol, err = table.Resolve("x")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if symbol.Kind != Field {
		t.Errorf("Resolve(x).Kind = %s after StartSubroutine, want field", symbol.Kind)
	}
}

func TestResolveUndefined(t *testing.T) {
	table := New()

	_, err := table.Resolve("nope")
	if !errors.Is(err, ErrUndefined) {
		t.Fatalf("err = %v, want ErrUndefined", err)
	}
	if got, want := err.Error(), `undefined identifier "nope"`; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}
}

func TestRedefinitionOverwrites(t *testing.T) {
	table := New()
	table.Define("x", "int", Var)
	table.Define("x", "char", Var)

	symbol, err := table.Resolve("x")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if symbol.Type != "char" || symbol.Index != 1 {
		t.Errorf("Resolve(x) = %+v, want the second definition at index 1", symbol)
	}
}

func TestKindSegment(t *testing.T) {
	tests := []struct {
		kind Kind
		want vmwriter.Segment
	}{
		{Static, vmwriter.StaticSegment},
		{Field, vmwriter.ThisSegment},
		{Argument, vmwriter.ArgumentSegment},
		{Var, vmwriter.LocalSegment},
		{Kind("bogus"), vmwriter.InvalidSegment},
	}

	for _, tc := range tests {
		if got := tc.kind.Segment(); got != tc.want {
			t.Errorf("%s.Segment() = %q, want %q", tc.kind, got, tc.want)
		}
	}
}
