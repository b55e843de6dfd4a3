package symbols

import "github.com/libklein/nand2tetris/jackc/internal/vmwriter"

// Kind is the storage class of a symbol.
type Kind string

const (
	Static   Kind = "static"
	Field    Kind = "field"
	Argument Kind = "argument"
	Var      Kind = "var"
)

// Segment is the VM memory segment a symbol of this kind lives in.
func (k Kind) Segment() vmwriter.Segment {
	switch k {
	case Static:
		return vmwriter.StaticSegment
	case Field:
		return vmwriter.ThisSegment
	case Argument:
		return vmwriter.ArgumentSegment
	case Var:
		return vmwriter.LocalSegment
	}
	return vmwriter.InvalidSegment
}

func (k Kind) classScoped() bool {
	return k == Static || k == Field
}

type Symbol struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}
