// Package vmwriter emits Hack VM commands in their text form.
package vmwriter

import (
	"fmt"
	"strconv"
)

type Segment string

const (
	InvalidSegment  Segment = ""
	ConstSegment    Segment = "constant"
	ArgumentSegment Segment = "argument"
	LocalSegment    Segment = "local"
	StaticSegment   Segment = "static"
	ThisSegment     Segment = "this"
	ThatSegment     Segment = "that"
	PointerSegment  Segment = "pointer"
	TempSegment     Segment = "temp"
)

type Command string

const (
	Add Command = "add"
	Sub Command = "sub"
	Neg Command = "neg"
	Eq  Command = "eq"
	Gt  Command = "gt"
	Lt  Command = "lt"
	And Command = "and"
	Or  Command = "or"
	Not Command = "not"
)

// Writer appends VM commands in order. It does not check stack balance or
// label uniqueness; labels only need to be unique within one function since
// the VM scopes them per function.
type Writer struct {
	commands []string
}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteCommand(command string) {
	w.commands = append(w.commands, command)
}

func (w *Writer) WritePush(segment Segment, index int) {
	w.WriteCommand(fmt.Sprintf("push %s %d", segment, index))
}

func (w *Writer) WritePop(segment Segment, index int) {
	w.WriteCommand(fmt.Sprintf("pop %s %d", segment, index))
}

func (w *Writer) WriteArithmetic(command Command) {
	w.WriteCommand(string(command))
}

func (w *Writer) WriteLabel(label string) {
	w.WriteCommand("label " + label)
}

func (w *Writer) WriteGoto(label string) {
	w.WriteCommand("goto " + label)
}

func (w *Writer) WriteIf(label string) {
	w.WriteCommand("if-goto " + label)
}

func (w *Writer) WriteCall(name string, nArgs int) {
	w.WriteCommand("call " + name + " " + strconv.Itoa(nArgs))
}

func (w *Writer) WriteFunction(name string, nLocals int) {
	w.WriteCommand("function " + name + " " + strconv.Itoa(nLocals))
}

func (w *Writer) WriteReturn() {
	w.WriteCommand("return")
}

// Instructions returns a copy of everything written so far.
func (w *Writer) Instructions() []string {
	return append([]string(nil), w.commands...)
}
