// Package compiler translates one Jack class into Hack VM code in a single
// recursive descent pass. Parsing, scope resolution and code emission are
// interleaved; no syntax tree is built.
package compiler

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/libklein/nand2tetris/jackc/internal/symbols"
	"github.com/libklein/nand2tetris/jackc/internal/token"
	"github.com/libklein/nand2tetris/jackc/internal/vmwriter"
)

var log = commonlog.GetLogger("jackc.compiler")

// Unit is the output of compiling one class.
type Unit struct {
	ClassName    string
	Instructions []string
	// Trace is the nested tag record of every nonterminal and terminal
	// matched, one entry per line.
	Trace []string
}

// VM returns the instructions one per line.
func (u *Unit) VM() string {
	return joinLines(u.Instructions)
}

// XML returns the structural trace one entry per line.
func (u *Unit) XML() string {
	return joinLines(u.Trace)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Translator holds the state of compiling a single class. Create one per
// class with New; it must not be reused.
type Translator struct {
	src       token.Source
	curToken  token.Token
	peekToken token.Token

	className string
	symbols   *symbols.Table
	writer    *vmwriter.Writer
	trace     tracer

	ifLabelNum    int
	whileLabelNum int

	done bool
}

func New(src token.Source) *Translator {
	t := &Translator{
		src:     src,
		symbols: symbols.New(),
		writer:  vmwriter.New(),
	}
	t.peekToken = src.Next()
	return t
}

// Compile is shorthand for New(src).Compile().
func Compile(src token.Source) (*Unit, error) {
	return New(src).Compile()
}

// Compile parses the class from the token source. The first syntax or
// resolution error stops the parse; in that case no unit is returned.
func (t *Translator) Compile() (unit *Unit, err error) {
	if t.done {
		return nil, ErrReused
	}
	t.done = true

	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			log.Debugf("compilation of class %q aborted: %v", t.className, b.err)
			unit, err = nil, b.err
		}
	}()

	t.compileClass()
	if !t.peekTokenIs(token.EOF) {
		t.fail(t.peekToken, "Expected end of input after class")
	}

	return &Unit{
		ClassName:    t.className,
		Instructions: t.writer.Instructions(),
		Trace:        t.trace.lines,
	}, nil
}

func (t *Translator) nextToken() {
	t.curToken = t.peekToken
	t.peekToken = t.src.Next()
}

func (t *Translator) peekTokenIs(types ...token.Type) bool {
	for _, typ := range types {
		if t.peekToken.Type == typ {
			return true
		}
	}
	return false
}

// expectPeek accepts the peek token if its type is one of types and records
// it in the trace. Anything else aborts the compilation.
func (t *Translator) expectPeek(types ...token.Type) {
	if t.peekTokenIs(types...) {
		t.nextToken()
		t.trace.terminal(t.curToken)
		return
	}
	names := make([]string, len(types))
	for i, typ := range types {
		names[i] = typ.String()
	}
	t.fail(t.peekToken, "Expected one of: ["+strings.Join(names, ", ")+"]")
}

func (t *Translator) fail(tok token.Token, msg string) {
	if tok.Type == token.Illegal {
		msg = "Unexpected character"
	}
	panic(bailout{&SyntaxError{
		Line:   tok.Line,
		Lexeme: tok.Lexeme,
		AtEnd:  tok.Type == token.EOF,
		Msg:    msg,
	}})
}

// resolve looks up the identifier in tok. Undeclared names abort.
func (t *Translator) resolve(tok token.Token) symbols.Symbol {
	symbol, err := t.symbols.Resolve(tok.Lexeme)
	if err != nil {
		panic(bailout{&ResolveError{Line: tok.Line, Name: tok.Lexeme, Err: err}})
	}
	return symbol
}

func (t *Translator) pushSymbol(symbol symbols.Symbol) {
	t.writer.WritePush(symbol.Kind.Segment(), symbol.Index)
}

func (t *Translator) popSymbol(symbol symbols.Symbol) {
	t.writer.WritePop(symbol.Kind.Segment(), symbol.Index)
}
