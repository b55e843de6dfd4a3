package compiler

import (
	"strings"

	"github.com/libklein/nand2tetris/jackc/internal/token"
)

// tracer records matched nonterminals and consumed terminals as nested tags.
type tracer struct {
	lines []string
	depth int
}

func (t *tracer) indent() string {
	return strings.Repeat("  ", t.depth)
}

func (t *tracer) open(nonterminal string) {
	t.lines = append(t.lines, t.indent()+"<"+nonterminal+">")
	t.depth++
}

func (t *tracer) close(nonterminal string) {
	t.depth--
	t.lines = append(t.lines, t.indent()+"</"+nonterminal+">")
}

func (t *tracer) terminal(tok token.Token) {
	t.lines = append(t.lines, t.indent()+tok.XML())
}
