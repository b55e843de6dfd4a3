// Package lexer turns Jack source text into a token.Source.
package lexer

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/libklein/nand2tetris/jackc/internal/token"
)

var (
	symbolRegex          = regexp.MustCompile(`^[\{\}\[\]\(\)\.\,\;\+\-\*\/\&\|\<\>\=\~]`)
	integerConstantRegex = regexp.MustCompile(`^\d+`)
	stringConstantRegex  = regexp.MustCompile(`^"[^"\n]*"`)
	identifierRegex      = regexp.MustCompile(`^[a-zA-Z_]\w*`)
)

// Lexer scans Jack source. Comments and whitespace are dropped and every
// token is tagged with the line it starts on.
type Lexer struct {
	input string
	pos   int
	line  int
}

// New reads all of r and returns a lexer over its contents.
func New(r io.Reader) (*Lexer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read source: %w", err)
	}
	return NewString(string(data)), nil
}

// NewString returns a lexer over src.
func NewString(src string) *Lexer {
	return &Lexer{input: src, line: 1}
}

// Next returns the next token. Once the input is exhausted it returns EOF
// tokens forever. Lexical errors come back as token.Illegal.
func (l *Lexer) Next() token.Token {
	if tok, ok := l.skipIgnored(); !ok {
		return tok
	}
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, Line: l.line}
	}

	rest := l.input[l.pos:]
	line := l.line

	switch c := rest[0]; {
	case c == '"':
		match := stringConstantRegex.FindString(rest)
		if match == "" {
			lexeme := rest
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				lexeme = rest[:nl]
			}
			l.pos += len(lexeme)
			return token.Token{Type: token.Illegal, Lexeme: lexeme, Line: line}
		}
		l.pos += len(match)
		return token.Token{Type: token.String, Lexeme: match[1 : len(match)-1], Line: line}
	case c >= '0' && c <= '9':
		match := integerConstantRegex.FindString(rest)
		l.pos += len(match)
		return token.Token{Type: token.Number, Lexeme: match, Line: line}
	}

	if match := identifierRegex.FindString(rest); match != "" {
		l.pos += len(match)
		if kw, ok := token.Keywords[match]; ok {
			return token.Token{Type: kw, Lexeme: match, Line: line}
		}
		return token.Token{Type: token.Ident, Lexeme: match, Line: line}
	}

	if match := symbolRegex.FindString(rest); match != "" {
		l.pos += len(match)
		return token.Token{Type: token.Symbols[match[0]], Lexeme: match, Line: line}
	}

	// Unknown character, consume one rune so the caller sees it once.
	_, size := utf8.DecodeRuneInString(rest)
	l.pos += size
	return token.Token{Type: token.Illegal, Lexeme: rest[:size], Line: line}
}

// skipIgnored advances past whitespace and comments. It returns false with
// an Illegal token when a block comment is never closed.
func (l *Lexer) skipIgnored() (token.Token, bool) {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case strings.HasPrefix(l.input[l.pos:], "//"):
			end := strings.IndexByte(l.input[l.pos:], '\n')
			if end < 0 {
				l.pos = len(l.input)
			} else {
				l.pos += end
			}
		case strings.HasPrefix(l.input[l.pos:], "/*"):
			start := l.line
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				l.line += strings.Count(l.input[l.pos:], "\n")
				l.pos = len(l.input)
				return token.Token{Type: token.Illegal, Lexeme: "/*", Line: start}, false
			}
			comment := l.input[l.pos : l.pos+2+end+2]
			l.line += strings.Count(comment, "\n")
			l.pos += len(comment)
		default:
			return token.Token{}, true
		}
	}
	return token.Token{}, true
}

// Tokens drains src up to, but not including, EOF. An Illegal token is
// returned as the last element.
func Tokens(src token.Source) []token.Token {
	var tokens []token.Token
	for {
		tok := src.Next()
		if tok.Type == token.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
		if tok.Type == token.Illegal {
			return tokens
		}
	}
}

// DumpXML writes the token stream of src as a <tokens> document, one
// terminal per line.
func DumpXML(w io.Writer, src token.Source) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "<tokens>")
	for _, tok := range Tokens(src) {
		if tok.Type == token.Illegal {
			bw.Flush()
			return fmt.Errorf("[line %d] Error at '%s': unexpected character", tok.Line, tok.Lexeme)
		}
		fmt.Fprintln(bw, tok.XML())
	}
	fmt.Fprintln(bw, "</tokens>")
	return bw.Flush()
}
