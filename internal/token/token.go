// Package token defines the terminal categories of the Jack language and the
// pull-based token stream the translator consumes.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// MachineWord is the 16 bit word of the Hack platform.
type MachineWord int16

// MaxInt is the largest integer constant a Jack program may spell out.
const MaxInt = 32767

type Type int

const (
	EOF Type = iota
	Illegal

	Number
	String
	Ident

	// keywords
	Class
	Constructor
	Function
	Method
	Field
	Static
	Var
	Int
	Char
	Boolean
	Void
	True
	False
	Null
	This
	Let
	Do
	If
	Else
	While
	Return

	// symbols
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Dot
	Comma
	Semicolon
	Plus
	Minus
	Asterisk
	Slash
	And
	Or
	LT
	GT
	Eq
	Not
)

var typeNames = map[Type]string{
	EOF:         "EOF",
	Illegal:     "ILLEGAL",
	Number:      "NUMBER",
	String:      "STRING",
	Ident:       "IDENT",
	Class:       "CLASS",
	Constructor: "CONSTRUCTOR",
	Function:    "FUNCTION",
	Method:      "METHOD",
	Field:       "FIELD",
	Static:      "STATIC",
	Var:         "VAR",
	Int:         "INT",
	Char:        "CHAR",
	Boolean:     "BOOLEAN",
	Void:        "VOID",
	True:        "TRUE",
	False:       "FALSE",
	Null:        "NULL",
	This:        "THIS",
	Let:         "LET",
	Do:          "DO",
	If:          "IF",
	Else:        "ELSE",
	While:       "WHILE",
	Return:      "RETURN",
	LBrace:      "LBRACE",
	RBrace:      "RBRACE",
	LParen:      "LPAREN",
	RParen:      "RPAREN",
	LBracket:    "LBRACKET",
	RBracket:    "RBRACKET",
	Dot:         "DOT",
	Comma:       "COMMA",
	Semicolon:   "SEMICOLON",
	Plus:        "PLUS",
	Minus:       "MINUS",
	Asterisk:    "ASTERISK",
	Slash:       "SLASH",
	And:         "AND",
	Or:          "OR",
	LT:          "LT",
	GT:          "GT",
	Eq:          "EQ",
	Not:         "NOT",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Keywords maps reserved words to their token type.
var Keywords = map[string]Type{
	"class":       Class,
	"constructor": Constructor,
	"function":    Function,
	"method":      Method,
	"field":       Field,
	"static":      Static,
	"var":         Var,
	"int":         Int,
	"char":        Char,
	"boolean":     Boolean,
	"void":        Void,
	"true":        True,
	"false":       False,
	"null":        Null,
	"this":        This,
	"let":         Let,
	"do":          Do,
	"if":          If,
	"else":        Else,
	"while":       While,
	"return":      Return,
}

// Symbols maps the single character symbols to their token type.
var Symbols = map[byte]Type{
	'{': LBrace,
	'}': RBrace,
	'(': LParen,
	')': RParen,
	'[': LBracket,
	']': RBracket,
	'.': Dot,
	',': Comma,
	';': Semicolon,
	'+': Plus,
	'-': Minus,
	'*': Asterisk,
	'/': Slash,
	'&': And,
	'|': Or,
	'<': LT,
	'>': GT,
	'=': Eq,
	'~': Not,
}

// IsKeyword reports whether t is a reserved word.
func (t Type) IsKeyword() bool { return t >= Class && t <= Return }

// IsSymbol reports whether t is a single character symbol.
func (t Type) IsSymbol() bool { return t >= LBrace && t <= Not }

// Category is the terminal class name used by the structural trace.
func (t Type) Category() string {
	switch {
	case t.IsKeyword():
		return "keyword"
	case t.IsSymbol():
		return "symbol"
	case t == Number:
		return "integerConstant"
	case t == String:
		return "stringConstant"
	case t == Ident:
		return "identifier"
	}
	return "unknown"
}

// Token is a single terminal produced by a Source.
type Token struct {
	Type   Type
	Lexeme string
	Line   int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q (line %d)", t.Type, t.Lexeme, t.Line)
}

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\"", "&quot;")

// XML renders the token as a terminal element, e.g. <keyword> class </keyword>.
func (t Token) XML() string {
	category := t.Type.Category()
	return fmt.Sprintf("<%s> %s </%s>", category, xmlEscaper.Replace(t.Lexeme), category)
}

// Word converts an integer constant to a machine word.
// Negative literals do not exist, '-' is an operator.
func (t Token) Word() (MachineWord, error) {
	word, err := strconv.Atoi(t.Lexeme)
	if err != nil || word > MaxInt || word < 0 {
		return 0, fmt.Errorf("cannot parse %q as 16 bit int", t.Lexeme)
	}
	return MachineWord(word), nil
}

// Source is a pull based token stream. Next always returns a token; once the
// input is exhausted it keeps returning an EOF token.
type Source interface {
	Next() Token
}
