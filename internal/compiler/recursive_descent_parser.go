package compiler

import (
	"fmt"
	"strconv"

	"github.com/libklein/nand2tetris/jackc/internal/symbols"
	"github.com/libklein/nand2tetris/jackc/internal/token"
	"github.com/libklein/nand2tetris/jackc/internal/vmwriter"
)

var typeTokens = []token.Type{token.Int, token.Char, token.Boolean, token.Ident}

var statementTokens = []token.Type{token.Let, token.If, token.While, token.Do, token.Return}

var nativeOperators = map[token.Type]vmwriter.Command{
	token.Plus:  vmwriter.Add,
	token.Minus: vmwriter.Sub,
	token.LT:    vmwriter.Lt,
	token.GT:    vmwriter.Gt,
	token.Eq:    vmwriter.Eq,
	token.And:   vmwriter.And,
	token.Or:    vmwriter.Or,
}

// The VM has no multiply or divide, the OS library provides them.
var libraryOperators = map[token.Type]string{
	token.Asterisk: "Math.multiply",
	token.Slash:    "Math.divide",
}

func isOperator(typ token.Type) bool {
	_, native := nativeOperators[typ]
	_, library := libraryOperators[typ]
	return native || library
}

// class: 'class' className '{' classVarDec* subroutineDec* '}'
func (t *Translator) compileClass() {
	t.trace.open("class")
	t.expectPeek(token.Class)
	t.expectPeek(token.Ident)
	t.className = t.curToken.Lexeme
	log.Debugf("compiling class %s", t.className)
	t.expectPeek(token.LBrace)

	for t.peekTokenIs(token.Static, token.Field) {
		t.compileClassVarDec()
	}
	for t.peekTokenIs(token.Constructor, token.Function, token.Method) {
		t.compileSubroutineDec()
	}

	t.expectPeek(token.RBrace)
	t.trace.close("class")
}

// classVarDec: ('static'|'field') type varName (',' varName)* ';'
func (t *Translator) compileClassVarDec() {
	t.trace.open("classVarDec")
	t.expectPeek(token.Field, token.Static)

	kind := symbols.Static
	if t.curToken.Type == token.Field {
		kind = symbols.Field
	}
	t.compileVarNames(kind)

	t.trace.close("classVarDec")
}

// compileVarNames handles the shared tail of classVarDec and varDec:
// type varName (',' varName)* ';'
func (t *Translator) compileVarNames(kind symbols.Kind) {
	t.expectPeek(typeTokens...)
	typ := t.curToken.Lexeme

	t.expectPeek(token.Ident)
	t.symbols.Define(t.curToken.Lexeme, typ, kind)
	for t.peekTokenIs(token.Comma) {
		t.expectPeek(token.Comma)
		t.expectPeek(token.Ident)
		t.symbols.Define(t.curToken.Lexeme, typ, kind)
	}

	t.expectPeek(token.Semicolon)
}

// subroutineDec: ('constructor'|'function'|'method') ('void'|type)
// subroutineName '(' parameterList ')' subroutineBody
func (t *Translator) compileSubroutineDec() {
	t.trace.open("subroutineDec")

	t.ifLabelNum = 0
	t.whileLabelNum = 0
	t.symbols.StartSubroutine()

	t.expectPeek(token.Constructor, token.Function, token.Method)
	subroutineType := t.curToken.Type
	if subroutineType == token.Method {
		t.symbols.Define("this", t.className, symbols.Argument)
	}

	t.expectPeek(append([]token.Type{token.Void}, typeTokens...)...)
	t.expectPeek(token.Ident)
	functionName := t.className + "." + t.curToken.Lexeme

	t.expectPeek(token.LParen)
	t.compileParameterList()
	t.expectPeek(token.RParen)
	t.compileSubroutineBody(functionName, subroutineType)

	t.trace.close("subroutineDec")
}

// parameterList: ((type varName) (',' type varName)*)?
func (t *Translator) compileParameterList() {
	t.trace.open("parameterList")

	if !t.peekTokenIs(token.RParen) {
		t.compileParameter()
		for t.peekTokenIs(token.Comma) {
			t.expectPeek(token.Comma)
			t.compileParameter()
		}
	}

	t.trace.close("parameterList")
}

func (t *Translator) compileParameter() {
	t.expectPeek(typeTokens...)
	typ := t.curToken.Lexeme
	t.expectPeek(token.Ident)
	t.symbols.Define(t.curToken.Lexeme, typ, symbols.Argument)
}

// subroutineBody: '{' varDec* statements '}'
func (t *Translator) compileSubroutineBody(functionName string, subroutineType token.Type) {
	t.trace.open("subroutineBody")
	t.expectPeek(token.LBrace)
	for t.peekTokenIs(token.Var) {
		t.compileVarDec()
	}

	nLocals := t.symbols.VarCount(symbols.Var)
	t.writer.WriteFunction(functionName, nLocals)
	log.Debugf("function %s with %d locals", functionName, nLocals)

	switch subroutineType {
	case token.Constructor:
		t.writer.WritePush(vmwriter.ConstSegment, t.symbols.VarCount(symbols.Field))
		t.writer.WriteCall("Memory.alloc", 1)
		t.writer.WritePop(vmwriter.PointerSegment, 0)
	case token.Method:
		t.writer.WritePush(vmwriter.ArgumentSegment, 0)
		t.writer.WritePop(vmwriter.PointerSegment, 0)
	}

	t.compileStatements()
	t.expectPeek(token.RBrace)
	t.trace.close("subroutineBody")
}

// varDec: 'var' type varName (',' varName)* ';'
func (t *Translator) compileVarDec() {
	t.trace.open("varDec")
	t.expectPeek(token.Var)
	t.compileVarNames(symbols.Var)
	t.trace.close("varDec")
}

// statements: statement*
func (t *Translator) compileStatements() {
	t.trace.open("statements")
	for t.peekTokenIs(statementTokens...) {
		t.compileStatement()
	}
	t.trace.close("statements")
}

func (t *Translator) compileStatement() {
	switch t.peekToken.Type {
	case token.Let:
		t.compileLet()
	case token.If:
		t.compileIf()
	case token.While:
		t.compileWhile()
	case token.Do:
		t.compileDo()
	case token.Return:
		t.compileReturn()
	default:
		t.fail(t.peekToken, "Expected a statement")
	}
}

// letStatement: 'let' varName ('[' expression ']')? '=' expression ';'
func (t *Translator) compileLet() {
	t.trace.open("letStatement")
	t.expectPeek(token.Let)
	t.expectPeek(token.Ident)
	target := t.resolve(t.curToken)

	if t.peekTokenIs(token.LBracket) {
		t.expectPeek(token.LBracket)
		t.compileExpression()
		t.expectPeek(token.RBracket)
		t.pushSymbol(target)
		t.writer.WriteArithmetic(vmwriter.Add)

		t.expectPeek(token.Eq)
		t.compileExpression()
		t.expectPeek(token.Semicolon)

		// pointer 1 is only set once the value is on the stack.
		t.writer.WritePop(vmwriter.TempSegment, 0)
		t.writer.WritePop(vmwriter.PointerSegment, 1)
		t.writer.WritePush(vmwriter.TempSegment, 0)
		t.writer.WritePop(vmwriter.ThatSegment, 0)
	} else {
		t.expectPeek(token.Eq)
		t.compileExpression()
		t.expectPeek(token.Semicolon)
		t.popSymbol(target)
	}

	t.trace.close("letStatement")
}

// ifStatement: 'if' '(' expression ')' '{' statements '}'
// ('else' '{' statements '}')?
func (t *Translator) compileIf() {
	t.trace.open("ifStatement")

	labelTrue := "IF_TRUE" + strconv.Itoa(t.ifLabelNum)
	labelFalse := "IF_FALSE" + strconv.Itoa(t.ifLabelNum)
	labelEnd := "IF_END" + strconv.Itoa(t.ifLabelNum)
	t.ifLabelNum++

	t.expectPeek(token.If)
	t.expectPeek(token.LParen)
	t.compileExpression()
	t.expectPeek(token.RParen)

	t.writer.WriteIf(labelTrue)
	t.writer.WriteGoto(labelFalse)
	t.writer.WriteLabel(labelTrue)

	t.expectPeek(token.LBrace)
	t.compileStatements()
	t.expectPeek(token.RBrace)

	hasElse := t.peekTokenIs(token.Else)
	if hasElse {
		t.writer.WriteGoto(labelEnd)
	}
	t.writer.WriteLabel(labelFalse)

	if hasElse {
		t.expectPeek(token.Else)
		t.expectPeek(token.LBrace)
		t.compileStatements()
		t.expectPeek(token.RBrace)
		t.writer.WriteLabel(labelEnd)
	}

	t.trace.close("ifStatement")
}

// whileStatement: 'while' '(' expression ')' '{' statements '}'
func (t *Translator) compileWhile() {
	t.trace.open("whileStatement")

	labelExp := "WHILE_EXP" + strconv.Itoa(t.whileLabelNum)
	labelEnd := "WHILE_END" + strconv.Itoa(t.whileLabelNum)
	t.whileLabelNum++

	t.writer.WriteLabel(labelExp)

	t.expectPeek(token.While)
	t.expectPeek(token.LParen)
	t.compileExpression()
	t.expectPeek(token.RParen)

	t.writer.WriteArithmetic(vmwriter.Not)
	t.writer.WriteIf(labelEnd)

	t.expectPeek(token.LBrace)
	t.compileStatements()
	t.expectPeek(token.RBrace)

	t.writer.WriteGoto(labelExp)
	t.writer.WriteLabel(labelEnd)

	t.trace.close("whileStatement")
}

// doStatement: 'do' subroutineCall ';'
func (t *Translator) compileDo() {
	t.trace.open("doStatement")
	t.expectPeek(token.Do)
	t.expectPeek(token.Ident)
	t.compileSubroutineCall(t.curToken)
	t.expectPeek(token.Semicolon)
	// Every call leaves a value behind, do discards it.
	t.writer.WritePop(vmwriter.TempSegment, 0)
	t.trace.close("doStatement")
}

// returnStatement: 'return' expression? ';'
func (t *Translator) compileReturn() {
	t.trace.open("returnStatement")
	t.expectPeek(token.Return)
	if !t.peekTokenIs(token.Semicolon) {
		t.compileExpression()
	} else {
		t.writer.WritePush(vmwriter.ConstSegment, 0)
	}
	t.expectPeek(token.Semicolon)
	t.writer.WriteReturn()
	t.trace.close("returnStatement")
}

// compileSubroutineCall continues a call whose leading identifier has
// already been consumed:
//
//	subroutineName '(' expressionList ')'
//	(className|varName) '.' subroutineName '(' expressionList ')'
func (t *Translator) compileSubroutineCall(name token.Token) {
	var function string
	nArgs := 0

	if t.peekTokenIs(token.LParen) {
		// Method of the current object.
		t.writer.WritePush(vmwriter.PointerSegment, 0)
		function = t.className + "." + name.Lexeme
		nArgs = 1
	} else {
		t.expectPeek(token.Dot)
		t.expectPeek(token.Ident)
		subroutineName := t.curToken.Lexeme

		if object, err := t.symbols.Resolve(name.Lexeme); err == nil {
			t.pushSymbol(object)
			function = object.Type + "." + subroutineName
			nArgs = 1
		} else {
			// Not a variable in scope, so a class name.
			function = name.Lexeme + "." + subroutineName
		}
	}

	t.expectPeek(token.LParen)
	nArgs += t.compileExpressionList()
	t.expectPeek(token.RParen)

	t.writer.WriteCall(function, nArgs)
}

// expressionList: (expression (',' expression)*)?
func (t *Translator) compileExpressionList() (n int) {
	t.trace.open("expressionList")

	if !t.peekTokenIs(token.RParen) {
		t.compileExpression()
		n++
		for t.peekTokenIs(token.Comma) {
			t.expectPeek(token.Comma)
			t.compileExpression()
			n++
		}
	}

	t.trace.close("expressionList")
	return n
}

// expression: term (op term)*
// Operators apply strictly left to right, there is no precedence.
func (t *Translator) compileExpression() {
	t.trace.open("expression")
	t.compileTerm()
	for isOperator(t.peekToken.Type) {
		op := t.peekToken.Type
		t.expectPeek(op)
		t.compileTerm()
		t.compileOperator(op)
	}
	t.trace.close("expression")
}

func (t *Translator) compileOperator(op token.Type) {
	if function, ok := libraryOperators[op]; ok {
		t.writer.WriteCall(function, 2)
		return
	}
	t.writer.WriteArithmetic(nativeOperators[op])
}

// term: integerConstant | stringConstant | keywordConstant | varName |
// varName '[' expression ']' | subroutineCall | '(' expression ')' |
// unaryOp term
func (t *Translator) compileTerm() {
	t.trace.open("term")

	switch t.peekToken.Type {
	case token.Number:
		t.expectPeek(token.Number)
		value, err := t.curToken.Word()
		if err != nil {
			t.fail(t.curToken, fmt.Sprintf("Integer constant out of range [0, %d]", token.MaxInt))
		}
		t.writer.WritePush(vmwriter.ConstSegment, int(value))
	case token.String:
		t.expectPeek(token.String)
		t.compileStringConstant(t.curToken.Lexeme)
	case token.False, token.Null, token.True:
		t.expectPeek(token.False, token.Null, token.True)
		t.writer.WritePush(vmwriter.ConstSegment, 0)
		if t.curToken.Type == token.True {
			t.writer.WriteArithmetic(vmwriter.Not)
		}
	case token.This:
		t.expectPeek(token.This)
		t.writer.WritePush(vmwriter.PointerSegment, 0)
	case token.Ident:
		t.expectPeek(token.Ident)
		name := t.curToken
		switch {
		case t.peekTokenIs(token.LParen, token.Dot):
			t.compileSubroutineCall(name)
		case t.peekTokenIs(token.LBracket):
			array := t.resolve(name)
			t.expectPeek(token.LBracket)
			t.compileExpression()
			t.expectPeek(token.RBracket)
			t.pushSymbol(array)
			t.writer.WriteArithmetic(vmwriter.Add)
			t.writer.WritePop(vmwriter.PointerSegment, 1)
			t.writer.WritePush(vmwriter.ThatSegment, 0)
		default:
			t.pushSymbol(t.resolve(name))
		}
	case token.LParen:
		t.expectPeek(token.LParen)
		t.compileExpression()
		t.expectPeek(token.RParen)
	case token.Minus, token.Not:
		t.expectPeek(token.Minus, token.Not)
		op := t.curToken.Type
		t.compileTerm()
		if op == token.Minus {
			t.writer.WriteArithmetic(vmwriter.Neg)
		} else {
			t.writer.WriteArithmetic(vmwriter.Not)
		}
	default:
		t.fail(t.peekToken, "Expected a term")
	}

	t.trace.close("term")
}

// compileStringConstant allocates a String sized to the literal and appends
// the characters one by one. appendChar returns the string, so it stays on
// the stack for the next call.
func (t *Translator) compileStringConstant(value string) {
	chars := []rune(value)
	t.writer.WritePush(vmwriter.ConstSegment, len(chars))
	t.writer.WriteCall("String.new", 1)
	for _, c := range chars {
		t.writer.WritePush(vmwriter.ConstSegment, int(c))
		t.writer.WriteCall("String.appendChar", 2)
	}
}
