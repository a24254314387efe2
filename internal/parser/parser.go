// Package parser implements the NuwaScript recursive-descent parser: a
// Script is a sequence of Statements, expressions are parsed with explicit
// operator-precedence climbing, and tool calls require braces with named
// arguments everywhere they appear.
package parser

import (
	"fmt"
	"strconv"

	"github.com/nuwa-ai/nuwascript/internal/ast"
	"github.com/nuwa-ai/nuwascript/internal/interp/errs"
	"github.com/nuwa-ai/nuwascript/internal/lexer"
)

// Parser consumes a token stream and produces an *ast.Script. It has no
// panic-based recovery: the first syntax error aborts parsing.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// New tokenizes source and returns a ready-to-use Parser. A lexer failure
// is surfaced immediately as an error rather than deferred to Parse.
func New(source string) (*Parser, error) {
	toks, err := lexer.All(source)
	if err != nil {
		return nil, err
	}
	return &Parser{toks: toks}, nil
}

func (p *Parser) cur() lexer.Token  { return p.toks[p.pos] }
func (p *Parser) peek() lexer.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}
func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	if p.cur().Kind != kind {
		return lexer.Token{}, &errs.ParserError{Pos: p.cur().Pos, Expectation: what, Got: describeToken(p.cur())}
	}
	return p.advance(), nil
}

func describeToken(t lexer.Token) string {
	if t.Kind == lexer.EOF {
		return "end of input"
	}
	if t.Literal != "" {
		return fmt.Sprintf("%q", t.Literal)
	}
	return t.Kind.String()
}

// Parse runs the full grammar and returns the resulting Script.
func Parse(source string) (*ast.Script, error) {
	p, err := New(source)
	if err != nil {
		return nil, err
	}
	return p.ParseScript()
}

// ParseScript parses Statement* until EOF.
func (p *Parser) ParseScript() (*ast.Script, error) {
	var stmts []ast.Statement
	for p.cur().Kind != lexer.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return &ast.Script{Statements: stmts}, nil
}

// parseBlock parses Statement* until one of the given terminator keywords
// is seen (without consuming it).
func (p *Parser) parseBlock(terminators ...lexer.Kind) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.atAny(terminators...) {
		if p.cur().Kind == lexer.EOF {
			return nil, &errs.ParserError{Pos: p.cur().Pos, Expectation: "END", Got: "end of input"}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *Parser) atAny(kinds ...lexer.Kind) bool {
	for _, k := range kinds {
		if p.cur().Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case lexer.LET:
		return p.parseLet()
	case lexer.IF:
		return p.parseIf()
	case lexer.FOR:
		return p.parseFor()
	case lexer.CALL:
		return p.parseCallStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLet() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // LET
	name, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.ASSIGN, "'='"); err != nil {
		return nil, err
	}
	val, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return ast.NewLet(pos, name.Literal, val), nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // IF
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.THEN, "'THEN'"); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock(lexer.ELSE, lexer.END)
	if err != nil {
		return nil, err
	}
	var elseBlock []ast.Statement
	if p.cur().Kind == lexer.ELSE {
		p.advance()
		elseBlock, err = p.parseBlock(lexer.END)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.END, "'END'"); err != nil {
		return nil, err
	}
	return ast.NewIf(pos, cond, thenBlock, elseBlock), nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // FOR
	name, err := p.expect(lexer.IDENT, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.IN, "'IN'"); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.DO, "'DO'"); err != nil {
		return nil, err
	}
	body, err := p.parseBlock(lexer.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END, "'END'"); err != nil {
		return nil, err
	}
	return ast.NewFor(pos, name.Literal, iterable, body), nil
}

func (p *Parser) parseCallStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	p.advance() // CALL
	name, err := p.expect(lexer.IDENT, "tool name")
	if err != nil {
		return nil, err
	}
	names, exprs, err := p.parseNamedArgBraces()
	if err != nil {
		return nil, err
	}
	return ast.NewCall(pos, name.Literal, names, exprs), nil
}

// parseNamedArgBraces parses "{" NamedArgs? "}" shared by tool-call
// statement and expression forms.
func (p *Parser) parseNamedArgBraces() ([]string, map[string]ast.Expression, error) {
	if _, err := p.expect(lexer.LBRACE, "'{'"); err != nil {
		return nil, nil, err
	}
	names := []string{}
	exprs := map[string]ast.Expression{}
	for p.cur().Kind != lexer.RBRACE {
		argName, err := p.expect(lexer.IDENT, "argument name")
		if err != nil {
			return nil, nil, err
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, nil, err
		}
		names = append(names, argName.Literal)
		exprs[argName.Literal] = val
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, nil, err
	}
	return names, exprs, nil
}

// parseExpressionStatement parses a bare expression statement, permitted
// only when the top-level expression is a FunctionCall or ToolCall.
func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	pos := p.cur().Pos
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	switch expr.(type) {
	case *ast.FunctionCall, *ast.ToolCall:
		return ast.NewExpressionStatement(pos, expr), nil
	default:
		return nil, &errs.ParserError{Pos: pos, Expectation: "a tool call or function call statement", Got: "a non-effectful expression"}
	}
}

// ---- Expressions: precedence climbing, lowest to highest ----
// OR -> AND -> NOT -> Comparison -> Additive -> Multiplicative -> Unary -> Postfix -> Primary

func (p *Parser) parseExpression() (ast.Expression, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.OR {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(pos, "OR", left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.AND {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(pos, "AND", left, right)
	}
	return left, nil
}

// parseNot is right-associative, so "NOT NOT x" parses as NOT (NOT x).
func (p *Parser) parseNot() (ast.Expression, error) {
	if p.cur().Kind == lexer.NOT {
		pos := p.cur().Pos
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(pos, "NOT", operand), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[lexer.Kind]string{
	lexer.EQ: "==", lexer.NOT_EQ: "!=", lexer.GT: ">", lexer.LT: "<",
	lexer.GT_EQ: ">=", lexer.LT_EQ: "<=",
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if op, ok := comparisonOps[p.cur().Kind]; ok {
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryOp(pos, op, left, right), nil
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.PLUS || p.cur().Kind == lexer.MINUS {
		op := "+"
		if p.cur().Kind == lexer.MINUS {
			op = "-"
		}
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(pos, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.ASTERISK || p.cur().Kind == lexer.SLASH || p.cur().Kind == lexer.PERCENT {
		var op string
		switch p.cur().Kind {
		case lexer.ASTERISK:
			op = "*"
		case lexer.SLASH:
			op = "/"
		case lexer.PERCENT:
			op = "%"
		}
		pos := p.cur().Pos
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryOp(pos, op, left, right)
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.cur().Kind == lexer.PLUS || p.cur().Kind == lexer.MINUS {
		op := "+"
		if p.cur().Kind == lexer.MINUS {
			op = "-"
		}
		pos := p.cur().Pos
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryOp(pos, op, operand), nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Kind {
		case lexer.DOT:
			pos := p.cur().Pos
			p.advance()
			prop, err := p.expect(lexer.IDENT, "property name")
			if err != nil {
				return nil, err
			}
			expr = ast.NewMemberAccess(pos, expr, prop.Literal)
		case lexer.LBRACK:
			pos := p.cur().Pos
			p.advance()
			idx, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACK, "']'"); err != nil {
				return nil, err
			}
			expr = ast.NewIndexAccess(pos, expr, idx)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.NUMBER:
		p.advance()
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &errs.ParserError{Pos: tok.Pos, Expectation: "a valid number", Got: tok.Literal}
		}
		return ast.NewLiteral(tok.Pos, ast.LiteralValue{Kind: ast.LiteralNumber, Num: n}), nil
	case lexer.STRING:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralValue{Kind: ast.LiteralString, Str: tok.Literal}), nil
	case lexer.TRUE:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralValue{Kind: ast.LiteralBool, Bool: true}), nil
	case lexer.FALSE:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralValue{Kind: ast.LiteralBool, Bool: false}), nil
	case lexer.NULL:
		p.advance()
		return ast.NewLiteral(tok.Pos, ast.LiteralValue{Kind: ast.LiteralNull}), nil
	case lexer.LBRACK:
		return p.parseListLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.CALL:
		p.advance()
		name, err := p.expect(lexer.IDENT, "tool name")
		if err != nil {
			return nil, err
		}
		names, exprs, err := p.parseNamedArgBraces()
		if err != nil {
			return nil, err
		}
		return ast.NewToolCallExpr(tok.Pos, name.Literal, names, exprs), nil
	case lexer.IDENT:
		p.advance()
		if p.cur().Kind == lexer.LPAREN {
			return p.parsePositionalCall(tok)
		}
		return ast.NewVariable(tok.Pos, tok.Literal), nil
	default:
		return nil, &errs.ParserError{Pos: tok.Pos, Expectation: "an expression", Got: describeToken(tok)}
	}
}

func (p *Parser) parsePositionalCall(name lexer.Token) (ast.Expression, error) {
	p.advance() // (
	var args []ast.Expression
	for p.cur().Kind != lexer.RPAREN {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RPAREN, "')'"); err != nil {
		return nil, err
	}
	return ast.NewFunctionCall(name.Pos, name.Literal, args), nil
}

func (p *Parser) parseListLiteral() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // [
	var elems []ast.Expression
	for p.cur().Kind != lexer.RBRACK {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACK, "']'"); err != nil {
		return nil, err
	}
	return ast.NewListLiteral(pos, elems), nil
}

func (p *Parser) parseObjectLiteral() (ast.Expression, error) {
	pos := p.cur().Pos
	p.advance() // {
	keys := []string{}
	values := map[string]ast.Expression{}
	for p.cur().Kind != lexer.RBRACE {
		var key string
		switch p.cur().Kind {
		case lexer.IDENT:
			key = p.advance().Literal
		case lexer.STRING:
			key = p.advance().Literal
		default:
			return nil, &errs.ParserError{Pos: p.cur().Pos, Expectation: "object key", Got: describeToken(p.cur())}
		}
		if _, err := p.expect(lexer.COLON, "':'"); err != nil {
			return nil, err
		}
		val, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values[key] = val
		if p.cur().Kind == lexer.COMMA {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBRACE, "'}'"); err != nil {
		return nil, err
	}
	return ast.NewObjectLiteral(pos, keys, values), nil
}
