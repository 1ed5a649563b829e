package parser

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/panyam/fermi/decl"
)

// SyntaxError reports malformed formula text. Pos is the byte offset of the
// offending token.
type SyntaxError struct {
	Pos     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Message)
}

// Parse turns formula text into an expression tree.
//
//	additive       := multiplicative (('+'|'-') multiplicative)*
//	multiplicative := power (('*'|'/') power)*
//	power          := unary ('**' power)?
//	unary          := '-' unary | atom
//	atom           := number | identifier ['(' args? ')'] | '(' additive ')'
//
// Unary minus sits below power, so -2**2 is (-2)**2.
func Parse(text string) (decl.Expr, error) {
	return NewParser(NewStringLexer(text)).Parse()
}

// Parser is a recursive descent parser over a Lexer with one token of
// lookahead.
type Parser struct {
	lexer *Lexer

	peeked    bool
	peekedTok int
	peekText  string
	peekStart int
	peekEnd   int
}

func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// Parse parses a complete formula; any input left after the top level
// expression is an error.
func (p *Parser) Parse() (decl.Expr, error) {
	expr, err := p.ParseAdditive()
	if err != nil {
		return nil, err
	}
	if p.PeekToken() != EOF {
		return nil, p.unexpected()
	}
	return expr, nil
}

func (p *Parser) PeekToken() int {
	if !p.peeked {
		p.peekedTok = p.lexer.Next()
		p.peekText = p.lexer.Text()
		p.peekStart = p.lexer.Pos()
		p.peekEnd = p.lexer.End()
		p.peeked = true
	}
	return p.peekedTok
}

func (p *Parser) Advance() int {
	tok := p.PeekToken()
	p.peeked = false
	return tok
}

func (p *Parser) Errorf(format string, args ...any) error {
	return &SyntaxError{Pos: p.peekStart, Message: fmt.Sprintf(format, args...)}
}

func (p *Parser) unexpected() error {
	switch tok := p.PeekToken(); tok {
	case EOF:
		return p.Errorf("unexpected end of input")
	case ILLEGAL:
		return p.Errorf("unexpected character '%s'", p.peekText)
	default:
		return p.Errorf("unexpected '%s'", p.peekText)
	}
}

// parseBinaryExpr parses a left-associative chain of operands separated by
// any of the given operator tokens.
func (p *Parser) parseBinaryExpr(operand func() (decl.Expr, error), operators ...int) (decl.Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.PeekToken()
		matched := false
		for _, op := range operators {
			if tok == op {
				matched = true
				break
			}
		}
		if !matched {
			return left, nil
		}
		op := p.peekText
		p.Advance()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &decl.BinaryExpr{
			NodeInfo: decl.NodeInfo{StartPos: left.Pos(), StopPos: right.End()},
			Op:       op,
			Left:     left,
			Right:    right,
		}
	}
}

// ParseAdditive: multiplicative (('+'|'-') multiplicative)*
func (p *Parser) ParseAdditive() (decl.Expr, error) {
	return p.parseBinaryExpr(p.ParseMultiplicative, PLUS, MINUS)
}

// ParseMultiplicative: power (('*'|'/') power)*
func (p *Parser) ParseMultiplicative() (decl.Expr, error) {
	return p.parseBinaryExpr(p.ParsePower, MUL, DIV)
}

// ParsePower: unary ('**' power)?, right associative.
func (p *Parser) ParsePower() (decl.Expr, error) {
	base, err := p.ParseUnary()
	if err != nil {
		return nil, err
	}
	if p.PeekToken() != POW {
		return base, nil
	}
	p.Advance()
	exponent, err := p.ParsePower()
	if err != nil {
		return nil, err
	}
	return &decl.BinaryExpr{
		NodeInfo: decl.NodeInfo{StartPos: base.Pos(), StopPos: exponent.End()},
		Op:       "**",
		Left:     base,
		Right:    exponent,
	}, nil
}

// ParseUnary: '-' unary | atom
func (p *Parser) ParseUnary() (decl.Expr, error) {
	if p.PeekToken() != MINUS {
		return p.ParseAtom()
	}
	start := p.peekStart
	p.Advance()
	operand, err := p.ParseUnary()
	if err != nil {
		return nil, err
	}
	return &decl.UnaryExpr{
		NodeInfo: decl.NodeInfo{StartPos: start, StopPos: operand.End()},
		Op:       "-",
		Operand:  operand,
	}, nil
}

// ParseAtom: number | identifier ['(' args? ')'] | '(' additive ')'
func (p *Parser) ParseAtom() (decl.Expr, error) {
	switch p.PeekToken() {
	case LPAREN:
		open := p.peekStart
		p.Advance()
		inner, err := p.ParseAdditive()
		if err != nil {
			return nil, err
		}
		if p.PeekToken() != RPAREN {
			return nil, p.Errorf("unmatched parenthesis: expected ')' to close '(' at position %d", open)
		}
		p.Advance()
		return inner, nil

	case NUMBER:
		text, start, end := p.peekText, p.peekStart, p.peekEnd
		value, err := strconv.ParseFloat(text, 64)
		// Out of range literals saturate to ±Inf.
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, p.Errorf("invalid number '%s'", text)
		}
		p.Advance()
		return &decl.NumberExpr{NodeInfo: decl.NodeInfo{StartPos: start, StopPos: end}, Value: value}, nil

	case IDENTIFIER:
		name, start, end := p.peekText, p.peekStart, p.peekEnd
		p.Advance()
		if p.PeekToken() != LPAREN {
			return &decl.VariableExpr{NodeInfo: decl.NodeInfo{StartPos: start, StopPos: end}, Name: name}, nil
		}
		return p.parseCall(name, start)
	}
	return nil, p.unexpected()
}

func (p *Parser) parseCall(name string, start int) (decl.Expr, error) {
	open := p.peekStart
	p.Advance() // '('
	args := []decl.Expr{}
	if p.PeekToken() != RPAREN {
		for {
			arg, err := p.ParseAdditive()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.PeekToken() != COMMA {
				break
			}
			p.Advance()
		}
	}
	if p.PeekToken() != RPAREN {
		return nil, p.Errorf("unmatched parenthesis: expected ')' to close '%s(' at position %d", name, open)
	}
	end := p.peekEnd
	p.Advance()
	return &decl.CallExpr{NodeInfo: decl.NodeInfo{StartPos: start, StopPos: end}, Name: name, Args: args}, nil
}
