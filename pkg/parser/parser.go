package parser

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diagnostics"
	"lox/interpreter-go/pkg/token"
)

const maxArity = 255

// ParseError is a syntax error positioned at the offending token.
type ParseError struct {
	Token   token.Token
	Message string
}

func (e *ParseError) Error() string {
	if e.Token.Kind == token.EOF {
		return fmt.Sprintf("parser: line %d at end: %s", e.Token.Line, e.Message)
	}
	return fmt.Sprintf("parser: line %d at '%s': %s", e.Token.Line, e.Token.Lexeme, e.Message)
}

// Parser is a recursive-descent parser over a scanned token slice.
type Parser struct {
	tokens   []token.Token
	current  int
	reporter *diagnostics.Reporter

	// functionDepth counts enclosing function bodies; `return` is only legal
	// when it is positive.
	functionDepth int
}

// New creates a parser. A missing trailing EOF token is supplied.
func New(tokens []token.Token, reporter *diagnostics.Reporter) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(append([]token.Token(nil), tokens...), token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse is shorthand for New(tokens, reporter).Parse().
func Parse(tokens []token.Token, reporter *diagnostics.Reporter) ast.Program {
	return New(tokens, reporter).Parse()
}

// Parse consumes every token. Malformed statements are reported, skipped via
// synchronization, and left out of the returned program.
func (p *Parser) Parse() ast.Program {
	program := ast.Program{}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			program = append(program, stmt)
		}
	}
	return program
}

// ParseExpression parses a single expression followed by EOF.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	expr, err := p.expression()
	if err != nil {
		p.reportError(err)
		return nil, err
	}
	if !p.isAtEnd() {
		err := p.errorAt(p.peek(), "Expect end of expression.")
		p.reportError(err)
		return nil, err
	}
	return expr, nil
}

func (p *Parser) declaration() ast.Statement {
	stmt, err := p.parseDeclaration()
	if err != nil {
		p.reportError(err)
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *Parser) reportError(err error) {
	if pe, ok := err.(*ParseError); ok {
		p.reporter.ErrorAt(pe.Token, pe.Message)
		return
	}
	p.reporter.ErrorAt(p.peek(), err.Error())
}

// synchronize discards tokens until just after a semicolon or just before a
// token that starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}

func (p *Parser) errorAt(tok token.Token, message string) error {
	return &ParseError{Token: tok, Message: message}
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Kind == kind
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}
