package expression

import (
	"strconv"
	"strings"
)

type parser struct {
	tokens []token
	pos    int
}

func parse(src string) (node, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	if p.peek().kind == tokEOF {
		return nil, syntaxError(0, "empty expression")
	}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, syntaxError(tok.pos, "unexpected "+strconv.Quote(tok.text))
	}
	return n, nil
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// keyword reports whether the current token is one of the given words or operators.
func (p *parser) keyword(words ...string) (string, bool) {
	tok := p.peek()
	if tok.kind != tokIdent && tok.kind != tokOp {
		return "", false
	}
	text := strings.ToLower(tok.text)
	for _, w := range words {
		if text == w {
			return w, true
		}
	}
	return "", false
}

func (p *parser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.keyword("or", "||"); !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{and: false, left: left, right: right}
	}
}

func (p *parser) parseAnd() (node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.keyword("and", "&&"); !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &logicalNode{and: true, left: left, right: right}
	}
}

func (p *parser) parseNot() (node, error) {
	if _, ok := p.keyword("not", "!"); ok {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil
	}
	return p.parseComparison()
}

var comparisonOps = []string{"=", "==", "!=", "<>", "<", "<=", ">", ">=", "contains", "notcontains", "anyof", "allof"}

func (p *parser) parseComparison() (node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if w, ok := p.keyword("empty", "notempty"); ok {
		p.next()
		return &emptyNode{operand: left, negate: w == "notempty"}, nil
	}
	op, ok := p.keyword(comparisonOps...)
	if !ok {
		return left, nil
	}
	p.next()
	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	return &compareNode{op: normalizeOp(op), left: left, right: right}, nil
}

func normalizeOp(op string) string {
	switch op {
	case "==":
		return "="
	case "<>":
		return "!="
	}
	return op
}

func (p *parser) parseAdditive() (node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.keyword("+", "-")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &arithmeticNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.keyword("*", "/", "%")
		if !ok {
			return left, nil
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &arithmeticNode{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (node, error) {
	if _, ok := p.keyword("-"); ok {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &negateNode{operand: operand}, nil
	}
	if _, ok := p.keyword("!"); ok {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &notNode{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, syntaxError(tok.pos, "invalid number "+strconv.Quote(tok.text))
		}
		return &literalNode{value: f}, nil

	case tokString:
		return &literalNode{value: tok.text}, nil

	case tokVariable:
		return &variableNode{name: tok.text}, nil

	case tokLBracket:
		items, err := p.parseList(tokRBracket)
		if err != nil {
			return nil, err
		}
		return &arrayNode{items: items}, nil

	case tokLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, syntaxError(closing.pos, "expected ')'")
		}
		return inner, nil

	case tokIdent:
		switch strings.ToLower(tok.text) {
		case "true":
			return &literalNode{value: true}, nil
		case "false":
			return &literalNode{value: false}, nil
		case "null", "undefined":
			return &literalNode{value: nil}, nil
		}
		if p.peek().kind == tokLParen {
			p.next()
			args, err := p.parseList(tokRParen)
			if err != nil {
				return nil, err
			}
			return &callNode{name: strings.ToLower(tok.text), args: args}, nil
		}
		// bare words compare as strings: {color} = red
		return &literalNode{value: tok.text}, nil

	case tokEOF:
		return nil, syntaxError(tok.pos, "unexpected end of expression")
	}
	return nil, syntaxError(tok.pos, "unexpected "+strconv.Quote(tok.text))
}

func (p *parser) parseList(closing tokenKind) ([]node, error) {
	var items []node
	if p.peek().kind == closing {
		p.next()
		return items, nil
	}
	for {
		item, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		tok := p.next()
		switch tok.kind {
		case tokComma:
			continue
		case closing:
			return items, nil
		}
		return nil, syntaxError(tok.pos, "expected ',' or closing bracket")
	}
}
