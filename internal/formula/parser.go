package formula

// Parse builds an Expression from normalized formula text.
//
// Grammar, loosest binding first:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/" | "//") unary }
//	unary  = ("+" | "-") unary | power
//	power  = atom [ "**" unary ]
//	atom   = number | "x" | constant | function "(" expr ")" | "(" expr ")"
//
// As in Python, -x**2 is -(x**2) and 2**3**2 is 2**(3**2). Adjacent operands
// ("2 x") are not multiplied; they are a syntax error like any other
// malformed, unbalanced or empty text. Names other than x, the constants and
// the functions are rejected as unknown symbols.
func Parse(text string) (*Expression, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens}
	if p.peek().kind == tokenEOF {
		return nil, syntaxErrorf(0, "empty formula")
	}

	root, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokenEOF {
		return nil, unexpected(t)
	}

	return &Expression{root: root}, nil
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}

	return t
}

func (p *parser) expr() (node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}

	for {
		var op operator
		switch p.peek().kind {
		case tokenPlus:
			op = opAdd
		case tokenMinus:
			op = opSub
		default:
			return left, nil
		}
		p.next()

		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &binary{op: op, left: left, right: right}
	}
}

func (p *parser) term() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		var op operator
		switch p.peek().kind {
		case tokenStar:
			op = opMul
		case tokenSlash:
			op = opDiv
		case tokenFloorDiv:
			op = opFloorDiv
		default:
			return left, nil
		}
		p.next()

		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &binary{op: op, left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	switch p.peek().kind {
	case tokenPlus:
		p.next()

		return p.unary()
	case tokenMinus:
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &negation{operand: operand}, nil
	default:
		return p.power()
	}
}

func (p *parser) power() (node, error) {
	base, err := p.atom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokenPower {
		return base, nil
	}
	p.next()

	exponent, err := p.unary()
	if err != nil {
		return nil, err
	}

	return &binary{op: opPow, left: base, right: exponent}, nil
}

func (p *parser) atom() (node, error) {
	t := p.next()
	switch t.kind {
	case tokenNumber:
		return &number{value: t.value, text: t.text}, nil
	case tokenName:
		return p.name(t)
	case tokenLParen:
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokenRParen); err != nil {
			return nil, err
		}

		return inner, nil
	default:
		return nil, unexpected(t)
	}
}

func (p *parser) name(t token) (node, error) {
	if t.text == Variable {
		return variable{}, nil
	}
	if v, ok := constants[t.text]; ok {
		return &constant{name: t.text, value: v}, nil
	}

	fn, ok := functions[t.text]
	if !ok {
		return nil, syntaxErrorf(t.pos, "unknown symbol %q", t.text)
	}
	if p.peek().kind != tokenLParen {
		return nil, syntaxErrorf(t.pos, "function %q needs an argument in parentheses", t.text)
	}
	p.next()

	arg, err := p.expr()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokenRParen); err != nil {
		return nil, err
	}

	return &call{fn: fn, arg: arg}, nil
}

func (p *parser) expect(kind tokenKind) error {
	if t := p.peek(); t.kind != kind {
		return syntaxErrorf(t.pos, "expected %s, found %s", kind, describe(t))
	}
	p.next()

	return nil
}

func unexpected(t token) error {
	return syntaxErrorf(t.pos, "unexpected %s", describe(t))
}

func describe(t token) string {
	if t.kind == tokenNumber || t.kind == tokenName {
		return t.kind.String() + " " + t.text
	}

	return t.kind.String()
}
