package source

import (
	"errors"
	"fmt"

	"github.com/inufuto/asm8/internal/asm"
)

// exprParser is a recursive descent parser over the tokens of one operand.
// Precedence from low to high: | ^, &, << >>, + -, * /, unary - + ~.
type exprParser struct {
	c *asm.Context
	// here is the address of the statement, used for '$' and '*'.
	here   func() asm.Address
	tokens []token
	i      int
}

// evaluate returns the value of tokens, which must be a complete expression.
func evaluate(c *asm.Context, here func() asm.Address, tokens []token) (asm.Address, error) {
	if len(tokens) == 0 {
		return nil, errors.New("missing expression")
	}
	p := &exprParser{c: c, here: here, tokens: tokens}
	v, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.i < len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q in expression", p.tokens[p.i].text)
	}
	return v, nil
}

func (p *exprParser) peekPunct(ops ...string) string {
	if p.i < len(p.tokens) {
		t := p.tokens[p.i]
		for _, op := range ops {
			if t.is(op) {
				return op
			}
		}
	}
	return ""
}

func (p *exprParser) parseOr() (asm.Address, error) {
	return p.binary(p.parseAnd, "|", "^")
}

func (p *exprParser) parseAnd() (asm.Address, error) {
	return p.binary(p.parseShift, "&")
}

func (p *exprParser) parseShift() (asm.Address, error) {
	return p.binary(p.parseAdd, "<<", ">>")
}

func (p *exprParser) parseAdd() (asm.Address, error) {
	return p.binary(p.parseMul, "+", "-")
}

func (p *exprParser) parseMul() (asm.Address, error) {
	return p.binary(p.parseUnary, "*", "/")
}

func (p *exprParser) binary(next func() (asm.Address, error), ops ...string) (asm.Address, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op := p.peekPunct(ops...)
		if op == "" {
			return left, nil
		}
		p.i++
		right, err := next()
		if err != nil {
			return nil, err
		}
		if left, err = p.apply(op, left, right); err != nil {
			return nil, err
		}
	}
}

// notConstant names the operands of a failed operation by their symbols.
func (p *exprParser) notConstant(op string, operands ...asm.Address) error {
	if len(operands) == 1 {
		return fmt.Errorf("%w: %s%s", asm.ErrNotConstant, op, p.c.Describe(operands[0]))
	}
	return fmt.Errorf("%w: %s %s %s", asm.ErrNotConstant, p.c.Describe(operands[0]), op, p.c.Describe(operands[1]))
}

func (p *exprParser) apply(op string, left, right asm.Address) (asm.Address, error) {
	switch op {
	case "+":
		if r, ok := right.(asm.Const); ok {
			return asm.Add(left, r.Value)
		}
		if l, ok := left.(asm.Const); ok {
			return asm.Add(right, l.Value)
		}
		return nil, p.notConstant(op, left, right)
	case "-":
		v, err := asm.Sub(left, right)
		if err != nil {
			return nil, p.notConstant(op, left, right)
		}
		return v, nil
	}
	l, lok := left.(asm.Const)
	r, rok := right.(asm.Const)
	if !lok || !rok {
		return nil, p.notConstant(op, left, right)
	}
	return applyConst(op, l.Value, r.Value)
}

func applyConst(op string, l, r int64) (asm.Address, error) {
	switch op {
	case "*":
		return asm.Const{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, errors.New("division by zero")
		}
		return asm.Const{Value: l / r}, nil
	case "&":
		return asm.Const{Value: l & r}, nil
	case "|":
		return asm.Const{Value: l | r}, nil
	case "^":
		return asm.Const{Value: l ^ r}, nil
	case "<<":
		return asm.Const{Value: l << uint(r)}, nil
	case ">>":
		return asm.Const{Value: l >> uint(r)}, nil
	default:
		panic(fmt.Sprintf("BUG: unknown operator %s", op))
	}
}

func (p *exprParser) parseUnary() (asm.Address, error) {
	op := p.peekPunct("-", "+", "~")
	if op == "" {
		return p.parsePrimary()
	}
	p.i++
	v, err := p.parseUnary()
	if err != nil || op == "+" {
		return v, err
	}
	n, ok := v.(asm.Const)
	if !ok {
		return nil, p.notConstant(op, v)
	}
	if op == "-" {
		return asm.Const{Value: -n.Value}, nil
	}
	return asm.Const{Value: ^n.Value}, nil
}

func (p *exprParser) parsePrimary() (asm.Address, error) {
	if p.i == len(p.tokens) {
		return nil, errors.New("missing operand in expression")
	}
	t := p.tokens[p.i]
	p.i++
	switch t.typ {
	case tokenNumber:
		n, err := decodeNumber(t.text)
		if err != nil {
			return nil, err
		}
		return asm.Const{Value: n}, nil
	case tokenChar:
		return asm.Const{Value: int64(t.text[0])}, nil
	case tokenHere:
		return p.here(), nil
	case tokenIdent:
		return p.c.SymbolAddress(t.text), nil
	case tokenPunct:
		switch t.text {
		case "*":
			return p.here(), nil
		case "(":
			v, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if p.peekPunct(")") == "" {
				return nil, errors.New("missing ')'")
			}
			p.i++
			return v, nil
		}
	}
	return nil, fmt.Errorf("unexpected %q in expression", t.text)
}
