// Package source is the line-oriented front end shared by every target: it
// lexes each line, evaluates operand expressions, handles directives and
// structured statements, and hands instructions to the target.
package source

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/inufuto/asm8/internal/asm"
)

// Target is an instruction set the front end can drive.
type Target interface {
	asm.BranchEmitter

	// Name is the name used to select the target, ex. "6809".
	Name() string

	// ByteOrder is the order of multi-byte data, used by DW.
	ByteOrder() binary.ByteOrder

	// Condition returns the condition code for name, which is upper case.
	// When ok is false the returned condition is still a valid one, so that a
	// structured statement with a misspelled condition keeps its size.
	Condition(name string) (cond asm.Condition, ok bool)

	// Instruction assembles s. handled is false when the mnemonic is unknown.
	// Operands must be evaluated before any byte is emitted.
	Instruction(c *asm.Context, s *Statement) (handled bool, err error)
}

// Operand is one comma separated operand of a statement.
type Operand struct {
	tokens []token
	// Text is the source text of the operand.
	Text string
}

// Keyword returns the upper case name when the operand is a single
// identifier, ex. a register or a condition. Otherwise it returns "".
func (o Operand) Keyword() string {
	if len(o.tokens) == 1 && o.tokens[0].typ == tokenIdent {
		return strings.ToUpper(o.tokens[0].text)
	}
	return ""
}

// Immediate returns true when the operand starts with '#'.
func (o Operand) Immediate() bool {
	return len(o.tokens) > 0 && o.tokens[0].is("#")
}

// Statement is an instruction or directive with its operands.
type Statement struct {
	// Mnemonic is upper case.
	Mnemonic string
	Operands []Operand

	c    *asm.Context
	here asm.Address
}

// Here returns the address of the statement.
func (s *Statement) Here() asm.Address {
	if s.here == nil {
		s.here = s.c.CurrentAddress()
	}
	return s.here
}

// Eval evaluates an operand, ignoring a leading '#'. An operand which does
// not evaluate is reported and replaced with zero, so the statement still
// emits all of its bytes.
func (s *Statement) Eval(o Operand) asm.Address {
	return s.evalOr(o, asm.Const{})
}

// EvalTarget is Eval for the target of a jump. The replacement is the address
// of the statement, which every jump can encode.
func (s *Statement) EvalTarget(o Operand) asm.Address {
	return s.evalOr(o, s.Here())
}

func (s *Statement) evalOr(o Operand, replacement asm.Address) asm.Address {
	v, err := s.value(o)
	if err != nil {
		s.c.Report(kindOf(err), err)
		return replacement
	}
	return v
}

// value is Eval returning the error.
func (s *Statement) value(o Operand) (asm.Address, error) {
	tokens := o.tokens
	if o.Immediate() {
		tokens = tokens[1:]
	}
	return evaluate(s.c, s.Here, tokens)
}

// ExpectOperands fails unless the statement has n operands.
func (s *Statement) ExpectOperands(n int) error {
	if len(s.Operands) != n {
		return fmt.Errorf("%s expects %d operand(s) but has %d", s.Mnemonic, n, len(s.Operands))
	}
	return nil
}

// errEnd stops the assembly at an END directive.
var errEnd = errors.New("END")

// Assemble runs every line of src through c. Diagnostics are reported to c;
// the caller finishes the module with c.Finish.
func Assemble(c *asm.Context, t Target, src []byte) {
	p := &parser{c: c, t: t}
	for i, line := range strings.Split(string(src), "\n") {
		c.SetPosition(asm.Position{Line: uint32(i + 1)})
		tokens, col, err := lexLine(line)
		if err != nil {
			p.syntaxAt(col, err)
			continue
		}
		if err = p.statement(tokens); err == errEnd {
			return
		} else if err != nil {
			c.Report(kindOf(err), err)
		}
	}
}

// kindOf classifies an error returned by a statement handler.
func kindOf(err error) asm.ErrorKind {
	switch {
	case errors.Is(err, asm.ErrOutOfRange):
		return asm.ErrorKindRange
	case errors.Is(err, asm.ErrNotConstant), errors.Is(err, asm.ErrSegmentMismatch), errors.Is(err, asm.ErrOffsetPending):
		return asm.ErrorKindAddressing
	case errors.Is(err, asm.ErrNoIf), errors.Is(err, asm.ErrNoWhile):
		return asm.ErrorKindStructural
	}
	return asm.ErrorKindSyntax
}

type parser struct {
	c *asm.Context
	t Target
}

func (p *parser) syntaxAt(col uint32, err error) {
	pos := p.c.Position()
	p.c.SetPosition(asm.Position{Line: pos.Line, Col: col})
	p.c.Report(asm.ErrorKindSyntax, err)
	p.c.SetPosition(pos)
}

func (p *parser) statement(tokens []token) error {
	if len(tokens) == 0 {
		return nil
	}
	var label string
	if len(tokens) >= 2 && tokens[0].typ == tokenIdent && tokens[1].is(":") {
		label, tokens = tokens[0].text, tokens[2:]
	} else if len(tokens) >= 2 && tokens[0].typ == tokenIdent && strings.EqualFold(tokens[1].text, "EQU") {
		label, tokens = tokens[0].text, tokens[1:]
	}
	if len(tokens) == 0 {
		p.c.DefineSymbol(label)
		return nil
	}
	if tokens[0].typ != tokenIdent {
		return fmt.Errorf("expected instruction but found %q", tokens[0].text)
	}
	s := &Statement{Mnemonic: strings.ToUpper(tokens[0].text), c: p.c}
	operands, err := splitOperands(tokens[1:])
	if err != nil {
		return err
	}
	s.Operands = operands

	if s.Mnemonic == "EQU" {
		return p.equ(label, s)
	}
	if label != "" {
		p.c.DefineSymbol(label)
	}
	if handled, err := p.structured(s); handled {
		return err
	}
	if handled, err := p.directive(s); handled {
		return err
	}
	handled, err := p.t.Instruction(p.c, s)
	if !handled {
		return fmt.Errorf("unknown instruction %s", s.Mnemonic)
	}
	return err
}

// splitOperands splits tokens on commas outside parentheses.
func splitOperands(tokens []token) (operands []Operand, err error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	depth, start := 0, 0
	add := func(end int) error {
		if start == end {
			return errors.New("missing operand")
		}
		ts := tokens[start:end]
		operands = append(operands, Operand{tokens: ts, Text: joinTokens(ts)})
		return nil
	}
	for i, t := range tokens {
		switch {
		case t.is("("):
			depth++
		case t.is(")"):
			depth--
		case t.is(",") && depth == 0:
			if err = add(i); err != nil {
				return nil, err
			}
			start = i + 1
		}
	}
	if err = add(len(tokens)); err != nil {
		return nil, err
	}
	return
}

func joinTokens(tokens []token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && t.col > tokens[i-1].col+uint32(len(tokens[i-1].text)) {
			b.WriteByte(' ')
		}
		switch t.typ {
		case tokenChar:
			b.WriteString("'" + t.text + "'")
		case tokenString:
			b.WriteString(`"` + t.text + `"`)
		default:
			b.WriteString(t.text)
		}
	}
	return b.String()
}

// structured handles IF, ELSEIF, ELSE, ENDIF, DO, WHILE and WEND.
func (p *parser) structured(s *Statement) (bool, error) {
	switch s.Mnemonic {
	case "IF":
		cond, err := p.condition(s)
		p.c.IfStatement(cond)
		return true, err
	case "ELSEIF":
		cond, err := p.condition(s)
		p.c.ElseIfStatement(cond)
		return true, err
	case "ELSE":
		p.c.ElseStatement()
		return true, s.ExpectOperands(0)
	case "ENDIF":
		p.c.EndIfStatement()
		return true, s.ExpectOperands(0)
	case "DO":
		p.c.DoStatement()
		return true, s.ExpectOperands(0)
	case "WHILE":
		cond, err := p.condition(s)
		p.c.WhileStatement(cond)
		return true, err
	case "WEND":
		p.c.WEndStatement()
		return true, s.ExpectOperands(0)
	}
	return false, nil
}

func (p *parser) condition(s *Statement) (asm.Condition, error) {
	var name string
	if len(s.Operands) == 1 {
		name = s.Operands[0].Keyword()
	}
	cond, ok := p.t.Condition(name)
	if !ok {
		if name == "" {
			return cond, fmt.Errorf("%s expects a condition", s.Mnemonic)
		}
		return cond, fmt.Errorf("unknown condition %s for %s", name, p.t.Name())
	}
	return cond, nil
}

func (p *parser) equ(label string, s *Statement) error {
	if label == "" {
		return errors.New("EQU without a name")
	}
	if err := s.ExpectOperands(1); err != nil {
		return err
	}
	// The symbol is still defined, so its uses do not fail too.
	p.c.DefineConstant(label, s.Eval(s.Operands[0]))
	return nil
}

// directive handles the data and segment directives.
func (p *parser) directive(s *Statement) (bool, error) {
	switch s.Mnemonic {
	case "ORG":
		n, err := p.constant(s)
		if err == nil {
			p.c.SetOrigin(n)
		}
		return true, err
	case "DB", "DEFB", "FCB":
		return true, p.data(s, asm.AbsoluteField(1, nil))
	case "DW", "DEFW", "FDB":
		return true, p.data(s, asm.AbsoluteField(2, p.t.ByteOrder()))
	case "DS", "DEFS", "RMB":
		n, err := p.constant(s)
		if err != nil {
			return true, err
		}
		if n < 0 {
			return true, fmt.Errorf("%w: negative size %d", asm.ErrOutOfRange, n)
		}
		p.c.Reserve(int(n))
		return true, nil
	case "CSEG", "DSEG":
		p.c.UseSegment(s.Mnemonic)
		return true, s.ExpectOperands(0)
	case "EXT", "EXTRN":
		for _, o := range s.Operands {
			if len(o.tokens) != 1 || o.tokens[0].typ != tokenIdent {
				return true, fmt.Errorf("expected a symbol name but found %q", o.Text)
			}
			name := o.tokens[0].text
			p.c.DefineConstant(name, asm.External{Name: name})
		}
		return true, nil
	case "END":
		return true, errEnd
	}
	return false, nil
}

func (p *parser) constant(s *Statement) (int64, error) {
	if err := s.ExpectOperands(1); err != nil {
		return 0, err
	}
	v, err := s.value(s.Operands[0])
	if err != nil {
		return 0, err
	}
	return s.c.ConstValue(v)
}

func (p *parser) data(s *Statement, f asm.Field) error {
	if len(s.Operands) == 0 {
		return fmt.Errorf("%s expects at least one operand", s.Mnemonic)
	}
	values := make([]asm.Address, 0, len(s.Operands))
	var strs []string
	for _, o := range s.Operands {
		if len(o.tokens) == 1 && o.tokens[0].typ == tokenString && f.Width == 1 {
			values = append(values, nil)
			strs = append(strs, o.tokens[0].text)
			continue
		}
		values = append(values, s.Eval(o))
	}
	for _, v := range values {
		if v == nil {
			p.c.EmitBytes([]byte(strs[0])...)
			strs = strs[1:]
			continue
		}
		p.c.EmitField(v, f)
	}
	return nil
}
