package art

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/aretw0/randomart/pkg/domain"
)

// Parse reads a tree written by Format or FormatIndent.
//
// The grammar is fixed:
//
//	node    = Kind "(" [ args ] ")"
//	args    = arg { "," arg }
//	arg     = node | name "=" literal      (children before parameters)
//	literal = number | "(" number "," number "," number ")"
//
// Unknown kinds, arity mismatches and bad literals are reported as a *domain.ParseError.
func Parse(reg *Registry, text string) (*Node, error) {
	p := &parser{reg: reg}
	p.s.Init(strings.NewReader(text))
	p.s.Filename = "art"
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.scanErr == nil {
			p.scanErr = &domain.ParseError{
				Pos:   s.Pos(),
				Token: s.TokenText(),
				Err:   fmt.Errorf("%w: %s", domain.ErrMalformedLiteral, msg),
			}
		}
	}

	p.next()
	root, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, p.errorf(domain.ErrUnexpectedToken, "trailing input after %s", root.Kind.Name)
	}
	if p.scanErr != nil {
		return nil, p.scanErr
	}
	return root, nil
}

// MustParse is like Parse but panics on error. It is meant for tests and fixed literals.
func MustParse(reg *Registry, text string) *Node {
	n, err := Parse(reg, text)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	reg     *Registry
	s       scanner.Scanner
	tok     rune
	scanErr error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) text() string {
	if p.tok == scanner.EOF {
		return "EOF"
	}
	return p.s.TokenText()
}

func (p *parser) errorf(sentinel error, format string, args ...any) *domain.ParseError {
	return &domain.ParseError{
		Pos:   p.s.Position,
		Token: p.text(),
		Err:   fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...)),
	}
}

func (p *parser) expect(tok rune) error {
	if p.scanErr != nil {
		return p.scanErr
	}
	if p.tok != tok {
		return p.errorf(domain.ErrUnexpectedToken, "expected %s", scanner.TokenString(tok))
	}
	p.next()
	return nil
}

func (p *parser) parseNode() (*Node, error) {
	if p.scanErr != nil {
		return nil, p.scanErr
	}
	if p.tok != scanner.Ident {
		return nil, p.errorf(domain.ErrUnexpectedToken, "expected operator name")
	}
	kind, ok := p.reg.Lookup(p.s.TokenText())
	if !ok {
		return nil, p.errorf(domain.ErrUnknownKind, "%s", p.s.TokenText())
	}
	kindPos := p.s.Position
	p.next()
	if err := p.expect('('); err != nil {
		return nil, err
	}

	node := &Node{Kind: kind}
	seen := make(map[string]bool, len(kind.Params))

	for p.tok != ')' {
		if len(node.Children) > 0 || len(seen) > 0 {
			if err := p.expect(','); err != nil {
				return nil, err
			}
		}
		if p.tok != scanner.Ident {
			return nil, p.errorf(domain.ErrUnexpectedToken, "expected operator or parameter name")
		}
		if p.s.Peek() == '=' || p.isParamAhead() {
			if err := p.parseParam(node, seen); err != nil {
				return nil, err
			}
			continue
		}
		if len(seen) > 0 {
			return nil, p.errorf(domain.ErrUnexpectedToken, "child after parameters")
		}
		child, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}

	if len(node.Children) != kind.Arity {
		return nil, &domain.ParseError{
			Pos:   kindPos,
			Token: kind.Name,
			Err:   fmt.Errorf("%w: %s expects %d children, got %d", domain.ErrArityMismatch, kind.Name, kind.Arity, len(node.Children)),
		}
	}
	for _, name := range kind.Params {
		if !seen[name] {
			return nil, &domain.ParseError{
				Pos:   kindPos,
				Token: kind.Name,
				Err:   fmt.Errorf("%w: %s requires %s", domain.ErrMissingParam, kind.Name, name),
			}
		}
	}
	p.next() // ')'
	return node, nil
}

// isParamAhead reports whether the current identifier names a parameter rather than a kind,
// for input where whitespace separates the name from '='.
func (p *parser) isParamAhead() bool {
	_, isParam := paramType(p.s.TokenText())
	_, isKind := p.reg.Lookup(p.s.TokenText())
	return isParam && !isKind
}

func (p *parser) parseParam(node *Node, seen map[string]bool) error {
	name := p.s.TokenText()
	if !hasParam(node.Kind, name) {
		return p.errorf(domain.ErrUnknownParam, "%s has no parameter %s", node.Kind.Name, name)
	}
	if seen[name] {
		return p.errorf(domain.ErrUnknownParam, "%s given twice", name)
	}
	p.next()
	if err := p.expect('='); err != nil {
		return err
	}

	pos := p.s.Position
	token := p.text()
	typ, _ := paramType(name)
	values, err := p.parseLiteral(typ)
	if err != nil {
		return err
	}
	if err := node.Params.set(name, values); err != nil {
		return &domain.ParseError{Pos: pos, Token: token, Err: err}
	}
	seen[name] = true
	return nil
}

func hasParam(k *Kind, name string) bool {
	for _, p := range k.Params {
		if p == name {
			return true
		}
	}
	return false
}

func (p *parser) parseLiteral(typ ParamType) ([]float64, error) {
	if typ != ParamColor {
		v, err := p.parseNumber(typ == ParamInt)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}

	if p.scanErr != nil {
		return nil, p.scanErr
	}
	if p.tok != '(' {
		return nil, p.errorf(domain.ErrMalformedLiteral, "expected (r, g, b)")
	}
	p.next()
	values := make([]float64, 0, 3)
	for {
		v, err := p.parseNumber(false)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if p.tok != ',' {
			break
		}
		p.next()
	}
	if err := p.expect(')'); err != nil {
		return nil, err
	}
	return values, nil
}

func (p *parser) parseNumber(integer bool) (float64, error) {
	neg := false
	if p.tok == '-' || p.tok == '+' {
		neg = p.tok == '-'
		p.next()
	}
	if p.scanErr != nil {
		return 0, p.scanErr
	}

	var v float64
	switch p.tok {
	case scanner.Int:
		i, err := strconv.ParseInt(p.s.TokenText(), 10, 64)
		if err != nil {
			return 0, p.errorf(domain.ErrMalformedLiteral, "%v", err)
		}
		v = float64(i)
	case scanner.Float:
		if integer {
			return 0, p.errorf(domain.ErrMalformedLiteral, "expected an integer")
		}
		f, err := strconv.ParseFloat(p.s.TokenText(), 64)
		if err != nil {
			return 0, p.errorf(domain.ErrMalformedLiteral, "%v", err)
		}
		v = f
	default:
		return 0, p.errorf(domain.ErrMalformedLiteral, "expected a number")
	}
	p.next()
	if neg {
		v = -v
	}
	return v, nil
}
