package art

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/randomart/pkg/domain"
)

// MaxArity is the largest number of children a node may have.
const MaxArity = 3

// Parameter names, as written in art text.
const (
	ParamShift     = "shift"
	ParamThreshold = "threshold"
	ParamPhase     = "phase"
	ParamFreq      = "freq"
	ParamValue     = "value"
)

// ParamType is the literal shape of a parameter.
type ParamType int

const (
	ParamInt ParamType = iota
	ParamFloat
	ParamColor
)

func paramType(name string) (ParamType, bool) {
	switch name {
	case ParamShift:
		return ParamInt, true
	case ParamThreshold, ParamPhase, ParamFreq:
		return ParamFloat, true
	case ParamValue:
		return ParamColor, true
	}
	return 0, false
}

// Params holds the extra values a node captured at construction.
// Only the fields named in its kind's schema are meaningful.
type Params struct {
	Shift     int
	Threshold float64
	Phase     float64
	Freq      float64
	Value     domain.Color
}

func (p *Params) get(name string) []float64 {
	switch name {
	case ParamShift:
		return []float64{float64(p.Shift)}
	case ParamThreshold:
		return []float64{p.Threshold}
	case ParamPhase:
		return []float64{p.Phase}
	case ParamFreq:
		return []float64{p.Freq}
	case ParamValue:
		return p.Value[:]
	}
	return nil
}

func (p *Params) set(name string, v []float64) error {
	typ, ok := paramType(name)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownParam, name)
	}
	want := 1
	if typ == ParamColor {
		want = 3
	}
	if len(v) != want {
		return fmt.Errorf("%w: %s expects %d value(s), got %d", domain.ErrMalformedLiteral, name, want, len(v))
	}
	switch name {
	case ParamShift:
		s := int(v[0])
		if float64(s) != v[0] || s < 0 || s > 2 {
			return fmt.Errorf("%w: shift must be 0, 1 or 2, got %v", domain.ErrMalformedLiteral, v[0])
		}
		p.Shift = s
	case ParamThreshold:
		p.Threshold = v[0]
	case ParamPhase:
		p.Phase = v[0]
	case ParamFreq:
		p.Freq = v[0]
	case ParamValue:
		copy(p.Value[:], v)
	}
	return nil
}

// Kind is an operator: a name, an arity, a parameter schema and a formula.
// Kinds are immutable once registered.
type Kind struct {
	Name   string
	Arity  int
	Params []string
	Doc    string

	// sample draws the kind's parameters, in schema order, from the generator's source.
	sample func(r *rand.Rand) Params
	// eval combines the children's colors. in has exactly Arity entries.
	eval func(p *Params, in []domain.Color, x, y float64) domain.Color
}

// Terminal reports whether the kind is a leaf.
func (k *Kind) Terminal() bool {
	return k.Arity == 0
}

// New instantiates the kind with parameters drawn from r.
func (k *Kind) New(r *rand.Rand, children ...*Node) (*Node, error) {
	if len(children) != k.Arity {
		return nil, fmt.Errorf("%w: %s expects %d children, got %d", domain.ErrArityMismatch, k.Name, k.Arity, len(children))
	}
	return k.instantiate(r, children), nil
}

// WithParams instantiates the kind with explicit parameters.
func (k *Kind) WithParams(p Params, children ...*Node) (*Node, error) {
	if len(children) != k.Arity {
		return nil, fmt.Errorf("%w: %s expects %d children, got %d", domain.ErrArityMismatch, k.Name, k.Arity, len(children))
	}
	return &Node{Kind: k, Children: children, Params: p}, nil
}

func (k *Kind) instantiate(r *rand.Rand, children []*Node) *Node {
	n := &Node{Kind: k, Children: children}
	if k.sample != nil {
		n.Params = k.sample(r)
	}
	return n
}

func (k *Kind) String() string {
	return fmt.Sprintf("%s/%d", k.Name, k.Arity)
}
