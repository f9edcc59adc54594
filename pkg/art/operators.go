package art

import (
	"math"
	"math/rand/v2"

	"github.com/aretw0/randomart/pkg/domain"
)

// Terminals select a coordinate axis or a fixed color.
var (
	Constant = &Kind{
		Name:   "Constant",
		Arity:  0,
		Params: []string{ParamValue},
		Doc:    "A fixed color sampled once, ignoring the position.",
		sample: func(r *rand.Rand) Params {
			return Params{Value: domain.Color{r.Float64(), r.Float64(), r.Float64()}}
		},
		eval: func(p *Params, _ []domain.Color, _, _ float64) domain.Color {
			return p.Value
		},
	}

	VariableX = &Kind{
		Name:  "VariableX",
		Arity: 0,
		Doc:   "The x position in every channel, clamped to [-1, 1].",
		eval: func(_ *Params, _ []domain.Color, x, _ float64) domain.Color {
			return domain.Gray(clampUnit(x))
		},
	}

	VariableY = &Kind{
		Name:  "VariableY",
		Arity: 0,
		Doc:   "The y position in every channel, clamped to [-1, 1].",
		eval: func(_ *Params, _ []domain.Color, _, y float64) domain.Color {
			return domain.Gray(clampUnit(y))
		},
	}
)

// Unary operators transform each channel independently.
var (
	Sin = &Kind{
		Name:   "Sin",
		Arity:  1,
		Params: []string{ParamPhase, ParamFreq},
		Doc:    "sin(phase + freq·v) with phase in [0, π) and freq in [1, 6).",
		sample: func(r *rand.Rand) Params {
			phase := r.Float64() * math.Pi
			freq := 1 + r.Float64()*5
			return Params{Phase: phase, Freq: freq}
		},
		eval: perChannel(func(p *Params, v float64) float64 {
			return math.Sin(p.Phase + p.Freq*v)
		}),
	}

	Tent = &Kind{
		Name:  "Tent",
		Arity: 1,
		Doc:   "1 − 2|v|: bright at zero, dark at the edges.",
		eval: perChannel(func(_ *Params, v float64) float64 {
			return 1 - 2*math.Min(math.Abs(v), 1)
		}),
	}

	Well = &Kind{
		Name:  "Well",
		Arity: 1,
		Doc:   "1 − 2/(1+v²)^8: a dark well around zero.",
		eval: perChannel(func(_ *Params, v float64) float64 {
			return 1 - 2/math.Pow(1+v*v, 8)
		}),
	}
)

// Binary operators mix channel i of the first child with channel i+shift of the second.
var (
	Sum = &Kind{
		Name:   "Sum",
		Arity:  2,
		Params: []string{ParamShift},
		Doc:    "The average of two colors, slightly darkened.",
		sample: sampleShift,
		eval: shifted2(func(a, b float64) float64 {
			return (a + b) / 2.02
		}),
	}

	Product = &Kind{
		Name:   "Product",
		Arity:  2,
		Params: []string{ParamShift},
		Doc:    "One color multiplied by another.",
		sample: sampleShift,
		eval: shifted2(func(a, b float64) float64 {
			return a * b / 1.0201
		}),
	}

	Mod = &Kind{
		Name:   "Mod",
		Arity:  2,
		Params: []string{ParamShift},
		Doc:    "Floored modulo of one color by another (divisor clamped to [-1, 1]); 0 when the divisor is 0.",
		sample: sampleShift,
		eval:   shifted2(floorMod),
	}

	Exponentiation = &Kind{
		Name:   "Exponentiation",
		Arity:  2,
		Params: []string{ParamShift},
		Doc:    "|a| (clamped to 1) raised to |b|, carrying the sign of b.",
		sample: sampleShift,
		eval: shifted2(func(a, b float64) float64 {
			base := math.Min(math.Abs(a), 1)
			if b < 0 {
				return -math.Pow(base, -b)
			}
			return math.Pow(base, b)
		}),
	}
)

// Ternary operators mix channel i of the first child, channel i+shift of the second
// and channel i+2·shift of the third. Their output may leave [-1, 1].
var (
	Level = &Kind{
		Name:   "Level",
		Arity:  3,
		Params: []string{ParamShift, ParamThreshold},
		Doc:    "Selects the first or the third color depending on the second crossing a threshold.",
		sample: func(r *rand.Rand) Params {
			p := sampleShift(r)
			p.Threshold = r.Float64()*2 - 1
			return p
		},
		eval: shifted3(func(p *Params, a, b, c float64) float64 {
			if b < p.Threshold {
				return a
			}
			return c
		}),
	}

	Mix = &Kind{
		Name:   "Mix",
		Arity:  3,
		Params: []string{ParamShift},
		Doc:    "Mixes the second and third colors in proportions of the first.",
		sample: sampleShift,
		eval: shifted3(func(_ *Params, a, b, c float64) float64 {
			w := 0.5 * (a + 1)
			return w*b + (1-w)*c
		}),
	}

	LineAvg = &Kind{
		Name:   "LineAvg",
		Arity:  3,
		Params: []string{ParamShift},
		Doc:    "Where the middle value falls on the line from (-1, max) to (1, min).",
		sample: sampleShift,
		eval:   shifted3(lineAvg),
	}
)

// Builtins returns every operator kind shipped with the package.
func Builtins() []*Kind {
	return []*Kind{
		Constant, VariableX, VariableY,
		Sin, Tent, Well,
		Sum, Product, Mod, Exponentiation,
		Level, Mix, LineAvg,
	}
}

func sampleShift(r *rand.Rand) Params {
	return Params{Shift: r.IntN(3)}
}

func perChannel(f func(p *Params, v float64) float64) func(*Params, []domain.Color, float64, float64) domain.Color {
	return func(p *Params, in []domain.Color, _, _ float64) domain.Color {
		c := in[0]
		return domain.Color{f(p, c[0]), f(p, c[1]), f(p, c[2])}
	}
}

func shifted2(f func(a, b float64) float64) func(*Params, []domain.Color, float64, float64) domain.Color {
	return func(p *Params, in []domain.Color, _, _ float64) domain.Color {
		a, b := in[0], in[1]
		var out domain.Color
		for i := range out {
			out[i] = f(a[i], b[(i+p.Shift)%3])
		}
		return out
	}
}

func shifted3(f func(p *Params, a, b, c float64) float64) func(*Params, []domain.Color, float64, float64) domain.Color {
	return func(p *Params, in []domain.Color, _, _ float64) domain.Color {
		a, b, c := in[0], in[1], in[2]
		var out domain.Color
		for i := range out {
			out[i] = f(p, a[i], b[(i+p.Shift)%3], c[(i+2*p.Shift)%3])
		}
		return out
	}
}

// floorMod takes the sign of the divisor, unlike math.Mod.
func floorMod(a, b float64) float64 {
	b = clampUnit(b)
	if b == 0 {
		return 0
	}
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(v, 1))
}

func lineAvg(_ *Params, a, b, c float64) float64 {
	lo, mid, hi := sort3(a, b, c)
	if hi == lo {
		return 0
	}
	return (hi + lo - 2*mid) / (hi - lo)
}

func sort3(a, b, c float64) (float64, float64, float64) {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return a, b, c
}
