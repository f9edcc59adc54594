package art

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/randomart/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid returns n evenly spaced values over [lo, hi].
func grid(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return out
}

func inRange(c domain.Color) bool {
	for _, v := range c {
		if math.IsNaN(v) || v < -1 || v > 1 {
			return false
		}
	}
	return true
}

func TestOperators_RangeContract(t *testing.T) {
	values := make([]float64, 203)
	for i := range values {
		values[i] = float64(i-101) / 100
	}

	for _, k := range DefaultRegistry().Composites() {
		if k.Arity > 2 {
			continue
		}
		t.Run(k.Name, func(t *testing.T) {
			for seed := uint64(0); seed < 4; seed++ {
				n := k.instantiate(rand.New(rand.NewPCG(seed, seed)), nil)
				switch k.Arity {
				case 1:
					for _, a := range values {
						out := k.eval(&n.Params, []domain.Color{domain.Gray(a)}, 0, 0)
						require.True(t, inRange(out), "%s(%v) = %v", k.Name, a, out)
					}
				case 2:
					for _, a := range values {
						for _, b := range values {
							out := k.eval(&n.Params, []domain.Color{domain.Gray(a), domain.Gray(b)}, 0, 0)
							require.True(t, inRange(out), "%s(%v, %v) = %v", k.Name, a, b, out)
						}
					}
				}
			}
		})
	}
}

func TestOperators_TernaryNeverPanics(t *testing.T) {
	values := grid(-1.01, 1.01, 41)
	for _, k := range DefaultRegistry().Composites() {
		if k.Arity != 3 {
			continue
		}
		t.Run(k.Name, func(t *testing.T) {
			n := k.instantiate(rand.New(rand.NewPCG(7, 7)), nil)
			assert.NotPanics(t, func() {
				for _, a := range values {
					for _, b := range values {
						for _, c := range values {
							k.eval(&n.Params, []domain.Color{domain.Gray(a), domain.Gray(b), domain.Gray(c)}, 0, 0)
						}
					}
				}
			})
		})
	}
}

func TestOperators_Terminals(t *testing.T) {
	values := grid(-1.01, 1.01, 203)
	r := rand.New(rand.NewPCG(1, 2))
	for _, k := range DefaultRegistry().Terminals() {
		n := k.instantiate(r, nil)
		for _, x := range values {
			for _, y := range values {
				out := n.Eval(x, y)
				require.True(t, inRange(out), "%s(%v, %v) = %v", k.Name, x, y, out)
			}
		}
	}

	assert.Equal(t, domain.Gray(0.25), (&Node{Kind: VariableX}).Eval(0.25, -0.5))
	assert.Equal(t, domain.Gray(-0.5), (&Node{Kind: VariableY}).Eval(0.25, -0.5))
	assert.Equal(t, domain.Gray(1), (&Node{Kind: VariableX}).Eval(1.01, 0))
	assert.Equal(t, domain.Gray(-1), (&Node{Kind: VariableY}).Eval(0, -1.01))
}

func TestFloorMod_StaysInRange(t *testing.T) {
	for _, a := range grid(-1.01, 1.01, 203) {
		for _, b := range []float64{-1.01, -1.005, 1.005, 1.01, 3, -7} {
			m := floorMod(a, b)
			assert.True(t, m >= -1 && m <= 1, "floorMod(%v, %v) = %v", a, b, m)
		}
	}
}

func TestOperators_Formulas(t *testing.T) {
	tests := []struct {
		name string
		f    func(a, b float64) float64
		a, b float64
		want float64
	}{
		{"mod zero divisor", floorMod, 0.7, 0, 0},
		{"mod takes divisor sign", floorMod, -0.25, 0.5, 0.25},
		{"mod negative divisor", floorMod, 0.25, -0.5, -0.25},
		{"mod exact", floorMod, 0.5, 0.25, 0},
		{"mod divisor clamped", floorMod, -0.005, 1.01, 0.995},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.f(tt.a, tt.b), 1e-12)
		})
	}

	pow := func(a, b float64) float64 {
		p := Params{}
		return Exponentiation.eval(&p, []domain.Color{domain.Gray(a), domain.Gray(b)}, 0, 0)[0]
	}
	assert.InDelta(t, 0.25, pow(0.5, 2), 1e-12)
	assert.InDelta(t, -0.25, pow(-0.5, -2), 1e-12, "sign follows the exponent")
	assert.InDelta(t, 1, pow(5, 0.5), 1e-12, "base is clamped to 1")
	assert.Equal(t, 1.0, pow(0, 0))

	assert.Equal(t, 0.0, lineAvgOf(0.3, 0.3, 0.3))
	assert.InDelta(t, 0.0, lineAvgOf(-1, 0, 1), 1e-12)
	assert.InDelta(t, 1.0, lineAvgOf(-1, -1, 1), 1e-12)
}

func lineAvgOf(a, b, c float64) float64 {
	return lineAvg(nil, a, b, c)
}

func TestOperators_ShiftCrossesChannels(t *testing.T) {
	a := domain.Color{0.1, 0.2, 0.3}
	b := domain.Color{0.4, 0.5, 0.6}
	c := domain.Color{-0.4, -0.5, -0.6}

	p := Params{Shift: 1}
	sum := Sum.eval(&p, []domain.Color{a, b}, 0, 0)
	assert.InDelta(t, (0.1+0.5)/2.02, sum[0], 1e-12)
	assert.InDelta(t, (0.2+0.6)/2.02, sum[1], 1e-12)
	assert.InDelta(t, (0.3+0.4)/2.02, sum[2], 1e-12)

	// Channel i of the third child is (i + 2·shift) mod 3.
	p = Params{Shift: 1, Threshold: 2}
	level := Level.eval(&p, []domain.Color{a, b, c}, 0, 0)
	assert.Equal(t, domain.Color{0.1, 0.2, 0.3}, level, "below the threshold the first color wins")
	p.Threshold = -2
	level = Level.eval(&p, []domain.Color{a, b, c}, 0, 0)
	assert.Equal(t, domain.Color{-0.6, -0.4, -0.5}, level)
}

func TestOperators_MixIsWeighted(t *testing.T) {
	p := Params{}
	out := Mix.eval(&p, []domain.Color{domain.Gray(1), domain.Gray(0.8), domain.Gray(-0.8)}, 0, 0)
	assert.InDelta(t, 0.8, out[0], 1e-12, "weight 1 selects the second color")

	out = Mix.eval(&p, []domain.Color{domain.Gray(-1), domain.Gray(0.8), domain.Gray(-0.8)}, 0, 0)
	assert.InDelta(t, -0.8, out[0], 1e-12, "weight 0 selects the third color")

	out = Mix.eval(&p, []domain.Color{domain.Gray(0), domain.Gray(0.8), domain.Gray(-0.4)}, 0, 0)
	assert.InDelta(t, 0.2, out[0], 1e-12)
}
