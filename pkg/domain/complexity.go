package domain

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Derived complexities are drawn from this closed interval.
const (
	MinDerivedComplexity = 20
	MaxDerivedComplexity = 150
)

// DefaultMaxComplexity bounds explicit complexities accepted from remote clients.
const DefaultMaxComplexity = 1000

// LadderKeyword selects one image per complexity of the full ladder.
const LadderKeyword = "all"

// ComplexityMode selects how a plan turns a phrase into complexities.
type ComplexityMode int

const (
	// ComplexityDerived picks one complexity from the phrase itself.
	ComplexityDerived ComplexityMode = iota
	// ComplexityFixed uses the explicit value.
	ComplexityFixed
	// ComplexityLadder walks the full ladder.
	ComplexityLadder
)

// ComplexityPlan is the parsed form of a user-supplied complexity.
type ComplexityPlan struct {
	Mode  ComplexityMode
	Value int
}

// ParseComplexity accepts a non-negative integer, "all", or an empty string (derive from phrase).
func ParseComplexity(s string) (ComplexityPlan, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return ComplexityPlan{Mode: ComplexityDerived}, nil
	case LadderKeyword:
		return ComplexityPlan{Mode: ComplexityLadder}, nil
	}
	c, err := strconv.Atoi(s)
	if err != nil {
		return ComplexityPlan{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidComplexity, s)
	}
	return FixedComplexity(c)
}

// FixedComplexity builds a plan for a single explicit complexity.
func FixedComplexity(c int) (ComplexityPlan, error) {
	if c < 0 {
		return ComplexityPlan{}, fmt.Errorf("%w: %d is negative", ErrInvalidComplexity, c)
	}
	return ComplexityPlan{Mode: ComplexityFixed, Value: c}, nil
}

// Resolve lists the complexities to generate for phrase.
func (p ComplexityPlan) Resolve(phrase string) []int {
	switch p.Mode {
	case ComplexityFixed:
		return []int{p.Value}
	case ComplexityLadder:
		return FullLadder()
	default:
		return []int{DeriveComplexity(phrase)}
	}
}

func (p ComplexityPlan) String() string {
	switch p.Mode {
	case ComplexityFixed:
		return strconv.Itoa(p.Value)
	case ComplexityLadder:
		return LadderKeyword
	default:
		return ""
	}
}

// Within rejects a fixed complexity above max. Derived and ladder plans never exceed
// MaxDerivedComplexity, so they are only checked against that.
func (p ComplexityPlan) Within(max int) error {
	limit := p.Value
	if p.Mode != ComplexityFixed {
		limit = MaxDerivedComplexity
	}
	if limit > max {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidComplexity, limit, max)
	}
	return nil
}

// DeriveComplexity picks a complexity in [MinDerivedComplexity, MaxDerivedComplexity] from the phrase.
// The source is seeded from the phrase but never shared with tree generation.
func DeriveComplexity(phrase string) int {
	hi, lo := PhraseSeed(phrase)
	r := rand.New(rand.NewPCG(lo, hi))
	return MinDerivedComplexity + r.IntN(MaxDerivedComplexity-MinDerivedComplexity+1)
}

// FullLadder returns unit steps below the derived interval, then steps of two through it.
func FullLadder() []int {
	ladder := make([]int, 0, MinDerivedComplexity-1+(MaxDerivedComplexity-MinDerivedComplexity)/2+1)
	for c := 1; c < MinDerivedComplexity; c++ {
		ladder = append(ladder, c)
	}
	for c := MinDerivedComplexity; c <= MaxDerivedComplexity; c += 2 {
		ladder = append(ladder, c)
	}
	return ladder
}

// ValidateSize rejects non-positive raster sizes.
func ValidateSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}
