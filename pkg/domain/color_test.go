package domain_test

import (
	"math"
	"testing"

	"github.com/aretw0/randomart/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestChannel_Bounds(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		v := -5 + float64(i)/100
		c := domain.Channel(v)
		assert.GreaterOrEqual(t, c, uint8(1), "v=%v", v)
		assert.LessOrEqual(t, c, uint8(255), "v=%v", v)
	}
}

func TestChannel_Values(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"floor never zero", -1, 1},
		{"below range", -3.5, 1},
		{"center", 0, 128},
		{"top clamps", 1, 255},
		{"above range", 42, 255},
		{"rounds half up", 0.00390625, 129},
		{"nan", math.NaN(), 1},
		{"+inf", math.Inf(1), 255},
		{"-inf", math.Inf(-1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Channel(tt.in))
		})
	}
}

func TestColor_RGB(t *testing.T) {
	r, g, b := domain.Color{-1, 0, 1}.RGB()
	assert.Equal(t, uint8(1), r)
	assert.Equal(t, uint8(128), g)
	assert.Equal(t, uint8(255), b)
}
