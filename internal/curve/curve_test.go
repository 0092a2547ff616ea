package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstant(t *testing.T) {
	c := Constant(0.25)
	for _, x := range []float64{-1, 0, 1, 7.5, 1000} {
		assert.InDelta(t, 0.25, c.Evaluate(x), 1e-12)
	}
}

func TestEmpty(t *testing.T) {
	var c Curve
	assert.True(t, c.Empty())
	assert.Zero(t, c.Evaluate(3))
}

func TestEvaluate_Interpolates(t *testing.T) {
	c := New(
		Keyframe{At: 2, Delay: 0.1},
		Keyframe{At: 0, Delay: 0.5},
	)

	tests := []struct {
		at   float64
		want float64
	}{
		{-1, 0.5},
		{0, 0.5},
		{1, 0.3},
		{2, 0.1},
		{10, 0.1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, c.Evaluate(tt.at), 1e-9, "Evaluate(%v)", tt.at)
	}
}

func TestNew_ClampsAndDeduplicates(t *testing.T) {
	c := New(
		Keyframe{At: 0, Delay: -1},
		Keyframe{At: 1, Delay: 0.2},
		Keyframe{At: 1, Delay: 0.4},
	)

	keys := c.Keyframes()
	assert.Len(t, keys, 2)
	assert.Zero(t, keys[0].Delay)
	assert.InDelta(t, 0.4, keys[1].Delay, 1e-12)
}
