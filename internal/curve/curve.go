// Package curve implements repeat-delay curves sampled by repeat index.
package curve

import (
	"slices"
)

// Keyframe is a point on a curve: the delay (in seconds) at a repeat index.
type Keyframe struct {
	At    float64 `koanf:"at"`
	Delay float64 `koanf:"delay"`
}

// Curve is a piecewise linear function of the repeat index. Before the
// first keyframe and after the last one it is flat.
type Curve struct {
	keys []Keyframe
}

// Constant returns a flat curve.
func Constant(delay float64) Curve {
	return New(Keyframe{At: 0, Delay: delay})
}

// New builds a curve from keyframes. Keyframes are sorted by index;
// negative delays are clamped to zero. Later keyframes at an index already
// present replace earlier ones.
func New(keys ...Keyframe) Curve {
	ks := make([]Keyframe, 0, len(keys))
	for _, k := range keys {
		k.Delay = max(k.Delay, 0)
		if i := slices.IndexFunc(ks, func(o Keyframe) bool { return o.At == k.At }); i >= 0 {
			ks[i] = k
			continue
		}
		ks = append(ks, k)
	}
	slices.SortFunc(ks, func(a, b Keyframe) int {
		switch {
		case a.At < b.At:
			return -1
		case a.At > b.At:
			return 1
		}
		return 0
	})
	return Curve{keys: ks}
}

// Empty reports whether the curve has no keyframes. An empty curve
// evaluates to zero everywhere.
func (c Curve) Empty() bool {
	return len(c.keys) == 0
}

// Keyframes returns a copy of the curve's keyframes.
func (c Curve) Keyframes() []Keyframe {
	return slices.Clone(c.keys)
}

// Evaluate samples the curve at t.
func (c Curve) Evaluate(t float64) float64 {
	n := len(c.keys)
	switch {
	case n == 0:
		return 0
	case t <= c.keys[0].At:
		return c.keys[0].Delay
	case t >= c.keys[n-1].At:
		return c.keys[n-1].Delay
	}

	i, _ := slices.BinarySearchFunc(c.keys, t, func(k Keyframe, t float64) int {
		switch {
		case k.At < t:
			return -1
		case k.At > t:
			return 1
		}
		return 0
	})
	if c.keys[i].At == t {
		return c.keys[i].Delay
	}
	a, b := c.keys[i-1], c.keys[i]
	f := (t - a.At) / (b.At - a.At)
	return a.Delay + f*(b.Delay-a.Delay)
}
