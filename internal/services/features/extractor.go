package features

import (
	"math"
	"time"

	"MacroPull/internal/domain/models"
)

// Align returns the values of a and b at their shared timestamps, in
// ascending time order.
func Align(a, b models.TimeSeries) (times []time.Time, av, bv []float64) {
	i, j := 0, 0
	for i < len(a.Points) && j < len(b.Points) {
		ta, tb := a.Points[i].Time, b.Points[j].Time
		switch {
		case ta.Equal(tb):
			times = append(times, ta)
			av = append(av, a.Points[i].Value)
			bv = append(bv, b.Points[j].Value)
			i++
			j++
		case ta.Before(tb):
			i++
		default:
			j++
		}
	}
	return times, av, bv
}

// PctChange returns (s[t]/s[t-lag] - 1) * 100 for the last index t.
// ok is false when there is not enough history, the base is zero or the
// result is not finite.
func PctChange(values []float64, lag int) (float64, bool) {
	t := len(values) - 1
	if lag < 1 || t-lag < 0 {
		return 0, false
	}
	base := values[t-lag]
	if base == 0 || math.IsNaN(base) {
		return 0, false
	}
	v := (values[t]/base - 1) * 100
	return v, Finite(v)
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Pearson computes the correlation coefficient of x and y. ok is false with
// fewer than two pairs or when either side has zero variance.
func Pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0, false
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += x[i]
		sy += y[i]
	}
	mx, my := sx/float64(n), sy/float64(n)

	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0, false
	}
	r := cov / math.Sqrt(vx*vy)
	if !Finite(r) {
		return 0, false
	}
	// clamp float noise
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r, true
}
