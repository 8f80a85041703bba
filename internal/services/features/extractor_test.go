package features

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MacroPull/internal/domain/models"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestAlignInnerJoin(t *testing.T) {
	a := models.NewTimeSeries("a", []models.Point{{Time: day(1), Value: 1}, {Time: day(2), Value: 2}, {Time: day(4), Value: 4}})
	b := models.NewTimeSeries("b", []models.Point{{Time: day(2), Value: 20}, {Time: day(3), Value: 30}, {Time: day(4), Value: 40}})

	times, av, bv := Align(a, b)
	assert.Equal(t, []time.Time{day(2), day(4)}, times)
	assert.Equal(t, []float64{2, 4}, av)
	assert.Equal(t, []float64{20, 40}, bv)
}

func TestPctChange(t *testing.T) {
	v, ok := PctChange([]float64{100, 110}, 1)
	assert.True(t, ok)
	assert.InDelta(t, 10, v, 1e-9)

	_, ok = PctChange([]float64{100, 110}, 2)
	assert.False(t, ok)

	_, ok = PctChange([]float64{0, 110}, 1)
	assert.False(t, ok)

	_, ok = PctChange([]float64{1, 2}, 0)
	assert.False(t, ok)
}

func TestPearson(t *testing.T) {
	r, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 6, 8})
	assert.True(t, ok)
	assert.InDelta(t, 1, r, 1e-12)

	r, ok = Pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
	assert.True(t, ok)
	assert.InDelta(t, -1, r, 1e-12)

	_, ok = Pearson([]float64{1, 1, 1}, []float64{1, 2, 3})
	assert.False(t, ok)

	_, ok = Pearson([]float64{1}, []float64{1})
	assert.False(t, ok)
}

func TestNonFiniteResultsAreRejected(t *testing.T) {
	_, ok := PctChange([]float64{1e-300, 1e300}, 1)
	assert.False(t, ok)

	_, ok = Pearson([]float64{1, math.Inf(1)}, []float64{1, 2})
	assert.False(t, ok)

	assert.True(t, Finite(0))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(-1)))
}
