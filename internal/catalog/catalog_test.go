package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroPull/internal/domain/errs"
	"MacroPull/internal/domain/models"
)

func TestResolveKnownPairs(t *testing.T) {
	c := Default()
	cases := []struct {
		entity models.Entity
		metric models.Metric
		want   string
	}{
		{models.USA, models.MetricGDP, "GDP"},
		{models.France, models.MetricCPI, "CP0000FRM086NEST"},
		{models.Europe, models.MetricPolicyRate, "ECBESTRVOLWGTTRMDMNRT"},
		{models.Japan, models.MetricBond10Y, "IRLTLT01JPM156N"},
	}
	for _, tc := range cases {
		e, err := c.Resolve(tc.entity, tc.metric)
		require.NoError(t, err)
		assert.Equal(t, tc.want, e.SeriesID)
	}
}

func TestResolveUnemploymentHasStart(t *testing.T) {
	e, err := Default().Resolve(models.USA, models.MetricUnemployment)
	require.NoError(t, err)
	require.NotNil(t, e.Start)
	assert.Equal(t, 2000, e.Start.Year())
}

func TestResolveUnknownPair(t *testing.T) {
	_, err := Default().Resolve(models.Switzerland, models.MetricGDP)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEntitiesStableOrder(t *testing.T) {
	c := Default()
	first := c.Entities(models.MetricGDP)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Entities(models.MetricGDP))
	}
	assert.Equal(t, []models.Entity{models.USA, models.France, models.Germany, models.UK, models.China, models.Japan}, first)
}

func TestNewRejectsBadTables(t *testing.T) {
	_, err := New(Table{Series: map[models.Metric]map[models.Entity]Entry{
		models.MetricGDP: {models.USA: {SeriesID: ""}},
	}})
	assert.Error(t, err)

	_, err = New(Table{Series: map[models.Metric]map[models.Entity]Entry{
		models.MetricGDP: {"Atlantis": {SeriesID: "X"}},
	}})
	assert.Error(t, err)

	_, err = New(Table{Curves: map[models.Entity]map[models.Maturity]string{
		models.USA: {"4Y": "DGS4"},
	}})
	assert.Error(t, err)
}

func TestCurveSeries(t *testing.T) {
	c := Default()
	m, err := c.CurveSeries(models.USA)
	require.NoError(t, err)
	assert.Len(t, m, len(models.Maturities))
	assert.Equal(t, "DGS10", m[models.M10Y])

	_, err = c.CurveSeries(models.China)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
