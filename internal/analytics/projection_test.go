package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectSavingsLength(t *testing.T) {
	points := ProjectSavings(200, 10, 7)
	require.Len(t, points, 10)
	for i, p := range points {
		assert.Equal(t, i+1, p.Year)
	}
}

func TestProjectSavingsInvestedExact(t *testing.T) {
	points := ProjectSavings(200, 10, 7)
	for _, p := range points {
		assert.Equal(t, int64(200*12*p.Year), p.Invested)
	}
}

func TestProjectSavingsMonotonicForNonNegativeReturn(t *testing.T) {
	for _, rate := range []float64{0, 3.5, 7, 12} {
		points := ProjectSavings(150, 25, rate)
		for i := 1; i < len(points); i++ {
			assert.GreaterOrEqual(t, points[i].Value, points[i-1].Value,
				"value must not shrink at rate %.1f year %d", rate, points[i].Year)
		}
	}
}

func TestProjectSavingsGainsRelation(t *testing.T) {
	points := ProjectSavings(300, 15, 6)
	for _, p := range points {
		// rounding happens per field, so allow one unit of drift
		assert.InDelta(t, p.Value-p.Invested, p.Gains, 1)
		assert.GreaterOrEqual(t, p.Gains, int64(0))
	}
}

func TestProjectSavingsZeroReturnEqualsContributions(t *testing.T) {
	points := ProjectSavings(100, 5, 0)
	for _, p := range points {
		assert.Equal(t, p.Invested, p.Value)
		assert.Equal(t, int64(0), p.Gains)
	}
}

func TestProjectSavingsFirstYearCompounds(t *testing.T) {
	// 100/month at 12% annual => 1% monthly, contribution then growth
	points := ProjectSavings(100, 1, 12)
	require.Len(t, points, 1)

	total := 0.0
	for m := 0; m < 12; m++ {
		total = (total + 100) * 1.01
	}
	assert.Equal(t, int64(math.Round(total)), points[0].Value)
}

func TestProjectSavingsNonPositiveYears(t *testing.T) {
	assert.Empty(t, ProjectSavings(200, 0, 7))

	points := ProjectSavings(200, -1, 7)
	assert.NotNil(t, points)
	assert.Empty(t, points)
}
